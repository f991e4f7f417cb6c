package metrics

import (
	"testing"

	"StratScan/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string][]*dto.Metric {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	out := make(map[string][]*dto.Metric, len(families))
	for _, f := range families {
		out[f.GetName()] = f.GetMetric()
	}
	return out
}

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegisterer(reg)

	r.RecordFetch(models.TF1h, true)
	r.RecordFetch(models.TF1h, false)
	r.RecordFetch(models.TF1h, false)
	r.RecordCacheLookup(models.TF5m, "hit")
	r.RecordLimiter(models.LimiterStats{CurrentlyRunning: 2, QueueLength: 7, MaxConcurrent: 5})
	r.RecordSignals(3, 1)

	got := gather(t, reg)
	var errs float64
	for _, m := range got["stratscan_candle_fetches_total"] {
		for _, l := range m.GetLabel() {
			if l.GetName() == "outcome" && l.GetValue() == "error" {
				errs = m.GetCounter().GetValue()
			}
		}
	}
	if errs != 2 {
		t.Fatalf("error fetches = %v, want 2", errs)
	}
	if n := len(got["stratscan_limiter"]); n != 3 {
		t.Fatalf("limiter gauges = %d, want 3", n)
	}
	if n := len(got["stratscan_state_cache_lookups_total"]); n != 1 {
		t.Fatalf("cache lookup series = %d, want 1", n)
	}
}
