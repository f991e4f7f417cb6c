package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestFieldsAreWritten(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{zl: zerolog.New(&buf)}
	l.With(String("component", "cache")).Warn("refresh failed",
		Int("market_id", 1),
		Float64("score", 67.5),
		Duration("took", 1500*time.Millisecond),
		Strings("tfs", []string{"1h", "4h"}),
		Error(errors.New("boom")),
	)

	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	want := map[string]interface{}{
		"level":     "warn",
		"message":   "refresh failed",
		"component": "cache",
		"market_id": float64(1),
		"score":     67.5,
		"took":      float64(1500),
		"tfs":       "1h, 4h",
		"error":     "boom",
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("%s = %v, want %v", k, got[k], v)
		}
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(&Config{Level: "loud"}); err == nil {
		t.Fatalf("expected error for invalid level")
	}
	if _, err := New(&Config{Level: "info", Format: "json", Output: "stderr"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
