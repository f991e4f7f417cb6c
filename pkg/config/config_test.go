package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Source.Type != "lighter" || c.Scanner.MaxConcurrent != 5 || c.Cache.Backend != "memory" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.Lighter.Timeout != 10*time.Second || !c.Scanner.FTCEnabled {
		t.Fatalf("unexpected lighter/scanner defaults: %+v %+v", c.Lighter, c.Scanner)
	}
}

func TestLoadFileKeepsExplicitFalse(t *testing.T) {
	path := writeConfig(t, `
environment: production
scanner:
  enabled: false
  ftc_enabled: false
  markets: [BTC, ETH]
cache:
  ttl:
    1m: 10s
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Scanner.Enabled || c.Scanner.FTCEnabled {
		t.Fatalf("explicit false was overwritten: %+v", c.Scanner)
	}
	if c.Environment != "production" || len(c.Scanner.Markets) != 2 {
		t.Fatalf("file values lost: %+v", c)
	}
	if c.Cache.TTL["1m"] != 10*time.Second {
		t.Fatalf("ttl override: %v", c.Cache.TTL)
	}
	if c.Server.Port != 8080 {
		t.Fatalf("defaults not applied under file values: %d", c.Server.Port)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("LIGHTER_BASE_URL", "http://lighter.local")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("FTC_ENABLED", "false")
	t.Setenv("MAX_CONCURRENT", "2")

	c, err := LoadWithEnv("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Lighter.BaseURL != "http://lighter.local" {
		t.Fatalf("base url: %s", c.Lighter.BaseURL)
	}
	if !c.Kafka.Enabled || len(c.Kafka.Brokers) != 2 {
		t.Fatalf("kafka: %+v", c.Kafka)
	}
	if c.Scanner.FTCEnabled || c.Scanner.MaxConcurrent != 2 {
		t.Fatalf("scanner: %+v", c.Scanner)
	}

	t.Setenv("MAX_CONCURRENT", "many")
	if _, err := LoadWithEnv(""); err == nil {
		t.Fatalf("expected error for non-numeric MAX_CONCURRENT")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"bad source", func(c *Config) { c.Source.Type = "csv" }, "source.type"},
		{"clickhouse without host", func(c *Config) { c.Source.Type = "clickhouse" }, "clickhouse.host"},
		{"zero concurrency", func(c *Config) { c.Scanner.MaxConcurrent = 0 }, "max_concurrent"},
		{"tiny candle count", func(c *Config) { c.Scanner.CandleCount = 2 }, "candle_count"},
		{"bad backend", func(c *Config) { c.Cache.Backend = "disk" }, "cache.backend"},
		{"bad ttl tf", func(c *Config) { c.Cache.TTL = map[string]time.Duration{"2h": time.Minute} }, "unknown timeframe"},
		{"kafka without brokers", func(c *Config) { c.Kafka.Enabled = true }, "kafka.brokers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Default()
			if err != nil {
				t.Fatalf("defaults: %v", err)
			}
			tt.mutate(c)
			err = c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
}
