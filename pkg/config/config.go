package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	SlowThreshold   time.Duration `yaml:"slow_threshold" default:"2s"`
	CORS            bool          `yaml:"cors" default:"true"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info"`
	Format string `yaml:"format" default:"json"`
	Output string `yaml:"output" default:"stdout"`
}

type LighterConfig struct {
	BaseURL      string        `yaml:"base_url" default:"https://mainnet.zklighter.elliot.ai"`
	APIVersion   string        `yaml:"api_version" default:"v1"`
	Timeout      time.Duration `yaml:"timeout" default:"10s"`
	MaxRetries   int           `yaml:"max_retries" default:"2"`
	RetryBackoff time.Duration `yaml:"retry_backoff" default:"250ms"`
	LookbackDays int           `yaml:"lookback_days" default:"30"`
}

type ScannerConfig struct {
	Enabled       bool          `yaml:"enabled" default:"true"`
	Interval      time.Duration `yaml:"interval" default:"1m"`
	Markets       []string      `yaml:"markets"` // symbols; empty means the default market list
	CandleCount   int           `yaml:"candle_count" default:"20"`
	MaxConcurrent int           `yaml:"max_concurrent" default:"5"`
	FTCEnabled    bool          `yaml:"ftc_enabled" default:"true"`
}

type CacheConfig struct {
	Backend   string                   `yaml:"backend" default:"memory"` // memory, redis, layered
	L1Size    int                      `yaml:"l1_size" default:"512"`
	L1TTL     time.Duration            `yaml:"l1_ttl" default:"5s"`
	Retention time.Duration            `yaml:"retention" default:"1h"`
	TTL       map[string]time.Duration `yaml:"ttl"` // per-timeframe overrides
}

type RedisConfig struct {
	Host     string `yaml:"host" default:"localhost"`
	Port     int    `yaml:"port" default:"6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size" default:"10"`
	Prefix   string `yaml:"prefix" default:"stratscan"`
}

type KafkaConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Brokers      []string `yaml:"brokers"`
	Topic        string   `yaml:"topic" default:"strat.signals"`
	RequiredAcks int      `yaml:"required_acks" default:"1"`
	Compression  string   `yaml:"compression" default:"snappy"`
	Producer     struct {
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		Linger       time.Duration `yaml:"linger" default:"50ms"`
		BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
		BatchSize    int           `yaml:"batch_size" default:"100"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		Async        bool          `yaml:"async"`
	} `yaml:"producer"`
}

type ClickHouseConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port" default:"9000"`
	Database         string        `yaml:"database" default:"default"`
	User             string        `yaml:"user" default:"default"`
	Password         string        `yaml:"password"`
	UseHTTP          bool          `yaml:"use_http"`
	DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
	ReadTimeout      time.Duration `yaml:"read_timeout" default:"30s"`
	MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
}

type APIConfig struct {
	ThrottleCapacity float64 `yaml:"throttle_capacity" default:"10"`
	ThrottleRefill   float64 `yaml:"throttle_refill_per_sec" default:"1"`
}

type WebSocketConfig struct {
	Enabled      bool          `yaml:"enabled" default:"true"`
	WriteTimeout time.Duration `yaml:"write_timeout" default:"5s"`
	PingInterval time.Duration `yaml:"ping_interval" default:"30s"`
	SendBuffer   int           `yaml:"send_buffer" default:"8"`
}

type SourceConfig struct {
	Type string `yaml:"type" default:"lighter"` // lighter or clickhouse
}

type Config struct {
	Environment string           `yaml:"environment" default:"development"`
	Server      ServerConfig     `yaml:"server"`
	Log         LogConfig        `yaml:"log"`
	Source      SourceConfig     `yaml:"source"`
	Lighter     LighterConfig    `yaml:"lighter"`
	Scanner     ScannerConfig    `yaml:"scanner"`
	Cache       CacheConfig      `yaml:"cache"`
	Redis       RedisConfig      `yaml:"redis"`
	Kafka       KafkaConfig      `yaml:"kafka"`
	ClickHouse  ClickHouseConfig `yaml:"clickhouse"`
	API         APIConfig        `yaml:"api"`
	WebSocket   WebSocketConfig  `yaml:"websocket"`
}

var validTimeframes = map[string]bool{
	"1m": true, "5m": true, "15m": true, "30m": true,
	"1h": true, "4h": true, "12h": true, "1d": true, "1w": true,
}

// Default returns a configuration with every default applied.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return &c, nil
}

// parse applies defaults first so explicit zero values in the file (enabled: false) win.
func parse(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

// Load reads and parses a YAML configuration file. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	c, err := parse(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := parse(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("LIGHTER_BASE_URL"); v != "" {
		c.Lighter.BaseURL = v
	}
	if v := os.Getenv("CANDLE_SOURCE"); v != "" {
		c.Source.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("FTC_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("FTC_ENABLED: %w", err)
		}
		c.Scanner.FTCEnabled = b
	}
	if v := os.Getenv("MAX_CONCURRENT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("MAX_CONCURRENT: %w", err)
		}
		c.Scanner.MaxConcurrent = n
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Source.Type != "lighter" && c.Source.Type != "clickhouse" {
		return fmt.Errorf("source.type must be 'lighter' or 'clickhouse', got '%s'", c.Source.Type)
	}
	if c.Source.Type == "lighter" && c.Lighter.BaseURL == "" {
		return fmt.Errorf("lighter.base_url is required")
	}
	if c.Source.Type == "clickhouse" && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when source.type is clickhouse")
	}
	if c.Scanner.MaxConcurrent <= 0 {
		return fmt.Errorf("scanner.max_concurrent must be positive, got %d", c.Scanner.MaxConcurrent)
	}
	if c.Scanner.CandleCount < 3 || c.Scanner.CandleCount > 500 {
		return fmt.Errorf("scanner.candle_count must be within [3,500], got %d", c.Scanner.CandleCount)
	}
	if c.Scanner.Enabled && c.Scanner.Interval <= 0 {
		return fmt.Errorf("scanner.interval must be positive")
	}
	switch c.Cache.Backend {
	case "memory", "redis", "layered":
	default:
		return fmt.Errorf("cache.backend must be 'memory', 'redis' or 'layered', got '%s'", c.Cache.Backend)
	}
	for tf, ttl := range c.Cache.TTL {
		if !validTimeframes[tf] {
			return fmt.Errorf("cache.ttl: unknown timeframe %q", tf)
		}
		if ttl <= 0 {
			return fmt.Errorf("cache.ttl.%s must be positive", tf)
		}
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return fmt.Errorf("kafka.brokers and kafka.topic are required when kafka is enabled")
	}
	return nil
}
