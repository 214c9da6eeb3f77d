package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the process configuration, loaded from YAML with optional
// environment overrides for secrets and deploy-time values.
type Config struct {
	Environment string           `yaml:"environment"`
	Server      ServerConfig     `yaml:"server"`
	Metrics     MetricsConfig    `yaml:"metrics"`
	Backend     BackendConfig    `yaml:"backend"`
	Kafka       KafkaConfig      `yaml:"kafka"`
	ClickHouse  ClickHouseConfig `yaml:"clickhouse"`
	Quotes      QuotesConfig     `yaml:"quotes"`
	Analysis    AnalysisConfig   `yaml:"analysis"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// BackendConfig selects where accepted ticks land: "kafka" or "clickhouse".
type BackendConfig struct {
	Type         string        `yaml:"type"`
	BatchSize    int           `yaml:"batch_size"`
	BatchTimeout time.Duration `yaml:"batch_timeout"`
}

type KafkaConfig struct {
	Brokers      []string      `yaml:"brokers"`
	TicksTopic   string        `yaml:"ticks_topic"`
	BarsTopic    string        `yaml:"bars_topic"`
	ReportsTopic string        `yaml:"reports_topic"`
	LogsTopic    string        `yaml:"logs_topic"`
	RequiredAcks int           `yaml:"required_acks"`
	Compression  string        `yaml:"compression"`
	Producer     ProducerTuning `yaml:"producer"`
	Consumer     ConsumerTuning `yaml:"consumer"`
}

type ProducerTuning struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	Linger       time.Duration `yaml:"linger"`
	BatchBytes   int           `yaml:"batch_bytes"`
	BatchSize    int           `yaml:"batch_size"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	Async        bool          `yaml:"async"`
}

type ConsumerTuning struct {
	GroupID    string        `yaml:"group_id"`
	Workers    int           `yaml:"workers"`
	BufferSize int           `yaml:"buffer_size"`
	RetryMax   int           `yaml:"retry_max"`
	BackoffMin time.Duration `yaml:"backoff_min"`
	BackoffMax time.Duration `yaml:"backoff_max"`
	DLQTopic   string        `yaml:"dlq_topic"`
	MinBytes   int           `yaml:"min_bytes"`
	MaxBytes   int           `yaml:"max_bytes"`
}

type ClickHouseConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	Database         string        `yaml:"database"`
	User             string        `yaml:"user"`
	Password         string        `yaml:"password"`
	UseHTTP          bool          `yaml:"use_http"`
	AsyncInsert      bool          `yaml:"async_insert"`
	WaitForAsync     bool          `yaml:"wait_for_async_insert"`
	DialTimeout      time.Duration `yaml:"dial_timeout"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	MaxExecutionTime time.Duration `yaml:"max_execution_time"`
}

// QuotesConfig points at the market-data provider.
type QuotesConfig struct {
	APIKey         string        `yaml:"api_key"`
	WebSocketURL   string        `yaml:"websocket_url"`
	RestURL        string        `yaml:"rest_url"`
	Symbols        []string      `yaml:"symbols"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
	PingInterval   time.Duration `yaml:"ping_interval"`
	RestTimeout    time.Duration `yaml:"rest_timeout"`
}

// AnalysisConfig tunes the indicator engine and its caches.
type AnalysisConfig struct {
	HistoryBars     int             `yaml:"history_bars"`
	Timeframe       string          `yaml:"timeframe"`
	CacheTTL        time.Duration   `yaml:"cache_ttl"`
	RefreshInterval time.Duration   `yaml:"refresh_interval"`
	Redis           RedisConnConfig `yaml:"redis"`
}

type RedisConnConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Load reads, parses and validates a YAML configuration file.
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

// LoadWithEnv is Load plus environment overrides. Secrets like the
// quotes API key typically arrive via environment rather than the
// checked-in YAML.
func LoadWithEnv(path string) (*Config, error) {
	c, err := parse(path)
	if err != nil {
		return nil, err
	}

	overrideString(&c.Quotes.APIKey, "QUOTES_API_KEY")
	overrideList(&c.Quotes.Symbols, "SYMBOLS")
	overrideString(&c.Backend.Type, "BACKEND")
	overrideList(&c.Kafka.Brokers, "KAFKA_BROKERS")
	overrideString(&c.Kafka.TicksTopic, "KAFKA_TICKS_TOPIC")
	overrideString(&c.Kafka.BarsTopic, "KAFKA_BARS_TOPIC")
	overrideString(&c.Analysis.Redis.Addr, "REDIS_ADDR")

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func parse(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &c, nil
}

func overrideString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func overrideList(dst *[]string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = strings.Split(v, ",")
	}
}

// Validate rejects configurations the process cannot run with.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.Backend.Type {
	case "kafka", "clickhouse":
	case "":
		return fmt.Errorf("backend.type is required")
	default:
		return fmt.Errorf("backend.type must be 'kafka' or 'clickhouse', got '%s'", c.Backend.Type)
	}
	if len(c.Quotes.Symbols) == 0 {
		return fmt.Errorf("quotes.symbols cannot be empty")
	}
	if c.Quotes.APIKey == "" {
		return fmt.Errorf("quotes.api_key is required")
	}
	if c.Analysis.HistoryBars < 0 {
		return fmt.Errorf("analysis.history_bars cannot be negative")
	}
	return nil
}
