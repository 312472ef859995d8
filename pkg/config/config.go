package config

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"

	"HashClock/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		RequestTimeout  time.Duration `yaml:"request_timeout" default:"15s"`
		CORSOrigins     []string      `yaml:"cors_origins"`
	} `yaml:"server"`
	Logger struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logger"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Astro struct {
		IncludeHarmonics bool          `yaml:"include_harmonics" default:"true"`
		Providers        []string      `yaml:"providers" default:"[\"ephemeris\",\"simplified\"]"`
		SafeYearMin      int           `yaml:"safe_year_min" default:"1900"`
		SafeYearMax      int           `yaml:"safe_year_max" default:"2100"`
		ComputeTimeout   time.Duration `yaml:"compute_timeout" default:"5s"`
	} `yaml:"astro"`
	Ephemeris struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout" default:"3s"`
		Retries int           `yaml:"retries" default:"2"`
		Backoff time.Duration `yaml:"backoff" default:"200ms"`
	} `yaml:"ephemeris"`
	Cache struct {
		Type     string        `yaml:"type" default:"memory"`
		TTL      time.Duration `yaml:"ttl" default:"24h"`
		Capacity int           `yaml:"capacity" default:"10000"`
		LocalTTL time.Duration `yaml:"local_ttl" default:"1m"`
		Redis    struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"hashclock:sig:"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Archive struct {
		Backend      string        `yaml:"backend" default:"none"`
		BufferSize   int           `yaml:"buffer_size" default:"1024"`
		BatchSize    int           `yaml:"batch_size" default:"100"`
		BatchTimeout time.Duration `yaml:"batch_timeout" default:"2s"`
		MaxRetries   int           `yaml:"max_retries" default:"3"`
	} `yaml:"archive"`
	Kafka struct {
		Brokers []string `yaml:"brokers"`
		Topics  struct {
			Signatures string `yaml:"signatures" default:"hashclock.signatures"`
			Requests   string `yaml:"requests" default:"hashclock.requests"`
			Logs       string `yaml:"logs" default:"hashclock.logs"`
		} `yaml:"topics"`
		RequiredAcks int    `yaml:"required_acks" default:"1"`
		Compression  string `yaml:"compression" default:"snappy"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"10ms"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			Enabled    bool          `yaml:"enabled"`
			GroupID    string        `yaml:"group_id" default:"hashclock"`
			Workers    int           `yaml:"workers" default:"4"`
			BufferSize int           `yaml:"buffer_size" default:"256"`
			RetryMax   int           `yaml:"retry_max" default:"3"`
			BackoffMin time.Duration `yaml:"backoff_min" default:"100ms"`
			BackoffMax time.Duration `yaml:"backoff_max" default:"5s"`
			DLQTopic   string        `yaml:"dlq_topic" default:"hashclock.dlq"`
			MinBytes   int           `yaml:"min_bytes" default:"1"`
			MaxBytes   int           `yaml:"max_bytes" default:"10485760"`
		} `yaml:"consumer"`
		CollectLogs bool `yaml:"collect_logs"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host         string        `yaml:"host" default:"localhost"`
		Port         int           `yaml:"port" default:"9000"`
		Database     string        `yaml:"database" default:"hashclock"`
		Table        string        `yaml:"table" default:"signatures"`
		User         string        `yaml:"user" default:"default"`
		Password     string        `yaml:"password"`
		UseHTTP      bool          `yaml:"use_http"`
		AsyncInsert  bool          `yaml:"async_insert"`
		DialTimeout  time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"clickhouse"`
	Narrator struct {
		OpenAIKey   string        `yaml:"openai_api_key"`
		BaseURL     string        `yaml:"base_url"`
		Model       string        `yaml:"model" default:"gpt-4o"`
		MaxTokens   int           `yaml:"max_tokens" default:"4000"`
		Temperature float32       `yaml:"temperature" default:"0.8"`
		Timeout     time.Duration `yaml:"timeout" default:"60s"`
	} `yaml:"narrator"`
	RateLimit struct {
		Capacity     float64 `yaml:"capacity" default:"30"`
		RefillPerSec float64 `yaml:"refill_per_sec" default:"1"`
	} `yaml:"ratelimit"`
	Sky struct {
		Interval time.Duration `yaml:"interval" default:"10s"`
		MaxPeers int           `yaml:"max_peers" default:"256"`
	} `yaml:"sky"`
}

// Default returns a configuration populated only from struct defaults.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return &c, nil
}

// Load reads a YAML file on top of the defaults and validates the result.
func Load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML (skipped when path is empty) and overrides
// with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	var (
		c   *Config
		err error
	)
	if path == "" {
		c, err = Default()
	} else {
		c, err = Load(path)
	}
	if err != nil {
		return nil, err
	}
	c.applyEnv(os.Getenv)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		*dst = util.ParseIntDefault(getenv(key), *dst)
	}
	list := func(key string, dst *[]string) {
		if v := util.SplitCSV(getenv(key)); len(v) > 0 {
			*dst = v
		}
	}

	str("ENVIRONMENT", &c.Environment)
	num("SERVER_PORT", &c.Server.Port)
	str("LOG_LEVEL", &c.Logger.Level)
	list("ASTRO_PROVIDERS", &c.Astro.Providers)
	str("EPHEMERIS_BASE_URL", &c.Ephemeris.BaseURL)
	str("CACHE_TYPE", &c.Cache.Type)
	str("REDIS_ADDR", &c.Cache.Redis.Addr)
	str("REDIS_PASSWORD", &c.Cache.Redis.Password)
	str("ARCHIVE_BACKEND", &c.Archive.Backend)
	list("KAFKA_BROKERS", &c.Kafka.Brokers)
	str("KAFKA_TOPIC", &c.Kafka.Topics.Signatures)
	str("CLICKHOUSE_HOST", &c.ClickHouse.Host)
	num("CLICKHOUSE_PORT", &c.ClickHouse.Port)
	str("CLICKHOUSE_PASSWORD", &c.ClickHouse.Password)
	str("OPENAI_API_KEY", &c.Narrator.OpenAIKey)
	str("OPENAI_MODEL", &c.Narrator.Model)
}

var knownProviders = map[string]bool{"ephemeris": true, "simplified": true, "remote": true}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if len(c.Astro.Providers) == 0 {
		return fmt.Errorf("astro.providers cannot be empty")
	}
	for _, p := range c.Astro.Providers {
		if !knownProviders[p] {
			return fmt.Errorf("astro.providers: unknown provider '%s'", p)
		}
		if p == "remote" && c.Ephemeris.BaseURL == "" {
			return fmt.Errorf("ephemeris.base_url is required when the remote provider is enabled")
		}
	}
	if c.Astro.SafeYearMin >= c.Astro.SafeYearMax {
		return fmt.Errorf("astro.safe_year_min must be below safe_year_max")
	}
	switch c.Cache.Type {
	case "memory", "redis", "layered", "none":
	default:
		return fmt.Errorf("cache.type must be one of memory, redis, layered, none; got '%s'", c.Cache.Type)
	}
	switch c.Archive.Backend {
	case "none", "clickhouse":
	case "kafka":
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty when archive.backend is 'kafka'")
		}
	default:
		return fmt.Errorf("archive.backend must be 'none', 'kafka' or 'clickhouse', got '%s'", c.Archive.Backend)
	}
	if c.Kafka.Consumer.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when the consumer is enabled")
	}
	if c.RateLimit.Capacity <= 0 || c.RateLimit.RefillPerSec <= 0 {
		return fmt.Errorf("ratelimit capacity and refill_per_sec must be positive")
	}
	return nil
}

// KafkaEnabled reports whether any broker is configured.
func (c *Config) KafkaEnabled() bool { return len(c.Kafka.Brokers) > 0 }
