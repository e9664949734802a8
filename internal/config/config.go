package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Engine    EngineConfig    `yaml:"engine"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Log       LogConfig       `yaml:"log"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type EngineConfig struct {
	// Seed fixes the random stream of every session. Zero picks one at startup.
	Seed uint64 `yaml:"seed"`
	// OpportunitiesFirst routes opportunity-only questions to the
	// opportunities analysis instead of SWOT.
	OpportunitiesFirst bool `yaml:"opportunities_first"`
}

type CatalogConfig struct {
	Driver string `yaml:"driver"` // sqlite or postgres
	DSN    string `yaml:"dsn"`
	// SeedBuiltins inserts the built-in competitor records on open.
	SeedBuiltins bool `yaml:"seed_builtins"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type TelemetryConfig struct {
	ServiceName  string `yaml:"service_name"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	Insecure     bool   `yaml:"insecure"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8095",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Catalog: CatalogConfig{
			Driver:       "sqlite",
			DSN:          "competitors.db",
			SeedBuiltins: true,
		},
		Log:       LogConfig{Level: "info"},
		RateLimit: RateLimitConfig{RPS: 5, Burst: 10},
		Telemetry: TelemetryConfig{ServiceName: "competitor-chat"},
	}
}

// Load reads defaults, then the YAML file at path (if any), then a .env
// file in the working directory (if any), then COMPETITOR_* and OTEL_*
// environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("COMPETITOR_ADDR", &c.Server.Addr)
	str("COMPETITOR_CATALOG_DRIVER", &c.Catalog.Driver)
	str("COMPETITOR_CATALOG_DSN", &c.Catalog.DSN)
	str("COMPETITOR_LOG_LEVEL", &c.Log.Level)
	str("COMPETITOR_LOG_FILE", &c.Log.File)
	str("OTEL_SERVICE_NAME", &c.Telemetry.ServiceName)
	str("OTEL_EXPORTER_OTLP_ENDPOINT", &c.Telemetry.OTLPEndpoint)

	if v, ok := lookup("OTEL_EXPORTER_OTLP_INSECURE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("OTEL_EXPORTER_OTLP_INSECURE: %w", err)
		}
		c.Telemetry.Insecure = b
	}
	if v, ok := lookup("COMPETITOR_SEED"); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("COMPETITOR_SEED: %w", err)
		}
		c.Engine.Seed = seed
	}
	if v, ok := lookup("COMPETITOR_OPPORTUNITIES_FIRST"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("COMPETITOR_OPPORTUNITIES_FIRST: %w", err)
		}
		c.Engine.OpportunitiesFirst = b
	}
	if v, ok := lookup("COMPETITOR_RATE_RPS"); ok && v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("COMPETITOR_RATE_RPS: %w", err)
		}
		c.RateLimit.RPS = rps
	}
	if v, ok := lookup("COMPETITOR_RATE_BURST"); ok && v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("COMPETITOR_RATE_BURST: %w", err)
		}
		c.RateLimit.Burst = burst
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	switch c.Catalog.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("catalog.driver must be sqlite or postgres, got %q", c.Catalog.Driver)
	}
	if c.Catalog.DSN == "" {
		return errors.New("catalog.dsn is required")
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return errors.New("rate_limit values must not be negative")
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst == 0 {
		return errors.New("rate_limit.burst must be positive when rps is set")
	}
	return nil
}
