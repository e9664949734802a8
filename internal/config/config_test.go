package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
  read_timeout: 3s
engine:
  seed: 42
  opportunities_first: true
catalog:
  driver: sqlite
  dsn: /tmp/x.db
log:
  level: debug
`), 0o644))

	t.Chdir(dir)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, uint64(42), cfg.Engine.Seed)
	assert.True(t, cfg.Engine.OpportunitiesFirst)
	assert.Equal(t, "/tmp/x.db", cfg.Catalog.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(mapLookup(map[string]string{
		"COMPETITOR_ADDR":                ":7000",
		"COMPETITOR_SEED":                "9",
		"COMPETITOR_OPPORTUNITIES_FIRST": "true",
		"COMPETITOR_CATALOG_DRIVER":      "postgres",
		"COMPETITOR_CATALOG_DSN":         "postgres://localhost/competitors",
		"COMPETITOR_RATE_RPS":            "2.5",
		"COMPETITOR_RATE_BURST":          "4",
		"OTEL_EXPORTER_OTLP_ENDPOINT":    "localhost:4318",
		"OTEL_EXPORTER_OTLP_INSECURE":    "true",
	}))
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, uint64(9), cfg.Engine.Seed)
	assert.True(t, cfg.Engine.OpportunitiesFirst)
	assert.Equal(t, "postgres", cfg.Catalog.Driver)
	assert.Equal(t, 2.5, cfg.RateLimit.RPS)
	assert.Equal(t, 4, cfg.RateLimit.Burst)
	assert.Equal(t, "localhost:4318", cfg.Telemetry.OTLPEndpoint)
	assert.True(t, cfg.Telemetry.Insecure)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnvRejectsBadNumbers(t *testing.T) {
	for key, val := range map[string]string{
		"COMPETITOR_SEED":                "-1",
		"COMPETITOR_OPPORTUNITIES_FIRST": "maybe",
		"COMPETITOR_RATE_RPS":            "fast",
		"COMPETITOR_RATE_BURST":          "1.5",
		"OTEL_EXPORTER_OTLP_INSECURE":    "sometimes",
	} {
		err := Default().applyEnv(mapLookup(map[string]string{key: val}))
		assert.ErrorContains(t, err, key)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"empty addr":     func(c *Config) { c.Server.Addr = "" },
		"unknown driver": func(c *Config) { c.Catalog.Driver = "mysql" },
		"empty dsn":      func(c *Config) { c.Catalog.DSN = "" },
		"negative rps":   func(c *Config) { c.RateLimit.RPS = -1 },
		"zero burst":     func(c *Config) { c.RateLimit.Burst = 0 },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(cfg)
		assert.Error(t, cfg.Validate(), name)
	}

	off := Default()
	off.RateLimit = RateLimitConfig{}
	assert.NoError(t, off.Validate())
}
