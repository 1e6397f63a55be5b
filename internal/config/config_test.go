package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  address: ":9000"
database:
  driver: postgres
  url: "postgres://app@localhost/properties"
cache:
  backend: redis
  redis_addr: "cache:6379"
  query_ttl: 30m
  view_ttl: 5m
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Address != ":9000" {
		t.Fatalf("expected :9000, got %q", cfg.Server.Address)
	}
	if cfg.Database.Driver != "pgx" {
		t.Fatalf("expected postgres to normalise to pgx, got %q", cfg.Database.Driver)
	}
	if cfg.Cache.RedisAddr != "cache:6379" {
		t.Fatalf("unexpected redis addr %q", cfg.Cache.RedisAddr)
	}
	if cfg.Cache.QueryTTL != 30*time.Minute || cfg.Cache.ViewTTL != 5*time.Minute {
		t.Fatalf("unexpected ttls %v / %v", cfg.Cache.QueryTTL, cfg.Cache.ViewTTL)
	}
	if cfg.Cache.MetricsSchedule != defaultMetricsSchedule {
		t.Fatalf("expected default metrics schedule, got %q", cfg.Cache.MetricsSchedule)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
database:
  driver: mysql
  url: "root@tcp(localhost:3306)/properties?parseTime=true"
`)
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("CACHE_QUERY_TTL", "2h")
	t.Setenv("CACHE_METRICS_SCHEDULE", "off")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Address != ":8080" {
		t.Fatalf("expected :8080, got %q", cfg.Server.Address)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.URL != "file:test.db" {
		t.Fatalf("env did not override database: %+v", cfg.Database)
	}
	if cfg.Cache.QueryTTL != 2*time.Hour {
		t.Fatalf("expected 2h query ttl, got %v", cfg.Cache.QueryTTL)
	}
	if cfg.Cache.MetricsEnabled() {
		t.Fatal("expected metrics job to be disabled")
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoadConfigEmptyMetricsScheduleDisablesJob(t *testing.T) {
	cases := []struct {
		name string
		file string
		env  string
	}{
		{"empty env", "", ""},
		{"blank env", "", "  "},
		{"empty in file", "cache:\n  metrics_schedule: \"\"\n", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "file::memory:")
			t.Setenv("DB_DRIVER", "sqlite")
			path := ""
			if tc.file != "" {
				path = writeConfigFile(t, tc.file)
			} else {
				t.Setenv("CACHE_METRICS_SCHEDULE", tc.env)
			}

			cfg, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			if cfg.Cache.MetricsEnabled() {
				t.Fatalf("expected metrics job to be disabled, schedule %q", cfg.Cache.MetricsSchedule)
			}
		})
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Address != defaultAddress {
		t.Fatalf("expected default address, got %q", cfg.Server.Address)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.QueryTTL != time.Hour || cfg.Cache.ViewTTL != 15*time.Minute {
		t.Fatalf("unexpected cache defaults: %+v", cfg.Cache)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing url", func(c *Config) { c.Database.URL = "" }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "etcd" }},
		{"zero ttl", func(c *Config) { c.Cache.ViewTTL = 0 }},
		{"memcache without servers", func(c *Config) {
			c.Cache.Backend = "memcache"
			c.Cache.MemcacheServers = nil
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Database.URL = "file::memory:"
			cfg.Database.Driver = "sqlite"
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
