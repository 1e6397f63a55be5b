package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"
)

const (
	defaultAddress         = ":4001"
	defaultDriver          = "mysql"
	defaultCacheBackend    = "redis"
	defaultRedisAddr       = "localhost:6379"
	defaultMemcacheServer  = "localhost:11211"
	defaultQueryTTL        = time.Hour
	defaultViewTTL         = 15 * time.Minute
	defaultMetricsSchedule = "@every 5m"

	metricsScheduleEnv = "CACHE_METRICS_SCHEDULE"
)

type ServerConfig struct {
	Address        string   `yaml:"address" env:"SERVER_ADDRESS"`
	Port           string   `yaml:"-" env:"PORT"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

type DatabaseConfig struct {
	Driver      string `yaml:"driver" env:"DB_DRIVER"`
	URL         string `yaml:"url" env:"DATABASE_URL"`
	AutoMigrate bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE"`
}

type CacheConfig struct {
	Backend         string        `yaml:"backend" env:"CACHE_BACKEND"`
	RedisAddr       string        `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword   string        `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB         int           `yaml:"redis_db" env:"REDIS_DB"`
	MemcacheServers []string      `yaml:"memcache_servers" env:"MEMCACHE_SERVERS" envSeparator:","`
	QueryTTL        time.Duration `yaml:"query_ttl" env:"CACHE_QUERY_TTL"`
	ViewTTL         time.Duration `yaml:"view_ttl" env:"CACHE_VIEW_TTL"`
	// MetricsSchedule is a cron spec; "off" or an empty value disables the periodic report.
	MetricsSchedule string `yaml:"metrics_schedule" env:"CACHE_METRICS_SCHEDULE"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Auth     AuthConfig     `yaml:"auth"`
}

// Default returns the configuration used when neither file nor env say otherwise.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Address: defaultAddress,
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
			},
		},
		Database: DatabaseConfig{
			Driver: defaultDriver,
		},
		Cache: CacheConfig{
			Backend:         defaultCacheBackend,
			RedisAddr:       defaultRedisAddr,
			MemcacheServers: []string{defaultMemcacheServer},
			QueryTTL:        defaultQueryTTL,
			ViewTTL:         defaultViewTTL,
			MetricsSchedule: defaultMetricsSchedule,
		},
	}
}

// LoadConfig reads the YAML file at path (a missing file is not an error),
// then applies environment overrides and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("unmarshal config file: %w", err)
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	// env skips empty variables, but an explicitly empty schedule switches the job off.
	if v, ok := os.LookupEnv(metricsScheduleEnv); ok && strings.TrimSpace(v) == "" {
		cfg.Cache.MetricsSchedule = ""
	}
	if cfg.Server.Port != "" {
		cfg.Server.Address = ":" + strings.TrimPrefix(cfg.Server.Port, ":")
	}
	cfg.Database.Driver = NormalizeDriver(cfg.Database.Driver)
	cfg.Cache.Backend = strings.ToLower(strings.TrimSpace(cfg.Cache.Backend))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NormalizeDriver maps user-facing driver names onto registered database/sql drivers.
func NormalizeDriver(driver string) string {
	switch d := strings.ToLower(strings.TrimSpace(driver)); d {
	case "postgres", "postgresql", "pgx":
		return "pgx"
	case "sqlite", "sqlite3":
		return "sqlite"
	default:
		return d
	}
}

func (c Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server address is required")
	}
	switch c.Database.Driver {
	case "mysql", "pgx", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.URL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	switch c.Cache.Backend {
	case "redis":
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis cache backend")
		}
	case "memcache":
		if len(c.Cache.MemcacheServers) == 0 {
			return fmt.Errorf("MEMCACHE_SERVERS is required for the memcache cache backend")
		}
	default:
		return fmt.Errorf("unsupported cache backend %q", c.Cache.Backend)
	}
	if c.Cache.QueryTTL <= 0 || c.Cache.ViewTTL <= 0 {
		return fmt.Errorf("cache ttl values must be positive")
	}
	return nil
}

// MetricsEnabled reports whether the periodic cache metrics job should run.
func (c CacheConfig) MetricsEnabled() bool {
	s := strings.TrimSpace(c.MetricsSchedule)
	return s != "" && !strings.EqualFold(s, "off")
}
