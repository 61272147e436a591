package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Upstream UpstreamConfig
	Redis    RedisConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Upstream.normalize()
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"NEMLIG_APP_ENV" default:"dev"`
	Port         string `envconfig:"NEMLIG_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"NEMLIG_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"NEMLIG_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, "dev")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, "prod")
}

// UpstreamConfig carries everything needed to talk to the Nemlig API.
type UpstreamConfig struct {
	BaseURL           string        `envconfig:"NEMLIG_API_URL" default:"https://www.nemlig.com/webapi"`
	Username          string        `envconfig:"NEMLIG_USERNAME"`
	Password          string        `envconfig:"NEMLIG_PASSWORD"`
	Timeout           time.Duration `envconfig:"NEMLIG_TIMEOUT" default:"30s"`
	RequestsPerSecond float64       `envconfig:"NEMLIG_REQUESTS_PER_SECOND" default:"1"`
	Burst             int           `envconfig:"NEMLIG_BURST" default:"2"`
}

// HasCredentials reports whether both upstream credentials are configured.
func (u UpstreamConfig) HasCredentials() bool {
	return strings.TrimSpace(u.Username) != "" && strings.TrimSpace(u.Password) != ""
}

func (u *UpstreamConfig) normalize() {
	u.BaseURL = strings.TrimRight(strings.TrimSpace(u.BaseURL), "/")
	if u.Timeout <= 0 {
		u.Timeout = 30 * time.Second
	}
	if u.RequestsPerSecond <= 0 {
		u.RequestsPerSecond = 1
	}
	if u.Burst < 1 {
		u.Burst = 1
	}
}

// RedisConfig is optional; when URL is empty the server keeps upstream
// session cookies in memory only.
type RedisConfig struct {
	URL          string        `envconfig:"NEMLIG_REDIS_URL"`
	PoolSize     int           `envconfig:"NEMLIG_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"NEMLIG_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"NEMLIG_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"NEMLIG_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"NEMLIG_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis-backed session store should be used.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}
