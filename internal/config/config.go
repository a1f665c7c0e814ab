package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App       App       `yaml:"app"`
	HTTP      HTTP      `yaml:"http"`
	FlightOps FlightOps `yaml:"flightops"`
	Board     Board     `yaml:"board"`
	Cache     Cache     `yaml:"cache"`
	Redis     Redis     `yaml:"redis"`
	Audit     Audit     `yaml:"audit"`
	Auth      Auth      `yaml:"auth"`
}

type App struct {
	Env string `yaml:"env" env:"APP_ENV" env-default:"development"`
}

type HTTP struct {
	Port        string   `yaml:"port" env:"HTTP_PORT" env-default:"8090"`
	CORSOrigins []string `yaml:"cors_origins" env:"CORS_ORIGINS" env-default:"http://localhost:3000"`
	RateLimit   float64  `yaml:"rate_limit" env:"HTTP_RATE_LIMIT" env-default:"10"`
	RateBurst   int      `yaml:"rate_burst" env:"HTTP_RATE_BURST" env-default:"20"`
}

// FlightOps describes the backing REST service.
type FlightOps struct {
	BaseURL   string        `yaml:"base_url" env:"FLIGHTOPS_BASE_URL" env-default:"http://localhost:8080/api"`
	Timeout   time.Duration `yaml:"timeout" env:"FLIGHTOPS_TIMEOUT" env-default:"10s"`
	RateLimit float64       `yaml:"rate_limit" env:"FLIGHTOPS_RATE_LIMIT" env-default:"20"`
	RateBurst int           `yaml:"rate_burst" env:"FLIGHTOPS_RATE_BURST" env-default:"8"`
}

// Board controls rendering and the background refresh. A zero
// RefreshInterval disables the refresh job.
type Board struct {
	Timezone        string        `yaml:"timezone" env:"BOARD_TIMEZONE" env-default:"Local"`
	RefreshInterval time.Duration `yaml:"refresh_interval" env:"BOARD_REFRESH_INTERVAL" env-default:"5m"`
}

type Cache struct {
	Backend string        `yaml:"backend" env:"CACHE_BACKEND" env-default:"memory"`
	TTL     time.Duration `yaml:"ttl" env:"CACHE_TTL" env-default:"5m"`
}

type Redis struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// Audit selects where the mutation journal is written. Driver "none"
// disables it.
type Audit struct {
	Driver string `yaml:"driver" env:"AUDIT_DRIVER" env-default:"sqlite"`
	DSN    string `yaml:"dsn" env:"AUDIT_DSN" env-default:"flightboard_audit.db"`
}

// Auth guards the admin routes. An empty secret leaves them open, which is
// only accepted outside production.
type Auth struct {
	AdminJWTSecret string        `yaml:"admin_jwt_secret" env:"ADMIN_JWT_SECRET"`
	TokenTTL       time.Duration `yaml:"token_ttl" env:"ADMIN_TOKEN_TTL" env-default:"12h"`
}

// New reads config.yaml when it exists and lets env vars override it.
func New() (*Config, error) {
	return Load("config.yaml")
}

func Load(path string) (*Config, error) {
	cfg := &Config{}

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		// fallback to env vars if file not found
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	c.FlightOps.BaseURL = strings.TrimRight(c.FlightOps.BaseURL, "/")
	if c.FlightOps.BaseURL == "" {
		return fmt.Errorf("config error: flightops base url is empty")
	}

	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("config error: unknown cache backend %q", c.Cache.Backend)
	}

	switch c.Audit.Driver {
	case "sqlite", "postgres", "none":
	default:
		return fmt.Errorf("config error: unknown audit driver %q", c.Audit.Driver)
	}

	if c.IsProduction() && c.Auth.AdminJWTSecret == "" {
		return fmt.Errorf("config error: ADMIN_JWT_SECRET is required in production")
	}

	if c.Board.RefreshInterval < 0 {
		return fmt.Errorf("config error: negative board refresh interval")
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Location is the zone board times are rendered in.
func (c *Config) Location() (*time.Location, error) {
	if c.Board.Timezone == "" || c.Board.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Board.Timezone)
}

func (r Redis) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}
