package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server configures cmd/server.
type Server struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/geoboard.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	// RedisURL enables the standings cache. Empty disables it.
	RedisURL     string        `env:"REDIS_URL"`
	CacheTTL     time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	SeedDemo     bool          `env:"SEED_DEMO" envDefault:"false"`
	SecureCookie bool          `env:"SECURE_COOKIE" envDefault:"false"`
}

// Collector configures cmd/collector. Flags override these values.
type Collector struct {
	ServerURL string `env:"GEOBOARD_URL" envDefault:"http://localhost:8080"`
	Session   string `env:"GEOBOARD_SESSION"`
	// SlotPath is where the last extracted game is kept. Empty means the
	// user config directory.
	SlotPath string `env:"GEOBOARD_SLOT"`
	// RedisURL stores the slot in redis instead of a file.
	RedisURL     string        `env:"GEOBOARD_REDIS_URL"`
	LogLevel     slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	Debounce     time.Duration `env:"GEOBOARD_DEBOUNCE" envDefault:"300ms"`
	ControlURL   string        `env:"ROD_CONTROL_URL"`
	Headless     bool          `env:"GEOBOARD_HEADLESS" envDefault:"false"`
	PollInterval time.Duration `env:"GEOBOARD_POLL" envDefault:"1s"`
}

func LoadServer() (*Server, error) {
	cfg, err := env.ParseAs[Server]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

func LoadCollector() (*Collector, error) {
	cfg, err := env.ParseAs[Collector]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
