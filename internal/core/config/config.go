package config

import (
	"time"

	"github.com/ferg-cod3s/rq-challenge/internal/infra/journal"
	"github.com/ferg-cod3s/rq-challenge/internal/infra/journal/postgres"
	"github.com/ferg-cod3s/rq-challenge/internal/infra/upstream/routing"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig        `yaml:"server"`
	Upstream UpstreamConfig      `yaml:"upstream"`
	Logging  LoggingConfig       `yaml:"logging"`
	Redis    journal.RedisConfig `yaml:"redis"`
	Database postgres.Config     `yaml:"database"`
}

// ServerConfig holds HTTP and gRPC server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	GRPCPort        int           `yaml:"grpc_port"`         // 0 disables the gRPC health server
	RateLimit       float64       `yaml:"rate_limit"`        // requests per second, 0 = unlimited
	RateBurst       int           `yaml:"rate_burst"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// UpstreamConfig holds settings for the upstream employee service.
type UpstreamConfig struct {
	Name    string              `yaml:"name"`
	BaseURL string              `yaml:"base_url"`
	Timeout time.Duration       `yaml:"timeout"` // per attempt
	Retry   routing.RetryConfig `yaml:"retry"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// JournalEnabled reports whether any durable journal sink is configured.
func (c *AppConfig) JournalEnabled() bool {
	return c.Redis.URL != "" || c.Database.URL != ""
}
