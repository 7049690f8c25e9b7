package config

import (
	"time"

	"github.com/jskrn-1911/clover-backend/internal/infra/gateway"
	redisclient "github.com/jskrn-1911/clover-backend/internal/infra/redis"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	Clover   gateway.Config     `yaml:"clover"`
	Retry    RetryConfig        `yaml:"retry"`
	Dispatch DispatchConfig     `yaml:"dispatch"`
	Redis    redisclient.Config `yaml:"redis"`
	Logging  LoggingConfig      `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// RetryConfig holds retry controller settings for gateway calls.
type RetryConfig struct {
	MaxRetries int           `yaml:"max_retries"`
	BaseDelay  time.Duration `yaml:"base_delay"`
	MaxDelay   time.Duration `yaml:"max_delay"`
}

// Policy converts the config section into a gateway policy.
func (r RetryConfig) Policy() gateway.Policy {
	return gateway.Policy{
		MaxRetries: r.MaxRetries,
		BaseDelay:  r.BaseDelay,
		MaxDelay:   r.MaxDelay,
	}
}

// DispatchConfig holds outbound dispatcher settings.
type DispatchConfig struct {
	Capacity    int64         `yaml:"capacity"`
	MinInterval time.Duration `yaml:"min_interval"`
}
