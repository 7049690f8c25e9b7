package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/jskrn-1911/clover-backend/internal/infra/gateway"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults fills in unset values. Gateway credentials are not
// validated here: their absence is a per-request configuration error
// surfaced by the handler.
func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Clover.BaseURL == "" {
		cfg.Clover.BaseURL = gateway.DefaultBaseURL
	}
	if cfg.Retry.MaxRetries == 0 {
		cfg.Retry.MaxRetries = gateway.DefaultPolicy.MaxRetries
	}
	if cfg.Retry.BaseDelay == 0 {
		cfg.Retry.BaseDelay = gateway.DefaultPolicy.BaseDelay
	}
	if cfg.Retry.MaxDelay == 0 {
		cfg.Retry.MaxDelay = gateway.DefaultPolicy.MaxDelay
	}
	if cfg.Dispatch.Capacity == 0 {
		cfg.Dispatch.Capacity = 1
	}
	if cfg.Dispatch.MinInterval == 0 {
		cfg.Dispatch.MinInterval = 1 * time.Second
	}
}
