package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/authgate/internal/timex"
)

type envConfig struct {
	ServerEndpointAddr string         `env:"AUTHCTL_SERVER"`
	RequestTimeout     timex.Duration `env:"AUTHCTL_TIMEOUT"`
}

func parseEnv(cfg *Config, environment map[string]string) error {
	var e envConfig
	if err := env.ParseWithOptions(&e, env.Options{Environment: environment}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if e.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = e.ServerEndpointAddr
	}
	if e.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = e.RequestTimeout.Duration
	}
	return nil
}
