package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/authgate/internal/timex"
)

// envConfig lists the recognised environment variables. Unset variables leave
// the current value untouched.
type envConfig struct {
	Port         string         `env:"PORT"`
	HTTPAddr     string         `env:"AUTHGATE_HTTP_ADDR"`
	GRPCAddr     string         `env:"AUTHGATE_GRPC_ADDR"`
	Driver       string         `env:"AUTHGATE_DB_DRIVER"`
	DatabaseURL  string         `env:"DATABASE_URL"`
	SecretKey    string         `env:"JWT_SECRET"`
	TokenTTL     timex.Duration `env:"JWT_EXPIRES_IN"`
	NodeEnv      string         `env:"NODE_ENV"`
	Environment  string         `env:"AUTHGATE_ENV"`
	CORSOrigin   string         `env:"CORS_ORIGIN"`
	LogLevel     string         `env:"AUTHGATE_LOG_LEVEL"`
	MaxBodyBytes int64          `env:"AUTHGATE_MAX_BODY_BYTES"`
}

func parseEnv(config *Config, environment map[string]string) error {
	var e envConfig
	if err := env.ParseWithOptions(&e, env.Options{Environment: environment}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if e.Port != "" {
		config.HTTPAddr = portToAddr(e.Port)
	}
	overrideString(&config.HTTPAddr, e.HTTPAddr)
	overrideString(&config.GRPCAddr, e.GRPCAddr)
	overrideString(&config.DatabaseDriver, e.Driver)
	overrideString(&config.DatabaseDSN, e.DatabaseURL)
	overrideString(&config.SecretKey, e.SecretKey)
	overrideString(&config.Environment, e.NodeEnv)
	overrideString(&config.Environment, e.Environment)
	overrideString(&config.CORSOrigin, e.CORSOrigin)
	overrideString(&config.LogLevel, e.LogLevel)
	if e.TokenTTL.Duration > 0 {
		config.TokenTTL = e.TokenTTL.Duration
	}
	if e.MaxBodyBytes > 0 {
		config.MaxBodyBytes = e.MaxBodyBytes
	}
	return nil
}

// portToAddr turns a bare port ("5000") into a listen address (":5000").
func portToAddr(port string) string {
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

func overrideString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
