package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/authgate/internal/flagx"
	"github.com/dmitrijs2005/authgate/internal/timex"
)

// JSONConfig is the on-disk shape of the optional config file. Only keys
// present in the file override the current values.
type JSONConfig struct {
	HTTPAddr       *string         `json:"http_addr"`
	GRPCAddr       *string         `json:"grpc_addr"`
	DatabaseDriver *string         `json:"database_driver"`
	DatabaseDSN    *string         `json:"database_dsn"`
	SecretKey      *string         `json:"secret_key"`
	TokenTTL       *timex.Duration `json:"token_ttl"`
	Environment    *string         `json:"environment"`
	CORSOrigin     *string         `json:"cors_origin"`
	LogLevel       *string         `json:"log_level"`
	MaxBodyBytes   *int64          `json:"max_body_bytes"`
}

// parseJSON loads the file named by -c/-config, if any.
func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JSONConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setIf(&config.HTTPAddr, c.HTTPAddr)
	setIf(&config.GRPCAddr, c.GRPCAddr)
	setIf(&config.DatabaseDriver, c.DatabaseDriver)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.SecretKey, c.SecretKey)
	setIf(&config.Environment, c.Environment)
	setIf(&config.CORSOrigin, c.CORSOrigin)
	setIf(&config.LogLevel, c.LogLevel)
	setIf(&config.MaxBodyBytes, c.MaxBodyBytes)
	if c.TokenTTL != nil {
		config.TokenTTL = c.TokenTTL.Duration
	}
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
