package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected *Config
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:8080", "-g", "127.0.0.1:9090", "-D", "sqlite", "-d", "file:x.db",
				"-s", "secret", "-t", "12h", "-e", "development", "-o", "https://app.example", "-l", "debug",
			},
			expected: &Config{
				HTTPAddr:       "127.0.0.1:8080",
				GRPCAddr:       "127.0.0.1:9090",
				DatabaseDriver: "sqlite",
				DatabaseDSN:    "file:x.db",
				SecretKey:      "secret",
				TokenTTL:       12 * time.Hour,
				Environment:    "development",
				CORSOrigin:     "https://app.example",
				LogLevel:       "debug",
			},
		},
		{
			name:     "foreign flags are ignored",
			args:     []string{"-c", "cfg.json", "-s", "k", "-x"},
			expected: &Config{SecretKey: "k"},
		},
		{
			name:    "bad duration",
			args:    []string{"-t", "forever"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}
			err := parseFlags(config, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
