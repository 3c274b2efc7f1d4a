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
		expected  *Config
		name      string
		args      []string
		expectErr bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://127.0.0.1:9090", "-s", "/tmp/w.db", "-t", "20", "-log", "/tmp/w.log", "-log-level", "warn"},
			expected: &Config{
				APIBaseURL:     "http://127.0.0.1:9090",
				StoragePath:    "/tmp/w.db",
				RequestTimeout: 20 * time.Second,
				LogFile:        "/tmp/w.log",
				LogLevel:       "warn",
			},
		},
		{
			name:     "unknown flags are filtered out",
			args:     []string{"-c", "conf.json", "-x", "1", "-t", "5"},
			expected: &Config{RequestTimeout: 5 * time.Second},
		},
		{
			name:      "incorrect timeout",
			args:      []string{"-t", "abc"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := parseFlags(cfg, tt.args)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
