package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "server:\n  port: 9090\n"))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "local", cfg.Cache.Driver)
	assert.Equal(t, time.Duration(0), cfg.Feed.CallbackLatency)
	assert.Equal(t, 4, cfg.Feed.CallbackWorkers)
	assert.False(t, cfg.Feed.AllowDuplicateLikes)
	assert.True(t, cfg.Feed.Seed)
}

func TestLoadFileOverrides(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, `
store:
  driver: gorm
feed:
  callback_latency: 4ms
  allow_duplicate_likes: true
cache:
  driver: redis
  ttl: 30s
`))
	require.NoError(t, err)

	assert.Equal(t, "gorm", cfg.Store.Driver)
	assert.Equal(t, 4*time.Millisecond, cfg.Feed.CallbackLatency)
	assert.True(t, cfg.Feed.AllowDuplicateLikes)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown store driver", "store:\n  driver: mongo\n"},
		{"auth without secret", "auth:\n  enabled: true\n"},
		{"bad log level", "log:\n  level: verbose\n"},
		{"sample ratio out of range", "tracing:\n  sample_ratio: 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
