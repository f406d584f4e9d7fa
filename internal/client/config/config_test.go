package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, 5*time.Minute, c.SyncInterval)
	assert.Equal(t, 30*time.Second, c.RetryBaseDelay)
	assert.Equal(t, 3, c.MaxRetries)
	assert.Equal(t, 100, c.CacheSize)
	assert.Equal(t, 10, c.MaxMessages)
	assert.True(t, c.AllowManualOverride)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vault.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeConfig(t, `{
		"server_endpoint_addr": "store.example:9000",
		"db_path": "/var/lib/vault.db",
		"sync_interval": "10m",
		"retry_base_delay": 1000000000,
		"max_retries": 5,
		"allow_manual_override": false
	}`)

	cfg, err := LoadConfig([]string{"status", "-c", path, "-db", "/tmp/override.db", "-i", "7"})
	require.NoError(t, err)

	assert.Equal(t, "store.example:9000", cfg.ServerEndpointAddr)
	assert.Equal(t, "/tmp/override.db", cfg.DBPath, "flags win over JSON")
	assert.Equal(t, 10*time.Minute, cfg.SyncInterval)
	assert.Equal(t, time.Second, cfg.RetryBaseDelay)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.False(t, cfg.AllowManualOverride)
	assert.Equal(t, 7*time.Second, cfg.OnlineCheckInterval)
	assert.Equal(t, 100, cfg.CacheSize, "keys absent from JSON keep defaults")
}

func TestLoadConfig_NoSources(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, &want, cfg)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig([]string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, err)

	bad := writeConfig(t, `{ not json`)
	_, err = LoadConfig([]string{"-c", bad})
	require.Error(t, err)

	_, err = LoadConfig([]string{"-i", "abc"})
	require.Error(t, err)
}
