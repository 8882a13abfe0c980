package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"tickit-sync"}, args...)
	t.Cleanup(func() { os.Args = old })
}

func TestLoadDefaults(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()
	assert.Equal(t, ":8080", cfg.EndpointAddr)
	assert.NotEmpty(t, cfg.DatabaseDSN)
	assert.Equal(t, 90*24*time.Hour, cfg.TokenValidityDuration)
	assert.Empty(t, cfg.MintTokenFor)
}

func TestFlagsOverrideDefaults(t *testing.T) {
	withArgs(t, "-a", ":9090", "-d", "postgres://x", "-k", "s", "-t", "24", "-mint-token", "acc-1")

	cfg := LoadConfig()
	assert.Equal(t, ":9090", cfg.EndpointAddr)
	assert.Equal(t, "postgres://x", cfg.DatabaseDSN)
	assert.Equal(t, "s", cfg.SecretKey)
	assert.Equal(t, 24*time.Hour, cfg.TokenValidityDuration)
	assert.Equal(t, "acc-1", cfg.MintTokenFor)
}

func TestJsonOverlayAndFlagPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"endpoint_addr": ":7070",
		"secret_key": "from-json",
		"token_validity_hours": 48
	}`), 0o600))

	withArgs(t, "-config", path, "-k", "from-flag")

	cfg := LoadConfig()
	assert.Equal(t, ":7070", cfg.EndpointAddr, "json overrides defaults")
	assert.Equal(t, "from-flag", cfg.SecretKey, "flags override json")
	assert.Equal(t, 48*time.Hour, cfg.TokenValidityDuration)
}
