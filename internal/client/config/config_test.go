package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"tickit"}, args...)
	t.Cleanup(func() { os.Args = old })
}

func TestLoadDefaults(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()
	assert.NotEmpty(t, cfg.DatabasePath)
	assert.NotEmpty(t, cfg.LogFile)
	assert.Equal(t, filepath.Dir(cfg.DatabasePath), filepath.Dir(cfg.LogFile))
}

func TestFlagsOverrideDefaults(t *testing.T) {
	withArgs(t, "-d", "/tmp/custom.db", "-l", "/tmp/custom.log")

	cfg := LoadConfig()
	assert.Equal(t, "/tmp/custom.db", cfg.DatabasePath)
	assert.Equal(t, "/tmp/custom.log", cfg.LogFile)
}

func TestJsonOverlayAndFlagPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"database_path": "/json/tickit.db",
		"log_file": "/json/tickit.log"
	}`), 0o600))

	withArgs(t, "-config", path, "-l", "/flag/tickit.log")

	cfg := LoadConfig()
	assert.Equal(t, "/json/tickit.db", cfg.DatabasePath, "json overrides defaults")
	assert.Equal(t, "/flag/tickit.log", cfg.LogFile, "flags override json")
}

func TestJsonPartialOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"database_path": "/json/only.db"}`), 0o600))

	withArgs(t, "-c", path)

	cfg := LoadConfig()
	assert.Equal(t, "/json/only.db", cfg.DatabasePath)
	assert.NotEmpty(t, cfg.LogFile, "unset json fields keep defaults")
}
