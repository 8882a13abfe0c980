package config

import (
	"os"
	"path/filepath"
)

// Config holds process-level settings for the Tickit CLI. Everything related
// to the sync server lives in the database instead, so it follows the data
// directory around.
type Config struct {
	DatabasePath string
	LogFile      string
}

// LoadDefaults populates c with per-user defaults under ~/.tickit.
func (c *Config) LoadDefaults() {
	dir := "."
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".tickit")
	}
	c.DatabasePath = filepath.Join(dir, "tickit.db")
	c.LogFile = filepath.Join(dir, "tickit.log")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
