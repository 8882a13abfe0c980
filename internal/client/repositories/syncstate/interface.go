package syncstate

import (
	"context"

	"github.com/dmitrijs2005/tickit/internal/timex"
)

// Config is the persisted sync configuration. Sync is operational only when
// Enabled is set and both Server and Token are non-empty.
type Config struct {
	Enabled      bool   `json:"enabled"`
	Server       string `json:"server"`
	Token        string `json:"token"`
	IntervalSecs int    `json:"interval_secs"`
}

// DefaultConfig mirrors a fresh install: sync off, five-minute interval.
func DefaultConfig() Config {
	return Config{IntervalSecs: 300}
}

// Ready reports whether sync can actually run.
func (c Config) Ready() bool {
	return c.Enabled && c.Server != "" && c.Token != ""
}

// Repository persists per-install sync state: the checkpoint (nil until the
// first successful sync), the stable device identity, and the sync
// configuration.
type Repository interface {
	GetLastSync(ctx context.Context) (*timex.Time, error)
	SetLastSync(ctx context.Context, ts timex.Time) error
	ClearLastSync(ctx context.Context) error

	// GetOrCreateDeviceID returns the install's device UUID, generating and
	// persisting one on first use.
	GetOrCreateDeviceID(ctx context.Context) (string, error)

	GetConfig(ctx context.Context) (Config, error)
	SaveConfig(ctx context.Context, cfg Config) error
}
