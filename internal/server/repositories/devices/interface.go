// Package devices tracks the installs syncing under each account.
package devices

import (
	"context"

	"github.com/dmitrijs2005/tickit/internal/server/models"
	"github.com/dmitrijs2005/tickit/internal/timex"
)

// Repository persists device sightings.
type Repository interface {
	// Touch records that the device synced at now, registering it on first
	// sight.
	Touch(ctx context.Context, accountID, deviceID string, now timex.Time) error

	ListByAccount(ctx context.Context, accountID string) ([]*models.Device, error)
}
