package models

import "github.com/dmitrijs2005/tickit/internal/timex"

// Device tracks the installs syncing under an account, for visibility and
// for excluding a device's own writes from its pull.
type Device struct {
	AccountID string
	DeviceID  string
	FirstSeen timex.Time
	LastSeen  timex.Time
}
