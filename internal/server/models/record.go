// Package models holds the server-side persistence shapes. The server never
// interprets entity payloads beyond the sync metadata it extracts; the raw
// wire JSON is stored and replayed as-is.
package models

import (
	"github.com/dmitrijs2005/tickit/internal/models"
	"github.com/dmitrijs2005/tickit/internal/timex"
)

// Record is one synchronized entity for one account. Deleted records keep
// their row as a server-side tombstone: Deleted is set, Payload is the
// deletion envelope and UpdatedAt equals DeletedAt, so one timestamp
// comparison orders deletions against later re-creates.
type Record struct {
	AccountID  string
	ID         string
	RecordType models.RecordType
	Payload    []byte
	UpdatedAt  timex.Time
	Deleted    bool
	DeletedAt  *timex.Time
	DeviceID   string
}
