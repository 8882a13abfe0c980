package models

import "github.com/dmitrijs2005/tickit/internal/timex"

// RecordType discriminates which entity table a tombstone or sync record
// refers to.
type RecordType string

const (
	RecordTask RecordType = "task"
	RecordList RecordType = "list"
	RecordTag  RecordType = "tag"
)

// Valid reports whether rt names a known entity type.
func (rt RecordType) Valid() bool {
	switch rt {
	case RecordTask, RecordList, RecordTag:
		return true
	}
	return false
}

// Tombstone marks a local deletion so other devices remove the entity
// instead of resurrecting it. Tombstones are created only on local deletes
// and are never removed by the sync engine.
type Tombstone struct {
	ID         string     `json:"id"`
	RecordType RecordType `json:"record_type"`
	DeletedAt  timex.Time `json:"deleted_at"`
}
