// Package protocol defines the JSON wire format spoken between Tickit
// clients and the tickit-sync server: a discriminated record envelope plus
// the request/response bodies of the single sync endpoint.
//
// The shapes are shared with the desktop and mobile clients and must stay
// byte-compatible.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/tickit/internal/models"
	"github.com/dmitrijs2005/tickit/internal/timex"
)

// Type discriminates the payload of a Record.
type Type string

const (
	TypeTask    Type = "task"
	TypeList    Type = "list"
	TypeTag     Type = "tag"
	TypeDeleted Type = "deleted"
)

// Deletion is the wire shape of a propagated tombstone.
type Deletion struct {
	ID         string            `json:"id"`
	RecordType models.RecordType `json:"record_type"`
	DeletedAt  timex.Time        `json:"deleted_at"`
}

// Record is a tagged union wrapping one of Task/List/Tag or a Deletion.
// Exactly the field matching Type is non-nil.
type Record struct {
	Type    Type
	Task    *models.Task
	List    *models.List
	Tag     *models.Tag
	Deleted *Deletion
}

// TaskRecord wraps a task for the wire.
func TaskRecord(t *models.Task) Record {
	return Record{Type: TypeTask, Task: t}
}

// ListRecord wraps a list for the wire.
func ListRecord(l *models.List) Record {
	return Record{Type: TypeList, List: l}
}

// TagRecord wraps a tag for the wire.
func TagRecord(t *models.Tag) Record {
	return Record{Type: TypeTag, Tag: t}
}

// DeletedRecord wraps a tombstone for the wire.
func DeletedRecord(t *models.Tombstone) Record {
	return Record{Type: TypeDeleted, Deleted: &Deletion{
		ID:         t.ID,
		RecordType: t.RecordType,
		DeletedAt:  t.DeletedAt,
	}}
}

// ID returns the identifier of the wrapped entity or deletion.
func (r Record) ID() string {
	switch r.Type {
	case TypeTask:
		return r.Task.ID
	case TypeList:
		return r.List.ID
	case TypeTag:
		return r.Tag.ID
	case TypeDeleted:
		return r.Deleted.ID
	}
	return ""
}

// Timestamp returns the LWW-relevant timestamp: updated_at for entities,
// deleted_at for deletions.
func (r Record) Timestamp() timex.Time {
	switch r.Type {
	case TypeTask:
		return r.Task.UpdatedAt
	case TypeList:
		return r.List.UpdatedAt
	case TypeTag:
		return r.Tag.UpdatedAt
	case TypeDeleted:
		return r.Deleted.DeletedAt
	}
	return timex.Time{}
}

// EntityType returns the entity table the record refers to.
func (r Record) EntityType() models.RecordType {
	switch r.Type {
	case TypeTask:
		return models.RecordTask
	case TypeList:
		return models.RecordList
	case TypeTag:
		return models.RecordTag
	case TypeDeleted:
		return r.Deleted.RecordType
	}
	return ""
}

// MarshalJSON flattens the payload fields next to the "type" discriminator.
func (r Record) MarshalJSON() ([]byte, error) {
	switch r.Type {
	case TypeTask:
		if r.Task == nil {
			return nil, fmt.Errorf("task record without task payload")
		}
		return json.Marshal(struct {
			Type Type `json:"type"`
			*models.Task
		}{r.Type, r.Task})
	case TypeList:
		if r.List == nil {
			return nil, fmt.Errorf("list record without list payload")
		}
		return json.Marshal(struct {
			Type Type `json:"type"`
			*models.List
		}{r.Type, r.List})
	case TypeTag:
		if r.Tag == nil {
			return nil, fmt.Errorf("tag record without tag payload")
		}
		return json.Marshal(struct {
			Type Type `json:"type"`
			*models.Tag
		}{r.Type, r.Tag})
	case TypeDeleted:
		if r.Deleted == nil {
			return nil, fmt.Errorf("deleted record without deletion payload")
		}
		return json.Marshal(struct {
			Type Type `json:"type"`
			*Deletion
		}{r.Type, r.Deleted})
	default:
		return nil, fmt.Errorf("unknown record type %q", r.Type)
	}
}

// UnmarshalJSON peeks at the discriminator, then decodes the matching shape.
func (r *Record) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	switch probe.Type {
	case TypeTask:
		var t models.Task
		if err := json.Unmarshal(data, &t); err != nil {
			return err
		}
		*r = TaskRecord(&t)
	case TypeList:
		var l models.List
		if err := json.Unmarshal(data, &l); err != nil {
			return err
		}
		*r = ListRecord(&l)
	case TypeTag:
		var t models.Tag
		if err := json.Unmarshal(data, &t); err != nil {
			return err
		}
		*r = TagRecord(&t)
	case TypeDeleted:
		var d Deletion
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		if !d.RecordType.Valid() {
			return fmt.Errorf("deleted record with unknown record_type %q", d.RecordType)
		}
		*r = Record{Type: TypeDeleted, Deleted: &d}
	default:
		return fmt.Errorf("unknown record type %q", probe.Type)
	}
	return nil
}

// Request is the client → server body of POST /api/v1/sync. LastSync is nil
// for a full sync.
type Request struct {
	DeviceID string      `json:"device_id"`
	LastSync *timex.Time `json:"last_sync"`
	Changes  []Record    `json:"changes"`
}

// Response is the server → client body: the server's completion timestamp,
// the records the client is missing, and opaque conflict identifiers.
type Response struct {
	ServerTime timex.Time `json:"server_time"`
	Changes    []Record   `json:"changes"`
	Conflicts  []string   `json:"conflicts"`
}
