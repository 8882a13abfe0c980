// Package models holds the Tickit entities exchanged between the local
// store and the sync server. JSON field names are part of the wire format
// and must not change.
package models

import "github.com/dmitrijs2005/tickit/internal/timex"

// Priority of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task is a single to-do item. IDs are client-generated UUIDs, stable for
// the life of the entity. Every local mutation must bump UpdatedAt.
type Task struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description *string     `json:"description"`
	URL         *string     `json:"url"`
	Priority    Priority    `json:"priority"`
	Completed   bool        `json:"completed"`
	ListID      string      `json:"list_id"`
	DueDate     *timex.Time `json:"due_date"`
	CreatedAt   timex.Time  `json:"created_at"`
	UpdatedAt   timex.Time  `json:"updated_at"`

	// TagIDs is populated when loading tasks with tags. Links are a local
	// concern and are not exchanged through sync.
	TagIDs []string `json:"tag_ids,omitempty"`
}
