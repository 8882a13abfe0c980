package models

import "github.com/dmitrijs2005/tickit/internal/timex"

// Tag is a label attachable to tasks via the task_tags junction table.
type Tag struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Color     string     `json:"color"`
	CreatedAt timex.Time `json:"created_at"`
	UpdatedAt timex.Time `json:"updated_at"`
}
