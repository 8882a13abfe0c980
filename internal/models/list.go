package models

import "github.com/dmitrijs2005/tickit/internal/timex"

// List groups tasks. Exactly one list with IsInbox set exists per store;
// the inbox is seeded at database init and can never be deleted.
type List struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Icon        string     `json:"icon"`
	Color       *string    `json:"color"`
	IsInbox     bool       `json:"is_inbox"`
	SortOrder   int        `json:"sort_order"`
	CreatedAt   timex.Time `json:"created_at"`
	UpdatedAt   timex.Time `json:"updated_at"`
}
