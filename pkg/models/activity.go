package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityOrder selects the read direction for the activity log.
type ActivityOrder string

const (
	OldestFirst ActivityOrder = "asc"
	NewestFirst ActivityOrder = "desc"
)

// ActivityEntry is one append-only activity log record. Entries are never
// mutated after creation; Seq gives stable insertion order.
type ActivityEntry struct {
	ID        uuid.UUID `json:"id"`
	Seq       int64     `json:"seq"`
	ProjectID uuid.UUID `json:"project_id"`
	AgentName string    `json:"agent_name"`
	Message   string    `json:"message"`
	IsError   bool      `json:"is_error"`
	CreatedAt time.Time `json:"created_at"`
}
