package models

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus is the workflow state of a ticket.
type TicketStatus string

const (
	TicketTodo       TicketStatus = "todo"
	TicketInProgress TicketStatus = "in_progress"
	TicketDone       TicketStatus = "done"
	TicketBlocked    TicketStatus = "blocked"
)

// Valid reports whether s is a known ticket status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketTodo, TicketInProgress, TicketDone, TicketBlocked:
		return true
	}
	return false
}

// Ticket is a unit of work derived from blueprint or validation output.
type Ticket struct {
	ID          uuid.UUID    `json:"id"`
	ProjectID   uuid.UUID    `json:"project_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TicketStatus `json:"status"`
	Priority    int          `json:"priority"`
	Type        string       `json:"type"`

	// AgentAuthor is the agent that created the ticket, or "user".
	AgentAuthor string `json:"agent_author"`

	// RunID tags all tickets created by a single BuildPlanner run so a
	// retried run can be distinguished from the original.
	RunID uuid.UUID `json:"run_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TicketPatch carries a merge-patch update for a ticket.
// Nil fields are left untouched.
type TicketPatch struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Status      *TicketStatus `json:"status,omitempty"`
	Priority    *int          `json:"priority,omitempty"`
}
