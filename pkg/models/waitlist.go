package models

import (
	"time"

	"github.com/google/uuid"
)

// WaitlistSignup is one append-only landing-page signup.
// (project_id, email) is unique for deduplication.
type WaitlistSignup struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Email     string    `json:"email"`
	Source    string    `json:"source,omitempty"`
	Referrer  string    `json:"referrer,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
