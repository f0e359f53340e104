// Package models contains domain types for found3r-engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus is the lifecycle position of a project.
type ProjectStatus string

// Project lifecycle stages, in order.
const (
	StatusScoping    ProjectStatus = "scoping"
	StatusValidating ProjectStatus = "validating"
	StatusBuilding   ProjectStatus = "building"
	StatusLive       ProjectStatus = "live"
)

// statusRank orders lifecycle stages for advancement checks.
var statusRank = map[ProjectStatus]int{
	StatusScoping:    0,
	StatusValidating: 1,
	StatusBuilding:   2,
	StatusLive:       3,
}

// Valid reports whether s is a known lifecycle stage.
func (s ProjectStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Before reports whether s comes earlier in the lifecycle than other.
// Unknown statuses compare as earliest.
func (s ProjectStatus) Before(other ProjectStatus) bool {
	return statusRank[s] < statusRank[other]
}

// Project is a named venture under validation, owned by exactly one user.
type Project struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	Name      string        `json:"name"`
	Niche     string        `json:"niche"`
	Status    ProjectStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ProjectPatch carries a merge-patch update for a project.
// Nil fields are left untouched.
type ProjectPatch struct {
	Name   *string        `json:"name,omitempty"`
	Niche  *string        `json:"niche,omitempty"`
	Status *ProjectStatus `json:"status,omitempty"`
}
