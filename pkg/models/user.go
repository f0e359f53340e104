package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an identity-linked account record. Subject is the external
// identity reference from the auth provider; users are created on first
// authenticated access and never hard-deleted except via full erasure.
type User struct {
	ID                 uuid.UUID `json:"id"`
	Subject            string    `json:"subject"`
	Email              string    `json:"email"`
	DisplayName        string    `json:"display_name"`
	OnboardingComplete bool      `json:"onboarding_complete"`
	Profile            Profile   `json:"profile"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Profile holds coarse founder-profile fields used to shape agent prompts.
type Profile struct {
	Skills      []string `json:"skills,omitempty"`
	Budget      string   `json:"budget,omitempty"`
	Constraints string   `json:"constraints,omitempty"`
}

// UserPatch carries a merge-patch update for a user.
type UserPatch struct {
	Email              *string  `json:"email,omitempty"`
	DisplayName        *string  `json:"display_name,omitempty"`
	OnboardingComplete *bool    `json:"onboarding_complete,omitempty"`
	Profile            *Profile `json:"profile,omitempty"`
}
