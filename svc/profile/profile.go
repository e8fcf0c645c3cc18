package profile

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the local, role-tagged record describing an identity.
type Profile struct {
	ID              uuid.UUID      `json:"id"`
	Role            Role           `json:"role"`
	DisplayName     string         `json:"display_name"`
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	Phone           *string        `json:"phone"`
	IsActive        bool           `json:"is_active"`
	LastLogin       *time.Time     `json:"last_login"`
	SpecializedData map[string]any `json:"specialized_data"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Patch holds the mutable fields of a profile. Nil fields are left as is;
// SpecializedData is merged key by key into the stored object.
type Patch struct {
	DisplayName     *string
	FirstName       *string
	LastName        *string
	Phone           *string
	SpecializedData map[string]any
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.DisplayName == nil && p.FirstName == nil && p.LastName == nil &&
		p.Phone == nil && len(p.SpecializedData) == 0
}
