package models

import (
	"time"
)

// Profile is the locally stored account record, kept under users:<id>
type Profile struct {
	ID        string     `json:"id" example:"8d7f1c2e-7a1b-4c55-9f0e-3b2a1d9c6e40"`
	Email     string     `json:"email" example:"ane@ehu.eus"`
	Name      string     `json:"name" example:"Ane"`
	Verified  bool       `json:"verified" example:"true"`
	Admin     bool       `json:"admin" example:"false"`
	CreatedAt *time.Time `json:"createdAt,omitempty" example:"2025-01-15T10:00:00Z"`
}

// AnonymousName is used when a profile has no name
const AnonymousName = "Anonymous"

// DisplayName falls back to AnonymousName
func (p *Profile) DisplayName() string {
	if p == nil || p.Name == "" {
		return AnonymousName
	}
	return p.Name
}

// Actor is the authenticated caller of a request. It is resolved per
// request from the bearer token and the stored profile.
type Actor struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
	Admin    bool   `json:"admin"`
}

// CanModify reports whether the actor owns authorID's content or is an admin
func (a *Actor) CanModify(authorID string) bool {
	return a != nil && (a.Admin || a.ID == authorID)
}

// AdminUserView is one row of the admin user list
type AdminUserView struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Verified  bool       `json:"verified"`
	Admin     bool       `json:"admin"`
	CreatedAt *time.Time `json:"createdAt"`
}
