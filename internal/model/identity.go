// Package model contains the domain entities shared by the client core and
// the backend services: identities, news articles, events, and image blobs.
package model

import "time"

// Role is the fixed authorization role attached to an identity.
// There are exactly two roles; promotion to admin happens out of band,
// never through the client.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the authenticated profile record: the auth identity joined
// with display name and role. ID and Email are immutable after creation.
type Identity struct {
	ID        string
	Email     string
	Name      string
	Role      Role
	CreatedAt time.Time
}

// IsAdmin reports whether the identity may manage content. This is a UI
// gating convenience only; the backend re-checks the role on every write.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}
