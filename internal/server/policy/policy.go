// Package policy is the server-enforced row-level rule set: per table and
// per operation it decides which role may act. The client mirrors a small
// part of it for UI gating, but this table is the security boundary.
package policy

import "github.com/smirnovds/townsquare/internal/model"

type Table string

const (
	TableIdentities Table = "identities"
	TableNews       Table = "news"
	TableEvents     Table = "events"
	// TableMedia covers the object-store bucket; it has no rows of its own,
	// but uploads and removals run through the same rule set.
	TableMedia Table = "media"
)

type Operation string

const (
	OpSelect Operation = "select"
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// contentWriteRoles is the allowed set for insert/update/delete on content
// tables. Reads only require an authenticated identity.
var contentWriteRoles = map[model.Role]bool{
	model.RoleAdmin: true,
}

// Allows evaluates the rule set for an authenticated identity with the
// given role. Unauthenticated callers are rejected before this point.
func Allows(table Table, op Operation, role model.Role) bool {
	switch table {
	case TableNews, TableEvents:
		if op == OpSelect {
			return true
		}
		return contentWriteRoles[role]
	case TableIdentities:
		// Self-only access is enforced by the repositories keying on the
		// acting user id; role-wise every identity may read and update its
		// own row (the role column itself is never client-writable) and
		// insert happens exactly once via the provisioning path.
		return op == OpSelect || op == OpUpdate
	case TableMedia:
		// Objects are public-read and any authenticated identity may write
		// new ones (the profiles folder exists for avatars); replacing or
		// removing what is already stored stays with admins.
		if op == OpSelect || op == OpInsert {
			return true
		}
		return contentWriteRoles[role]
	default:
		return false
	}
}
