// Package models holds backend-only row types that never cross the client
// boundary: the auth record and server-stored refresh tokens.
package models

import "time"

// User is the authentication record. The profile shown to clients lives in
// the identities table, provisioned from this row by a database trigger.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
}
