package identities

import (
	"context"

	"github.com/smirnovds/townsquare/internal/model"
)

type Repository interface {
	// Provision inserts the profile row for a new auth record. It is
	// idempotent: a second call for the same id is a no-op, which gives
	// interrupted sign-ups a resume path.
	Provision(ctx context.Context, id, email, name string) error

	GetByID(ctx context.Context, id string) (*model.Identity, error)

	// UpdateName changes the display name of the caller's own row. The role
	// column is intentionally not reachable from any repository method.
	UpdateName(ctx context.Context, id, name string) error
}
