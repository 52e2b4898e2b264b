// Package identities provides the PostgreSQL-backed repository for profile
// rows. Row-level access is self-only: every method is keyed on the acting
// user's id.
package identities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/smirnovds/townsquare/internal/common"
	"github.com/smirnovds/townsquare/internal/dbx"
	"github.com/smirnovds/townsquare/internal/model"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Provision(ctx context.Context, id, email, name string) error {
	query :=
		`INSERT INTO identities (id, email, name, role)
		 VALUES ($1, $2, $3, 'user')
		 ON CONFLICT (id) DO NOTHING
		 `

	if _, err := r.db.ExecContext(ctx, query, id, email, name); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*model.Identity, error) {
	query :=
		`SELECT id, email, name, role, created_at FROM identities
		 WHERE id = $1
		 `

	identity := &model.Identity{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&identity.ID, &identity.Email, &identity.Name, &identity.Role, &identity.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return identity, nil
}

func (r *PostgresRepository) UpdateName(ctx context.Context, id, name string) error {
	query :=
		`UPDATE identities SET name = $2
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, name)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
