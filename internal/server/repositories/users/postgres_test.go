package users

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/smirnovds/townsquare/internal/common"
	"github.com/smirnovds/townsquare/internal/server/models"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("user-1", "ann@example.com", "hash", "Ann").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	user := &models.User{ID: "user-1", Email: "ann@example.com", PasswordHash: "hash", Name: "Ann"}
	out, err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	require.Equal(t, now, out.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &models.User{ID: "user-1", Email: "dup@example.com"})
	require.ErrorIs(t, err, common.ErrorDuplicateEmail)
}

func TestGetByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs("ann@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "display_name", "created_at"}).
				AddRow("user-1", "ann@example.com", "hash", "Ann", now))

		user, err := repo.GetByEmail(context.Background(), "ann@example.com")
		require.NoError(t, err)
		require.Equal(t, "user-1", user.ID)
		require.Equal(t, "Ann", user.Name)
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
		require.ErrorIs(t, err, common.ErrorNotFound)
	})
}
