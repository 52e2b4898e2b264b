// Package events provides the PostgreSQL-backed repository for community
// events. Ordering is server-side: soonest first by event_date.
package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

const eventColumns = `id, title, description, event_date, event_time, location, image_url, author_id, created_at, updated_at`

func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]model.Event, error) {
	query :=
		`SELECT ` + eventColumns + ` FROM events
		 ORDER BY event_date ASC
		 LIMIT $1 OFFSET $2
		 `

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *PostgresRepository) ListUpcoming(ctx context.Context, limit int, from time.Time) ([]model.Event, error) {
	query :=
		`SELECT ` + eventColumns + ` FROM events
		 WHERE event_date >= $2
		 ORDER BY event_date ASC
		 LIMIT $1
		 `

	rows, err := r.db.QueryContext(ctx, query, limit, from)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	query :=
		`SELECT ` + eventColumns + ` FROM events
		 WHERE id = $1
		 `

	item, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, event *model.Event) (*model.Event, error) {
	query :=
		`INSERT INTO events (title, description, event_date, event_time, location, image_url, author_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		event.Title, event.Description, event.EventDate, nullable(event.EventTime),
		event.Location, nullable(event.ImageURL), event.AuthorID).
		Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return event, nil
}

func (r *PostgresRepository) Update(ctx context.Context, event *model.Event) (*model.Event, error) {
	query :=
		`UPDATE events SET title = $2, description = $3, event_date = $4, event_time = $5, location = $6, image_url = $7
		 WHERE id = $1
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		event.ID, event.Title, event.Description, event.EventDate, nullable(event.EventTime),
		event.Location, nullable(event.ImageURL)).
		Scan(&event.CreatedAt, &event.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return event, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(s rowScanner) (*model.Event, error) {
	var (
		item      model.Event
		eventTime sql.NullString
		imageURL  sql.NullString
		authorID  sql.NullString
	)
	if err := s.Scan(&item.ID, &item.Title, &item.Description, &item.EventDate, &eventTime,
		&item.Location, &imageURL, &authorID, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	item.EventTime = eventTime.String
	item.ImageURL = imageURL.String
	if authorID.Valid {
		item.AuthorID = &authorID.String
	}
	return &item, nil
}

func collectEvents(rows *sql.Rows) ([]model.Event, error) {
	var result []model.Event
	for rows.Next() {
		item, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
