// Package news provides the PostgreSQL-backed repository for news articles.
// Ordering is server-side: newest first by created_at.
package news

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

func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]model.News, error) {
	query :=
		`SELECT id, title, content, summary, image_url, author_id, created_at, updated_at FROM news
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2
		 `

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []model.News
	for rows.Next() {
		item, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*model.News, error) {
	query :=
		`SELECT id, title, content, summary, image_url, author_id, created_at, updated_at FROM news
		 WHERE id = $1
		 `

	item, err := scanNewsRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, article *model.News) (*model.News, error) {
	query :=
		`INSERT INTO news (title, content, summary, image_url, author_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		article.Title, article.Content, nullable(article.Summary), nullable(article.ImageURL), article.AuthorID).
		Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return article, nil
}

// Update rewrites the payload columns; updated_at is stamped by a trigger,
// never supplied by the caller.
func (r *PostgresRepository) Update(ctx context.Context, article *model.News) (*model.News, error) {
	query :=
		`UPDATE news SET title = $2, content = $3, summary = $4, image_url = $5
		 WHERE id = $1
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		article.ID, article.Title, article.Content, nullable(article.Summary), nullable(article.ImageURL)).
		Scan(&article.CreatedAt, &article.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return article, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM news WHERE id = $1`, id)
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

// scanNews decodes one row, failing closed: a missing or mistyped required
// column surfaces as an error rather than a zero value.
func scanNews(s rowScanner) (*model.News, error) {
	var (
		item     model.News
		summary  sql.NullString
		imageURL sql.NullString
		authorID sql.NullString
	)
	if err := s.Scan(&item.ID, &item.Title, &item.Content, &summary, &imageURL,
		&authorID, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	item.Summary = summary.String
	item.ImageURL = imageURL.String
	if authorID.Valid {
		item.AuthorID = &authorID.String
	}
	return &item, nil
}

func scanNewsRow(row *sql.Row) (*model.News, error) {
	item, err := scanNews(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
