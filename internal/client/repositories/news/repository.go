// Package news is the client-side façade for news articles: validated CRUD
// against the backing store, image side effects in the order that can never
// leave a row pointing at a deleted object, and a fixed error funnel.
package news

import (
	"context"
	"errors"
	"fmt"

	"github.com/smirnovds/townsquare/internal/client/backend"
	"github.com/smirnovds/townsquare/internal/client/session"
	"github.com/smirnovds/townsquare/internal/common"
	"github.com/smirnovds/townsquare/internal/logging"
	"github.com/smirnovds/townsquare/internal/model"
)

type Repository struct {
	client backend.Client
	tokens session.TokenSource
	logger logging.Logger
}

func NewRepository(client backend.Client, tokens session.TokenSource, logger logging.Logger) *Repository {
	return &Repository{client: client, tokens: tokens, logger: logger.With("repository", "news")}
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]model.News, error) {
	r.logger.Debug(ctx, "listing articles", "limit", limit, "offset", offset)

	token, err := r.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	items, err := r.client.ListNews(ctx, token, limit, offset)
	if err != nil {
		r.logger.Error(ctx, "list failed", "error", err)
		return nil, r.funnel(err, "view news articles")
	}
	r.logger.Debug(ctx, "listed articles", "count", len(items))
	return items, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*model.News, error) {
	token, err := r.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	item, err := r.client.GetNews(ctx, token, id)
	if err != nil {
		return nil, r.funnel(err, "view news articles")
	}
	return item, nil
}

// Create uploads the image first, if any; the row insert only proceeds on
// upload success, so a failed upload leaves nothing behind.
func (r *Repository) Create(ctx context.Context, in model.NewsInput) (*model.News, error) {
	r.logger.Info(ctx, "creating article", "title", in.Title)

	token, err := r.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.Image != nil {
		if err := in.Image.Validate(); err != nil {
			return nil, err
		}
	}

	var imageURL string
	if in.Image != nil {
		imageURL, err = r.client.UploadImage(ctx, token, backend.FolderNews, in.Image)
		if err != nil {
			r.logger.Error(ctx, "image upload failed", "error", err)
			return nil, r.funnel(err, "create news articles")
		}
	}

	created, err := r.client.InsertNews(ctx, token, &model.News{
		Title:    in.Title,
		Content:  in.Content,
		Summary:  in.Summary,
		ImageURL: imageURL,
	})
	if err != nil {
		r.logger.Error(ctx, "create failed", "title", in.Title, "error", err)
		return nil, r.funnel(err, "create news articles")
	}

	r.logger.Info(ctx, "article created", "id", created.ID)
	return created, nil
}

// Update replaces the image only after the row durably references the new
// locator: upload new, update row, then best-effort delete of the old
// object. A failed cleanup can leak an orphan but never a dangling row.
func (r *Repository) Update(ctx context.Context, id string, in model.NewsInput) (*model.News, error) {
	r.logger.Info(ctx, "updating article", "id", id)

	token, err := r.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := r.client.GetNews(ctx, token, id)
	if err != nil {
		return nil, r.funnel(err, "update news articles")
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.Image != nil {
		if err := in.Image.Validate(); err != nil {
			return nil, err
		}
	}

	imageURL := existing.ImageURL
	if in.Image != nil {
		imageURL, err = r.client.UploadImage(ctx, token, backend.FolderNews, in.Image)
		if err != nil {
			r.logger.Error(ctx, "image upload failed", "id", id, "error", err)
			return nil, r.funnel(err, "update news articles")
		}
	}

	updated, err := r.client.UpdateNews(ctx, token, &model.News{
		ID:       id,
		Title:    in.Title,
		Content:  in.Content,
		Summary:  in.Summary,
		ImageURL: imageURL,
	})
	if err != nil {
		r.logger.Error(ctx, "update failed", "id", id, "error", err)
		return nil, r.funnel(err, "update news articles")
	}

	if in.Image != nil && existing.ImageURL != "" {
		if err := r.client.DeleteImage(ctx, token, existing.ImageURL); err != nil {
			r.logger.Warn(ctx, "old image cleanup failed", "locator", existing.ImageURL, "error", err)
		}
	}

	r.logger.Info(ctx, "article updated", "id", id)
	return updated, nil
}

// Delete removes the row's image best-effort before deleting the row
// itself; image removal is never a precondition.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.logger.Info(ctx, "deleting article", "id", id)

	token, err := r.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}

	existing, err := r.client.GetNews(ctx, token, id)
	if err != nil {
		return r.funnel(err, "delete news articles")
	}

	if existing.ImageURL != "" {
		if err := r.client.DeleteImage(ctx, token, existing.ImageURL); err != nil {
			r.logger.Warn(ctx, "image cleanup failed", "locator", existing.ImageURL, "error", err)
		}
	}

	if err := r.client.DeleteNews(ctx, token, id); err != nil {
		r.logger.Error(ctx, "delete failed", "id", id, "error", err)
		return r.funnel(err, "delete news articles")
	}

	r.logger.Info(ctx, "article deleted", "id", id)
	return nil
}

// funnel converts backend failures to the typed taxonomy with user-facing
// messages. ErrSessionExpired is deliberately re-raised untouched so the
// session guard sees it; unexpected errors surface a generic message only.
func (r *Repository) funnel(err error, action string) error {
	switch {
	case errors.Is(err, common.ErrSessionExpired):
		return err
	case errors.Is(err, common.ErrorPermissionDenied):
		return fmt.Errorf("%w: You do not have permission to %s", common.ErrorPermissionDenied, action)
	case errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrorStorage),
		errors.Is(err, common.ErrorUnavailable):
		return err
	default:
		return fmt.Errorf("%w: something went wrong, please try again", common.ErrorInternal)
	}
}
