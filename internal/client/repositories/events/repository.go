// Package events is the client-side façade for community events. It shares
// the news façade's contract plus the temporal guard: an event date in the
// past is rejected before any upload or row write.
package events

import (
	"context"
	"errors"
	"fmt"
	"time"

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
	now    func() time.Time
}

func NewRepository(client backend.Client, tokens session.TokenSource, logger logging.Logger) *Repository {
	return &Repository{
		client: client,
		tokens: tokens,
		logger: logger.With("repository", "events"),
		now:    time.Now,
	}
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]model.Event, error) {
	r.logger.Debug(ctx, "listing events", "limit", limit, "offset", offset)

	token, err := r.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	items, err := r.client.ListEvents(ctx, token, limit, offset)
	if err != nil {
		r.logger.Error(ctx, "list failed", "error", err)
		return nil, r.funnel(err, "view events")
	}
	return items, nil
}

// ListUpcoming is always the first page of the future: soonest first,
// capped at limit, no offset.
func (r *Repository) ListUpcoming(ctx context.Context, limit int) ([]model.Event, error) {
	token, err := r.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	items, err := r.client.ListUpcomingEvents(ctx, token, limit)
	if err != nil {
		r.logger.Error(ctx, "upcoming list failed", "error", err)
		return nil, r.funnel(err, "view events")
	}
	return items, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	token, err := r.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	item, err := r.client.GetEvent(ctx, token, id)
	if err != nil {
		return nil, r.funnel(err, "view events")
	}
	return item, nil
}

// Create fails fast on a past event date or an invalid image: zero network
// writes happen in that case. The image upload gates the row insert.
func (r *Repository) Create(ctx context.Context, in model.EventInput) (*model.Event, error) {
	r.logger.Info(ctx, "creating event", "title", in.Title)

	token, err := r.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(r.now()); err != nil {
		return nil, err
	}
	if in.Image != nil {
		if err := in.Image.Validate(); err != nil {
			return nil, err
		}
	}

	var imageURL string
	if in.Image != nil {
		imageURL, err = r.client.UploadImage(ctx, token, backend.FolderEvents, in.Image)
		if err != nil {
			r.logger.Error(ctx, "image upload failed", "error", err)
			return nil, r.funnel(err, "create events")
		}
	}

	created, err := r.client.InsertEvent(ctx, token, &model.Event{
		Title:       in.Title,
		Description: in.Description,
		EventDate:   in.EventDate,
		EventTime:   in.EventTime,
		Location:    in.Location,
		ImageURL:    imageURL,
	})
	if err != nil {
		r.logger.Error(ctx, "create failed", "title", in.Title, "error", err)
		return nil, r.funnel(err, "create events")
	}

	r.logger.Info(ctx, "event created", "id", created.ID)
	return created, nil
}

func (r *Repository) Update(ctx context.Context, id string, in model.EventInput) (*model.Event, error) {
	r.logger.Info(ctx, "updating event", "id", id)

	token, err := r.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := r.client.GetEvent(ctx, token, id)
	if err != nil {
		return nil, r.funnel(err, "update events")
	}

	if in.Title == "" || in.Description == "" || in.Location == "" {
		return nil, fmt.Errorf("%w: title, description and location are required", common.ErrorValidation)
	}
	if in.Image != nil {
		if err := in.Image.Validate(); err != nil {
			return nil, err
		}
	}

	imageURL := existing.ImageURL
	if in.Image != nil {
		imageURL, err = r.client.UploadImage(ctx, token, backend.FolderEvents, in.Image)
		if err != nil {
			r.logger.Error(ctx, "image upload failed", "id", id, "error", err)
			return nil, r.funnel(err, "update events")
		}
	}

	updated, err := r.client.UpdateEvent(ctx, token, &model.Event{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		EventDate:   in.EventDate,
		EventTime:   in.EventTime,
		Location:    in.Location,
		ImageURL:    imageURL,
	})
	if err != nil {
		r.logger.Error(ctx, "update failed", "id", id, "error", err)
		return nil, r.funnel(err, "update events")
	}

	if in.Image != nil && existing.ImageURL != "" {
		if err := r.client.DeleteImage(ctx, token, existing.ImageURL); err != nil {
			r.logger.Warn(ctx, "old image cleanup failed", "locator", existing.ImageURL, "error", err)
		}
	}

	r.logger.Info(ctx, "event updated", "id", id)
	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	r.logger.Info(ctx, "deleting event", "id", id)

	token, err := r.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}

	existing, err := r.client.GetEvent(ctx, token, id)
	if err != nil {
		return r.funnel(err, "delete events")
	}

	if existing.ImageURL != "" {
		if err := r.client.DeleteImage(ctx, token, existing.ImageURL); err != nil {
			r.logger.Warn(ctx, "image cleanup failed", "locator", existing.ImageURL, "error", err)
		}
	}

	if err := r.client.DeleteEvent(ctx, token, id); err != nil {
		r.logger.Error(ctx, "delete failed", "id", id, "error", err)
		return r.funnel(err, "delete events")
	}

	r.logger.Info(ctx, "event deleted", "id", id)
	return nil
}

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
