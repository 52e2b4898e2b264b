package events

import (
	"context"
	"time"

	"github.com/smirnovds/townsquare/internal/model"
)

type Repository interface {
	List(ctx context.Context, limit, offset int) ([]model.Event, error)
	// ListUpcoming returns events on or after the given day, soonest first.
	// It is always the first page of the future: no offset.
	ListUpcoming(ctx context.Context, limit int, from time.Time) ([]model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	Insert(ctx context.Context, event *model.Event) (*model.Event, error)
	Update(ctx context.Context, event *model.Event) (*model.Event, error)
	Delete(ctx context.Context, id string) error
}
