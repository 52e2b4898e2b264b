package news

import (
	"context"

	"github.com/smirnovds/townsquare/internal/model"
)

type Repository interface {
	List(ctx context.Context, limit, offset int) ([]model.News, error)
	GetByID(ctx context.Context, id string) (*model.News, error)
	Insert(ctx context.Context, article *model.News) (*model.News, error)
	Update(ctx context.Context, article *model.News) (*model.News, error)
	Delete(ctx context.Context, id string) error
}
