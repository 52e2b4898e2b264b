// Package backend defines the client core's view of the backing service:
// credential exchange, policy-checked row access, and object storage. The
// transport behind the interface is deliberately opaque.
package backend

import (
	"context"
	"time"

	"github.com/smirnovds/townsquare/internal/model"
)

// Session is the token pair a credential exchange yields. Only the session
// manager ever holds one; repositories and controllers see identities, not
// tokens.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	UserID       string
}

// Image folders recognized by the object store.
const (
	FolderNews     = "news"
	FolderEvents   = "events"
	FolderProfiles = "profiles"
)

// Client is the backing-service contract. Every call that touches rows or
// objects carries the caller's access token; the backend resolves it to an
// identity and evaluates the row policy itself. An expired or invalid token
// surfaces as common.ErrSessionExpired from any method.
type Client interface {
	SignUp(ctx context.Context, email, password, name string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	GetIdentity(ctx context.Context, accessToken, id string) (*model.Identity, error)

	ListNews(ctx context.Context, accessToken string, limit, offset int) ([]model.News, error)
	GetNews(ctx context.Context, accessToken, id string) (*model.News, error)
	InsertNews(ctx context.Context, accessToken string, article *model.News) (*model.News, error)
	UpdateNews(ctx context.Context, accessToken string, article *model.News) (*model.News, error)
	DeleteNews(ctx context.Context, accessToken, id string) error

	ListEvents(ctx context.Context, accessToken string, limit, offset int) ([]model.Event, error)
	ListUpcomingEvents(ctx context.Context, accessToken string, limit int) ([]model.Event, error)
	GetEvent(ctx context.Context, accessToken, id string) (*model.Event, error)
	InsertEvent(ctx context.Context, accessToken string, event *model.Event) (*model.Event, error)
	UpdateEvent(ctx context.Context, accessToken string, event *model.Event) (*model.Event, error)
	DeleteEvent(ctx context.Context, accessToken, id string) error

	UploadImage(ctx context.Context, accessToken, folder string, blob *model.ImageBlob) (string, error)
	// DeleteImage is best-effort; implementations log failure and return nil
	// wherever possible so cleanup never fails the owning mutation.
	DeleteImage(ctx context.Context, accessToken, locator string) error
}
