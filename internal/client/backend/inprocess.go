package backend

import (
	"context"
	"errors"

	"github.com/smirnovds/townsquare/internal/common"
	"github.com/smirnovds/townsquare/internal/model"
	"github.com/smirnovds/townsquare/internal/server/services"
)

// InProcess binds the Client contract directly to the backend services,
// playing the role the wire transport would play in a distributed
// deployment: it carries the access token on every call and resolves it to
// the acting identity before any row or object is touched.
type InProcess struct {
	auth    *services.AuthService
	content *services.ContentService
	media   *services.MediaService
}

func NewInProcess(auth *services.AuthService, content *services.ContentService, media *services.MediaService) *InProcess {
	return &InProcess{auth: auth, content: content, media: media}
}

// resolveActor turns an access token into a user id. Expired and malformed
// tokens both collapse into the session-expired signal: from the client's
// point of view there is no usable session either way.
func (c *InProcess) resolveActor(accessToken string) (string, error) {
	if accessToken == "" {
		return "", common.ErrSessionExpired
	}
	userID, err := c.auth.VerifyAccessToken(accessToken)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) || errors.Is(err, common.ErrInvalidToken) {
			return "", common.ErrSessionExpired
		}
		return "", err
	}
	return userID, nil
}

func (c *InProcess) SignUp(ctx context.Context, email, password, name string) (*Session, error) {
	pair, err := c.auth.Register(ctx, email, password, name)
	if err != nil {
		return nil, err
	}
	return sessionFromPair(pair), nil
}

func (c *InProcess) SignIn(ctx context.Context, email, password string) (*Session, error) {
	pair, err := c.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return sessionFromPair(pair), nil
}

func (c *InProcess) SignOut(ctx context.Context, refreshToken string) error {
	return c.auth.Logout(ctx, refreshToken)
}

func (c *InProcess) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	pair, err := c.auth.RefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrRefreshTokenExpired) {
			return nil, common.ErrSessionExpired
		}
		return nil, err
	}
	return sessionFromPair(pair), nil
}

func (c *InProcess) GetIdentity(ctx context.Context, accessToken, id string) (*model.Identity, error) {
	actorID, err := c.resolveActor(accessToken)
	if err != nil {
		return nil, err
	}
	return c.auth.GetIdentity(ctx, actorID, id)
}

func (c *InProcess) ListNews(ctx context.Context, accessToken string, limit, offset int) ([]model.News, error) {
	actorID, err := c.resolveActor(accessToken)
	if err != nil {
		return nil, err
	}
	return c.content.ListNews(ctx, actorID, limit, offset)
}

func (c *InProcess) GetNews(ctx context.Context, accessToken, id string) (*model.News, error) {
	actorID, err := c.resolveActor(accessToken)
	if err != nil {
		return nil, err
	}
	return c.content.GetNews(ctx, actorID, id)
}

func (c *InProcess) InsertNews(ctx context.Context, accessToken string, article *model.News) (*model.News, error) {
	actorID, err := c.resolveActor(accessToken)
	if err != nil {
		return nil, err
	}
	return c.content.CreateNews(ctx, actorID, article)
}

func (c *InProcess) UpdateNews(ctx context.Context, accessToken string, article *model.News) (*model.News, error) {
	actorID, err := c.resolveActor(accessToken)
	if err != nil {
		return nil, err
	}
	return c.content.UpdateNews(ctx, actorID, article)
}

func (c *InProcess) DeleteNews(ctx context.Context, accessToken, id string) error {
	actorID, err := c.resolveActor(accessToken)
	if err != nil {
		return err
	}
	return c.content.DeleteNews(ctx, actorID, id)
}

func (c *InProcess) ListEvents(ctx context.Context, accessToken string, limit, offset int) ([]model.Event, error) {
	actorID, err := c.resolveActor(accessToken)
	if err != nil {
		return nil, err
	}
	return c.content.ListEvents(ctx, actorID, limit, offset)
}

func (c *InProcess) ListUpcomingEvents(ctx context.Context, accessToken string, limit int) ([]model.Event, error) {
	actorID, err := c.resolveActor(accessToken)
	if err != nil {
		return nil, err
	}
	return c.content.ListUpcomingEvents(ctx, actorID, limit)
}

func (c *InProcess) GetEvent(ctx context.Context, accessToken, id string) (*model.Event, error) {
	actorID, err := c.resolveActor(accessToken)
	if err != nil {
		return nil, err
	}
	return c.content.GetEvent(ctx, actorID, id)
}

func (c *InProcess) InsertEvent(ctx context.Context, accessToken string, event *model.Event) (*model.Event, error) {
	actorID, err := c.resolveActor(accessToken)
	if err != nil {
		return nil, err
	}
	return c.content.CreateEvent(ctx, actorID, event)
}

func (c *InProcess) UpdateEvent(ctx context.Context, accessToken string, event *model.Event) (*model.Event, error) {
	actorID, err := c.resolveActor(accessToken)
	if err != nil {
		return nil, err
	}
	return c.content.UpdateEvent(ctx, actorID, event)
}

func (c *InProcess) DeleteEvent(ctx context.Context, accessToken, id string) error {
	actorID, err := c.resolveActor(accessToken)
	if err != nil {
		return err
	}
	return c.content.DeleteEvent(ctx, actorID, id)
}

func (c *InProcess) UploadImage(ctx context.Context, accessToken, folder string, blob *model.ImageBlob) (string, error) {
	actorID, err := c.resolveActor(accessToken)
	if err != nil {
		return "", err
	}
	return c.media.Upload(ctx, actorID, folder, blob)
}

func (c *InProcess) DeleteImage(ctx context.Context, accessToken, locator string) error {
	actorID, err := c.resolveActor(accessToken)
	if err != nil {
		return err
	}
	return c.media.Delete(ctx, actorID, locator)
}

func sessionFromPair(pair *services.TokenPair) *Session {
	return &Session{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
		UserID:       pair.UserID,
	}
}
