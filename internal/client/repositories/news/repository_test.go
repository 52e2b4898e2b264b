package news

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smirnovds/townsquare/internal/client/backend"
	"github.com/smirnovds/townsquare/internal/common"
	"github.com/smirnovds/townsquare/internal/logging"
	"github.com/smirnovds/townsquare/internal/model"
)

// recordingClient records the order of backend calls so side-effect
// sequencing can be asserted.
type recordingClient struct {
	backend.Client

	calls []string

	getOut    *model.News
	getErr    error
	uploadErr error
	insertErr error
	updateErr error
	deleteErr error
	listErr   error
	imgDelErr error
}

func (c *recordingClient) ListNews(ctx context.Context, token string, limit, offset int) ([]model.News, error) {
	c.calls = append(c.calls, "list")
	if c.listErr != nil {
		return nil, c.listErr
	}
	return []model.News{{ID: "n1"}}, nil
}

func (c *recordingClient) GetNews(ctx context.Context, token, id string) (*model.News, error) {
	c.calls = append(c.calls, "get")
	if c.getErr != nil {
		return nil, c.getErr
	}
	if c.getOut != nil {
		return c.getOut, nil
	}
	return &model.News{ID: id, Title: "t", Content: "c"}, nil
}

func (c *recordingClient) InsertNews(ctx context.Context, token string, article *model.News) (*model.News, error) {
	c.calls = append(c.calls, "insert")
	if c.insertErr != nil {
		return nil, c.insertErr
	}
	out := *article
	out.ID = "n-new"
	return &out, nil
}

func (c *recordingClient) UpdateNews(ctx context.Context, token string, article *model.News) (*model.News, error) {
	c.calls = append(c.calls, "update")
	if c.updateErr != nil {
		return nil, c.updateErr
	}
	return article, nil
}

func (c *recordingClient) DeleteNews(ctx context.Context, token, id string) error {
	c.calls = append(c.calls, "delete")
	return c.deleteErr
}

func (c *recordingClient) UploadImage(ctx context.Context, token, folder string, blob *model.ImageBlob) (string, error) {
	c.calls = append(c.calls, "upload")
	if c.uploadErr != nil {
		return "", c.uploadErr
	}
	return "https://media.example.com/bucket/" + folder + "/new.jpg", nil
}

func (c *recordingClient) DeleteImage(ctx context.Context, token, locator string) error {
	c.calls = append(c.calls, "delete-image "+locator)
	return c.imgDelErr
}

type staticTokens struct {
	token string
	err   error
}

func (s *staticTokens) AccessToken(ctx context.Context) (string, error) {
	return s.token, s.err
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestRepo(client backend.Client) *Repository {
	return NewRepository(client, &staticTokens{token: "tok"}, testLogger())
}

func validInput() model.NewsInput {
	return model.NewsInput{Title: "Road closure", Content: "Main street closes Friday."}
}

func jpegBlob() *model.ImageBlob {
	return &model.ImageBlob{Filename: "a.jpg", ContentType: "image/jpeg", Data: []byte("img")}
}

func TestCreate_UploadPrecedesInsert(t *testing.T) {
	client := &recordingClient{}
	repo := newTestRepo(client)

	in := validInput()
	in.Image = jpegBlob()

	created, err := repo.Create(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, []string{"upload", "insert"}, client.calls)
	require.Contains(t, created.ImageURL, "/news/")
}

func TestCreate_FailedUploadWritesNoRow(t *testing.T) {
	client := &recordingClient{uploadErr: common.ErrorStorage}
	repo := newTestRepo(client)

	in := validInput()
	in.Image = jpegBlob()

	_, err := repo.Create(context.Background(), in)
	require.ErrorIs(t, err, common.ErrorStorage)
	require.Equal(t, []string{"upload"}, client.calls)
}

func TestCreate_OversizedImageFailsBeforeAnyCall(t *testing.T) {
	client := &recordingClient{}
	repo := newTestRepo(client)

	in := validInput()
	in.Image = &model.ImageBlob{
		Filename: "big.jpg",
		Data:     bytes.Repeat([]byte{1}, model.MaxImageSize+1),
	}

	_, err := repo.Create(context.Background(), in)
	require.ErrorIs(t, err, common.ErrorValidation)
	require.Contains(t, err.Error(), "Image size exceeds 5MB limit")
	require.Empty(t, client.calls)
}

func TestCreate_WithoutImageSkipsUpload(t *testing.T) {
	client := &recordingClient{}
	repo := newTestRepo(client)

	_, err := repo.Create(context.Background(), validInput())
	require.NoError(t, err)
	require.Equal(t, []string{"insert"}, client.calls)
}

func TestUpdate_NewImageReplacesRowBeforeOldObjectDies(t *testing.T) {
	client := &recordingClient{
		getOut: &model.News{ID: "n1", Title: "old", Content: "old", ImageURL: "https://media.example.com/bucket/news/old.jpg"},
	}
	repo := newTestRepo(client)

	in := validInput()
	in.Image = jpegBlob()

	updated, err := repo.Update(context.Background(), "n1", in)
	require.NoError(t, err)
	require.Equal(t, []string{
		"get",
		"upload",
		"update",
		"delete-image https://media.example.com/bucket/news/old.jpg",
	}, client.calls)
	require.Contains(t, updated.ImageURL, "new.jpg")
}

func TestUpdate_FailedCleanupDoesNotFailTheUpdate(t *testing.T) {
	client := &recordingClient{
		getOut:    &model.News{ID: "n1", Title: "old", Content: "old", ImageURL: "https://media.example.com/bucket/news/old.jpg"},
		imgDelErr: errors.New("object store down"),
	}
	repo := newTestRepo(client)

	in := validInput()
	in.Image = jpegBlob()

	_, err := repo.Update(context.Background(), "n1", in)
	require.NoError(t, err)
}

func TestUpdate_WithoutNewImageKeepsExistingLocator(t *testing.T) {
	client := &recordingClient{
		getOut: &model.News{ID: "n1", Title: "old", Content: "old", ImageURL: "https://media.example.com/bucket/news/keep.jpg"},
	}
	repo := newTestRepo(client)

	updated, err := repo.Update(context.Background(), "n1", validInput())
	require.NoError(t, err)
	require.Equal(t, []string{"get", "update"}, client.calls)
	require.Equal(t, "https://media.example.com/bucket/news/keep.jpg", updated.ImageURL)
}

func TestDelete_ImageCleanupPrecedesRowDelete(t *testing.T) {
	client := &recordingClient{
		getOut: &model.News{ID: "n1", ImageURL: "https://media.example.com/bucket/news/x.jpg"},
	}
	repo := newTestRepo(client)

	require.NoError(t, repo.Delete(context.Background(), "n1"))
	require.Equal(t, []string{
		"get",
		"delete-image https://media.example.com/bucket/news/x.jpg",
		"delete",
	}, client.calls)
}

func TestDelete_FailedImageCleanupStillDeletesRow(t *testing.T) {
	client := &recordingClient{
		getOut:    &model.News{ID: "n1", ImageURL: "https://media.example.com/bucket/news/x.jpg"},
		imgDelErr: errors.New("boom"),
	}
	repo := newTestRepo(client)

	require.NoError(t, repo.Delete(context.Background(), "n1"))
	require.Contains(t, client.calls, "delete")
}

func TestNoSessionSurfacesExpiry(t *testing.T) {
	repo := NewRepository(&recordingClient{}, &staticTokens{err: common.ErrSessionExpired}, testLogger())

	_, err := repo.List(context.Background(), 50, 0)
	require.ErrorIs(t, err, common.ErrSessionExpired)
}

func TestFunnel(t *testing.T) {
	client := &recordingClient{}
	repo := newTestRepo(client)

	t.Run("permission denied carries the action", func(t *testing.T) {
		client.insertErr = common.ErrorPermissionDenied
		_, err := repo.Create(context.Background(), validInput())
		require.ErrorIs(t, err, common.ErrorPermissionDenied)
		require.Contains(t, err.Error(), "You do not have permission to create news articles")
	})

	t.Run("session expiry is re-raised untouched", func(t *testing.T) {
		client.insertErr = common.ErrSessionExpired
		_, err := repo.Create(context.Background(), validInput())
		require.ErrorIs(t, err, common.ErrSessionExpired)
	})

	t.Run("unexpected errors collapse to a generic message", func(t *testing.T) {
		client.insertErr = errors.New("pq: deadlock detected")
		_, err := repo.Create(context.Background(), validInput())
		require.ErrorIs(t, err, common.ErrorInternal)
		require.NotContains(t, err.Error(), "deadlock")
	})

	t.Run("not found passes through", func(t *testing.T) {
		client.getErr = common.ErrorNotFound
		_, err := repo.GetByID(context.Background(), "gone")
		require.ErrorIs(t, err, common.ErrorNotFound)
	})
}
