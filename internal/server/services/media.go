package services

import (
	"context"
	"database/sql"

	"github.com/smirnovds/townsquare/internal/model"
	"github.com/smirnovds/townsquare/internal/server/policy"
	"github.com/smirnovds/townsquare/internal/server/repositories/repomanager"
	"github.com/smirnovds/townsquare/internal/server/storage"
)

// ObjectStore is the gateway surface the media service drives.
type ObjectStore interface {
	Upload(ctx context.Context, folder storage.Folder, actorID string, blob *model.ImageBlob) (string, error)
	Delete(ctx context.Context, locator string)
}

// MediaService fronts the object store behind the same identity-resolving
// policy check as row access: the acting identity's role is read from the
// identities table per request, the folder name is validated against the
// fixed set, and object removal is reserved for admins. Client gating alone
// never decides what reaches the bucket.
type MediaService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       ObjectStore
}

func NewMediaService(db *sql.DB, m repomanager.RepositoryManager, store ObjectStore) *MediaService {
	return &MediaService{db: db, repomanager: m, store: store}
}

// Upload writes a validated blob under one of the fixed folders. Any
// authenticated identity may add objects; the folder whitelist is checked
// before the blob is even looked at.
func (s *MediaService) Upload(ctx context.Context, actorID, folder string, blob *model.ImageBlob) (string, error) {
	if _, err := authorizeActor(ctx, s.repomanager.Identities(s.db), actorID, policy.TableMedia, policy.OpInsert); err != nil {
		return "", err
	}
	f, err := storage.ParseFolder(folder)
	if err != nil {
		return "", err
	}
	return s.store.Upload(ctx, f, actorID, blob)
}

// Delete removes a stored object. Only admins may do this; for everyone
// else the object stays untouched and the call reports permission denied.
func (s *MediaService) Delete(ctx context.Context, actorID, locator string) error {
	if _, err := authorizeActor(ctx, s.repomanager.Identities(s.db), actorID, policy.TableMedia, policy.OpDelete); err != nil {
		return err
	}
	s.store.Delete(ctx, locator)
	return nil
}
