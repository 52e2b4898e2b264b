package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/smirnovds/townsquare/internal/common"
	"github.com/smirnovds/townsquare/internal/model"
	"github.com/smirnovds/townsquare/internal/server/policy"
	identitiesrepo "github.com/smirnovds/townsquare/internal/server/repositories/identities"
	"github.com/smirnovds/townsquare/internal/server/repositories/repomanager"
)

// authorizeActor resolves the acting identity and checks the rule set for
// (table, op). A missing profile row is a permission failure, not a
// not-found: the caller is authenticated but cannot act.
func authorizeActor(ctx context.Context, identities identitiesrepo.Repository, actorID string, table policy.Table, op policy.Operation) (*model.Identity, error) {
	if actorID == "" {
		return nil, common.ErrorPermissionDenied
	}
	identity, err := identities.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorPermissionDenied
		}
		return nil, fmt.Errorf("identity lookup: %w", err)
	}
	if !policy.Allows(table, op, identity.Role) {
		return nil, common.ErrorPermissionDenied
	}
	return identity, nil
}

// ContentService performs row access for news and events behind the policy
// layer. The acting identity's role is read from the identities table on
// every write, never taken from a client-supplied claim.
type ContentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewContentService(db *sql.DB, m repomanager.RepositoryManager) *ContentService {
	return &ContentService{db: db, repomanager: m}
}

func (s *ContentService) authorize(ctx context.Context, actorID string, table policy.Table, op policy.Operation) (*model.Identity, error) {
	return authorizeActor(ctx, s.repomanager.Identities(s.db), actorID, table, op)
}

// --- news ---

func (s *ContentService) ListNews(ctx context.Context, actorID string, limit, offset int) ([]model.News, error) {
	if _, err := s.authorize(ctx, actorID, policy.TableNews, policy.OpSelect); err != nil {
		return nil, err
	}
	return s.repomanager.News(s.db).List(ctx, limit, offset)
}

func (s *ContentService) GetNews(ctx context.Context, actorID, id string) (*model.News, error) {
	if _, err := s.authorize(ctx, actorID, policy.TableNews, policy.OpSelect); err != nil {
		return nil, err
	}
	return s.repomanager.News(s.db).GetByID(ctx, id)
}

func (s *ContentService) CreateNews(ctx context.Context, actorID string, article *model.News) (*model.News, error) {
	identity, err := s.authorize(ctx, actorID, policy.TableNews, policy.OpInsert)
	if err != nil {
		return nil, err
	}
	if article.Title == "" || article.Content == "" {
		return nil, fmt.Errorf("%w: title and content are required", common.ErrorValidation)
	}
	article.AuthorID = &identity.ID
	return s.repomanager.News(s.db).Insert(ctx, article)
}

func (s *ContentService) UpdateNews(ctx context.Context, actorID string, article *model.News) (*model.News, error) {
	if _, err := s.authorize(ctx, actorID, policy.TableNews, policy.OpUpdate); err != nil {
		return nil, err
	}
	if article.Title == "" || article.Content == "" {
		return nil, fmt.Errorf("%w: title and content are required", common.ErrorValidation)
	}
	return s.repomanager.News(s.db).Update(ctx, article)
}

func (s *ContentService) DeleteNews(ctx context.Context, actorID, id string) error {
	if _, err := s.authorize(ctx, actorID, policy.TableNews, policy.OpDelete); err != nil {
		return err
	}
	return s.repomanager.News(s.db).Delete(ctx, id)
}

// --- events ---

func (s *ContentService) ListEvents(ctx context.Context, actorID string, limit, offset int) ([]model.Event, error) {
	if _, err := s.authorize(ctx, actorID, policy.TableEvents, policy.OpSelect); err != nil {
		return nil, err
	}
	return s.repomanager.Events(s.db).List(ctx, limit, offset)
}

func (s *ContentService) ListUpcomingEvents(ctx context.Context, actorID string, limit int) ([]model.Event, error) {
	if _, err := s.authorize(ctx, actorID, policy.TableEvents, policy.OpSelect); err != nil {
		return nil, err
	}
	return s.repomanager.Events(s.db).ListUpcoming(ctx, limit, startOfToday())
}

func (s *ContentService) GetEvent(ctx context.Context, actorID, id string) (*model.Event, error) {
	if _, err := s.authorize(ctx, actorID, policy.TableEvents, policy.OpSelect); err != nil {
		return nil, err
	}
	return s.repomanager.Events(s.db).GetByID(ctx, id)
}

func (s *ContentService) CreateEvent(ctx context.Context, actorID string, event *model.Event) (*model.Event, error) {
	identity, err := s.authorize(ctx, actorID, policy.TableEvents, policy.OpInsert)
	if err != nil {
		return nil, err
	}
	if err := validateEventRow(event); err != nil {
		return nil, err
	}
	event.AuthorID = &identity.ID
	return s.repomanager.Events(s.db).Insert(ctx, event)
}

func (s *ContentService) UpdateEvent(ctx context.Context, actorID string, event *model.Event) (*model.Event, error) {
	if _, err := s.authorize(ctx, actorID, policy.TableEvents, policy.OpUpdate); err != nil {
		return nil, err
	}
	if event.Title == "" || event.Description == "" || event.Location == "" {
		return nil, fmt.Errorf("%w: title, description and location are required", common.ErrorValidation)
	}
	return s.repomanager.Events(s.db).Update(ctx, event)
}

func (s *ContentService) DeleteEvent(ctx context.Context, actorID, id string) error {
	if _, err := s.authorize(ctx, actorID, policy.TableEvents, policy.OpDelete); err != nil {
		return err
	}
	return s.repomanager.Events(s.db).Delete(ctx, id)
}

// validateEventRow re-checks on the server what the client validated before
// uploading anything: a creation date in the past never reaches the table.
func validateEventRow(event *model.Event) error {
	if event.Title == "" || event.Description == "" || event.Location == "" {
		return fmt.Errorf("%w: title, description and location are required", common.ErrorValidation)
	}
	if event.EventDate.Before(startOfToday()) {
		return fmt.Errorf("%w: event date cannot be in the past", common.ErrorValidation)
	}
	return nil
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
