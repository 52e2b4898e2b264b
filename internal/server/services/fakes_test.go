package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	"github.com/smirnovds/townsquare/internal/dbx"
	"github.com/smirnovds/townsquare/internal/model"
	"github.com/smirnovds/townsquare/internal/server/config"
	"github.com/smirnovds/townsquare/internal/server/models"
	eventsrepo "github.com/smirnovds/townsquare/internal/server/repositories/events"
	identitiesrepo "github.com/smirnovds/townsquare/internal/server/repositories/identities"
	newsrepo "github.com/smirnovds/townsquare/internal/server/repositories/news"
	refreshtokensrepo "github.com/smirnovds/townsquare/internal/server/repositories/refreshtokens"
	usersrepo "github.com/smirnovds/townsquare/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret",
		BcryptCost:      bcrypt.MinCost,
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 2 * time.Hour,
	}
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(h)
}

// --- fake repositories ---

type fakeUsersRepo struct {
	createErr error

	getOut *models.User
	getErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := *u
	out.CreatedAt = time.Now()
	return &out, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeIdentitiesRepo struct {
	provisioned  []string
	provisionErr error

	getOut *model.Identity
	getErr error

	updateErr error
}

func (f *fakeIdentitiesRepo) Provision(ctx context.Context, id, email, name string) error {
	if f.provisionErr != nil {
		return f.provisionErr
	}
	f.provisioned = append(f.provisioned, id)
	return nil
}

func (f *fakeIdentitiesRepo) GetByID(ctx context.Context, id string) (*model.Identity, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeIdentitiesRepo) UpdateName(ctx context.Context, id, name string) error {
	return f.updateErr
}

type fakeRefreshRepo struct {
	created   []string
	createErr error

	findOut *models.RefreshToken
	findErr error

	deleted []string
	delErr  error
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, token)
	return nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, token)
	return nil
}

func (f *fakeRefreshRepo) DeleteForUser(ctx context.Context, userID string) error {
	return nil
}

type fakeNewsRepo struct {
	listOut []model.News
	getOut  *model.News
	err     error

	inserted *model.News
	updated  *model.News
	deleted  []string
}

func (f *fakeNewsRepo) List(ctx context.Context, limit, offset int) ([]model.News, error) {
	return f.listOut, f.err
}
func (f *fakeNewsRepo) GetByID(ctx context.Context, id string) (*model.News, error) {
	return f.getOut, f.err
}
func (f *fakeNewsRepo) Insert(ctx context.Context, article *model.News) (*model.News, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inserted = article
	return article, nil
}
func (f *fakeNewsRepo) Update(ctx context.Context, article *model.News) (*model.News, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updated = article
	return article, nil
}
func (f *fakeNewsRepo) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeEventsRepo struct {
	listOut []model.Event
	getOut  *model.Event
	err     error

	inserted *model.Event
	updated  *model.Event
	deleted  []string
	from     time.Time
}

func (f *fakeEventsRepo) List(ctx context.Context, limit, offset int) ([]model.Event, error) {
	return f.listOut, f.err
}
func (f *fakeEventsRepo) ListUpcoming(ctx context.Context, limit int, from time.Time) ([]model.Event, error) {
	f.from = from
	return f.listOut, f.err
}
func (f *fakeEventsRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	return f.getOut, f.err
}
func (f *fakeEventsRepo) Insert(ctx context.Context, event *model.Event) (*model.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inserted = event
	return event, nil
}
func (f *fakeEventsRepo) Update(ctx context.Context, event *model.Event) (*model.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updated = event
	return event, nil
}
func (f *fakeEventsRepo) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeRepoManager vends the fakes regardless of the DBTX it is handed.
type fakeRepoManager struct {
	users      *fakeUsersRepo
	identities *fakeIdentitiesRepo
	refresh    *fakeRefreshRepo
	news       *fakeNewsRepo
	events     *fakeEventsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:      &fakeUsersRepo{},
		identities: &fakeIdentitiesRepo{},
		refresh:    &fakeRefreshRepo{},
		news:       &fakeNewsRepo{},
		events:     &fakeEventsRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository          { return m.users }
func (m *fakeRepoManager) Identities(dbx.DBTX) identitiesrepo.Repository {
	return m.identities
}
func (m *fakeRepoManager) News(dbx.DBTX) newsrepo.Repository     { return m.news }
func (m *fakeRepoManager) Events(dbx.DBTX) eventsrepo.Repository { return m.events }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokensrepo.Repository {
	return m.refresh
}
