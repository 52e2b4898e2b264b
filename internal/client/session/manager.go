// Package session owns the credential and session lifecycle on the client:
// it validates credentials, exchanges them for tokens, persists and
// restores sessions, and is the single writer of the local secret store.
package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/smirnovds/townsquare/internal/client/backend"
	"github.com/smirnovds/townsquare/internal/client/secrets"
	"github.com/smirnovds/townsquare/internal/common"
	"github.com/smirnovds/townsquare/internal/logging"
	"github.com/smirnovds/townsquare/internal/model"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[A-Za-z]{2,}$`)

const minPasswordLength = 8

// TokenSource hands repositories a live access token without exposing the
// session itself. A transparent refresh happens here when the access token
// has lapsed but a refresh token is still held.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// RetryPolicy bounds the profile-provisioning poll after sign-up.
// Provisioning is asynchronous server-side, so the freshly created profile
// row may trail the auth record by a few hundred milliseconds.
type RetryPolicy struct {
	MaxAttempts uint64
	BaseDelay   time.Duration
}

// DefaultRetryPolicy: 5 attempts, linearly increasing waits from 300ms.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 5, BaseDelay: 300 * time.Millisecond}

// Manager is the credential & session manager.
type Manager struct {
	client backend.Client
	store  secrets.Repository
	logger logging.Logger
	retry  RetryPolicy
	now    func() time.Time

	mu       sync.RWMutex
	session  *backend.Session
	identity *model.Identity
}

func NewManager(client backend.Client, store secrets.Repository, logger logging.Logger) *Manager {
	return &Manager{
		client: client,
		store:  store,
		logger: logger.With("component", "session"),
		retry:  DefaultRetryPolicy,
		now:    time.Now,
	}
}

// SignUp validates the credentials locally, creates the auth record, then
// polls for the auto-provisioned profile with bounded linear backoff.
// Exhausting the poll reports ErrorProvisioningTimeout; the auth record
// exists at that point, and a retried sign-up resumes it server-side.
func (m *Manager) SignUp(ctx context.Context, email, password, name string) (*model.Identity, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: display name is required", common.ErrorValidation)
	}

	m.logger.Info(ctx, "signing up", "email", email)

	sess, err := m.client.SignUp(ctx, email, password, name)
	if err != nil {
		return nil, err
	}

	identity, err := m.awaitProvisionedIdentity(ctx, sess)
	if err != nil {
		m.logger.Error(ctx, "profile provisioning did not complete", "email", email, "error", err)
		return nil, err
	}

	if err := m.storeSession(ctx, sess, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// SignIn exchanges credentials for a session and loads the profile row.
// Malformed email fails locally; any credential mismatch surfaces as the
// single generic invalid-credentials failure.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*model.Identity, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	m.logger.Info(ctx, "signing in", "email", email)

	sess, err := m.client.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	identity, err := m.client.GetIdentity(ctx, sess.AccessToken, sess.UserID)
	if err != nil {
		return nil, err
	}

	if err := m.storeSession(ctx, sess, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// SignOut invalidates the remote session and purges local state. It is
// idempotent: with no live session it is a no-op. The in-memory identity is
// dropped even when the remote invalidation fails.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	sess := m.session
	m.session = nil
	m.identity = nil
	m.mu.Unlock()

	var remoteErr error
	if sess != nil && sess.RefreshToken != "" {
		remoteErr = m.client.SignOut(ctx, sess.RefreshToken)
	}

	if err := m.store.Clear(ctx); err != nil {
		m.logger.Error(ctx, "failed to purge persisted tokens", "error", err)
		if remoteErr == nil {
			remoteErr = err
		}
	}

	if remoteErr != nil {
		return fmt.Errorf("sign-out incomplete: %w", remoteErr)
	}
	return nil
}

// CurrentIdentity returns the in-memory identity, or nil when signed out.
func (m *Manager) CurrentIdentity() *model.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity
}

// GetCurrentIdentity returns the live identity, fetching it if a session
// exists but the profile has not been loaded yet. A session that turns out
// to be dead signals ErrSessionExpired rather than reporting "nobody".
func (m *Manager) GetCurrentIdentity(ctx context.Context) (*model.Identity, error) {
	m.mu.RLock()
	identity, sess := m.identity, m.session
	m.mu.RUnlock()

	if identity != nil {
		return identity, nil
	}
	if sess == nil {
		return nil, nil
	}

	token, err := m.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	fetched, err := m.client.GetIdentity(ctx, token, sess.UserID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.identity = fetched
	m.mu.Unlock()
	return fetched, nil
}

// AccessToken returns a live access token, transparently rotating the pair
// when the access token has lapsed. With no session, or when rotation is
// impossible, it signals ErrSessionExpired.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return "", common.ErrSessionExpired
	}
	if m.now().Before(m.session.ExpiresAt) {
		return m.session.AccessToken, nil
	}
	if m.session.RefreshToken == "" {
		return "", common.ErrSessionExpired
	}

	refreshed, err := m.client.Refresh(ctx, m.session.RefreshToken)
	if err != nil {
		return "", err
	}
	m.session = refreshed
	if err := m.persistSession(ctx, refreshed); err != nil {
		m.logger.Warn(ctx, "failed to persist rotated session", "error", err)
	}
	return refreshed.AccessToken, nil
}

// Restore loads a persisted session on process start. It does not refresh
// tokens itself; it only reports whether a usable session exists (a live
// access token, or a refresh token to rotate on first use).
func (m *Manager) Restore(ctx context.Context) (bool, error) {
	access, err := m.store.Get(ctx, secrets.KeyAccessToken)
	if err != nil {
		return false, err
	}
	if len(access) == 0 {
		return false, nil
	}

	refresh, err := m.store.Get(ctx, secrets.KeyRefreshToken)
	if err != nil {
		return false, err
	}
	expiryRaw, err := m.store.Get(ctx, secrets.KeyExpiresAt)
	if err != nil {
		return false, err
	}
	identityID, err := m.store.Get(ctx, secrets.KeyIdentityID)
	if err != nil {
		return false, err
	}

	expiresAt, err := time.Parse(time.RFC3339, string(expiryRaw))
	if err != nil {
		m.logger.Warn(ctx, "persisted session is unreadable, discarding", "error", err)
		_ = m.store.Clear(ctx)
		return false, nil
	}

	sess := &backend.Session{
		AccessToken:  string(access),
		RefreshToken: string(refresh),
		ExpiresAt:    expiresAt,
		UserID:       string(identityID),
	}

	if !m.now().Before(sess.ExpiresAt) && sess.RefreshToken == "" {
		_ = m.store.Clear(ctx)
		return false, nil
	}

	m.mu.Lock()
	m.session = sess
	m.identity = nil
	m.mu.Unlock()

	m.logger.Info(ctx, "session restored", "user_id", sess.UserID)
	return true, nil
}

// Forget drops all local session state without a remote call. The expiry
// guard uses it when the backend has already declared the session dead.
func (m *Manager) Forget(ctx context.Context) {
	m.mu.Lock()
	m.session = nil
	m.identity = nil
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		m.logger.Error(ctx, "failed to purge persisted tokens", "error", err)
	}
}

// --- helpers below ---

func (m *Manager) awaitProvisionedIdentity(ctx context.Context, sess *backend.Session) (*model.Identity, error) {
	var identity *model.Identity

	backoff := linearBackoff(m.retry.BaseDelay)
	err := retry.Do(ctx, retry.WithMaxRetries(m.retry.MaxAttempts-1, backoff), func(ctx context.Context) error {
		found, err := m.client.GetIdentity(ctx, sess.AccessToken, sess.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return retry.RetryableError(err)
			}
			return err
		}
		identity = found
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorProvisioningTimeout
		}
		return nil, err
	}
	return identity, nil
}

// linearBackoff waits base, 2*base, 3*base, ... between attempts.
func linearBackoff(base time.Duration) retry.Backoff {
	var attempt int64
	return retry.BackoffFunc(func() (time.Duration, bool) {
		n := atomic.AddInt64(&attempt, 1)
		return time.Duration(n) * base, false
	})
}

func (m *Manager) storeSession(ctx context.Context, sess *backend.Session, identity *model.Identity) error {
	m.mu.Lock()
	m.session = sess
	m.identity = identity
	m.mu.Unlock()

	return m.persistSession(ctx, sess)
}

func (m *Manager) persistSession(ctx context.Context, sess *backend.Session) error {
	pairs := map[string][]byte{
		secrets.KeyAccessToken:  []byte(sess.AccessToken),
		secrets.KeyRefreshToken: []byte(sess.RefreshToken),
		secrets.KeyExpiresAt:    []byte(sess.ExpiresAt.Format(time.RFC3339)),
		secrets.KeyIdentityID:   []byte(sess.UserID),
	}
	for key, value := range pairs {
		if err := m.store.Set(ctx, key, value); err != nil {
			return fmt.Errorf("persisting session: %w", err)
		}
	}
	return nil
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: malformed email address", common.ErrorValidation)
	}
	return nil
}
