package token

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SC0R9I0N/qr-class-manager/internal/core"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

var _ oauth2.TokenSource = (*Manager)(nil)

// Status describes the locally held session for display purposes.
type Status struct {
	LoggedIn   bool
	CanRefresh bool
	Expired    bool
	ExpiresAt  time.Time
	Claims     *Claims
}

// Manager is the single owner of the token lifecycle: it answers "give me
// a currently valid identity token", refreshing once through the identity
// provider when the stored one has expired.
type Manager struct {
	store    core.TokenStore
	provider core.IdentityProvider
	metrics  core.Recorder
	now      func() time.Time

	// bounds Token, which has no caller context
	tokenTimeout time.Duration

	// serialises refreshes so concurrent callers never spend the same
	// refresh token twice
	mu sync.Mutex
}

const defaultTokenTimeout = 30 * time.Second

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// WithTokenTimeout bounds how long Token may spend loading or refreshing.
func WithTokenTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.tokenTimeout = d
		}
	}
}

// NewManager creates a token manager.
func NewManager(
	store core.TokenStore,
	provider core.IdentityProvider,
	m core.Recorder,
	opts ...ManagerOption,
) *Manager {
	mgr := &Manager{
		store:    store,
		provider: provider,
		metrics:  m,
		now:      time.Now,

		tokenTimeout: defaultTokenTimeout,
	}
	for _, opt := range opts {
		opt(mgr)
	}
	return mgr
}

// GetValidToken returns an identity token whose exp lies in the future.
// A valid stored token is returned without any network call. An expired one
// is refreshed exactly once; on any failure the caller gets
// ErrReauthRequired wrapping the cause and must prompt for login.
func (m *Manager) GetValidToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, err := m.store.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReauthRequired, err)
	}

	if set.IDToken != "" {
		claims, err := DecodeClaims(set.IDToken)
		if err == nil && !claims.Expired(m.now()) {
			return set.IDToken, nil
		}
		if err != nil {
			logrus.WithError(err).Warn("Stored identity token is unreadable, treating as expired")
		}
	}

	if !set.CanRefresh() {
		return "", fmt.Errorf("%w: no refresh token held", ErrReauthRequired)
	}

	return m.refresh(ctx, set)
}

func (m *Manager) refresh(ctx context.Context, set core.TokenSet) (string, error) {
	result, err := m.provider.Refresh(ctx, set.RefreshToken)
	if err != nil {
		m.metrics.RecordTokenRefresh(false)
		logrus.WithError(err).
			WithField("provider", m.provider.Name()).
			Warn("Token refresh failed")
		return "", fmt.Errorf("%w: %v", ErrReauthRequired, err)
	}
	if result == nil || result.IDToken == "" {
		m.metrics.RecordTokenRefresh(false)
		return "", fmt.Errorf("%w: refresh returned no identity token", ErrReauthRequired)
	}

	next := core.TokenSet{
		AccessToken:  result.AccessToken,
		IDToken:      result.IDToken,
		RefreshToken: set.RefreshToken,
	}
	if result.RefreshToken != "" {
		next.RefreshToken = result.RefreshToken
	}

	if err := m.store.Save(ctx, next); err != nil {
		m.metrics.RecordTokenRefresh(false)
		return "", fmt.Errorf("%w: %v", ErrReauthRequired, err)
	}

	m.metrics.RecordTokenRefresh(true)
	logrus.WithFields(logrus.Fields{
		"provider": m.provider.Name(),
		"rotated":  result.RefreshToken != "",
	}).Info("Identity token refreshed")

	return next.IDToken, nil
}

// Login authenticates with username and password and stores the issued set.
// The stored refresh token is kept when the provider does not issue one.
func (m *Manager) Login(ctx context.Context, username, password string) (*Claims, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result, err := m.provider.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if result == nil || result.IDToken == "" {
		return nil, fmt.Errorf("%w: login returned no identity token", ErrMalformedToken)
	}

	claims, err := DecodeClaims(result.IDToken)
	if err != nil {
		return nil, err
	}

	next := core.TokenSet{
		AccessToken:  result.AccessToken,
		IDToken:      result.IDToken,
		RefreshToken: result.RefreshToken,
	}
	if next.RefreshToken == "" {
		if prev, err := m.store.Load(ctx); err == nil {
			next.RefreshToken = prev.RefreshToken
		}
	}

	if err := m.store.Save(ctx, next); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"username": username,
		"expires":  claims.ExpiresAt.Format(time.RFC3339),
	}).Info("Logged in")

	return claims, nil
}

// Logout discards every stored token.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.store.Clear(ctx)
}

// Status reports what is held locally without contacting the provider.
func (m *Manager) Status(ctx context.Context) (*Status, error) {
	set, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	status := &Status{
		LoggedIn:   set.IDToken != "",
		CanRefresh: set.CanRefresh(),
	}
	if set.IDToken == "" {
		return status, nil
	}

	claims, err := DecodeClaims(set.IDToken)
	if err != nil {
		status.Expired = true
		return status, nil
	}
	status.Claims = claims
	status.ExpiresAt = claims.ExpiresAt
	status.Expired = claims.Expired(m.now())

	return status, nil
}

// Token implements oauth2.TokenSource so a Manager can drive an
// oauth2.Transport. The identity token is presented as the bearer value.
// oauth2.TokenSource carries no context, so the load and any refresh run
// under a fresh context bounded by WithTokenTimeout. Callers holding a
// request context should use GetValidToken instead.
func (m *Manager) Token() (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(context.Background(), m.tokenTimeout)
	defer cancel()

	idToken, err := m.GetValidToken(ctx)
	if err != nil {
		return nil, err
	}

	tok := &oauth2.Token{
		AccessToken: idToken,
		TokenType:   "Bearer",
	}
	if claims, err := DecodeClaims(idToken); err == nil {
		tok.Expiry = claims.ExpiresAt
	}
	return tok, nil
}

// IsReauthRequired reports whether err means the user must log in again.
func IsReauthRequired(err error) bool {
	return errors.Is(err, ErrReauthRequired)
}
