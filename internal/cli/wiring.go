package cli

import (
	"context"
	"fmt"

	"github.com/SC0R9I0N/qr-class-manager/internal/attendance"
	"github.com/SC0R9I0N/qr-class-manager/internal/cache"
	"github.com/SC0R9I0N/qr-class-manager/internal/client"
	"github.com/SC0R9I0N/qr-class-manager/internal/config"
	"github.com/SC0R9I0N/qr-class-manager/internal/core"
	"github.com/SC0R9I0N/qr-class-manager/internal/identity"
	"github.com/SC0R9I0N/qr-class-manager/internal/metrics"
	"github.com/SC0R9I0N/qr-class-manager/internal/token"
)

const tokenCacheKeyPrefix = "qr-class-manager:tokens:"

// session bundles the collaborators every client command needs.
type session struct {
	cfg      *config.Config
	recorder core.Recorder
	provider *identity.Client
	manager  *token.Manager
	closer   func() error
}

func newSession(ctx context.Context, cfg *config.Config) (*session, error) {
	if err := cfg.ValidateIdentity(); err != nil {
		return nil, err
	}

	httpClient, err := client.NewHTTPClient(cfg.IdentityAPITimeout, cfg.IdentityInsecureSkipVerify)
	if err != nil {
		return nil, err
	}

	store, closer, err := newTokenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	recorder := metrics.NewNoopMetrics()
	provider := identity.NewClient(cfg.IdentityAPIURL, cfg.IdentityClientID, httpClient, recorder)

	return &session{
		cfg:      cfg,
		recorder: recorder,
		provider: provider,
		manager:  token.NewManager(store, provider, recorder),
		closer:   closer,
	}, nil
}

func (s *session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// newTokenStore opens the store selected by TOKEN_STORE.
func newTokenStore(ctx context.Context, cfg *config.Config) (core.TokenStore, func() error, error) {
	switch cfg.TokenStore {
	case config.TokenStoreMemory:
		c := cache.NewMemoryCache[string]()
		return token.NewCacheStore(c, cfg.TokenStoreTTL), c.Close, nil

	case config.TokenStoreRedis:
		ctx, cancel := context.WithTimeout(ctx, cfg.RedisConnTimeout)
		defer cancel()

		c, err := cache.NewRueidisCache[string](
			ctx,
			cfg.RedisAddr,
			cfg.RedisPassword,
			cfg.RedisDB,
			tokenCacheKeyPrefix+cfg.IdentityClientID+":",
		)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", token.ErrStoreUnavailable, err)
		}
		return token.NewCacheStore(c, cfg.TokenStoreTTL), c.Close, nil

	default:
		path := cfg.TokenStorePath
		if path == "" {
			path = token.DefaultFilePath()
		}
		return token.NewFileStore(path), nil, nil
	}
}

// newEngine wires the scan workflow to the attendance API.
func (s *session) newEngine(location string) (*attendance.Engine, error) {
	retryClient, err := client.CreateRetryClient(
		s.cfg.AttendanceAPITimeout,
		s.cfg.AttendanceInsecureSkipVerify,
		s.cfg.AttendanceAPIMaxRetries,
		s.cfg.AttendanceAPIRetryDelay,
		s.cfg.AttendanceAPIMaxRetryDelay,
	)
	if err != nil {
		return nil, err
	}

	if location == "" {
		location = s.cfg.ClientLocation
	}

	return attendance.NewEngine(
		s.manager,
		attendance.NewHTTPBackend(s.cfg.AttendanceAPIURL, retryClient),
		s.recorder,
		attendance.WithLocation(location),
		attendance.WithDeviceInfo(s.cfg.ClientDeviceInfo),
		attendance.WithSubmitTimeout(s.cfg.SubmitTimeout),
	), nil
}

func (s *session) newRecordsClient() (*attendance.RecordsClient, error) {
	httpClient, err := client.NewHTTPClient(
		s.cfg.AttendanceAPITimeout,
		s.cfg.AttendanceInsecureSkipVerify,
	)
	if err != nil {
		return nil, err
	}
	return attendance.NewRecordsClient(s.cfg.AttendanceAPIURL, s.manager, httpClient), nil
}
