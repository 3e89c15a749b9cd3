// Package app is the composition root: it owns the one session State and the
// resource containers, and wires storage, inspection, transport and sync.
package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"go.uber.org/zap"

	"github.com/sentimenta/moodsync/internal/api"
	"github.com/sentimenta/moodsync/internal/auth"
	"github.com/sentimenta/moodsync/internal/config"
	"github.com/sentimenta/moodsync/internal/credential"
	"github.com/sentimenta/moodsync/internal/datasync"
	"github.com/sentimenta/moodsync/internal/observability"
	"github.com/sentimenta/moodsync/internal/persistence"
	"github.com/sentimenta/moodsync/internal/session"
)

// App holds the wired client.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *observability.Metrics

	Client  *api.Client
	Store   *credential.JarStore
	Session *session.Synchronizer
	Data    *datasync.Service
	Auth    *auth.Authenticator

	redis *persistence.Redis
}

// Options lets tests swap pieces of the wiring.
type Options struct {
	// Jar overrides the cookie jar chosen from configuration.
	Jar       http.CookieJar
	Inspector *credential.Inspector
	Transport http.RoundTripper
}

// New wires the client. With Session.Persist the credential cookie is
// mirrored to Redis.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	logger = observability.OrNop(logger)
	site, err := cfg.API.URL()
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewMetrics("moodsync"),
	}

	jar := opts.Jar
	if jar == nil {
		jar, err = a.buildJar(ctx, cfg, site)
		if err != nil {
			return nil, err
		}
	}

	a.Client, err = api.New(api.Options{
		BaseURL:   site,
		Jar:       jar,
		Timeout:   cfg.API.RequestTimeout(),
		Logger:    logger,
		Metrics:   a.Metrics,
		Transport: opts.Transport,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Store = credential.NewJarStore(jar, site, cfg.Session.CookieName)
	a.Session = session.NewSynchronizer(a.Store, opts.Inspector, session.NewState(), logger)
	a.Data = datasync.NewService(datasync.Dependencies{
		Fetcher: a.Client,
		Session: a.Session,
		Metrics: a.Metrics,
		Logger:  logger,
	})
	a.Auth = auth.NewAuthenticator(a.Client, a.Session, logger)
	return a, nil
}

func (a *App) buildJar(ctx context.Context, cfg *config.Config, site *url.URL) (http.CookieJar, error) {
	if !cfg.Session.Persist {
		return cookiejar.New(nil)
	}
	r, err := persistence.NewRedis(ctx, cfg.Redis, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("session persistence: %w", err)
	}
	a.redis = r
	jar, err := credential.NewPersistentJar(ctx, r.Client, site, cfg.Session.CookieName, cfg.Redis.KeyPrefix, a.Logger)
	if err != nil {
		r.Close()
		return nil, err
	}
	return jar, nil
}

// Start performs the load-time synchronization.
func (a *App) Start(ctx context.Context) {
	a.Session.Refresh(ctx)
}

// SyncAll refreshes moods, advice and the user profile concurrently and
// returns the first NOT_AUTHENTICATED, if any.
func (a *App) SyncAll(ctx context.Context) error {
	ops := []func(context.Context) error{a.Data.UpdateMoods, a.Data.UpdateAdvice, a.Data.UpdateUser}
	errs := make(chan error, len(ops))
	for _, op := range ops {
		go func(op func(context.Context) error) {
			errs <- op(ctx)
		}(op)
	}
	var first error
	for range ops {
		if err := <-errs; err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close releases the Redis connection, if any.
func (a *App) Close() {
	a.redis.Close()
}
