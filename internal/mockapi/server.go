// Package mockapi is a local stand-in for the Sentimenta backend. It issues
// the same access_token cookie and serves the routes the client consumes, so
// the CLI and integration tests can run without the real service.
package mockapi

import (
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"

	"github.com/sentimenta/moodsync/internal/config"
	"github.com/sentimenta/moodsync/internal/observability"
)

// Server bundles the fiber app with its data.
type Server struct {
	app     *fiber.App
	data    *Fixtures
	tokens  *TokenManager
	metrics *observability.Metrics
	logger  *zap.Logger
}

// Options configures a Server.
type Options struct {
	Config     config.MockConfig
	CookieName string
	// Data defaults to a demo data set seeded from Config credentials.
	Data    *Fixtures
	Logger  *zap.Logger
	Metrics *observability.Metrics
}

// New builds the server and registers its routes.
func New(opts Options) (*Server, error) {
	logger := observability.OrNop(opts.Logger).Named("mockapi")
	metrics := opts.Metrics
	if metrics == nil {
		metrics = observability.NewMetrics("sentimenta_mock")
	}
	cookieName := opts.CookieName
	if cookieName == "" {
		cookieName = config.DefaultCookieName
	}

	data := opts.Data
	if data == nil {
		hash, err := HashPassword(opts.Config.DemoPassword, opts.Config.BcryptCost)
		if err != nil {
			return nil, err
		}
		data = NewFixtures()
		SeedDemo(data, opts.Config.DemoEmail, hash, time.Now().UTC())
	}

	tokens := NewTokenManager(opts.Config.JWTSecret, opts.Config.AccessTokenTTLMinutes)
	s := &Server{
		app:     fiber.New(fiber.Config{DisableStartupMessage: true}),
		data:    data,
		tokens:  tokens,
		metrics: metrics,
		logger:  logger,
	}

	s.app.Use(observability.RequestLogger(logger, metrics))
	s.app.Use(errorHandlingMiddleware(logger, metrics))

	registerRoutes(s.app, routeConfig{
		Handlers: &Handlers{data: data, tokens: tokens, cookieName: cookieName, logger: logger},
		Auth:     NewAuthMiddleware(tokens, data, cookieName),
		Metrics:  metrics,
	})
	return s, nil
}

type routeConfig struct {
	Handlers *Handlers
	Auth     *AuthMiddleware
	Metrics  *observability.Metrics
}

func registerRoutes(app *fiber.App, cfg routeConfig) {
	app.Get("/api/status", cfg.Handlers.GetStatus)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	app.Post("/api/auth/login", cfg.Handlers.Login)

	app.Get("/api/user/get", cfg.Auth.Handle, cfg.Handlers.GetUser)
	app.Get("/api/moods/get", cfg.Auth.Handle, cfg.Handlers.GetMoods)
	app.Get("/api/advice", cfg.Auth.Handle, cfg.Handlers.GetAdvice)
}

// App exposes the fiber app, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Data exposes the served fixtures.
func (s *Server) Data() *Fixtures {
	return s.data
}

// Tokens exposes the token manager.
func (s *Server) Tokens() *TokenManager {
	return s.tokens
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.logger.Info("mock api listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

// Serve serves on an existing listener until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	return s.app.Listener(ln)
}

// Shutdown stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
