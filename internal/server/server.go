// Package server defines the Server struct that composes the app's main
// dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger service
//   - the database Manager and the repositories built on it
//   - the http.Server, when one is set up
//
// Start connects and ensures indexes, Serve runs the HTTP server and
// Shutdown stops everything in reverse order.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/go-signup/internal/config"
	"github.com/deppfellow/go-signup/internal/database"
	"github.com/deppfellow/go-signup/internal/database/memory"
	"github.com/deppfellow/go-signup/internal/database/mongodb"
	"github.com/deppfellow/go-signup/internal/repository"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/go-signup/internal/logger"
)

// Server is the application container that holds shared resources.
type Server struct {
	Config *config.Config
	Logger *zerolog.Logger

	// LoggerService may be nil when the caller manages the logger itself.
	LoggerService *loggerPkg.LoggerService

	DB           *database.Manager
	Repositories *repository.Repositories

	httpServer *http.Server
}

type options struct {
	registry *database.Registry
	dialer   database.Dialer
}

// Option customizes how New wires the container.
type Option func(*options)

// WithRegistry makes New take the Manager from r instead of the
// process-wide registry.
func WithRegistry(r *database.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithDialer overrides the dialer picked from database.driver.
func WithDialer(dial database.Dialer) Option {
	return func(o *options) {
		o.dialer = dial
	}
}

// New constructs a Server. It does not connect; see Start.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService, opts ...Option) (*Server, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	dial := o.dialer
	if dial == nil {
		var err error
		if dial, err = newDialer(&cfg.Database); err != nil {
			return nil, err
		}
	}

	managerOpts := []database.Option{
		database.WithDialer(dial),
		database.WithLogger(logger),
		database.WithIndexWidth(cfg.Database.IndexWidth),
	}

	var (
		db  *database.Manager
		err error
	)
	if o.registry != nil {
		db, err = o.registry.Instance(cfg.Database.Name, managerOpts...)
	} else {
		db, err = database.Instance(cfg.Database.Name, managerOpts...)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
		Repositories:  repository.NewRepositories(db, cfg),
	}, nil
}

func newDialer(cfg *config.DatabaseConfig) (database.Dialer, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		return mongodb.NewDialer(cfg), nil
	case config.DriverMemory:
		return memory.NewServer().Dial, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// Start connects to the database and ensures the indexes every repository
// relies on.
func (s *Server) Start(ctx context.Context) error {
	s.Logger.Info().
		Str("driver", s.Config.Database.Driver).
		Str("database", s.Config.Database.Name).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	if err := s.DB.Connect(ctx); err != nil {
		return err
	}

	if err := s.Repositories.Users.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to ensure indexes: %w", err)
	}

	return nil
}

// SetupHTTPServer configures the HTTP server around handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Serve runs the HTTP server until Shutdown. It requires SetupHTTPServer.
func (s *Server) Serve() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("serving HTTP")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server, if any, disconnects from the database and
// closes the log file.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if err := s.DB.Disconnect(ctx); err != nil {
		return err
	}

	if s.LoggerService != nil {
		if err := s.LoggerService.Shutdown(); err != nil {
			return fmt.Errorf("failed to close log output: %w", err)
		}
	}

	return nil
}
