// Package server wires the posting service together: configuration, logging,
// the PostgreSQL pool and migrations, the core services and the gRPC
// endpoint, plus signal-driven shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/antirev/internal/common"
	"github.com/dmitrijs2005/antirev/internal/cryptox"
	"github.com/dmitrijs2005/antirev/internal/logging"
	"github.com/dmitrijs2005/antirev/internal/server/config"
	"github.com/dmitrijs2005/antirev/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/antirev/internal/server/services"

	gs "github.com/dmitrijs2005/antirev/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	accounts *services.AccountService
	sessions *services.SessionService
	posts    *services.PostService
}

// NewApp connects to the database, applies migrations and builds the
// services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(os.Stdout, c.LogLevel)

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	return newApp(c, logger, db, rm), nil
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) *App {
	hasher := cryptox.NewArgon2Hasher(c.HashParams())

	accounts := services.NewAccountService(db, rm, hasher, logger)
	sessions := services.NewSessionService(db, rm, accounts, logger)
	posts := services.NewPostService(db, rm, sessions, logger)

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		accounts: accounts,
		sessions: sessions,
		posts:    posts,
	}
}

// seed creates the configured bootstrap account unless it already exists.
func (app *App) seed(ctx context.Context) error {
	if app.config.SeedUsername == "" {
		return nil
	}

	_, err := app.accounts.CreateAccount(ctx, app.config.SeedUsername, app.config.SeedPassword)
	switch {
	case err == nil:
		app.logger.Info(ctx, "seed account created", "username", app.config.SeedUsername)
	case errors.Is(err, common.ErrorAlreadyExists):
		app.logger.Debug(ctx, "seed account already present", "username", app.config.SeedUsername)
	default:
		return fmt.Errorf("seeding account: %w", err)
	}
	return nil
}

// Run serves until SIGINT/SIGTERM or until ctx is cancelled, then closes
// the database pool.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error(context.Background(), "closing database", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting app...")

	if err := app.seed(ctx); err != nil {
		return err
	}

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.config.ShutdownTimeout, app.logger,
		app.accounts, app.sessions, app.posts)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC server failed", "error", err)
		return err
	}

	app.logger.Info(context.Background(), "App stopped")
	return nil
}
