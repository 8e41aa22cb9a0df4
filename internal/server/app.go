// Package server initializes and runs the auth service: it opens the
// database, applies migrations, wires the service graph, and runs the HTTP
// shell plus the background reset-token sweeper until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dsmirnov/authd/internal/logging"
	"github.com/dsmirnov/authd/internal/server/api"
	"github.com/dsmirnov/authd/internal/server/auth"
	"github.com/dsmirnov/authd/internal/server/config"
	"github.com/dsmirnov/authd/internal/server/notify"
	"github.com/dsmirnov/authd/internal/server/repositories/repomanager"
	"github.com/dsmirnov/authd/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	authService *services.AuthService
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxDBConnections)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	var notifier notify.Notifier
	if cfg.SMTPHost != "" {
		notifier = notify.NewEmailNotifier(cfg, logger)
	} else {
		notifier = notify.NewLogNotifier(logger)
	}

	as := services.NewAuthService(db, rm, auth.NewArgon2idHasher(), notifier, logger, cfg)

	return &App{config: cfg, logger: logger, db: db, authService: as}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := api.NewServer(app.config.EndpointAddrHTTP, app.logger, app.authService)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// startResetTokenSweeper periodically removes expired password-reset tokens.
func (app *App) startResetTokenSweeper(ctx context.Context) {
	interval := app.config.ResetTokenPurgeInterval
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.authService.PurgeExpiredResetTokens(ctx)
			if err != nil {
				app.logger.Warn(ctx, "reset token purge failed", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "purged expired reset tokens", "count", n)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startResetTokenSweeper(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close failed", "error", err)
	}
}
