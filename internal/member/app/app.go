package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	httpapi "github.com/lanternworks/memberauth/internal/member/http"
	"github.com/lanternworks/memberauth/internal/member/service"
	"github.com/lanternworks/memberauth/internal/member/session"
	"github.com/lanternworks/memberauth/internal/member/store"
	"github.com/lanternworks/memberauth/internal/member/store/drivers/postgres"
	"github.com/lanternworks/memberauth/internal/member/store/drivers/sqlite"
	"github.com/lanternworks/memberauth/pkg/jwtx"
	"github.com/lanternworks/memberauth/pkg/metricx"
	"github.com/lanternworks/memberauth/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the member auth service with all its
// dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	rdb      *redis.Client
	sessions *session.Store

	authService         *service.AuthService
	signUpService       *service.SignUpService
	verificationService *service.VerificationService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "member-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	app.initSessions()

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	metricx.Init()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("member auth service starting",
		"port", app.cfg.Port, "version", BuildVersion, "driver", app.cfg.DatabaseDriver)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down member auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.rdb.Close(); err != nil {
		app.logger.Error("error closing redis client", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("member auth service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.DatabaseDriver {
	case "postgres":
		db, err = postgres.NewStore(app.cfg.DatabaseURL)
	default:
		dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
		db, err = sqlite.NewStore(dsn)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initSessions() {
	app.rdb = redis.NewClient(&redis.Options{
		Addr:     app.cfg.RedisAddr,
		Password: app.cfg.RedisPassword,
	})
	app.sessions = session.NewStore(app.rdb, app.cfg.StoreTimeout)
}

func (app *Application) initServices() error {
	signer, err := jwtx.NewSigner([]byte(app.cfg.JWTSecret), app.cfg.JWTIssuer)
	if err != nil {
		return err
	}
	verifier, err := jwtx.NewVerifier([]byte(app.cfg.JWTSecret), app.cfg.JWTIssuer)
	if err != nil {
		return err
	}

	app.authService = &service.AuthService{
		Store:      app.db,
		Sessions:   app.sessions,
		Signer:     signer,
		Verifier:   verifier,
		AccessTTL:  app.cfg.AccessTTL,
		RefreshTTL: app.cfg.RefreshTTL,
	}
	app.signUpService = &service.SignUpService{
		Store:                app.db,
		Sessions:             app.sessions,
		RequireVerifiedEmail: app.cfg.RequireVerifiedEmail,
	}
	app.verificationService = &service.VerificationService{
		Sessions: app.sessions,
		Mailer:   service.LogMailer{},
	}
	return nil
}

func (app *Application) initHTTP() {
	app.router = httpapi.NewRouter(
		app.authService.Verifier,
		app.cfg.AccessTTL,
		BuildVersion,
		app.db,
		app.sessions,
		app.logger,
	)
	app.router.AuthService = app.authService
	app.router.SignUpService = app.signUpService
	app.router.VerificationService = app.verificationService
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: app.router,
	}
}
