package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/linkgate/internal/access/http"
	"github.com/aussiebroadwan/linkgate/internal/access/mailing"
	"github.com/aussiebroadwan/linkgate/internal/access/metrics"
	"github.com/aussiebroadwan/linkgate/internal/access/service"
	"github.com/aussiebroadwan/linkgate/internal/access/store/drivers/sqlite"
	"github.com/aussiebroadwan/linkgate/pkg/cryptox"
	"github.com/aussiebroadwan/linkgate/pkg/slogx"
)

// BuildVersion is overridden at build time with -ldflags "-X".
var BuildVersion = "v0.1.0"

// NewLogger builds the process logger from cfg.
func NewLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "linkgate",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// Core is the storage and token services, without any transport. The CLI
// uses it directly.
type Core struct {
	Store   *sqlite.Store
	Metrics *metrics.Metrics

	Issuer         *service.IssuerService
	Validator      *service.ValidatorService
	Projects       *service.ProjectService
	Invites        *service.InviteService
	Questionnaires *service.QuestionnaireService
}

// OpenCore opens the database, applies migrations and wires the token
// services. A nil mailer disables invite email.
func OpenCore(cfg Config, mailer service.Mailer, logger *slog.Logger) (*Core, error) {
	db, err := sqlite.NewStore(cfg.DatabaseFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	logger.Debug("database migrations applied", "file", cfg.DatabaseFile)

	secret, err := cryptox.LoadOrCreateSecret(cfg.PepperFile)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to load token pepper: %w", err)
	}
	fp, err := cryptox.NewFingerprinter(secret)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	links, err := service.NewLinkBuilder(cfg.PublicBaseURL)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("PUBLIC_BASE_URL: %w", err)
	}
	if mailer == nil {
		mailer = mailing.NewNoop(logger)
	}

	m := metrics.New()
	policy := cfg.Policy()

	c := &Core{Store: db, Metrics: m}
	c.Issuer = &service.IssuerService{
		Store:         db,
		Fingerprinter: fp,
		Policy:        policy,
		Links:         links,
		Metrics:       m,
	}
	c.Validator = &service.ValidatorService{
		Store:         db,
		Fingerprinter: fp,
		Policy:        policy,
		Metrics:       m,
	}
	c.Projects = &service.ProjectService{Store: db, Issuer: c.Issuer, Metrics: m}
	c.Invites = &service.InviteService{
		Store:                  db,
		Issuer:                 c.Issuer,
		Validator:              c.Validator,
		Mailer:                 mailer,
		Metrics:                m,
		AutoAcceptOnEmailMatch: cfg.AutoAcceptOnEmailMatch,
	}
	c.Questionnaires = &service.QuestionnaireService{Store: db, Issuer: c.Issuer, Validator: c.Validator}
	return c, nil
}

func (c *Core) Close() error { return c.Store.Close() }

// Application is the HTTP server with its background workers.
type Application struct {
	cfg    Config
	logger *slog.Logger

	core    *Core
	keys    *OwnerKeys
	sweeper *service.SweeperService

	server *http.Server
	router *httpapi.Router
}

// New validates cfg and builds every dependency of the server.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{cfg: cfg, logger: NewLogger(cfg)}

	mailer, err := app.initMailer()
	if err != nil {
		return nil, err
	}

	core, err := OpenCore(cfg, mailer, app.logger)
	if err != nil {
		return nil, err
	}
	app.core = core

	keys, err := InitOwnerKeys(context.Background(), cfg, app.logger)
	if err != nil {
		_ = core.Close()
		return nil, fmt.Errorf("failed to initialize identity provider keys: %w", err)
	}
	app.keys = keys

	app.sweeper = service.NewSweeperService(core.Store, core.Metrics, app.logger, cfg.SweepInterval)
	if keys.Source.URL != "" {
		app.sweeper.Keys = keys.KeySet
		app.sweeper.KeySource = keys.Source
	}

	app.initHTTP()
	return app, nil
}

func (app *Application) initMailer() (*mailing.Mailer, error) {
	if !app.cfg.SMTP.Enabled {
		app.logger.Info("smtp disabled, invite emails are not sent")
		return mailing.NewNoop(app.logger), nil
	}
	m, err := mailing.New(app.cfg.SMTP, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}
	app.logger.Info("smtp enabled", "host", app.cfg.SMTP.Host, "port", app.cfg.SMTP.Port)
	return m, nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys.KeySet,
		app.keys.Verifier,
		BuildVersion,
		app.core.Store,
		app.core.Metrics,
		app.logger,
	)
	router.Profiles = app.cfg.RateLimits
	router.OwnerScopes = app.cfg.OwnerScopes
	router.ProjectService = app.core.Projects
	router.InviteService = app.core.Invites
	router.QuestionnaireService = app.core.Questionnaires
	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// Run starts the server and blocks until a signal or a server error.
func (app *Application) Run() error {
	app.sweeper.Start()

	app.logger.Info("linkgate starting", "port", app.cfg.Port, "version", BuildVersion, "public_base_url", app.cfg.PublicBaseURL)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.sweeper.Stop()
			_ = app.core.Close()
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

// Shutdown drains requests, stops the sweeper and closes the database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down linkgate...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.sweeper.Stop()

	if err := app.core.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("linkgate stopped")
	return nil
}

// Handler exposes the router, for tests.
func (app *Application) Handler() http.Handler { return app.router }
