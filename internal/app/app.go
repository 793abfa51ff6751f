package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/stpnv0/EventRegistration/internal/config"
	"github.com/stpnv0/EventRegistration/internal/handler"
	"github.com/stpnv0/EventRegistration/internal/middleware"
	"github.com/stpnv0/EventRegistration/internal/migrations"
	"github.com/stpnv0/EventRegistration/internal/notification"
	"github.com/stpnv0/EventRegistration/internal/repository"
	"github.com/stpnv0/EventRegistration/internal/repository/sqlite"
	"github.com/stpnv0/EventRegistration/internal/router"
	"github.com/stpnv0/EventRegistration/internal/service"
	"github.com/stpnv0/EventRegistration/internal/service/ports"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/logger"
)

type App struct {
	cfg        *config.Config
	log        logger.Logger
	httpServer *http.Server

	eventRepo        ports.EventRepo
	registrationRepo ports.RegistrationRepo
	closeStorage     func() error
}

func New(cfg *config.Config) (*App, error) {
	app := &App{cfg: cfg}

	log, err := logger.InitLogger(
		cfg.Logger.LogEngine(),
		"EventRegistration",
		cfg.Gin.Mode,
		logger.WithLevel(cfg.Logger.LogLevel()),
	)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	app.log = log

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		if err = app.runMigrations(); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		err = app.initPostgres()
	case config.DriverSQLite:
		err = app.initSQLite()
	default:
		err = fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	if err = app.initServices(); err != nil {
		_ = app.closeStorage()
		return nil, fmt.Errorf("init services: %w", err)
	}

	return app, nil
}

func (a *App) initPostgres() error {
	db, err := dbpg.New(
		a.cfg.Postgres.DSN(),
		nil,
		&dbpg.Options{
			MaxOpenConns: a.cfg.Postgres.MaxOpenConns,
			MaxIdleConns: a.cfg.Postgres.MaxIdleConns,
		},
	)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}

	if err := db.Master.PingContext(context.Background()); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}
	db.Master.SetConnMaxLifetime(a.cfg.Postgres.ConnMaxLifetime)

	a.eventRepo = repository.NewEventRepo(db)
	a.registrationRepo = repository.NewRegistrationRepo(db)
	a.closeStorage = db.Master.Close

	a.log.LogAttrs(context.Background(), logger.InfoLevel, "database connected",
		logger.String("driver", config.DriverPostgres),
		logger.String("host", a.cfg.Postgres.Host),
		logger.Int("port", a.cfg.Postgres.Port),
		logger.String("database", a.cfg.Postgres.Database),
	)

	return nil
}

func (a *App) initSQLite() error {
	store, err := sqlite.Open(a.cfg.SQLite.Path)
	if err != nil {
		return err
	}

	a.eventRepo = store.Events()
	a.registrationRepo = store.Registrations()
	a.closeStorage = store.Close

	a.log.LogAttrs(context.Background(), logger.InfoLevel, "database connected",
		logger.String("driver", config.DriverSQLite),
		logger.String("path", a.cfg.SQLite.Path),
	)

	return nil
}

func (a *App) initServices() error {
	n, err := notification.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.log)
	if err != nil {
		return fmt.Errorf("init notifier: %w", err)
	}

	r := newRouter(a.cfg, a.log, a.eventRepo, a.registrationRepo, n)

	a.httpServer = &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}

	return nil
}

func newRouter(
	cfg *config.Config,
	log logger.Logger,
	eventRepo ports.EventRepo,
	registrationRepo ports.RegistrationRepo,
	notifier ports.EventNotifier,
) http.Handler {
	eventService := service.NewEventService(eventRepo, registrationRepo, notifier, log)
	registrationService := service.NewRegistrationService(registrationRepo, eventRepo, notifier, log)

	h := handler.NewHandler(eventService, registrationService)
	return router.InitRouter(
		cfg.Gin.Mode,
		h,
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Recovery(log),
		middleware.CORS(cfg.Server.AllowedOrigins()),
		middleware.Timeout(cfg.Server.RequestTimeout),
	)
}

func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.log.LogAttrs(ctx, logger.InfoLevel, "HTTP server starting",
			logger.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.log.LogAttrs(context.Background(), logger.InfoLevel, "shutdown signal received")
	case err := <-errCh:
		_ = a.closeStorage()
		return err
	}

	return a.shutdown()
}

func (a *App) shutdown() error {
	a.log.LogAttrs(context.Background(), logger.InfoLevel, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		a.cfg.Server.WriteTimeout,
	)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	a.log.LogAttrs(context.Background(), logger.InfoLevel, "HTTP server stopped")

	if err := a.closeStorage(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	a.log.LogAttrs(context.Background(), logger.InfoLevel, "database connection closed")

	a.log.LogAttrs(context.Background(), logger.InfoLevel, "app stopped")

	return nil
}

func (a *App) runMigrations() error {
	db, err := sql.Open("postgres", a.cfg.Postgres.DSN())
	if err != nil {
		return fmt.Errorf("open db for migrations: %w", err)
	}
	defer db.Close()

	if err := migrations.Up(db, migrations.DialectPostgres); err != nil {
		return err
	}

	a.log.Info("migrations applied successfully")
	return nil
}
