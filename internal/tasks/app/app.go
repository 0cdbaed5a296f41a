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

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/domain"
	httpapi "github.com/aussiebroadwan/tasktrack/internal/tasks/http"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/revocation"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/service"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/store"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/store/drivers/sqlite"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/telemetry"
	"github.com/aussiebroadwan/tasktrack/pkg/cryptox"
	"github.com/aussiebroadwan/tasktrack/pkg/jwtx"
	"github.com/aussiebroadwan/tasktrack/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	serviceName = "tasks-service"
)

// Application is the task tracker service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db          store.Store
	keyManager  *jwtx.KeyManager
	revoked     service.RevocationList
	sweeper     service.Sweeper // nil when revocations live in Redis
	redis       *redis.Client
	stopTracing func(context.Context) error

	taskService         *service.TaskService
	queryService        *service.TaskQueryService
	userService         *service.UserService
	sessionService      *service.SessionService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// NewLogger builds the service logger from cfg.
func NewLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: serviceName,
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// OpenStore opens the database and brings its schema up to date.
func OpenStore(cfg Config) (*sqlite.Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	return db, nil
}

// New creates an Application with every dependency initialized.
func New(ctx context.Context, cfg Config) (*Application, error) {
	app := &Application{
		cfg:    cfg,
		logger: NewLogger(cfg),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	stop, err := telemetry.NewProvider(ctx, telemetry.Config{
		Service:  serviceName,
		Version:  BuildVersion,
		Exporter: cfg.TracesExporter,
		Endpoint: cfg.OTLPEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	app.stopTracing = stop

	db, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}
	app.db = db
	app.logger.Info("database migrations applied successfully")

	keyManager, err := InitKeys(app.cfg, app.logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize JWT keys: %w", err)
	}
	app.keyManager = keyManager

	if err := app.initRevocation(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("tasks service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// Shutdown drains requests, then stops background work and closes storage.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down tasks service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}

	if err := app.stopTracing(ctx); err != nil {
		app.logger.Error("error flushing traces", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("tasks service stopped")
	return nil
}

// initRevocation picks the revocation list: Redis when configured, so every
// replica honours a logout, otherwise process memory.
func (app *Application) initRevocation(ctx context.Context) error {
	if app.cfg.RedisAddr == "" {
		mem := revocation.NewMemory()
		app.revoked = mem
		app.sweeper = mem
		app.logger.Info("using in-memory revocation list")
		return nil
	}

	app.redis = redis.NewClient(&redis.Options{
		Addr:     app.cfg.RedisAddr,
		Password: app.cfg.RedisPassword,
		DB:       app.cfg.RedisDB,
	})
	rl := revocation.NewRedis(app.redis, revocation.DefaultPrefix)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rl.Ping(pingCtx); err != nil {
		_ = app.redis.Close()
		return fmt.Errorf("failed to reach redis at %s: %w", app.cfg.RedisAddr, err)
	}

	app.revoked = rl
	app.logger.Info("using redis revocation list", "addr", app.cfg.RedisAddr)
	return nil
}

func (app *Application) initServices() {
	clock := domain.SystemClock{}

	app.taskService = &service.TaskService{Store: app.db, Clock: clock}
	app.queryService = &service.TaskQueryService{Store: app.db}
	app.userService = &service.UserService{Store: app.db, Clock: clock}
	app.sessionService = &service.SessionService{
		Store:         app.db,
		KeyManager:    app.keyManager,
		Revoked:       app.revoked,
		Clock:         clock,
		Issuer:        app.cfg.Issuer,
		AccessTTL:     app.cfg.AccessTTL,
		RefreshTTL:    app.cfg.RefreshTTL,
		RequireActive: app.cfg.RequireActive,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.sweeper,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager.KeySet,
		app.keyManager.Verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.Location = app.cfg.Location()
	if rl, ok := app.revoked.(*revocation.Redis); ok {
		router.Cache = rl
	}

	router.TaskService = app.taskService
	router.QueryService = app.queryService
	router.UserService = app.userService
	router.SessionService = app.sessionService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           otelhttp.NewHandler(router, serviceName),
		ReadHeaderTimeout: 3 * time.Second,
	}
}
