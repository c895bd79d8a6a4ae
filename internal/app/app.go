package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/learnhub/internal/analytics"
	"github.com/gokatarajesh/learnhub/internal/auth"
	"github.com/gokatarajesh/learnhub/internal/auth/jwt"
	"github.com/gokatarajesh/learnhub/internal/catalog"
	"github.com/gokatarajesh/learnhub/internal/catalog/bank"
	"github.com/gokatarajesh/learnhub/internal/catalog/remote"
	"github.com/gokatarajesh/learnhub/internal/config"
	"github.com/gokatarajesh/learnhub/internal/db"
	"github.com/gokatarajesh/learnhub/internal/history"
	"github.com/gokatarajesh/learnhub/internal/learning"
	"github.com/gokatarajesh/learnhub/internal/logging"
	"github.com/gokatarajesh/learnhub/internal/notify"
	"github.com/gokatarajesh/learnhub/internal/runner"
	"github.com/gokatarajesh/learnhub/internal/server"
	"github.com/gokatarajesh/learnhub/internal/submission"
	"github.com/gokatarajesh/learnhub/internal/userstore"
	ws "github.com/gokatarajesh/learnhub/pkg/http/ws"
)

// Swapped in tests to observe the clients New opens.
var (
	openDatabase   = db.Open
	newRedisClient = redis.NewClient
)

type worker interface {
	Run(ctx context.Context) error
}

// Application aggregates shared infrastructure (DB, cache, HTTP server) and the
// background workers.
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	db         *sql.DB
	redis      *redis.Client
	http       *http.Server
	dispatcher *submission.Dispatcher

	workers   map[string]worker
	bgCancel  context.CancelFunc
	bgWorkers sync.WaitGroup
}

// New bootstraps logger, history database, Redis, domain services and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	driver := db.Driver(cfg.Database.Driver)
	historyDB, err := openDatabase(ctx, driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect history database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx, historyDB, driver); err != nil {
			historyDB.Close()
			return nil, err
		}
		logger.Info().Str("driver", string(driver)).Msg("history migrations applied")
	}

	redisClient := newRedisClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	closeClients := func() {
		redisClient.Close()
		historyDB.Close()
	}

	// One client for every call to the learning platform, matching its 30s timeout.
	remoteHTTP := &http.Client{Timeout: cfg.Remote.Timeout}

	// Catalog: Redis cache in front of the remote API, YAML bank as fallback.
	questionBank, err := bank.Load(cfg.Catalog.BankPath)
	if err != nil {
		closeClients()
		return nil, err
	}
	if questionBank.Len() > 0 {
		logger.Info().Int("quizzes", questionBank.Len()).Str("path", cfg.Catalog.BankPath).Msg("offline quiz bank loaded")
	}
	catalogSvc := catalog.NewService(
		remote.NewClient(cfg.Remote.BaseURL, remoteHTTP),
		catalog.ServiceOptions{
			Cache: catalog.NewRedisCache(redisClient, cfg.Catalog.CacheTTL),
			Bank:  questionBank,
		},
		logger,
	)

	// Auth
	users := userstore.New(redisClient)
	authSvc := auth.NewService(
		auth.NewRemoteClient(cfg.Remote.BaseURL, remoteHTTP),
		users,
		auth.ServiceOptions{
			TokenConfig: jwt.TokenConfig{
				Secret: []byte(cfg.Security.JWTSecret),
				TTL:    cfg.Security.TokenTTL,
				Issuer: cfg.Name,
			},
		},
		logger,
	)

	// Themes and courses
	learningSvc := learning.NewService(
		learning.NewClient(cfg.Remote.BaseURL, remoteHTTP),
		learning.NewRedisCache(redisClient, cfg.Catalog.ThemeCacheTTL),
		users,
		logger,
	)

	// Analytics
	metricsSink, err := analytics.NewMetricsSink(prometheus.DefaultRegisterer)
	if err != nil {
		closeClients()
		return nil, err
	}
	sinks := []analytics.Sink{
		analytics.NewLogSink(logger),
		metricsSink,
		analytics.NewRedisSink(redisClient, cfg.Analytics.Channel),
	}
	if cfg.Analytics.RemoteEnabled {
		sinks = append(sinks, analytics.NewRemoteSink(cfg.Remote.BaseURL, remoteHTTP))
	}
	emitter := analytics.NewEmitter(cfg.Analytics.BufferSize, logger, sinks...)

	// Notifications
	wsHub := ws.NewHub(logger)
	publisher := notify.NewRedisPublisher(redisClient, cfg.Notifications.Channel)
	broadcaster := notify.NewBroadcaster(redisClient, wsHub, cfg.Notifications.Channel, logger)
	notifyHandler := notify.NewHandler(wsHub, authSvc, server.NewUpgrader(cfg.CORS), logger)

	// Sessions
	runnerMetrics, err := runner.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		closeClients()
		return nil, err
	}
	dispatcher := submission.NewDispatcher(cfg.Session.SubmitTimeout, logger)
	historyRepo := history.NewRepository(history.NewSQLStore(historyDB))
	runnerSvc := runner.NewService(runner.Deps{
		Catalog:    catalogSvc,
		Submitter:  submission.NewClient(cfg.Remote.BaseURL, remoteHTTP),
		Dispatcher: dispatcher,
		Users:      users,
		History:    historyRepo,
		Notifier:   publisher,
		Events:     emitter,
		Metrics:    runnerMetrics,
	}, runner.Options{
		DefaultThemeID:    cfg.Remote.DefaultThemeID,
		PersistEachAnswer: cfg.Session.PersistEachAnswer,
		RequireAnswer:     cfg.Session.RequireAnswer,
		TrackNavigation:   cfg.Session.TrackNavigation,
		IdleTTL:           cfg.Session.IdleTTL,
		DefaultLimit:      cfg.Session.DefaultLimit,
	}, logger)

	apiServer := server.NewHTTPServer(cfg, logger, server.Deps{DB: historyDB, Redis: redisClient}, server.Handlers{
		Validator: authSvc,
		Auth:      auth.NewHTTPHandlers(authSvc, logger),
		Catalog:   catalog.NewHTTPHandler(catalogSvc, logger),
		Sessions:  runner.NewHTTPHandlers(runnerSvc, logger),
		History:   history.NewHTTPHandler(historyRepo, logger),
		Learning:  learning.NewHTTPHandler(learningSvc, logger),
		Notify:    notifyHandler,
	})

	return &Application{
		cfg:        cfg,
		logger:     logger,
		db:         historyDB,
		redis:      redisClient,
		http:       apiServer,
		dispatcher: dispatcher,
		workers: map[string]worker{
			"notice broadcaster": broadcaster,
			"analytics emitter":  emitter,
			"catalog warmer":     catalog.NewWarmer(catalogSvc, cfg.Catalog.RefreshInterval, cfg.Remote.Timeout, logger),
			"session reaper":     runner.NewReaper(runnerSvc, cfg.Session.ReapInterval, logger),
		},
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	// In-flight submissions finish before the workers that publish their notices stop.
	if err := a.dispatcher.Close(shutdownCtx); err != nil {
		a.logger.Warn().Err(err).Msg("pending submissions abandoned")
	}

	if a.bgCancel != nil {
		a.bgCancel()
	}
	a.bgWorkers.Wait()

	if err := a.db.Close(); err != nil {
		a.logger.Error().Err(err).Msg("database shutdown error")
	}
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return runErr
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	bgCtx, cancel := context.WithCancel(ctx)
	a.bgCancel = cancel

	for name, w := range a.workers {
		a.bgWorkers.Add(1)
		go func(name string, w worker) {
			defer a.bgWorkers.Done()
			if err := w.Run(bgCtx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn().Err(err).Str("worker", name).Msg("background worker stopped")
			}
		}(name, w)
	}
}
