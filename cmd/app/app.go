// Package main is the entry point for the RUB conversion service.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hibiken/asynqmon"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"rubconverter/internal/config"
	"rubconverter/internal/provider"
	"rubconverter/internal/repository"
	"rubconverter/internal/service"
	"rubconverter/internal/worker"
)

// App holds all application dependencies and manages their lifecycle.
type App struct {
	cfg            *config.Config
	logger         *zap.SugaredLogger
	db             *sql.DB
	rdbCache       *redis.Client
	rdbAsynq       *redis.Client
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector
	asynqServer    *asynq.Server
	asynqMux       *asynq.ServeMux
	monitor        *asynqmon.HTTPHandler
	httpServer     *http.Server
}

// NewApp initializes all dependencies and returns a ready-to-run App.
func NewApp(cfg *config.Config, logger *zap.SugaredLogger) (*App, error) {
	app := &App{
		cfg:    cfg,
		logger: logger,
	}

	if err := app.initStorage(); err != nil {
		_ = app.close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.close()
		return nil, err
	}

	return app, nil
}

// close releases queue, Redis and database connections.
func (app *App) close() error {
	var errs []error
	if app.monitor != nil {
		if err := app.monitor.Close(); err != nil {
			errs = append(errs, fmt.Errorf("asynqmon close: %w", err))
		}
	}
	if app.asynqInspector != nil {
		if err := app.asynqInspector.Close(); err != nil {
			errs = append(errs, fmt.Errorf("asynq inspector close: %w", err))
		}
	}
	if app.asynqClient != nil {
		if err := app.asynqClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("asynq client close: %w", err))
		}
	}
	if app.rdbAsynq != nil {
		if err := app.rdbAsynq.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis asynq close: %w", err))
		}
	}
	if app.rdbCache != nil {
		if err := app.rdbCache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis cache close: %w", err))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("db close: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (app *App) initStorage() error {
	db, err := repository.NewPostgresDB(&app.cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to Postgres: %w", err)
	}
	app.db = db

	if err := repository.RunMigrations(app.db, app.logger); err != nil {
		return fmt.Errorf("run DB migrations: %w", err)
	}

	app.rdbCache = redis.NewClient(&redis.Options{
		Addr: app.cfg.Redis.CacheAddr,
	})
	if err := app.rdbCache.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("connect to Redis (cache, %s): %w", app.cfg.Redis.CacheAddr, err)
	}
	app.logger.Infow("Connected to Redis cache", "addr", app.cfg.Redis.CacheAddr)

	return nil
}

func (app *App) initServices() error {
	redisOpt := asynq.RedisClientOpt{Addr: app.cfg.Redis.AsynqAddr}

	app.rdbAsynq = redis.NewClient(&redis.Options{Addr: app.cfg.Redis.AsynqAddr})
	app.asynqClient = asynq.NewClient(redisOpt)
	app.asynqInspector = asynq.NewInspector(redisOpt)
	app.asynqServer = asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:              app.cfg.Worker.Concurrency,
			DelayedTaskCheckInterval: time.Duration(app.cfg.Worker.CheckIntervalSec) * time.Second,
			TaskCheckInterval:        time.Duration(app.cfg.Worker.CheckIntervalSec) * time.Second,
		},
	)
	app.logger.Infow("Asynq configured", "addr", app.cfg.Redis.AsynqAddr)

	snapshotRepo := repository.NewPostgresSnapshotRepository(app.db)
	rateProvider := newRateProvider(app.cfg, app.rdbCache, snapshotRepo, app.logger)

	converter := service.NewConverter(rateProvider)
	history := service.NewHistory(app.cfg.History.MaxEntries)
	enqueuer := worker.NewAsynqEnqueuer(
		app.asynqClient,
		app.cfg.Worker.MaxRetry,
		time.Duration(app.cfg.Worker.TimeoutSec)*time.Second,
		time.Duration(app.cfg.Worker.ResultRetentionSec)*time.Second,
	)
	lookup := worker.NewAsynqTaskLookup(app.asynqInspector)
	conversionService := service.NewConversionService(
		converter,
		history,
		snapshotRepo,
		enqueuer,
		lookup,
		app.logger,
	)

	app.asynqMux = asynq.NewServeMux()
	app.asynqMux.HandleFunc(service.TaskTypeConvert, worker.NewConvertHandler(conversionService, app.logger))

	if app.cfg.Server.ServeAsynqmon {
		app.monitor = asynqmon.New(asynqmon.Options{
			RootPath:     "/monitoring",
			RedisConnOpt: redisOpt,
		})
	}

	app.initHTTP(conversionService)
	return nil
}

// newRateProvider builds the chain: CBR feeds (each archived to Postgres),
// daily first with latest as fallback, behind the shared hourly Redis cache.
func newRateProvider(cfg *config.Config, cache *redis.Client, recorder provider.SnapshotRecorder, logger *zap.SugaredLogger) provider.RatesProvider {
	daily := provider.NewCBRDailyProvider(cfg.CBR.BaseURL, cfg.CBR.Timeout)
	providers := []provider.RatesProvider{
		provider.NewArchivingProvider(daily, recorder, daily.Name(), logger),
	}

	if cfg.CBR.LatestFallback {
		latest := provider.NewCBRLatestProvider(cfg.CBR.BaseURL, cfg.CBR.Timeout)
		providers = append(providers, provider.NewArchivingProvider(latest, recorder, latest.Name(), logger))
	}

	var upstream provider.RatesProvider = providers[0]
	if len(providers) > 1 {
		upstream = provider.NewExchangeProviderFacade(providers...)
	}

	store := provider.NewRedisSnapshotStore(cache, time.Duration(cfg.Cache.RedisRetentionSec)*time.Second)
	return provider.NewCachedRatesProvider(
		upstream,
		store,
		time.Duration(cfg.Cache.RatesTTLSec)*time.Second,
		logger,
		provider.WithStaleFallback(cfg.Cache.ServeStaleOnError),
	)
}

// Run starts the HTTP server and Asynq worker, blocking until the context is canceled.
func (app *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Infow("Starting Asynq worker server")
		if err := app.asynqServer.Start(app.asynqMux); err != nil {
			return fmt.Errorf("asynq worker failed to start: %w", err)
		}

		<-ctx.Done()
		return nil
	})

	g.Go(func() error {
		app.logger.Infow("HTTP server listening", "port", app.cfg.Server.Port)
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return app.shutdown()
	})

	return g.Wait()
}

// shutdown stops the HTTP server, drains in-flight conversions, then closes connections.
func (app *App) shutdown() error {
	app.logger.Infow("Shutting down server...")

	var errs []error

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		app.logger.Errorw("HTTP server shutdown error", "error", err)
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	app.asynqServer.Shutdown()

	if err := app.close(); err != nil {
		app.logger.Errorw("Connection cleanup errors", "error", err)
		errs = append(errs, err)
	}

	app.logger.Infow("Shutdown complete")
	return errors.Join(errs...)
}
