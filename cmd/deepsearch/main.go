package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/EashcodeX/itglue-clone-sub001/internal/config"
	dbRedis "github.com/EashcodeX/itglue-clone-sub001/internal/db/redis"
	"github.com/EashcodeX/itglue-clone-sub001/internal/db/sqlstore"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/match"
	logpkg "github.com/EashcodeX/itglue-clone-sub001/internal/logger"
	"github.com/EashcodeX/itglue-clone-sub001/internal/metrics"
	"github.com/EashcodeX/itglue-clone-sub001/internal/repository/resultcache"
	"github.com/EashcodeX/itglue-clone-sub001/internal/repository/source"
	chiTransport "github.com/EashcodeX/itglue-clone-sub001/internal/transport/chi"
	healthuc "github.com/EashcodeX/itglue-clone-sub001/internal/usecase/health"
	searchuc "github.com/EashcodeX/itglue-clone-sub001/internal/usecase/search"
	"github.com/EashcodeX/itglue-clone-sub001/internal/version"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, env, logger); err != nil {
		logger.Fatal("Deep search stopped with error", zap.Error(err))
	}
	logger.Info("Server stopped gracefully")
}

func run(cfg config.Config, env string, logger *zap.Logger) error {
	logger.Info("Starting deep search server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Bool("redis", cfg.Cache.Redis.Enabled),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	store, err := sqlstore.Open(sqlstore.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
		SlowQuery:       time.Duration(cfg.Database.SlowQueryMs) * time.Millisecond,
	}, logger)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Ping(ctx); err != nil {
		return fmt.Errorf("record store not reachable: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := store.Migrate(ctx, source.Models()...); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("Schema migrated")
	}
	logger.Info("Connected to record store")

	g, gctx := errgroup.WithContext(ctx)

	// Pass nil interface (not typed nil pointer) when redis is off.
	var cachePinger healthuc.Pinger
	cache, redisStore, err := buildCache(gctx, g, cfg.Cache, logger)
	if err != nil {
		return err
	}
	if redisStore != nil {
		defer redisStore.Close()
		cachePinger = redisStore
	}

	sources := source.All(store, source.Options{
		Matcher:      match.NewMatcher(cfg.Search.FuzzyFloor, cfg.Search.PrefixBonus),
		ScanLimit:    cfg.Search.ScanLimit,
		SnippetWidth: cfg.Search.SnippetWidth,
	})
	list := make([]searchuc.Source, len(sources))
	for i, s := range sources {
		list[i] = s
	}
	searchSvc, err := searchuc.New(list, cache, searchuc.Config{
		SourceTimeout:  time.Duration(cfg.Search.SourceTimeoutMs) * time.Millisecond,
		MaxConcurrency: cfg.Search.MaxConcurrency,
	}, logger)
	if err != nil {
		return fmt.Errorf("create search service: %w", err)
	}
	defer searchSvc.Close()

	healthSvc := healthuc.New(store, cachePinger)

	server := chiTransport.NewServer(searchSvc, healthSvc, chiTransport.Options{
		DefaultLimit: cfg.Search.DefaultLimit,
		MaxLimit:     cfg.Search.MaxLimit,
		Fuzzy:        cfg.Search.Fuzzy(),
	}, logger)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEvent(logger))
	r.Use(metrics.Middleware("/metrics", "/health"))
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Received shutdown signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// buildCache assembles the result cache: in-process only, or in-process in front
// of Redis with a subscriber applying peers' invalidations.
func buildCache(
	ctx context.Context, g *errgroup.Group, cfg config.CacheConfig, logger *zap.Logger,
) (searchuc.Cache, *dbRedis.Store, error) {
	if !cfg.CacheEnabled() {
		logger.Info("Result cache disabled")
		return resultcache.Nop{}, nil, nil
	}

	ttl := time.Duration(cfg.TTLSec) * time.Second
	local := resultcache.NewMemory(ttl, cfg.MaxEntries, resultcache.WithMetrics(metrics.CacheTotal))
	if !cfg.Redis.Enabled {
		return local, nil, nil
	}

	store, err := dbRedis.Open(ctx, dbRedis.Config{
		Addrs:            cfg.Redis.Addrs,
		Username:         cfg.Redis.Username,
		Password:         cfg.Redis.Password,
		DB:               cfg.Redis.DB,
		ReadinessTimeout: time.Duration(cfg.Redis.ReadinessTimeout) * time.Second,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open redis store: %w", err)
	}
	logger.Info("Connected to redis", zap.Strings("addrs", cfg.Redis.Addrs))

	remote := resultcache.NewRedis(store, cfg.Redis.KeyPrefix, ttl, metrics.CacheTotal, logger)
	sub := resultcache.NewSubscriber(local, store, cfg.Redis.InvalidationChannel, metrics.CacheInvalidationsTotal, logger)
	g.Go(func() error { return sub.Run(ctx) })

	return resultcache.NewTiered(local, remote, store, cfg.Redis.InvalidationChannel), store, nil
}
