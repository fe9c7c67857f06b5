package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Skufu/vitalcalc/internal/cache"
	"github.com/Skufu/vitalcalc/internal/catalog"
	"github.com/Skufu/vitalcalc/internal/config"
	"github.com/Skufu/vitalcalc/internal/httpapi"
	"github.com/Skufu/vitalcalc/internal/logging"
	"github.com/Skufu/vitalcalc/internal/medication"
	"github.com/Skufu/vitalcalc/internal/registry"
)

const cacheSweepInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	cat, err := catalog.Load(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	holder := catalog.NewHolder(cat)
	logger.Info("catalog loaded",
		zap.String("dir", cfg.DataDir),
		zap.Int("factors", len(cat.Factors)),
		zap.Int("labs", len(cat.Labs)),
		zap.Int("conditions", len(cat.Conditions)))

	checks := make(map[string]httpapi.HealthChecker)

	store, closeStore, err := openStore(ctx, cfg, checks)
	if err != nil {
		return err
	}
	defer closeStore()

	resultCache, closeCache, err := openCache(ctx, cfg, checks)
	if err != nil {
		return err
	}
	defer closeCache()

	var limiter *httpapi.RateLimiter
	if cfg.RateLimit > 0 {
		limiter = httpapi.NewRateLimiter(cfg.RateLimit, time.Minute)
		defer limiter.Stop()
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Registry:    registry.New(holder, cfg.RiskDenominator),
		Catalog:     holder,
		Tracker:     medication.NewTracker(store),
		Cache:       resultCache,
		CacheTTL:    cfg.CacheTTL,
		Limiter:     limiter,
		Checks:      checks,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return shutdown(server, logger)
	})
	if cfg.WatchData {
		g.Go(func() error {
			return catalog.Watch(gctx, cfg.DataDir, holder, logger)
		})
	}
	if mem, ok := resultCache.(*cache.Memory); ok {
		g.Go(func() error {
			sweepLoop(gctx, mem, cacheSweepInterval, logger)
			return nil
		})
	}
	return g.Wait()
}

// openStore picks the medication store and registers its readiness check.
func openStore(ctx context.Context, cfg *config.Config, checks map[string]httpapi.HealthChecker) (medication.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		s, err := medication.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("database connection failed: %w", err)
		}
		checks["db"] = s
		return s, s.Close, nil
	case config.StoreSQLite:
		s, err := medication.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		checks["db"] = s
		return s, func() { _ = s.Close() }, nil
	default:
		return medication.NewMemoryStore(), func() {}, nil
	}
}

// openCache uses Redis when REDIS_ADDR is set, else an in-process cache.
func openCache(ctx context.Context, cfg *config.Config, checks map[string]httpapi.HealthChecker) (cache.Cache, func(), error) {
	if cfg.RedisAddr == "" {
		return cache.NewMemory(), func() {}, nil
	}
	r, err := cache.NewRedis(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("redis connection failed: %w", err)
	}
	checks["cache"] = r
	return r, func() { _ = r.Close() }, nil
}

func sweepLoop(ctx context.Context, mem *cache.Memory, every time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := mem.Sweep(); n > 0 {
				logger.Debug("cache sweep", zap.Int("expired", n))
			}
		}
	}
}

func shutdown(server *http.Server, logger *zap.Logger) error {
	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
