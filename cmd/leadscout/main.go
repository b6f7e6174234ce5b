package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/leadscout/leadscout/internal/cache"
	"github.com/leadscout/leadscout/internal/config"
	dbRedis "github.com/leadscout/leadscout/internal/db/redis"
	logpkg "github.com/leadscout/leadscout/internal/logger"
	"github.com/leadscout/leadscout/internal/metrics"
	activityrepo "github.com/leadscout/leadscout/internal/repository/activity"
	entityrepo "github.com/leadscout/leadscout/internal/repository/entity"
	facetrepo "github.com/leadscout/leadscout/internal/repository/facet"
	chiTransport "github.com/leadscout/leadscout/internal/transport/chi"
	facetuc "github.com/leadscout/leadscout/internal/usecase/facet"
	healthuc "github.com/leadscout/leadscout/internal/usecase/health"
	qualityuc "github.com/leadscout/leadscout/internal/usecase/quality"
	rankinguc "github.com/leadscout/leadscout/internal/usecase/ranking"
	searchuc "github.com/leadscout/leadscout/internal/usecase/search"
	"github.com/leadscout/leadscout/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting leadscout API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	if err := entityrepo.EnsureIndexes(ctx, store, cfg.Database.KeyPrefix); err != nil {
		logger.Fatal("Failed to ensure entity indexes", zap.Error(err))
	}
	if err := activityrepo.EnsureIndex(ctx, store, cfg.Database.KeyPrefix); err != nil {
		logger.Fatal("Failed to ensure event index", zap.Error(err))
	}
	logger.Info("Search indexes ready")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Result cache shared by the search, facet, and quality pipelines
	mem := cache.NewMemory(cfg.Cache.MaxEntries, cfg.Cache.MaxBytes).
		WithGauges(metrics.CacheEntries, metrics.CacheBytes)
	loader := cache.NewLoader(mem)

	// Create repositories (domain-native, no adapters)
	entities := entityrepo.New(store, cfg.Database.KeyPrefix)
	facets := facetrepo.New(store)
	activities := activityrepo.New(store, cfg.Database.KeyPrefix)

	// Create use case services
	ranker := rankinguc.New(logger)
	facetSvc := facetuc.New(facets, loader, time.Duration(cfg.Search.FacetTTLSec)*time.Second, logger)
	searchSvc := searchuc.New(entities, activities, ranker, facetSvc, loader, searchuc.Options{
		ResultTTL:         time.Duration(cfg.Search.ResultTTLSec) * time.Second,
		InteractionWindow: time.Duration(cfg.Search.InteractionWindow) * 24 * time.Hour,
		SuggestionLimit:   cfg.Search.SuggestionLimit,
		DefaultLimit:      cfg.Search.DefaultPageSize,
		MaxLimit:          cfg.Search.MaxPageSize,
	}, logger)
	qualitySvc := qualityuc.New(entities, loader, qualityuc.Options{
		SampleCap: cfg.Quality.SampleCap,
		ReportTTL: time.Duration(cfg.Search.ResultTTLSec) * time.Second,
	}, logger)

	// Health service
	healthSvc := healthuc.New(store, mem)

	// Create chi server
	server := chiTransport.NewServer(
		searchSvc, facetSvc, qualitySvc, healthSvc, activities,
		mem, cfg.Quality.DuplicateLimit, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWith(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
