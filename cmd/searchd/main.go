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
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/taskdeck/searchd/internal/config"
	dbRedis "github.com/taskdeck/searchd/internal/db/redis"
	logpkg "github.com/taskdeck/searchd/internal/logger"
	"github.com/taskdeck/searchd/internal/metrics"
	documentrepo "github.com/taskdeck/searchd/internal/repository/document"
	indexrepo "github.com/taskdeck/searchd/internal/repository/index"
	searchrepo "github.com/taskdeck/searchd/internal/repository/search"
	tasksrepo "github.com/taskdeck/searchd/internal/repository/tasks"
	chiTransport "github.com/taskdeck/searchd/internal/transport/chi"
	healthuc "github.com/taskdeck/searchd/internal/usecase/health"
	searchuc "github.com/taskdeck/searchd/internal/usecase/search"
	syncuc "github.com/taskdeck/searchd/internal/usecase/sync"
	"github.com/taskdeck/searchd/internal/version"
)

func main() {
	// Load configuration based on ENV
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

	logger.Info("Starting searchd API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("redis_addrs", cfg.Redis.Addrs),
		zap.String("index_prefix", cfg.Index.Prefix),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Redis.Addrs,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create search backend store", zap.Error(err))
	}
	defer store.Close()

	// Wait for the search backend to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Redis.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Search backend not ready", zap.Error(err))
	}
	logger.Info("Connected to search backend")

	// The primary task store is optional: without it the service still
	// answers queries over whatever the index already holds.
	var pool *pgxpool.Pool
	if cfg.Postgres.DSN != "" {
		pool, err = pgxpool.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			logger.Fatal("Failed to create task store pool", zap.Error(err))
		}
		defer pool.Close()
		logger.Info("Connected to task store")
	} else {
		logger.Warn("No task store configured, sync endpoints disabled")
	}

	// Create repositories
	namer := indexrepo.NewNamer(cfg.Index.Prefix, cfg.Index.PeriodLayout)
	idxMgr := indexrepo.NewManager(store, namer, logger)
	docRepo := documentrepo.New(store, namer)
	searchRepo := searchrepo.New(store, namer)

	// Create use case services
	searchSvc := searchuc.New(searchRepo, searchuc.Limits{
		DefaultPageSize: cfg.Index.DefaultPageSize,
		MaxPageSize:     cfg.Index.MaxPageSize,
		SuggestLimit:    cfg.Index.SuggestLimit,
	}, logger)

	var syncSvc *syncuc.Service
	if pool != nil {
		syncSvc = syncuc.New(tasksrepo.New(pool), docRepo, idxMgr, logger)
	}

	// Pass nil interface (not typed nil pointer!) if the pool is absent.
	var pinger healthuc.DBPinger
	if pool != nil {
		pinger = pool
	}
	healthSvc := healthuc.New(idxMgr, pinger)

	// Ensure the current period's index exists before serving
	if _, err := idxMgr.Ensure(ctx); err != nil {
		logger.Error("Failed to ensure index at startup", zap.Error(err))
	}

	// Periodic resync keeps the index converged with the task store
	schedCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()
	if syncSvc != nil {
		scheduler := syncuc.NewScheduler(syncSvc, time.Duration(cfg.Sync.IntervalSec)*time.Second, logger)
		go scheduler.Run(schedCtx)
	}

	// Create chi server
	server := chiTransport.NewServer(searchSvc, syncSvc, idxMgr, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

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
	stopScheduler()

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

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
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
