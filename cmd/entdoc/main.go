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

	"github.com/kailas-cloud/entdoc/internal/config"
	"github.com/kailas-cloud/entdoc/internal/db"
	dbMongo "github.com/kailas-cloud/entdoc/internal/db/mongo"
	"github.com/kailas-cloud/entdoc/internal/domain/query"
	"github.com/kailas-cloud/entdoc/internal/domain/schema"
	logpkg "github.com/kailas-cloud/entdoc/internal/logger"
	"github.com/kailas-cloud/entdoc/internal/metrics"
	chiTransport "github.com/kailas-cloud/entdoc/internal/transport/chi"
	entityuc "github.com/kailas-cloud/entdoc/internal/usecase/entity"
	healthuc "github.com/kailas-cloud/entdoc/internal/usecase/health"
	queryuc "github.com/kailas-cloud/entdoc/internal/usecase/query"
	"github.com/kailas-cloud/entdoc/internal/version"
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

	logger.Info("Starting entdoc API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Int("entity_types", len(cfg.Entities)),
	)

	reg := schema.NewRegistry()
	if err := defineEntities(reg, cfg.Entities); err != nil {
		logger.Fatal("Invalid entity declaration", zap.Error(err))
	}

	conn, err := dbMongo.New(mongoParams(cfg.Mongo),
		dbMongo.WithLogger(logger),
		dbMongo.WithTimeout(time.Duration(cfg.Mongo.ConnectTimeout)*time.Second),
		dbMongo.WithAppName(cfg.Mongo.AppName),
		dbMongo.OnConnect(func(_ context.Context, dbName string) {
			logger.Info("Connected to database", zap.String("db", dbName))
		}),
		dbMongo.OnDisconnect(func(_ context.Context, dbName string) {
			logger.Info("Disconnected from database", zap.String("db", dbName))
		}),
	)
	if err != nil {
		logger.Fatal("Failed to configure database", zap.Error(err))
	}

	ctx := context.Background()
	if err := conn.Connect(ctx); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := conn.WaitForReady(ctx, time.Duration(cfg.Mongo.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}

	// Register store metrics explicitly (no init())
	metrics.RegisterStoreMetrics()
	store := db.NewInstrumented(conn, logger)

	limits := query.Limits{DefaultPer: cfg.Query.DefaultPerPage, MaxPer: cfg.Query.MaxPerPage}
	entitySvc := entityuc.New(store, logger).WithLimits(limits)
	querySvc := queryuc.New(store, logger).WithLimits(limits)
	healthSvc := healthuc.New(store, reg)

	server := chiTransport.NewServer(entitySvc, querySvc, healthSvc, reg, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
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
	if err := conn.Close(shutdownCtx); err != nil {
		logger.Error("Error closing database", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

func mongoParams(c config.MongoConfig) dbMongo.Params {
	return dbMongo.Params{
		URL:      c.URL,
		DB:       c.DB,
		Host:     c.Host,
		Port:     c.Port,
		Protocol: c.Protocol,
		User:     c.User,
		Pass:     c.Pass,
		Options:  c.Options,
	}
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
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.CodeInternalError,
						Message: "internal error",
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

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			ctx := logpkg.ContextWithLogger(r.Context(), logger)
			ctx = logpkg.WithFields(ctx, zap.String("request_id", requestID))
			reqLogger := logpkg.FromContext(ctx)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

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
