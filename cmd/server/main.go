package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/mwhited/todo-digest/internal/cache"
	"github.com/mwhited/todo-digest/internal/config"
	"github.com/mwhited/todo-digest/internal/database"
	"github.com/mwhited/todo-digest/internal/handlers"
	"github.com/mwhited/todo-digest/internal/logger"
	"github.com/mwhited/todo-digest/internal/middleware"
	"github.com/mwhited/todo-digest/internal/services/ai"
	"github.com/mwhited/todo-digest/internal/services/slack"
	"github.com/mwhited/todo-digest/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

const serviceName = "todo-digest-api"

// version is set at build time via -ldflags
var version = "dev"

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug mode for LLM API logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	// The -debug flag means a developer is watching the terminal; console
	// encoding reads better there. SERVER_DEBUG_MODE in a deployment keeps
	// JSON output with the level lowered.
	var zapLogger *zap.Logger
	if *debugFlag {
		zapLogger, err = logger.NewDevelopmentLogger(true)
	} else {
		zapLogger, err = logger.NewProductionLogger(debugMode)
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.String("ai_provider", cfg.AIProvider),
		zap.String("ai_model", cfg.AIModel),
		zap.Bool("slack_configured", cfg.SlackWebhookURL != ""),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Tracing is optional; a missing or broken collector never blocks serving
	var tracerProvider *sdktrace.TracerProvider
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), serviceName, version, cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracerProvider = tp
				zapLogger.Info("otel_tracer_initialized",
					zap.String("endpoint", cfg.OTELEndpoint),
				)
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := telemetry.Shutdown(shutdownCtx, tracerProvider); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(migrateCtx, db); err != nil {
		migrateCancel()
		zapLogger.Fatal("failed_to_run_migrations", zap.Error(err))
	}
	migrateCancel()

	todoRepo := database.NewTodoRepository(db)
	todoRepo.SetLogger(zapLogger)

	// Optional Redis list cache. The API works identically without it.
	var listCache *cache.RedisTodoCache
	if cfg.RedisURL != "" {
		listCache, err = cache.New(cfg.RedisURL)
		if err != nil {
			zapLogger.Warn("failed_to_connect_to_redis_cache_disabled", zap.Error(err))
		} else {
			todoRepo.SetCache(listCache)
			zapLogger.Info("connected_to_redis")
			defer func() {
				if err := listCache.Close(); err != nil {
					zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
				}
			}()
		}
	}

	summaryProvider, err := createSummaryProvider(cfg, zapLogger, debugMode)
	if err != nil {
		zapLogger.Fatal("failed_to_create_summary_provider", zap.Error(err))
	}

	notifier := slack.New(cfg.SlackWebhookURL)
	if !notifier.Configured() {
		zapLogger.Info("slack_webhook_not_configured")
	}

	todoHandler := handlers.NewTodoHandler(todoRepo, zapLogger)
	summarizeHandler := handlers.NewSummarizeHandler(todoRepo, summaryProvider, notifier, zapLogger)

	var cachePinger handlers.Pinger
	if listCache != nil {
		cachePinger = listCache
	}
	healthChecker := handlers.NewHealthChecker(db, cachePinger)

	r := mux.NewRouter()

	// In gorilla/mux, middleware registered first wraps outermost
	if cfg.OTELEnabled && tracerProvider != nil {
		r.Use(otelmux.Middleware(serviceName))
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORS(cfg.FrontendURL))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(middleware.Recover(zapLogger))
	r.Use(middleware.Metrics)
	r.Use(middleware.Logging(zapLogger))

	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	openAPIPath := filepath.Join("api", "openapi", "openapi.yaml")
	openAPIHandler := handlers.NewOpenAPIHandler(openAPIPath)
	openAPIHandler.RegisterRoutes(r)

	todoHandler.RegisterRoutes(r.PathPrefix("/todos").Subrouter())
	summarizeHandler.RegisterRoutes(r)

	// Preflight requests get headers from the CORS middleware; just answer
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_starting",
			zap.String("port", cfg.ServerPort),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

// createSummaryProvider creates a summary provider based on configuration
func createSummaryProvider(cfg *config.Config, logger *zap.Logger, debugMode bool) (ai.SummaryProvider, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key not configured")
	}

	providerType := cfg.AIProvider
	if providerType == "" {
		providerType = "openai"
	}

	if providerType == "openai" {
		return ai.NewOpenAIProviderWithLogger(
			cfg.OpenAIKey,
			cfg.AIBaseURL,
			cfg.AIModel,
			logger,
			debugMode,
		), nil
	}

	// Fallback to registry for other providers (without logger)
	registry := ai.NewProviderRegistry()
	ai.RegisterOpenAI(registry)

	config := map[string]string{
		"api_key":  cfg.OpenAIKey,
		"model":    cfg.AIModel,
		"base_url": cfg.AIBaseURL,
	}

	return registry.GetProvider(providerType, config)
}

func versionInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, `{"version":%q,"timestamp":"%s"}`, version, time.Now().UTC().Format(time.RFC3339))
}
