package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Jaffer/backend/go/internal/chat_service/api"
	"Jaffer/backend/go/internal/chat_service/service"
	"Jaffer/backend/go/internal/chat_service/store"
	"Jaffer/backend/go/internal/config"
	"Jaffer/backend/go/internal/database/kafka"
	jredis "Jaffer/backend/go/internal/database/redis"
	"Jaffer/backend/go/internal/database/sqldb"
	"Jaffer/backend/go/internal/llm"
	"Jaffer/backend/go/internal/localintel"
	"Jaffer/backend/go/internal/metrics"
	"Jaffer/backend/go/internal/search"
	"Jaffer/backend/go/pkg/circuitbreaker"
	pkghttp "Jaffer/backend/go/pkg/http"
	"Jaffer/backend/go/pkg/logger"
	"Jaffer/backend/go/pkg/ratelimiter"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Init(logger.ParseLevel(cfg.Logger.Level))
	appLogger := logger.New(cfg.App.Name, "", "")
	appLogger.Info("Logger initialized")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database connection
	db, err := sqldb.Open(cfg.Databases)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	defer sqldb.Close(db)
	appLogger.Info("Database connection established (" + cfg.Databases.Driver + ")")

	chatStore := store.NewStore(db)
	if err := chatStore.Migrate(ctx); err != nil {
		appLogger.Fatal(err.Error())
	}
	if err := chatStore.Seed(ctx, cfg.Persona.Seed); err != nil {
		appLogger.Fatal(err.Error())
	}
	appLogger.Info("Database migration completed")

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(reg)
	}

	// Web search fallback
	var rdb *redis.Client
	if cfg.Search.Cache.Backend == "redis" {
		rdb, err = jredis.NewClient(ctx, cfg.Databases.Redis)
		if err != nil {
			appLogger.Fatal(err.Error())
		}
		defer rdb.Close()
	}
	searcher, err := search.New(cfg.Search, cfg.SearchBreaker)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	searcher, err = search.WithCache(searcher, cfg.Search.Cache, rdb)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	if searcher == nil {
		appLogger.Warn("Web search disabled")
	}
	resolver := service.NewFallbackResolver(searcher, cfg.Search, appLogger, m)

	// Language model
	model, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		appLogger.Warn("LLM client unavailable, using fallback replies: " + err.Error())
		model = llm.Unavailable{}
	}
	if closer, ok := model.(io.Closer); ok {
		defer closer.Close()
	}

	deps := service.Deps{
		Local:            localintel.NewRunner(cfg.LocalEngine),
		Resolver:         resolver,
		Model:            model,
		Profile:          chatStore,
		History:          chatStore,
		Metrics:          m,
		Logger:           appLogger,
		DefaultName:      cfg.Persona.DefaultName,
		InferenceTimeout: config.Duration(cfg.LLM.Timeout, service.DefaultInferenceTimeout),
		PublishTimeout:   config.Duration(cfg.Databases.Kafka.Timeout, service.DefaultPublishTimeout),
	}
	if cfg.Databases.Kafka.Enabled {
		publisher, err := kafka.NewExchangePublisher(cfg.Databases.Kafka)
		if err != nil {
			appLogger.Fatal(err.Error())
		}
		defer publisher.Close()
		deps.Events = publisher
	}

	// Initialize dependencies (Store -> Service -> Handler)
	chatService := service.NewService(deps)
	apiHandler := api.NewHandler(chatService, appLogger)
	appLogger.Info("Dependencies injected")

	opts := api.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Metrics:        m,
		Logger:         appLogger,
	}
	if rl := cfg.Middleware.RateLimiter; rl.Enabled {
		limiter, err := ratelimiter.New(rl)
		if err != nil {
			appLogger.Fatal(err.Error())
		}
		opts.RateLimiter = limiter
	}
	if cb := cfg.Middleware.CircuitBreaker; cb.Enabled {
		opts.Breaker = circuitbreaker.New(cb.FailureThreshold, cb.SuccessThreshold, config.Duration(cb.Timeout, 30*time.Second))
	}
	router := api.SetupRouter(apiHandler, opts)
	appLogger.Info("Router setup completed")

	server := pkghttp.NewServer(router, pkghttp.WithAddress(cfg.Server.Address))
	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("Starting server on " + server.Addr())
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			appLogger.Error(err.Error())
			os.Exit(1)
		}
	case <-ctx.Done():
		appLogger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Duration(cfg.Server.ShutdownTimeout, 10*time.Second))
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Graceful shutdown failed: " + err.Error())
		}
		chatService.Wait()
	}
}
