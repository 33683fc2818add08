package main

//go:generate swag init -d ../../ -g cmd/server/main.go -o ../../docs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"plmsourcing/internal/caching"
	"plmsourcing/internal/config"
	"plmsourcing/internal/handlers"
	"plmsourcing/internal/logger"
	"plmsourcing/internal/middleware"
	"plmsourcing/internal/repositories"
	"plmsourcing/internal/services"
	"plmsourcing/pkg/database"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

const version = "1.0.0"

//	@title			PLM Sourcing API
//	@version		1.0
//	@description	Vendor sourcing links and the vendor quote lifecycle of products.
//	@BasePath		/v1
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "plmsourcing: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database.AutoMigrate {
		if err := migrateUp(cfg.Database.URL, log); err != nil {
			return err
		}
	}

	pool, err := database.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	var storage services.MinioService
	var storagePinger handlers.Pinger
	if cfg.Storage.Enabled {
		minioSvc, err := services.NewMinioService(cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.UseSSL, cfg.Storage.Bucket)
		if err != nil {
			return fmt.Errorf("init object storage: %w", err)
		}
		if err := minioSvc.EnsureBucketExists(ctx); err != nil {
			return fmt.Errorf("ensure bucket %s: %w", cfg.Storage.Bucket, err)
		}
		storage, storagePinger = minioSvc, minioSvc
		log.Info("Object storage enabled", zap.String("endpoint", cfg.Storage.Endpoint), zap.String("bucket", cfg.Storage.Bucket))
	}

	var limiter caching.RateLimiter
	var redisPinger handlers.Pinger
	if cfg.Redis.Enabled {
		client, err := caching.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("init redis: %w", err)
		}
		limiter = caching.NewRedisRateLimiter(client)
		defer limiter.Close()
		if err := limiter.Ping(ctx); err != nil {
			log.Warn("Redis ping failed on startup", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		redisPinger = limiter
	}

	actors, err := middleware.NewActorResolver(middleware.ActorConfig{
		Enabled:     cfg.Auth.Enabled,
		JWTSecret:   cfg.Auth.JWTSecret,
		JWKSURL:     cfg.Auth.JWKSURL,
		SystemActor: cfg.Auth.SystemActor,
	}, log)
	if err != nil {
		return fmt.Errorf("init actor resolution: %w", err)
	}
	defer actors.Close()

	// services
	txm := repositories.NewTxManager(pool)
	routes := &handlers.Routes{
		Products: handlers.NewProductHandlers(
			services.NewProductService(repositories.NewProductRepository(pool), storage, cfg.Storage.PresignExpiry, log),
			log,
		),
		Vendors:  handlers.NewVendorHandlers(services.NewVendorService(txm, log), log),
		Sourcing: handlers.NewSourcingHandlers(services.NewSourcingLinkService(txm, log), log),
		Quotes:   handlers.NewVendorQuoteHandlers(services.NewVendorQuoteService(txm, log), log),
	}
	health := handlers.NewHealthHandlers(version, pool, redisPinger, storagePinger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echoMiddleware.CORS())

	versions := middleware.NewVersionMiddleware()
	if !cfg.API.V1Sunset.IsZero() {
		versions.Deprecate("v1", cfg.API.V1Sunset, cfg.API.V1SunsetMessage)
		log.Info("API v1 marked deprecated", zap.Time("sunset", cfg.API.V1Sunset))
	}
	e.Use(versions.APIVersionResolver())

	// Health endpoints (no actor required)
	e.GET("/health", health.HealthCheck)
	e.GET("/health/ready", health.ReadinessCheck)
	e.GET("/health/live", health.LivenessCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	var mutating []echo.MiddlewareFunc
	if cfg.RateLimit.Enabled && limiter != nil {
		mutating = append(mutating, middleware.RateLimit(limiter, cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.Auth.SystemActor, log))
	}
	v1 := versions.VersionRoute(e, "v1")
	v1.Use(actors.Middleware())
	routes.Register(v1, mutating...)

	errCh := make(chan error, 1)
	go func() {
		log.Info("PLM sourcing server starting",
			zap.String("version", version),
			zap.String("port", cfg.Server.Port),
			zap.String("env", cfg.Env),
			zap.Bool("auth", cfg.Auth.Enabled),
		)
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func migrateUp(databaseURL string, log *zap.Logger) error {
	migrator, err := database.NewMigrator(databaseURL, log)
	if err != nil {
		return err
	}
	defer migrator.Close()
	return migrator.Up()
}
