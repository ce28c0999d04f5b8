package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"mock_backend/internal/config"
	"mock_backend/internal/handler"
	"mock_backend/internal/repository"
	"mock_backend/internal/service"
	"mock_backend/internal/store"
	"mock_backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Document Store ---
	ctx := context.Background()
	backend, err := openBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open storage backend", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}

	db, err := store.Open(ctx, backend)
	if err != nil {
		_ = backend.Close()
		logger.Fatal("failed to load document store", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close document store", zap.Error(err))
		}
	}()
	logger.Info("document store loaded",
		zap.String("driver", cfg.StorageDriver),
		zap.Strings("collections", db.Collections()),
	)

	// --- Initialize Utilities ---
	tokenUtil := utils.NewTokenUtil()

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(db)
	resourceRepo := repository.NewResourceRepository(db)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, tokenUtil)
	resourceService := service.NewResourceService(resourceRepo)

	// --- Initialize Handlers ---
	authHandler := handler.NewAuthHandler(authService, logger)
	resourceHandler := handler.NewResourceHandler(resourceService, logger)
	healthHandler := handler.NewHealthHandler(db)

	router := handler.NewRouter(handler.RouterConfig{
		APIPrefix:          cfg.APIPrefix,
		ReadOnly:           cfg.ReadOnly,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:             logger,
		TokenUtil:          tokenUtil,
	}, authHandler, resourceHandler, healthHandler)

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		logger.Info("server starting",
			zap.String("port", cfg.ServerPort),
			zap.String("api_prefix", cfg.APIPrefix),
			zap.Bool("read_only", cfg.ReadOnly),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsDevelopment() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func openBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Backend, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return store.NewMemoryBackend(nil), nil
	case config.DriverPostgres:
		dbCfg, err := config.LoadDBConfig()
		if err != nil {
			return nil, err
		}
		pool, err := config.ConnectDB(ctx, dbCfg, logger)
		if err != nil {
			return nil, err
		}
		if err := config.AutoMigrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return store.NewPostgresBackend(pool), nil
	case config.DriverSQLite:
		backend, err := store.NewSQLiteBackend(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return backend, nil
	case config.DriverFile:
		return store.NewFileBackend(cfg.DBFile, logger), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}
