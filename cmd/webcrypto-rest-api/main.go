// cmd/webcrypto-rest-api/main.go
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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	v1 "github.com/sdaliyot/webcrypto/internal/api/rest/v1"
	"github.com/sdaliyot/webcrypto/internal/app"
	"github.com/sdaliyot/webcrypto/internal/domain/keys"
	"github.com/sdaliyot/webcrypto/internal/infrastructure/keystore"
	"github.com/sdaliyot/webcrypto/internal/infrastructure/persistence"
	"github.com/sdaliyot/webcrypto/internal/infrastructure/persistence/models"
	"github.com/sdaliyot/webcrypto/internal/pkg/config"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/rest-app.yaml"
	}

	settings, err := config.LoadAppSettings(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	if err := logger.InitLogger(&settings.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log, err := logger.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to get logger: %w", err)
	}

	subtle, err := initializeSubtle(settings, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	return startServerWithGracefulShutdown(settings, subtle, log)
}

// initializeSubtle wires the registry, its optional persistent repository
// and the provider table.
func initializeSubtle(settings *config.AppSettings, log logger.Logger) (*app.Subtle, error) {
	var repo keys.MaterialRepository

	if settings.Database != nil {
		db, err := persistence.NewDBConnection(settings.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to create db connection: %w", err)
		}
		if err := db.AutoMigrate(&models.KeyMaterialModel{}); err != nil {
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
		log.Info("Database migrations completed successfully")

		repo, err = persistence.NewGormMaterialRepository(db, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create key material repository: %w", err)
		}
	}

	registry, err := keystore.NewRegistry(repo, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create key registry: %w", err)
	}

	subtle, err := app.NewSubtle(registry, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider table: %w", err)
	}
	return subtle, nil
}

// startServerWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func startServerWithGracefulShutdown(settings *config.AppSettings, subtle *app.Subtle, log logger.Logger) error {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	v1.SetupRoutes(r, subtle)

	srv := &http.Server{
		Addr:              ":" + settings.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Starting server on port ", settings.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err
	case sig := <-quit:
		log.Info("Received signal ", sig, ", initiating graceful shutdown")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
