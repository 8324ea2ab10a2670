package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/baraholka-be/internal/api"
	"github.com/isdelr/baraholka-be/internal/auth"
	"github.com/isdelr/baraholka-be/internal/config"
	"github.com/isdelr/baraholka-be/internal/database"
	"github.com/isdelr/baraholka-be/internal/logger"
	"github.com/isdelr/baraholka-be/internal/monitoring"
	"github.com/isdelr/baraholka-be/internal/services"
	"github.com/isdelr/baraholka-be/internal/storage"
	"github.com/isdelr/baraholka-be/internal/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel)

	// Set up storage
	store, closer, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("Failed to initialize storage")
	}
	defer closer.Close()

	hasher, err := services.NewPasswordHasher(cfg.PasswordScheme)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure password scheme")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	eventService := services.NewEventService(store, cfg.EventLogLimit, hub)
	userService := services.NewUserService(store, services.UserConfig{
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
	}, hasher, eventService)
	listingService := services.NewListingService(store, services.ListingConfig{
		DefaultCity:        cfg.DefaultCity,
		SeedSampleListings: cfg.SeedSampleListings,
	}, eventService)
	moderationService := services.NewModerationService(listingService, eventService)

	initCtx, cancelInit := context.WithTimeout(context.Background(), 10*time.Second)
	if err := userService.Init(initCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize user directory")
	}
	cancelInit()

	// Set up and run the background maintenance job
	maintenance, err := monitoring.NewMaintenance(cfg.MaintenanceSchedule, userService, listingService, eventService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure maintenance")
	}
	go maintenance.Run()

	// Set up router
	issuer := auth.NewIssuer(cfg.JWTSecret, auth.DefaultTTL)
	router := api.NewRouter(api.Options{
		CORSOrigins:   cfg.CORSOrigins,
		SecureCookies: cfg.IsProduction(),
	}, hub, issuer, userService, listingService, moderationService, eventService)

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("storage", cfg.StorageDriver).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	maintenance.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	hub.Stop()

	log.Info().Msg("Server exiting")
}

// openStore connects the configured storage backend.
func openStore(cfg *config.Config) (storage.Store, io.Closer, error) {
	switch cfg.StorageDriver {
	case "sqlite":
		db, err := database.New(cfg.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to apply database migrations: %w", err)
		}
		return storage.NewSQLiteStore(db), db, nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return storage.NewRedisStore(rdb, cfg.RedisKeyPrefix), rdb, nil
	case "memory":
		log.Warn().Msg("Using in-memory storage, data is lost on exit")
		return storage.NewMemoryStore(), io.NopCloser(nil), nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}
