package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"pickupapp/internal/config"
	"pickupapp/internal/handlers"
	"pickupapp/internal/middleware"
	"pickupapp/internal/services"
	"pickupapp/pkg/logger"
	"pickupapp/pkg/websocket"
	"pickupapp/routes"
)

func main() {
	migrateDown := flag.Int("migrate-down", -1, "revert MongoDB migrations down to this version and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:   logger.LogLevel(cfg.Logger.Level),
		Format:  cfg.Logger.Format,
		Output:  cfg.Logger.Output,
		AppName: cfg.App.Name,
		Version: cfg.App.Version,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *migrateDown >= 0 {
		if err := rollbackMigrations(ctx, cfg.Database, *migrateDown, appLogger); err != nil {
			appLogger.WithError(err).Fatal("Migration rollback failed")
		}
		appLogger.WithField("version", *migrateDown).Info("Migrations reverted")
		return
	}

	infra, err := setupInfrastructure(ctx, cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize infrastructure")
	}
	defer infra.Close()

	hub := websocket.NewHub(appLogger)
	go hub.Run(ctx)

	repos := infra.Repos

	// Leave the interfaces nil rather than holding typed nils.
	var pusher services.NotificationPusher
	var wsHandler *websocket.Handler
	if cfg.WebSocket.Enabled {
		pusher = hub
		wsHandler = websocket.NewHandler(hub, cfg.WebSocket)
	}

	notificationService := services.NewNotificationService(
		repos.Notifications, repos.Users, repos.Drivers,
		pusher, infra.SMS, cfg.Limits.NotificationsLimit, appLogger,
	)
	identityService := services.NewIdentityService(repos.Users, repos.Drivers, infra.Cache, cfg.Security, appLogger)
	mediaService := services.NewMediaService(infra.Storage, cfg.Storage, appLogger)
	accountService := services.NewAccountService(
		repos.Users, repos.Drivers, repos.Portfolios, repos.Availability,
		repos.Tours, repos.Bookings, mediaService,
		services.AccountServiceConfig{
			ListLimit:     cfg.Limits.ListLimit,
			ActivityLimit: cfg.Limits.RecentActivityLimit,
		},
		appLogger,
	)
	tourService := services.NewTourService(repos.Tours, repos.Bookings, repos.Drivers, repos.Portfolios, cfg.Limits.ListLimit, appLogger)
	bookingService := services.NewBookingService(
		repos.Bookings, repos.Tours, repos.Users, repos.Drivers, repos.Portfolios, repos.Ratings,
		notificationService,
		services.BookingServiceConfig{
			UserListLimit:       cfg.Limits.ListLimit,
			DriverBookingsLimit: cfg.Limits.DriverBookingsLimit,
		},
		appLogger,
	)
	pickupService := services.NewPickupService(repos.Pickups, repos.Users, repos.Drivers, notificationService, cfg.Limits.ListLimit, appLogger)
	ratingService := services.NewRatingService(repos.Ratings, repos.Bookings, repos.Tours, repos.Drivers, notificationService, appLogger)
	discountService := services.NewDiscountService(repos.Discounts, cfg.Limits.ListLimit, appLogger)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		appLogger.WithError(err).Fatal("Invalid trusted proxies")
	}

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RecoveryMiddleware(appLogger))
	router.Use(middleware.LoggingMiddleware(appLogger))
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))

	routes.SetupRouter(router, &routes.Handlers{
		Users:         handlers.NewUserHandler(identityService, accountService),
		Drivers:       handlers.NewDriverHandler(identityService, accountService, ratingService),
		Tours:         handlers.NewTourHandler(tourService),
		Bookings:      handlers.NewBookingHandler(bookingService),
		Pickups:       handlers.NewPickupHandler(pickupService),
		Notifications: handlers.NewNotificationHandler(notificationService, wsHandler),
		Discounts:     handlers.NewDiscountHandler(discountService),
		Health:        handlers.NewHealthHandler(cfg.App.Version, infra.HealthChecks),
	}, identityService, cfg.WebSocket.Path)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Infof("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.WithError(err).Fatal("Server failed")
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Server forced to shutdown")
	}
}
