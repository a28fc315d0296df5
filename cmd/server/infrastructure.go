package main

import (
	"context"
	"fmt"
	"time"

	"pickupapp/internal/config"
	"pickupapp/internal/handlers"
	"pickupapp/internal/repositories/interfaces"
	"pickupapp/internal/repositories/memory"
	mongorepo "pickupapp/internal/repositories/mongodb"
	"pickupapp/pkg/cache"
	"pickupapp/pkg/database"
	"pickupapp/pkg/logger"
	"pickupapp/pkg/sms"
	"pickupapp/pkg/storage"
)

type repositories struct {
	Users         interfaces.UserRepository
	Drivers       interfaces.DriverRepository
	Portfolios    interfaces.PortfolioRepository
	Availability  interfaces.AvailabilityRepository
	Tours         interfaces.TourRepository
	Bookings      interfaces.BookingRepository
	Pickups       interfaces.PickupRepository
	Ratings       interfaces.RatingRepository
	Notifications interfaces.NotificationRepository
	Discounts     interfaces.DiscountRepository
}

type infrastructure struct {
	Repos        *repositories
	Cache        interfaces.CacheService
	Storage      storage.StorageProvider
	SMS          sms.SMSProvider
	HealthChecks map[string]handlers.Pinger

	closers []func() error
	logger  *logger.Logger
}

func (i *infrastructure) Close() {
	for n := len(i.closers) - 1; n >= 0; n-- {
		if err := i.closers[n](); err != nil {
			i.logger.WithError(err).Warn("Shutdown cleanup failed")
		}
	}
}

func setupInfrastructure(ctx context.Context, cfg *config.Config, log *logger.Logger) (*infrastructure, error) {
	infra := &infrastructure{
		HealthChecks: make(map[string]handlers.Pinger),
		logger:       log,
	}

	if err := infra.setupCache(ctx, cfg.Redis); err != nil {
		infra.Close()
		return nil, err
	}
	if err := infra.setupRepositories(ctx, cfg.Database, cfg.Redis.DefaultTTL); err != nil {
		infra.Close()
		return nil, err
	}
	if err := infra.setupStorage(ctx, cfg.Storage); err != nil {
		infra.Close()
		return nil, err
	}
	if err := infra.setupSMS(ctx, cfg.SMS); err != nil {
		infra.Close()
		return nil, err
	}

	return infra, nil
}

func (i *infrastructure) setupCache(ctx context.Context, cfg *config.RedisConfig) error {
	if !cfg.Enabled {
		i.Cache = cache.NopCache{}
		i.logger.Info("Cache disabled, login rate limiting is off")
		return nil
	}

	redisCache, err := cache.NewRedisCache(ctx, &cache.RedisConfig{
		Host:         cfg.Host,
		Port:         cfg.Port,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	i.Cache = redisCache
	i.HealthChecks["cache"] = redisCache
	i.closers = append(i.closers, redisCache.Close)
	return nil
}

func (i *infrastructure) setupRepositories(ctx context.Context, cfg *config.DatabaseConfig, cacheTTL time.Duration) error {
	if cfg.Driver == config.DriverMemory {
		store := memory.NewStore()
		i.Repos = &repositories{
			Users:         memory.NewUserRepository(store),
			Drivers:       memory.NewDriverRepository(store),
			Portfolios:    memory.NewPortfolioRepository(store),
			Availability:  memory.NewAvailabilityRepository(store),
			Tours:         memory.NewTourRepository(store),
			Bookings:      memory.NewBookingRepository(store),
			Pickups:       memory.NewPickupRepository(store),
			Ratings:       memory.NewRatingRepository(store),
			Notifications: memory.NewNotificationRepository(store),
			Discounts:     memory.NewDiscountRepository(store),
		}
		i.logger.Warn("Using in-memory storage, data is lost on restart")
		return nil
	}

	mongoDB, err := connectMongo(ctx, cfg)
	if err != nil {
		return err
	}
	i.closers = append(i.closers, mongoDB.Close)
	i.HealthChecks["database"] = mongoDB

	if cfg.RunMigrations {
		if err := database.NewMigrator(mongoDB.Database, i.logger).Up(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	db := mongoDB.Database
	i.Repos = &repositories{
		Users:         mongorepo.NewUserRepository(db),
		Drivers:       mongorepo.NewDriverRepository(db, i.Cache, cacheTTL),
		Portfolios:    mongorepo.NewPortfolioRepository(db),
		Availability:  mongorepo.NewAvailabilityRepository(db),
		Tours:         mongorepo.NewTourRepository(db),
		Bookings:      mongorepo.NewBookingRepository(db),
		Pickups:       mongorepo.NewPickupRepository(db),
		Ratings:       mongorepo.NewRatingRepository(db),
		Notifications: mongorepo.NewNotificationRepository(db),
		Discounts:     mongorepo.NewDiscountRepository(db),
	}
	return nil
}

func (i *infrastructure) setupStorage(ctx context.Context, cfg *config.StorageConfig) error {
	switch cfg.Provider {
	case "aws":
		provider, err := storage.NewAWSS3Storage(ctx, cfg.AWS.Region, cfg.AWS.Bucket, cfg.AWS.CDNDomain)
		if err != nil {
			return fmt.Errorf("failed to initialize s3 storage: %w", err)
		}
		i.Storage = provider
	case "gcp":
		provider, err := storage.NewGCPStorage(ctx, cfg.GCP.Bucket, cfg.GCP.CredentialsFile, cfg.GCP.CDNDomain)
		if err != nil {
			return fmt.Errorf("failed to initialize gcs storage: %w", err)
		}
		i.Storage = provider
		i.closers = append(i.closers, provider.Close)
	default:
		provider, err := storage.NewLocalStorage(cfg.Local.BasePath, cfg.Local.BaseURL)
		if err != nil {
			return fmt.Errorf("failed to initialize local storage: %w", err)
		}
		i.Storage = provider
	}
	return nil
}

func (i *infrastructure) setupSMS(ctx context.Context, cfg *config.SMSConfig) error {
	if !cfg.Enabled {
		return nil
	}

	switch cfg.Provider {
	case "aws":
		provider, err := sms.NewAWSSNSProvider(ctx, cfg.AWS.Region, cfg.SenderID)
		if err != nil {
			return fmt.Errorf("failed to initialize sns: %w", err)
		}
		i.SMS = provider
	default:
		i.SMS = sms.NewTwilioProvider(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber)
	}
	return nil
}

func connectMongo(ctx context.Context, cfg *config.DatabaseConfig) (*database.MongoDB, error) {
	mongoDB, err := database.NewMongoDB(ctx, &database.DatabaseConfig{
		URI:            cfg.URI,
		Database:       cfg.Database,
		MaxPoolSize:    cfg.MaxPoolSize,
		MinPoolSize:    cfg.MinPoolSize,
		ConnectTimeout: cfg.ConnectTimeout,
		SocketTimeout:  cfg.SocketTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	return mongoDB, nil
}

// rollbackMigrations reverts index migrations above target. The memory driver has nothing to revert.
func rollbackMigrations(ctx context.Context, cfg *config.DatabaseConfig, target int, log *logger.Logger) error {
	if cfg.Driver == config.DriverMemory {
		return nil
	}

	mongoDB, err := connectMongo(ctx, cfg)
	if err != nil {
		return err
	}
	defer mongoDB.Close()

	return database.NewMigrator(mongoDB.Database, log).Down(ctx, target)
}
