package interfaces

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/models"
)

type TourRepository interface {
	Create(ctx context.Context, tour *models.Tour) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tour, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Tour, error)

	// ListAvailable returns active tours with free seats matching filter, unordered.
	ListAvailable(ctx context.Context, filter *models.TourFilter) ([]*models.Tour, error)
	// ListByDriver returns the driver's tours newest first. limit <= 0 means no limit.
	ListByDriver(ctx context.Context, driverID primitive.ObjectID, limit int) ([]*models.Tour, error)
	CountByDriverSince(ctx context.Context, driverID primitive.ObjectID, since time.Time) (int64, error)
	// CountByDrivers returns the total number of tours per driver.
	CountByDrivers(ctx context.Context, driverIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error)

	// ReserveSeats adds seats in a single conditional update that only matches an
	// active tour with current_capacity + seats <= max_capacity. Returns ErrNoMatch
	// when the condition does not hold.
	ReserveSeats(ctx context.Context, tourID primitive.ObjectID, seats int) error
	// ReleaseSeats subtracts seats, never taking current_capacity below zero.
	ReleaseSeats(ctx context.Context, tourID primitive.ObjectID, seats int) error
}
