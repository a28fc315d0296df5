package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/models"
)

type DriverRepository interface {
	// Create fails with a conflict error when the email is taken.
	Create(ctx context.Context, driver *models.Driver) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Driver, error)
	GetByEmail(ctx context.Context, email string) (*models.Driver, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Driver, error)
	List(ctx context.Context, limit int) ([]*models.Driver, error)

	UpdateReputation(ctx context.Context, id primitive.ObjectID, rating float64, totalTrips int) error
	MarkPortfolioCompleted(ctx context.Context, id primitive.ObjectID) error
}

type PortfolioRepository interface {
	Upsert(ctx context.Context, portfolio *models.DriverPortfolio) error
	// GetByDriverID returns nil without error when the driver has no portfolio.
	GetByDriverID(ctx context.Context, driverID primitive.ObjectID) (*models.DriverPortfolio, error)
	GetByDriverIDs(ctx context.Context, driverIDs []primitive.ObjectID) (map[primitive.ObjectID]*models.DriverPortfolio, error)
}

type AvailabilityRepository interface {
	Upsert(ctx context.Context, availability *models.DriverAvailability) error
	// List filters by a case-insensitive location substring and an exact car type.
	List(ctx context.Context, location, carType string, limit int) ([]*models.DriverAvailability, error)
}
