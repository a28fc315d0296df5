package interfaces

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/models"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)

	// ListByUser and ListByDriver return newest first. limit <= 0 means no limit.
	ListByUser(ctx context.Context, userID primitive.ObjectID, limit int) ([]*models.Booking, error)
	ListByDriver(ctx context.Context, driverID primitive.ObjectID, limit int) ([]*models.Booking, error)
	// BookedTourIDs returns the tours the user holds a non-cancelled booking on.
	BookedTourIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)

	// TransitionStatus moves the booking to "to" only if its current status is one
	// of "from". Returns the updated booking, or ErrNoMatch.
	TransitionStatus(ctx context.Context, id primitive.ObjectID, from []models.BookingStatus, to models.BookingStatus) (*models.Booking, error)

	UserTotals(ctx context.Context, userID primitive.ObjectID, monthStart time.Time) (*models.BookingTotals, error)
	DriverEarnings(ctx context.Context, driverID primitive.ObjectID) (*models.EarningTotals, error)
}
