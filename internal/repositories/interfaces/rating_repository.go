package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/models"
)

type RatingRepository interface {
	// Create fails with a conflict error when the booking is already rated.
	Create(ctx context.Context, rating *models.Rating) error
	ExistsForBooking(ctx context.Context, bookingID primitive.ObjectID) (bool, error)
	RatedBookings(ctx context.Context, bookingIDs []primitive.ObjectID) (map[primitive.ObjectID]bool, error)
	AggregateForDriver(ctx context.Context, driverID primitive.ObjectID) (*models.RatingAggregate, error)
}
