package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"pickupapp/internal/models"
	"pickupapp/internal/repositories/interfaces"
	"pickupapp/internal/utils"
	"pickupapp/pkg/database"
)

type ratingRepository struct {
	collection *mongo.Collection
}

func NewRatingRepository(db *mongo.Database) interfaces.RatingRepository {
	return &ratingRepository{
		collection: db.Collection(database.RatingsCollection),
	}
}

func (r *ratingRepository) Create(ctx context.Context, rating *models.Rating) error {
	rating.ID = primitive.NewObjectID()

	if _, err := r.collection.InsertOne(ctx, rating); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewConflictError(utils.ErrMsgAlreadyRated)
		}
		return fmt.Errorf("failed to create rating: %w", err)
	}

	return nil
}

func (r *ratingRepository) ExistsForBooking(ctx context.Context, bookingID primitive.ObjectID) (bool, error) {
	err := r.collection.FindOne(ctx, bson.M{"booking_id": bookingID}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up rating: %w", err)
	}

	return true, nil
}

func (r *ratingRepository) RatedBookings(ctx context.Context, bookingIDs []primitive.ObjectID) (map[primitive.ObjectID]bool, error) {
	result := make(map[primitive.ObjectID]bool, len(bookingIDs))
	if len(bookingIDs) == 0 {
		return result, nil
	}

	values, err := r.collection.Distinct(ctx, "booking_id", bson.M{"booking_id": inIDs(bookingIDs)})
	if err != nil {
		return nil, fmt.Errorf("failed to look up ratings: %w", err)
	}

	for _, v := range values {
		if id, ok := v.(primitive.ObjectID); ok {
			result[id] = true
		}
	}
	return result, nil
}

func (r *ratingRepository) AggregateForDriver(ctx context.Context, driverID primitive.ObjectID) (*models.RatingAggregate, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"driver_id": driverID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     "$driver_id",
			"average": bson.M{"$avg": "$rating"},
			"count":   bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	rows, err := decodeAll[models.RatingAggregate](ctx, cursor)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &models.RatingAggregate{}, nil
	}
	return rows[0], nil
}
