package mongodb

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pickupapp/internal/models"
	"pickupapp/internal/repositories/interfaces"
	"pickupapp/pkg/database"
)

type availabilityRepository struct {
	collection *mongo.Collection
}

func NewAvailabilityRepository(db *mongo.Database) interfaces.AvailabilityRepository {
	return &availabilityRepository{
		collection: db.Collection(database.DriverAvailability),
	}
}

func (r *availabilityRepository) Upsert(ctx context.Context, availability *models.DriverAvailability) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"driver_id": availability.DriverID},
		bson.M{"$set": bson.M{
			"driver_id":     availability.DriverID,
			"working_hours": availability.WorkingHours,
			"locations":     availability.Locations,
			"car_types":     availability.CarTypes,
			"created_at":    availability.CreatedAt,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert availability: %w", err)
	}

	return nil
}

func (r *availabilityRepository) List(ctx context.Context, location, carType string, limit int) ([]*models.DriverAvailability, error) {
	filter := bson.M{}
	if location != "" {
		filter["locations"] = primitive.Regex{Pattern: regexp.QuoteMeta(location), Options: "i"}
	}
	if carType != "" {
		filter["car_types"] = carType
	}

	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability: %w", err)
	}

	return decodeAll[models.DriverAvailability](ctx, cursor)
}
