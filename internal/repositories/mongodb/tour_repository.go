package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"pickupapp/internal/models"
	"pickupapp/internal/repositories/interfaces"
	"pickupapp/internal/utils"
	"pickupapp/pkg/database"
)

type tourRepository struct {
	collection *mongo.Collection
}

func NewTourRepository(db *mongo.Database) interfaces.TourRepository {
	return &tourRepository{
		collection: db.Collection(database.ToursCollection),
	}
}

func (r *tourRepository) Create(ctx context.Context, tour *models.Tour) error {
	tour.ID = primitive.NewObjectID()

	if _, err := r.collection.InsertOne(ctx, tour); err != nil {
		return fmt.Errorf("failed to create tour: %w", err)
	}

	return nil
}

func (r *tourRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tour, error) {
	var tour models.Tour
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tour)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.NewNotFoundError("Tour")
		}
		return nil, fmt.Errorf("failed to get tour: %w", err)
	}

	return &tour, nil
}

func (r *tourRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Tour, error) {
	result := make(map[primitive.ObjectID]*models.Tour, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": inIDs(ids)})
	if err != nil {
		return nil, fmt.Errorf("failed to get tours: %w", err)
	}

	tours, err := decodeAll[models.Tour](ctx, cursor)
	if err != nil {
		return nil, err
	}

	for _, t := range tours {
		result[t.ID] = t
	}
	return result, nil
}

func (r *tourRepository) ListAvailable(ctx context.Context, filter *models.TourFilter) ([]*models.Tour, error) {
	query := bson.M{
		"status": models.TourStatusActive,
		"$expr":  bson.M{"$lt": bson.A{"$current_capacity", "$max_capacity"}},
	}

	if filter != nil {
		if filter.FromLocation != "" {
			query["from_location"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.FromLocation), Options: "i"}
		}
		if filter.ToLocation != "" {
			query["to_location"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.ToLocation), Options: "i"}
		}
		if filter.MaxPrice != nil {
			query["price_per_person"] = bson.M{"$lte": *filter.MaxPrice}
		}
		if filter.DepartAfter != nil {
			query["departure_time"] = bson.M{"$gte": *filter.DepartAfter}
		}
		if len(filter.ExcludeIDs) > 0 {
			query["_id"] = bson.M{"$nin": filter.ExcludeIDs}
		}
	}

	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}

	return decodeAll[models.Tour](ctx, cursor)
}

func (r *tourRepository) ListByDriver(ctx context.Context, driverID primitive.ObjectID, limit int) ([]*models.Tour, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"driver_id": driverID}, newestFirst(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list driver tours: %w", err)
	}

	return decodeAll[models.Tour](ctx, cursor)
}

func (r *tourRepository) CountByDriverSince(ctx context.Context, driverID primitive.ObjectID, since time.Time) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"driver_id":  driverID,
		"created_at": bson.M{"$gte": since},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count tours: %w", err)
	}

	return count, nil
}

func (r *tourRepository) CountByDrivers(ctx context.Context, driverIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	result := make(map[primitive.ObjectID]int64, len(driverIDs))
	if len(driverIDs) == 0 {
		return result, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"driver_id": inIDs(driverIDs)}}},
		{{Key: "$group", Value: bson.M{"_id": "$driver_id", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to count tours by driver: %w", err)
	}

	rows, err := decodeAll[struct {
		DriverID primitive.ObjectID `bson:"_id"`
		Count    int64              `bson:"count"`
	}](ctx, cursor)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.DriverID] = row.Count
	}
	return result, nil
}

func (r *tourRepository) ReserveSeats(ctx context.Context, tourID primitive.ObjectID, seats int) error {
	filter := bson.M{
		"_id":    tourID,
		"status": models.TourStatusActive,
		"$expr": bson.M{"$lte": bson.A{
			bson.M{"$add": bson.A{"$current_capacity", seats}},
			"$max_capacity",
		}},
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"current_capacity": seats}})
	if err != nil {
		return fmt.Errorf("failed to reserve seats: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNoMatch
	}

	return nil
}

func (r *tourRepository) ReleaseSeats(ctx context.Context, tourID primitive.ObjectID, seats int) error {
	// Pipeline update so the clamp and the decrement are one atomic write.
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"current_capacity": bson.M{"$max": bson.A{
				0,
				bson.M{"$subtract": bson.A{"$current_capacity", seats}},
			}},
		}}},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": tourID}, update)
	if err != nil {
		return fmt.Errorf("failed to release seats: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("Tour")
	}

	return nil
}
