package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"pickupapp/internal/models"
	"pickupapp/internal/repositories/interfaces"
	"pickupapp/internal/utils"
	"pickupapp/pkg/database"
)

type bookingRepository struct {
	collection *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) interfaces.BookingRepository {
	return &bookingRepository{
		collection: db.Collection(database.BookingsCollection),
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	booking.ID = primitive.NewObjectID()

	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.NewNotFoundError("Booking")
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &booking, nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int) ([]*models.Booking, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, newestFirst(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list user bookings: %w", err)
	}

	return decodeAll[models.Booking](ctx, cursor)
}

func (r *bookingRepository) ListByDriver(ctx context.Context, driverID primitive.ObjectID, limit int) ([]*models.Booking, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"driver_id": driverID}, newestFirst(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list driver bookings: %w", err)
	}

	return decodeAll[models.Booking](ctx, cursor)
}

func (r *bookingRepository) BookedTourIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	values, err := r.collection.Distinct(ctx, "tour_id", bson.M{
		"user_id": userID,
		"status":  bson.M{"$ne": models.BookingStatusCancelled},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get booked tours: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *bookingRepository) TransitionStatus(ctx context.Context, id primitive.ObjectID, from []models.BookingStatus, to models.BookingStatus) (*models.Booking, error) {
	var booking models.Booking
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": bson.M{"$in": from}},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now()}},
		afterUpdate(),
	).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, interfaces.ErrNoMatch
		}
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	return &booking, nil
}

func (r *bookingRepository) UserTotals(ctx context.Context, userID primitive.ObjectID, monthStart time.Time) (*models.BookingTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"count":       bson.M{"$sum": 1},
			"total_spent": bson.M{"$sum": "$total_price"},
			"this_month": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$gte": bson.A{"$created_at", monthStart}}, 1, 0,
			}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate user bookings: %w", err)
	}

	rows, err := decodeAll[models.BookingTotals](ctx, cursor)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &models.BookingTotals{}, nil
	}
	return rows[0], nil
}

func (r *bookingRepository) DriverEarnings(ctx context.Context, driverID primitive.ObjectID) (*models.EarningTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"driver_id": driverID,
			"status":    bson.M{"$ne": models.BookingStatusCancelled},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"total_price":  bson.M{"$sum": "$total_price"},
			"total_people": bson.M{"$sum": "$number_of_people"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate driver earnings: %w", err)
	}

	rows, err := decodeAll[models.EarningTotals](ctx, cursor)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &models.EarningTotals{}, nil
	}
	return rows[0], nil
}
