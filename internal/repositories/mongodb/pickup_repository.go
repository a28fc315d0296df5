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

type pickupRepository struct {
	collection *mongo.Collection
}

func NewPickupRepository(db *mongo.Database) interfaces.PickupRepository {
	return &pickupRepository{
		collection: db.Collection(database.PickupRequestsCollection),
	}
}

func (r *pickupRepository) Create(ctx context.Context, request *models.PickupRequest) error {
	request.ID = primitive.NewObjectID()

	if _, err := r.collection.InsertOne(ctx, request); err != nil {
		return fmt.Errorf("failed to create pickup request: %w", err)
	}

	return nil
}

func (r *pickupRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.PickupRequest, error) {
	var request models.PickupRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.NewNotFoundError("Pickup request")
		}
		return nil, fmt.Errorf("failed to get pickup request: %w", err)
	}

	return &request, nil
}

func (r *pickupRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int) ([]*models.PickupRequest, error) {
	return r.find(ctx, bson.M{"user_id": userID}, limit)
}

func (r *pickupRepository) ListByStatus(ctx context.Context, status models.PickupStatus, limit int) ([]*models.PickupRequest, error) {
	return r.find(ctx, bson.M{"status": status}, limit)
}

func (r *pickupRepository) List(ctx context.Context, limit int) ([]*models.PickupRequest, error) {
	return r.find(ctx, bson.M{}, limit)
}

func (r *pickupRepository) CancelByUser(ctx context.Context, id, userID primitive.ObjectID) (*models.PickupRequest, error) {
	return r.transition(ctx,
		bson.M{"_id": id, "user_id": userID, "status": models.PickupStatusPending},
		bson.M{"status": models.PickupStatusCancelled},
	)
}

func (r *pickupRepository) Accept(ctx context.Context, id, driverID primitive.ObjectID) (*models.PickupRequest, error) {
	return r.transition(ctx,
		bson.M{"_id": id, "status": models.PickupStatusPending},
		bson.M{"status": models.PickupStatusAccepted, "driver_id": driverID},
	)
}

func (r *pickupRepository) Release(ctx context.Context, id, driverID primitive.ObjectID) (*models.PickupRequest, error) {
	return r.transition(ctx,
		bson.M{
			"_id": id,
			"$or": bson.A{
				bson.M{"status": models.PickupStatusPending},
				bson.M{"status": models.PickupStatusAccepted, "driver_id": driverID},
			},
		},
		bson.M{"status": models.PickupStatusPending, "driver_id": nil},
	)
}

func (r *pickupRepository) Complete(ctx context.Context, id, driverID primitive.ObjectID) (*models.PickupRequest, error) {
	return r.transition(ctx,
		bson.M{"_id": id, "status": models.PickupStatusAccepted, "driver_id": driverID},
		bson.M{"status": models.PickupStatusCompleted},
	)
}

func (r *pickupRepository) transition(ctx context.Context, filter, set bson.M) (*models.PickupRequest, error) {
	set["updated_at"] = time.Now()

	var request models.PickupRequest
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, afterUpdate()).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, interfaces.ErrNoMatch
		}
		return nil, fmt.Errorf("failed to update pickup request: %w", err)
	}

	return &request, nil
}

func (r *pickupRepository) find(ctx context.Context, filter bson.M, limit int) ([]*models.PickupRequest, error) {
	cursor, err := r.collection.Find(ctx, filter, newestFirst(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list pickup requests: %w", err)
	}

	return decodeAll[models.PickupRequest](ctx, cursor)
}
