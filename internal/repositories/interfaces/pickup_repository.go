package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/models"
)

// PickupRepository state changes are single conditional updates. Each returns
// the updated request, or ErrNoMatch when the request is missing or no longer in
// the expected state.
type PickupRepository interface {
	Create(ctx context.Context, request *models.PickupRequest) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.PickupRequest, error)

	// Listings are newest first. limit <= 0 means no limit.
	ListByUser(ctx context.Context, userID primitive.ObjectID, limit int) ([]*models.PickupRequest, error)
	ListByStatus(ctx context.Context, status models.PickupStatus, limit int) ([]*models.PickupRequest, error)
	List(ctx context.Context, limit int) ([]*models.PickupRequest, error)

	// CancelByUser: {owner, pending} -> cancelled.
	CancelByUser(ctx context.Context, id, userID primitive.ObjectID) (*models.PickupRequest, error)
	// Accept: {pending} -> accepted, assigning driverID.
	Accept(ctx context.Context, id, driverID primitive.ObjectID) (*models.PickupRequest, error)
	// Release: {pending} or {accepted by driverID} -> pending, clearing the driver.
	Release(ctx context.Context, id, driverID primitive.ObjectID) (*models.PickupRequest, error)
	// Complete: {accepted by driverID} -> completed.
	Complete(ctx context.Context, id, driverID primitive.ObjectID) (*models.PickupRequest, error)
}
