package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID primitive.ObjectID, limit int) ([]*models.Notification, error)
	// MarkRead returns ErrNoMatch when no notification with id belongs to recipientID.
	MarkRead(ctx context.Context, id, recipientID primitive.ObjectID) error
}
