package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationTypeBooking NotificationType = "booking"
	NotificationTypePickup  NotificationType = "pickup"
	NotificationTypeRating  NotificationType = "rating"
	NotificationTypeSystem  NotificationType = "system"
)

type Notification struct {
	ID            primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	RecipientID   primitive.ObjectID     `json:"recipient_id" bson:"recipient_id"`
	RecipientType PrincipalKind          `json:"recipient_type" bson:"recipient_type"`
	Type          NotificationType       `json:"notification_type" bson:"notification_type"`
	Title         string                 `json:"title" bson:"title"`
	Message       string                 `json:"message" bson:"message"`
	Data          map[string]interface{} `json:"data,omitempty" bson:"data,omitempty"`
	IsRead        bool                   `json:"is_read" bson:"is_read"`
	CreatedAt     time.Time              `json:"created_at" bson:"created_at"`
}
