package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Rating struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DriverID  primitive.ObjectID `json:"driver_id" bson:"driver_id"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	BookingID primitive.ObjectID `json:"booking_id" bson:"booking_id"`
	Rating    int                `json:"rating" bson:"rating"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// RatingAggregate is the mean and count of a driver's ratings.
type RatingAggregate struct {
	Average float64 `bson:"average"`
	Count   int     `bson:"count"`
}
