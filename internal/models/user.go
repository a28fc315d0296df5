package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	FullName     string             `json:"full_name" bson:"full_name"`
	Phone        string             `json:"phone" bson:"phone"`
	PasswordHash string             `json:"-" bson:"password"`
	Rating       float64            `json:"rating" bson:"rating"`
	TotalRides   int                `json:"total_rides" bson:"total_rides"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

type UserStats struct {
	TotalRides    int64   `json:"total_rides"`
	TotalSpent    float64 `json:"total_spent"`
	ThisMonth     int64   `json:"this_month"`
	AverageRating float64 `json:"average_rating"`
}

// BookingTotals is the per-user aggregate over bookings.
type BookingTotals struct {
	Count      int64   `bson:"count"`
	TotalSpent float64 `bson:"total_spent"`
	ThisMonth  int64   `bson:"this_month"`
}
