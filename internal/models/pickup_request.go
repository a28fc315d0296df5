package models

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PickupStatus string

const (
	PickupStatusPending   PickupStatus = "pending"
	PickupStatusAccepted  PickupStatus = "accepted"
	PickupStatusCompleted PickupStatus = "completed"
	PickupStatusCancelled PickupStatus = "cancelled"
)

type PickupRequest struct {
	ID                   primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID               primitive.ObjectID  `json:"user_id" bson:"user_id"`
	DriverID             *primitive.ObjectID `json:"driver_id" bson:"driver_id"`
	PickupLocation       string              `json:"pickup_location" bson:"pickup_location"`
	Destination          string              `json:"destination" bson:"destination"`
	PickupTime           time.Time           `json:"pickup_time" bson:"pickup_time"`
	NumberOfPeople       int                 `json:"number_of_people" bson:"number_of_people"`
	PreferredCarType     string              `json:"preferred_car_type" bson:"preferred_car_type"`
	AllowOtherPassengers bool                `json:"allow_other_passengers" bson:"allow_other_passengers"`
	SpecialRequests      string              `json:"special_requests,omitempty" bson:"special_requests,omitempty"`
	Status               PickupStatus        `json:"status" bson:"status"`
	CreatedAt            time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at" bson:"updated_at"`
}

type NewPickupParams struct {
	PickupLocation       string
	Destination          string
	PickupTime           time.Time
	NumberOfPeople       int
	PreferredCarType     string
	AllowOtherPassengers bool
	SpecialRequests      string
}

func NewPickupRequest(userID primitive.ObjectID, p NewPickupParams, now time.Time) (*PickupRequest, error) {
	switch {
	case strings.TrimSpace(p.PickupLocation) == "" || strings.TrimSpace(p.Destination) == "":
		return nil, errors.New("pickup_location and destination are required")
	case p.NumberOfPeople <= 0:
		return nil, errors.New("number_of_people must be positive")
	case p.PickupTime.IsZero():
		return nil, errors.New("pickup_time is required")
	}

	return &PickupRequest{
		UserID:               userID,
		PickupLocation:       strings.TrimSpace(p.PickupLocation),
		Destination:          strings.TrimSpace(p.Destination),
		PickupTime:           p.PickupTime,
		NumberOfPeople:       p.NumberOfPeople,
		PreferredCarType:     p.PreferredCarType,
		AllowOtherPassengers: p.AllowOtherPassengers,
		SpecialRequests:      p.SpecialRequests,
		Status:               PickupStatusPending,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}

// PickupRequestView adds the requesting user's contact details.
type PickupRequestView struct {
	*PickupRequest
	User *PassengerSummary `json:"user,omitempty"`
}
