package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	BookingStatusUpcoming  BookingStatus = "upcoming"
	BookingStatusPaid      BookingStatus = "paid"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

const PaymentTypeCash = "cash"

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusUpcoming: {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusPaid:     {BookingStatusCompleted, BookingStatusCancelled},
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Active reports whether the booking still holds seats and can be resolved.
func (s BookingStatus) Active() bool {
	return s == BookingStatusUpcoming || s == BookingStatusPaid
}

// ActiveBookingStatuses are the statuses a cancel or complete may start from.
var ActiveBookingStatuses = []BookingStatus{BookingStatusUpcoming, BookingStatusPaid}

type Booking struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TourID         primitive.ObjectID `json:"tour_id" bson:"tour_id"`
	UserID         primitive.ObjectID `json:"user_id" bson:"user_id"`
	DriverID       primitive.ObjectID `json:"driver_id" bson:"driver_id"`
	Username       string             `json:"username" bson:"username"`
	DriverName     string             `json:"driver_name" bson:"driver_name"`
	NumberOfPeople int                `json:"number_of_people" bson:"number_of_people"`
	TotalPrice     float64            `json:"total_price" bson:"total_price"`
	PaymentType    string             `json:"payment_type" bson:"payment_type"`
	Status         BookingStatus      `json:"status" bson:"status"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

type NewBookingParams struct {
	TourID         primitive.ObjectID
	NumberOfPeople int
	TotalPrice     float64
	PaymentType    string
}

// NewBooking builds a booking for user on tour. Cash bookings start upcoming,
// everything else is considered paid at booking time.
func NewBooking(user *User, tour *Tour, driverName string, p NewBookingParams, now time.Time) (*Booking, error) {
	switch {
	case p.NumberOfPeople <= 0:
		return nil, errors.New("number_of_people must be positive")
	case p.TotalPrice < 0:
		return nil, errors.New("total_price must not be negative")
	case p.PaymentType == "":
		return nil, errors.New("payment_type is required")
	}

	status := BookingStatusPaid
	if p.PaymentType == PaymentTypeCash {
		status = BookingStatusUpcoming
	}

	return &Booking{
		TourID:         tour.ID,
		UserID:         user.ID,
		DriverID:       tour.DriverID,
		Username:       user.FullName,
		DriverName:     driverName,
		NumberOfPeople: p.NumberOfPeople,
		TotalPrice:     p.TotalPrice,
		PaymentType:    p.PaymentType,
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

type PassengerSummary struct {
	ID       primitive.ObjectID `json:"id"`
	FullName string             `json:"full_name"`
	Phone    string             `json:"phone"`
}

// BookingView is a booking joined with its tour, driver or passenger.
type BookingView struct {
	ID             primitive.ObjectID `json:"id"`
	Status         BookingStatus      `json:"status"`
	TotalPrice     float64            `json:"total_price"`
	NumberOfPeople int                `json:"number_of_people"`
	PaymentType    string             `json:"payment_type"`
	CreatedAt      time.Time          `json:"created_at"`
	IsRated        bool               `json:"is_rated"`
	Tour           *TourSummary       `json:"tour,omitempty"`
	Driver         *DriverSummary     `json:"driver,omitempty"`
	Passenger      *PassengerSummary  `json:"passenger,omitempty"`
}
