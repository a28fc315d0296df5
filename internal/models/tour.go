package models

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TourStatus string

const (
	TourStatusActive TourStatus = "active"
)

type Tour struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DriverID        primitive.ObjectID `json:"driver_id" bson:"driver_id"`
	FromLocation    string             `json:"from_location" bson:"from_location"`
	ToLocation      string             `json:"to_location" bson:"to_location"`
	DepartureTime   time.Time          `json:"departure_time" bson:"departure_time"`
	ReturnTime      *time.Time         `json:"return_time,omitempty" bson:"return_time,omitempty"`
	MaxCapacity     int                `json:"max_capacity" bson:"max_capacity"`
	CurrentCapacity int                `json:"current_capacity" bson:"current_capacity"`
	PricePerPerson  float64            `json:"price_per_person" bson:"price_per_person"`
	Description     string             `json:"description,omitempty" bson:"description,omitempty"`
	Status          TourStatus         `json:"status" bson:"status"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
}

type NewTourParams struct {
	FromLocation   string
	ToLocation     string
	DepartureTime  time.Time
	ReturnTime     *time.Time
	MaxCapacity    int
	PricePerPerson float64
	Description    string
}

func NewTour(driverID primitive.ObjectID, p NewTourParams, now time.Time) (*Tour, error) {
	switch {
	case strings.TrimSpace(p.FromLocation) == "" || strings.TrimSpace(p.ToLocation) == "":
		return nil, errors.New("from_location and to_location are required")
	case p.MaxCapacity <= 0:
		return nil, errors.New("max_capacity must be positive")
	case p.PricePerPerson < 0:
		return nil, errors.New("price_per_person must not be negative")
	case p.DepartureTime.IsZero():
		return nil, errors.New("departure_time is required")
	case p.ReturnTime != nil && p.ReturnTime.Before(p.DepartureTime):
		return nil, errors.New("return_time must not be before departure_time")
	}

	return &Tour{
		DriverID:        driverID,
		FromLocation:    strings.TrimSpace(p.FromLocation),
		ToLocation:      strings.TrimSpace(p.ToLocation),
		DepartureTime:   p.DepartureTime,
		ReturnTime:      p.ReturnTime,
		MaxCapacity:     p.MaxCapacity,
		CurrentCapacity: 0,
		PricePerPerson:  p.PricePerPerson,
		Description:     p.Description,
		Status:          TourStatusActive,
		CreatedAt:       now,
	}, nil
}

func (t *Tour) SeatsLeft() int {
	return t.MaxCapacity - t.CurrentCapacity
}

// TourFilter narrows ListActive. Zero values mean "no constraint".
type TourFilter struct {
	FromLocation string
	ToLocation   string
	MaxPrice     *float64
	DepartAfter  *time.Time
	ExcludeIDs   []primitive.ObjectID
}

type TourWithDriver struct {
	*Tour
	Driver *DriverSummary `json:"driver"`
}

// TourSummary is the slice of a tour embedded in booking views.
type TourSummary struct {
	ID            primitive.ObjectID `json:"id"`
	FromLocation  string             `json:"from_location"`
	ToLocation    string             `json:"to_location"`
	DepartureTime time.Time          `json:"departure_time"`
}

func (t *Tour) Summary() *TourSummary {
	return &TourSummary{
		ID:            t.ID,
		FromLocation:  t.FromLocation,
		ToLocation:    t.ToLocation,
		DepartureTime: t.DepartureTime,
	}
}
