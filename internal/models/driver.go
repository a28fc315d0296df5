package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Driver struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email              string             `json:"email" bson:"email"`
	FullName           string             `json:"full_name" bson:"full_name"`
	Phone              string             `json:"phone" bson:"phone"`
	CarType            string             `json:"car_type" bson:"car_type"`
	LicenseNumber      string             `json:"license_number" bson:"license_number"`
	WorkingArea        string             `json:"working_area" bson:"working_area"`
	PasswordHash       string             `json:"-" bson:"password"`
	Rating             float64            `json:"rating" bson:"rating"`
	TotalTrips         int                `json:"total_trips" bson:"total_trips"`
	PortfolioCompleted bool               `json:"portfolio_completed" bson:"portfolio_completed"`
	CreatedAt          time.Time          `json:"created_at" bson:"created_at"`
}

type DriverPortfolio struct {
	ID              primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	DriverID        primitive.ObjectID `json:"driver_id" bson:"driver_id"`
	FullName        string             `json:"full_name" bson:"full_name"`
	Age             int                `json:"age" bson:"age"`
	CarModel        string             `json:"car_model" bson:"car_model"`
	CarYear         int                `json:"car_year" bson:"car_year"`
	CarColor        string             `json:"car_color" bson:"car_color"`
	ExperienceYears int                `json:"experience_years" bson:"experience_years"`
	Bio             string             `json:"bio" bson:"bio"`
	Languages       []string           `json:"languages" bson:"languages"`
	Certifications  []string           `json:"certifications" bson:"certifications"`
	ProfileImage    string             `json:"profile_image,omitempty" bson:"profile_image,omitempty"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

// DefaultPortfolio is what a driver sees before saving a portfolio.
func DefaultPortfolio(driver *Driver, now time.Time) *DriverPortfolio {
	return &DriverPortfolio{
		DriverID:        driver.ID,
		FullName:        driver.FullName,
		Age:             18,
		CarModel:        driver.CarType,
		CarYear:         now.Year(),
		CarColor:        "Not specified",
		ExperienceYears: 0,
		Bio:             "",
		Languages:       []string{},
		Certifications:  []string{},
	}
}

type DriverAvailability struct {
	ID           primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	DriverID     primitive.ObjectID `json:"driver_id" bson:"driver_id"`
	WorkingHours map[string]string  `json:"working_hours" bson:"working_hours"`
	Locations    []string           `json:"locations" bson:"locations"`
	CarTypes     []string           `json:"car_types" bson:"car_types"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

// DriverProfile is a driver joined with its portfolio (nil when none was saved).
type DriverProfile struct {
	*Driver
	Portfolio *DriverPortfolio `json:"portfolio"`
}

// DriverSummary is the public slice of a driver embedded in tours and bookings.
type DriverSummary struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	FullName     string             `json:"full_name" bson:"full_name"`
	Phone        string             `json:"phone" bson:"phone"`
	CarType      string             `json:"car_type" bson:"car_type"`
	Rating       float64            `json:"rating" bson:"rating"`
	TotalTrips   int                `json:"total_trips" bson:"total_trips"`
	ProfileImage string             `json:"profile_image,omitempty" bson:"profile_image,omitempty"`
}

func (d *Driver) Summary() *DriverSummary {
	return &DriverSummary{
		ID:         d.ID,
		FullName:   d.FullName,
		Phone:      d.Phone,
		CarType:    d.CarType,
		Rating:     d.Rating,
		TotalTrips: d.TotalTrips,
	}
}

type DriverStats struct {
	TotalEarnings float64 `json:"total_earnings"`
	TotalTrips    int64   `json:"total_trips"`
	AverageRating float64 `json:"average_rating"`
	ThisMonth     int64   `json:"this_month"`
}

// EarningTotals aggregates non-cancelled bookings on a driver's tours.
type EarningTotals struct {
	TotalPrice  float64 `bson:"total_price"`
	TotalPeople int64   `bson:"total_people"`
}

type ActivityItem struct {
	Type      string             `json:"type"`
	Title     string             `json:"title"`
	Status    string             `json:"status"`
	Details   string             `json:"details"`
	TourID    primitive.ObjectID `json:"tour_id"`
	Timestamp time.Time          `json:"timestamp"`
}
