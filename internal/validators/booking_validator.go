package validators

import "time"

type CreateTourRequest struct {
	FromLocation   string     `json:"from_location" validate:"required,not_blank,max=200"`
	ToLocation     string     `json:"to_location" validate:"required,not_blank,max=200"`
	DepartureTime  time.Time  `json:"departure_time" validate:"required"`
	ReturnTime     *time.Time `json:"return_time" validate:"omitempty,gtefield=DepartureTime"`
	MaxCapacity    int        `json:"max_capacity" validate:"required,gt=0,lte=100"`
	PricePerPerson float64    `json:"price_per_person" validate:"gte=0"`
	Description    string     `json:"description" validate:"max=2000"`
}

type CreateBookingRequest struct {
	TourID         string  `json:"tour_id" validate:"required,object_id"`
	NumberOfPeople int     `json:"number_of_people" validate:"required,gt=0"`
	TotalPrice     float64 `json:"total_price" validate:"gte=0"`
	PaymentType    string  `json:"payment_type" validate:"required,not_blank,max=30"`
}

type CreatePickupRequest struct {
	PickupLocation       string    `json:"pickup_location" validate:"required,not_blank,max=200"`
	Destination          string    `json:"destination" validate:"required,not_blank,max=200"`
	PickupTime           time.Time `json:"pickup_time" validate:"required"`
	NumberOfPeople       int       `json:"number_of_people" validate:"required,gt=0"`
	PreferredCarType     string    `json:"preferred_car_type" validate:"max=50"`
	AllowOtherPassengers bool      `json:"allow_other_passengers"`
	SpecialRequests      string    `json:"special_requests" validate:"max=1000"`
}

type RateDriverRequest struct {
	BookingID string `json:"booking_id" validate:"required,object_id"`
	Rating    int    `json:"rating" validate:"rating_value"`
}
