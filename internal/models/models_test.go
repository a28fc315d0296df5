package models

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{BookingStatusUpcoming, BookingStatusCompleted, true},
		{BookingStatusUpcoming, BookingStatusCancelled, true},
		{BookingStatusPaid, BookingStatusCompleted, true},
		{BookingStatusPaid, BookingStatusCancelled, true},
		{BookingStatusCompleted, BookingStatusCancelled, false},
		{BookingStatusCancelled, BookingStatusCompleted, false},
		{BookingStatusCancelled, BookingStatusUpcoming, false},
		{BookingStatusUpcoming, BookingStatusPaid, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestNewBooking_StatusFromPaymentType(t *testing.T) {
	user := &User{ID: primitive.NewObjectID(), FullName: "Ada"}
	tour := &Tour{ID: primitive.NewObjectID(), DriverID: primitive.NewObjectID()}
	now := time.Now()

	cash, err := NewBooking(user, tour, "Bob", NewBookingParams{TourID: tour.ID, NumberOfPeople: 1, PaymentType: "cash"}, now)
	if err != nil {
		t.Fatalf("NewBooking() error = %v", err)
	}
	if cash.Status != BookingStatusUpcoming {
		t.Errorf("cash status = %s, want upcoming", cash.Status)
	}

	card, err := NewBooking(user, tour, "Bob", NewBookingParams{TourID: tour.ID, NumberOfPeople: 1, PaymentType: "card"}, now)
	if err != nil {
		t.Fatalf("NewBooking() error = %v", err)
	}
	if card.Status != BookingStatusPaid {
		t.Errorf("card status = %s, want paid", card.Status)
	}
	if card.Username != "Ada" || card.DriverName != "Bob" || card.DriverID != tour.DriverID {
		t.Errorf("denormalised fields not set: %+v", card)
	}

	if _, err := NewBooking(user, tour, "Bob", NewBookingParams{NumberOfPeople: 0, PaymentType: "cash"}, now); err == nil {
		t.Error("zero people should be rejected")
	}
}

func TestNewTour_Validation(t *testing.T) {
	now := time.Now()
	driverID := primitive.NewObjectID()

	tour, err := NewTour(driverID, NewTourParams{
		FromLocation: "Tbilisi", ToLocation: "Batumi", DepartureTime: now.Add(24 * time.Hour),
		MaxCapacity: 4, PricePerPerson: 30,
	}, now)
	if err != nil {
		t.Fatalf("NewTour() error = %v", err)
	}
	if tour.Status != TourStatusActive || tour.CurrentCapacity != 0 || tour.SeatsLeft() != 4 {
		t.Errorf("unexpected tour: %+v", tour)
	}

	if _, err := NewTour(driverID, NewTourParams{FromLocation: "A", ToLocation: "B", DepartureTime: now, MaxCapacity: 0}, now); err == nil {
		t.Error("zero capacity should be rejected")
	}
}

func TestDiscount_ValidAt(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	d := &Discount{IsActive: true, StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour)}

	if !d.ValidAt(now) {
		t.Error("discount inside window should be valid")
	}
	if !d.ValidAt(d.StartDate) || !d.ValidAt(d.EndDate) {
		t.Error("window bounds are inclusive")
	}
	if d.ValidAt(now.Add(2 * time.Hour)) {
		t.Error("discount after end should be invalid")
	}

	d.IsActive = false
	if d.ValidAt(now) {
		t.Error("inactive discount should be invalid")
	}

	if NormalizeDiscountCode(" summer10 ") != "SUMMER10" {
		t.Error("code should be upper-cased and trimmed")
	}
}

func TestDefaultPortfolio(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	p := DefaultPortfolio(&Driver{ID: primitive.NewObjectID(), FullName: "Nino", CarType: "Sedan"}, now)

	if p.CarModel != "Sedan" || p.CarYear != 2025 || p.CarColor != "Not specified" || p.Age != 18 {
		t.Errorf("unexpected default portfolio: %+v", p)
	}
	if p.Languages == nil || p.Certifications == nil {
		t.Error("lists should be empty, not nil")
	}
}
