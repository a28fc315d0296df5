package services

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/models"
	"pickupapp/internal/utils"
	"pickupapp/internal/validators"
)

func (f *fixture) completedBooking(t *testing.T, driverID, userID primitive.ObjectID) *models.Booking {
	t.Helper()
	tour := f.createTour(t, driverID, "Tbilisi", "Borjomi", 4, 20)
	booking := f.book(t, userID, tour.ID, 1, "cash")
	if _, err := f.bookingSvc.CompleteBooking(f.ctx, booking.ID, driverID); err != nil {
		t.Fatalf("CompleteBooking: %v", err)
	}
	return booking
}

func TestSubmitRatingReaggregates(t *testing.T) {
	f := newFixture(t)
	driver := f.registerDriver(t, "d@example.com")
	user := f.registerUser(t, "u@example.com")

	steps := []struct {
		score      int
		wantRating float64
		wantTrips  int
	}{
		{3, 3.0, 1},
		{4, 3.5, 2},
		{5, 4.0, 3},
	}

	for _, step := range steps {
		booking := f.completedBooking(t, driver.ID, user.ID)
		result, err := f.ratingSvc.SubmitRating(f.ctx, driver.ID, user.ID, &validators.RateDriverRequest{
			BookingID: booking.ID.Hex(),
			Rating:    step.score,
		})
		if err != nil {
			t.Fatalf("SubmitRating(%d): %v", step.score, err)
		}
		if result.DriverRating != step.wantRating || result.TotalTrips != step.wantTrips {
			t.Fatalf("after %d: rating=%v trips=%d, want %v/%d",
				step.score, result.DriverRating, result.TotalTrips, step.wantRating, step.wantTrips)
		}
	}

	stored, err := f.drivers.GetByID(f.ctx, driver.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Rating != 4.0 || stored.TotalTrips != 3 {
		t.Fatalf("driver reputation = %v/%d, want 4/3", stored.Rating, stored.TotalTrips)
	}
}

func TestSubmitRatingRoundsToHalfStar(t *testing.T) {
	f := newFixture(t)
	driver := f.registerDriver(t, "d@example.com")
	user := f.registerUser(t, "u@example.com")

	var result *RatingResult
	for _, score := range []int{5, 4, 4} {
		booking := f.completedBooking(t, driver.ID, user.ID)
		var err error
		result, err = f.ratingSvc.SubmitRating(f.ctx, driver.ID, user.ID, &validators.RateDriverRequest{
			BookingID: booking.ID.Hex(),
			Rating:    score,
		})
		if err != nil {
			t.Fatalf("SubmitRating: %v", err)
		}
	}

	// mean 4.33 rounds to the nearest half star
	if result.DriverRating != 4.5 {
		t.Fatalf("rating = %v, want 4.5", result.DriverRating)
	}
}

func TestSubmitRatingTiesRoundToEven(t *testing.T) {
	f := newFixture(t)
	driver := f.registerDriver(t, "d@example.com")
	user := f.registerUser(t, "u@example.com")

	var result *RatingResult
	for _, score := range []int{3, 3, 3, 4} {
		booking := f.completedBooking(t, driver.ID, user.ID)
		var err error
		result, err = f.ratingSvc.SubmitRating(f.ctx, driver.ID, user.ID, &validators.RateDriverRequest{
			BookingID: booking.ID.Hex(),
			Rating:    score,
		})
		if err != nil {
			t.Fatalf("SubmitRating: %v", err)
		}
	}

	// mean 3.25 sits between 3.0 and 3.5
	if result.DriverRating != 3.0 {
		t.Fatalf("rating = %v, want 3.0", result.DriverRating)
	}
	if result.TotalTrips != 4 {
		t.Fatalf("total trips = %d, want 4", result.TotalTrips)
	}
}

func TestSubmitRatingPreconditions(t *testing.T) {
	f := newFixture(t)
	driver := f.registerDriver(t, "d@example.com")
	otherDriver := f.registerDriver(t, "d2@example.com")
	user := f.registerUser(t, "u@example.com")
	stranger := f.registerUser(t, "s@example.com")

	completed := f.completedBooking(t, driver.ID, user.ID)

	tour := f.createTour(t, driver.ID, "A", "B", 4, 10)
	open := f.book(t, user.ID, tour.ID, 1, "cash")

	rate := func(driverID, userID primitive.ObjectID, bookingID primitive.ObjectID, score int) error {
		_, err := f.ratingSvc.SubmitRating(f.ctx, driverID, userID, &validators.RateDriverRequest{
			BookingID: bookingID.Hex(),
			Rating:    score,
		})
		return err
	}

	wantKind(t, rate(driver.ID, user.ID, completed.ID, 0), utils.ErrInvalidArgument)
	wantKind(t, rate(driver.ID, user.ID, completed.ID, 6), utils.ErrInvalidArgument)
	wantKind(t, rate(driver.ID, user.ID, primitive.NewObjectID(), 5), utils.ErrNotFound)
	wantKind(t, rate(driver.ID, stranger.ID, completed.ID, 5), utils.ErrForbidden)
	wantKind(t, rate(otherDriver.ID, user.ID, completed.ID, 5), utils.ErrInvalidArgument)
	wantKind(t, rate(driver.ID, user.ID, open.ID, 5), utils.ErrInvalidTransition)

	if err := rate(driver.ID, user.ID, completed.ID, 5); err != nil {
		t.Fatalf("first rating: %v", err)
	}
	wantKind(t, rate(driver.ID, user.ID, completed.ID, 4), utils.ErrConflict)

	if got := f.pusher.count(driver.ID); got == 0 {
		t.Fatal("driver was not notified of the rating")
	}
}
