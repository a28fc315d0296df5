package services

import (
	"errors"
	"sync"
	"testing"

	"pickupapp/internal/models"
	"pickupapp/internal/utils"
	"pickupapp/internal/validators"
)

func TestCreateBookingStatusFollowsPaymentType(t *testing.T) {
	f := newFixture(t)
	driver := f.registerDriver(t, "d@example.com")
	user := f.registerUser(t, "u@example.com")
	tour := f.createTour(t, driver.ID, "Tbilisi", "Kazbegi", 6, 40)

	cash := f.book(t, user.ID, tour.ID, 2, "cash")
	if cash.Status != models.BookingStatusUpcoming {
		t.Fatalf("cash booking status = %s, want upcoming", cash.Status)
	}
	card := f.book(t, user.ID, tour.ID, 1, "card")
	if card.Status != models.BookingStatusPaid {
		t.Fatalf("card booking status = %s, want paid", card.Status)
	}
	if cash.Username != user.FullName || cash.DriverName != driver.FullName {
		t.Fatalf("denormalised names not recorded: %+v", cash)
	}

	stored, err := f.tours.GetByID(f.ctx, tour.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.CurrentCapacity != 3 {
		t.Fatalf("current capacity = %d, want 3", stored.CurrentCapacity)
	}

	if got := f.pusher.count(driver.ID); got != 2 {
		t.Fatalf("driver pushes = %d, want 2", got)
	}
}

func TestCreateBookingRejectsOverCapacity(t *testing.T) {
	f := newFixture(t)
	driver := f.registerDriver(t, "d@example.com")
	user := f.registerUser(t, "u@example.com")
	tour := f.createTour(t, driver.ID, "Batumi", "Mestia", 3, 80)

	f.book(t, user.ID, tour.ID, 2, "cash")

	_, err := f.bookingSvc.CreateBooking(f.ctx, user.ID, &validators.CreateBookingRequest{
		TourID:         tour.ID.Hex(),
		NumberOfPeople: 2,
		PaymentType:    "cash",
	})
	wantKind(t, err, utils.ErrCapacityExceeded)
	if !errors.Is(err, utils.ErrInvalidTransition) {
		t.Fatal("capacity errors must also be invalid transitions")
	}
	if utils.ErrorMessage(err) != utils.ErrMsgNotEnoughCapacity {
		t.Fatalf("message = %q", utils.ErrorMessage(err))
	}

	stored, _ := f.tours.GetByID(f.ctx, tour.ID)
	if stored.CurrentCapacity != 2 {
		t.Fatalf("capacity changed by rejected booking: %d", stored.CurrentCapacity)
	}
}

func TestCreateBookingUnknownTour(t *testing.T) {
	f := newFixture(t)
	user := f.registerUser(t, "u@example.com")

	_, err := f.bookingSvc.CreateBooking(f.ctx, user.ID, &validators.CreateBookingRequest{
		TourID:         user.ID.Hex(),
		NumberOfPeople: 1,
		PaymentType:    "cash",
	})
	wantKind(t, err, utils.ErrNotFound)
}

func TestConcurrentBookingsNeverExceedCapacity(t *testing.T) {
	f := newFixture(t)
	driver := f.registerDriver(t, "d@example.com")
	tour := f.createTour(t, driver.ID, "Tbilisi", "Sighnaghi", 5, 30)

	const attempts = 20
	users := make([]*models.User, attempts)
	for i := range users {
		users[i] = f.registerUser(t, "rider"+string(rune('a'+i))+"@example.com")
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(u *models.User) {
			defer wg.Done()
			_, err := f.bookingSvc.CreateBooking(f.ctx, u.ID, &validators.CreateBookingRequest{
				TourID:         tour.ID.Hex(),
				NumberOfPeople: 1,
				PaymentType:    "cash",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, utils.ErrCapacityExceeded):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(users[i])
	}
	wg.Wait()

	if succeeded != 5 || rejected != attempts-5 {
		t.Fatalf("succeeded=%d rejected=%d, want 5/%d", succeeded, rejected, attempts-5)
	}
	stored, _ := f.tours.GetByID(f.ctx, tour.ID)
	if stored.CurrentCapacity != 5 {
		t.Fatalf("current capacity = %d, want 5", stored.CurrentCapacity)
	}
}

func TestCancelBookingReleasesSeatsOnce(t *testing.T) {
	f := newFixture(t)
	driver := f.registerDriver(t, "d@example.com")
	user := f.registerUser(t, "u@example.com")
	tour := f.createTour(t, driver.ID, "A", "B", 4, 10)
	booking := f.book(t, user.ID, tour.ID, 3, "card")

	cancelled, err := f.bookingSvc.CancelBooking(f.ctx, booking.ID, user.ID)
	if err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if cancelled.Status != models.BookingStatusCancelled {
		t.Fatalf("status = %s", cancelled.Status)
	}

	_, err = f.bookingSvc.CancelBooking(f.ctx, booking.ID, user.ID)
	wantKind(t, err, utils.ErrInvalidTransition)

	stored, _ := f.tours.GetByID(f.ctx, tour.ID)
	if stored.CurrentCapacity != 0 {
		t.Fatalf("current capacity = %d, want 0", stored.CurrentCapacity)
	}
}

func TestConcurrentCancelReleasesOnce(t *testing.T) {
	f := newFixture(t)
	driver := f.registerDriver(t, "d@example.com")
	user := f.registerUser(t, "u@example.com")
	other := f.registerUser(t, "o@example.com")
	tour := f.createTour(t, driver.ID, "A", "B", 6, 10)
	f.book(t, other.ID, tour.ID, 2, "cash")
	booking := f.book(t, user.ID, tour.ID, 3, "cash")

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.bookingSvc.CancelBooking(f.ctx, booking.ID, user.ID); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("successful cancels = %d, want 1", wins)
	}
	stored, _ := f.tours.GetByID(f.ctx, tour.ID)
	if stored.CurrentCapacity != 2 {
		t.Fatalf("current capacity = %d, want 2", stored.CurrentCapacity)
	}
}

func TestCancelBookingGuards(t *testing.T) {
	f := newFixture(t)
	driver := f.registerDriver(t, "d@example.com")
	user := f.registerUser(t, "u@example.com")
	stranger := f.registerUser(t, "s@example.com")
	tour := f.createTour(t, driver.ID, "A", "B", 4, 10)
	booking := f.book(t, user.ID, tour.ID, 1, "cash")

	_, err := f.bookingSvc.CancelBooking(f.ctx, booking.ID, stranger.ID)
	wantKind(t, err, utils.ErrForbidden)

	_, err = f.bookingSvc.CancelBooking(f.ctx, tour.ID, user.ID)
	wantKind(t, err, utils.ErrNotFound)

	if _, err := f.bookingSvc.CompleteBooking(f.ctx, booking.ID, driver.ID); err != nil {
		t.Fatalf("CompleteBooking: %v", err)
	}
	_, err = f.bookingSvc.CancelBooking(f.ctx, booking.ID, user.ID)
	wantKind(t, err, utils.ErrInvalidTransition)
	if utils.ErrorMessage(err) != utils.ErrMsgBookingCompleted {
		t.Fatalf("message = %q", utils.ErrorMessage(err))
	}
}

func TestCompleteBookingGuards(t *testing.T) {
	f := newFixture(t)
	driver := f.registerDriver(t, "d@example.com")
	otherDriver := f.registerDriver(t, "d2@example.com")
	user := f.registerUser(t, "u@example.com")
	tour := f.createTour(t, driver.ID, "A", "B", 4, 10)
	booking := f.book(t, user.ID, tour.ID, 2, "card")

	_, err := f.bookingSvc.CompleteBooking(f.ctx, booking.ID, otherDriver.ID)
	wantKind(t, err, utils.ErrForbidden)

	completed, err := f.bookingSvc.CompleteBooking(f.ctx, booking.ID, driver.ID)
	if err != nil {
		t.Fatalf("CompleteBooking: %v", err)
	}
	if completed.Status != models.BookingStatusCompleted {
		t.Fatalf("status = %s", completed.Status)
	}

	_, err = f.bookingSvc.CompleteBooking(f.ctx, booking.ID, driver.ID)
	wantKind(t, err, utils.ErrInvalidTransition)

	// Completion keeps the seats taken.
	stored, _ := f.tours.GetByID(f.ctx, tour.ID)
	if stored.CurrentCapacity != 2 {
		t.Fatalf("current capacity = %d, want 2", stored.CurrentCapacity)
	}
	if got := f.pusher.count(user.ID); got != 1 {
		t.Fatalf("user pushes = %d, want 1", got)
	}
}

func TestBookingListsJoinRelatedRecords(t *testing.T) {
	f := newFixture(t)
	driver := f.registerDriver(t, "d@example.com")
	user := f.registerUser(t, "u@example.com")
	tour := f.createTour(t, driver.ID, "Tbilisi", "Gudauri", 4, 25)
	first := f.book(t, user.ID, tour.ID, 1, "cash")
	second := f.book(t, user.ID, tour.ID, 1, "card")

	if _, err := f.bookingSvc.CompleteBooking(f.ctx, first.ID, driver.ID); err != nil {
		t.Fatalf("CompleteBooking: %v", err)
	}
	if _, err := f.ratingSvc.SubmitRating(f.ctx, driver.ID, user.ID, &validators.RateDriverRequest{BookingID: first.ID.Hex(), Rating: 5}); err != nil {
		t.Fatalf("SubmitRating: %v", err)
	}

	mine, err := f.bookingSvc.MyBookings(f.ctx, user.ID)
	if err != nil {
		t.Fatalf("MyBookings: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("got %d bookings, want 2", len(mine))
	}
	if mine[0].ID != second.ID {
		t.Fatal("bookings are not newest first")
	}
	for _, v := range mine {
		if v.Tour == nil || v.Tour.FromLocation != "Tbilisi" {
			t.Fatalf("tour not joined: %+v", v)
		}
		if v.Driver == nil || v.Driver.FullName != driver.FullName {
			t.Fatalf("driver not joined: %+v", v)
		}
		if v.IsRated != (v.ID == first.ID) {
			t.Fatalf("is_rated wrong for %s", v.ID.Hex())
		}
	}

	driverView, err := f.bookingSvc.DriverBookings(f.ctx, driver.ID)
	if err != nil {
		t.Fatalf("DriverBookings: %v", err)
	}
	if len(driverView) != 2 {
		t.Fatalf("got %d driver bookings, want 2", len(driverView))
	}
	if p := driverView[0].Passenger; p == nil || p.FullName != user.FullName {
		t.Fatalf("passenger not joined: %+v", driverView[0])
	}
}
