package services

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/models"
	"pickupapp/internal/utils"
	"pickupapp/internal/validators"
)

func TestCreateTourEmbedsDriver(t *testing.T) {
	f := newFixture(t)
	driver := f.registerDriver(t, "d@example.com")

	tour := f.createTour(t, driver.ID, "Tbilisi", "Kutaisi", 4, 35)
	if tour.Status != models.TourStatusActive || tour.CurrentCapacity != 0 {
		t.Fatalf("unexpected new tour: %+v", tour.Tour)
	}
	if tour.Driver == nil || tour.Driver.FullName != driver.FullName || tour.Driver.CarType != "SUV" {
		t.Fatalf("driver not embedded: %+v", tour.Driver)
	}

	_, err := f.tourService.CreateTour(f.ctx, primitive.NewObjectID(), &validators.CreateTourRequest{
		FromLocation:  "A",
		ToLocation:    "B",
		DepartureTime: time.Now().Add(time.Hour),
		MaxCapacity:   2,
	})
	wantKind(t, err, utils.ErrNotFound)
}

func TestGetTour(t *testing.T) {
	f := newFixture(t)
	driver := f.registerDriver(t, "d@example.com")
	tour := f.createTour(t, driver.ID, "A", "B", 2, 10)

	got, err := f.tourService.GetTour(f.ctx, tour.ID)
	if err != nil {
		t.Fatalf("GetTour: %v", err)
	}
	if got.ID != tour.ID || got.Driver == nil {
		t.Fatalf("GetTour = %+v", got)
	}

	_, err = f.tourService.GetTour(f.ctx, primitive.NewObjectID())
	wantKind(t, err, utils.ErrNotFound)
}

func TestListActiveToursRanksQuieterDriversFirst(t *testing.T) {
	f := newFixture(t)
	busy := f.registerDriver(t, "busy@example.com")
	quiet := f.registerDriver(t, "quiet@example.com")

	f.createTour(t, busy.ID, "Tbilisi", "Telavi", 4, 20)
	f.createTour(t, busy.ID, "Tbilisi", "Signagi", 4, 20)
	quietTour := f.createTour(t, quiet.ID, "Tbilisi", "Mtskheta", 4, 20)

	tours, err := f.tourService.ListActiveTours(f.ctx, nil, nil)
	if err != nil {
		t.Fatalf("ListActiveTours: %v", err)
	}
	if len(tours) != 3 {
		t.Fatalf("got %d tours, want 3", len(tours))
	}
	if tours[0].ID != quietTour.ID {
		t.Fatalf("first tour belongs to %s, want the driver with fewer tours", tours[0].DriverID.Hex())
	}
}

func TestListActiveToursFilters(t *testing.T) {
	f := newFixture(t)
	driver := f.registerDriver(t, "d@example.com")
	user := f.registerUser(t, "u@example.com")

	cheap := f.createTour(t, driver.ID, "Tbilisi", "Kazbegi", 4, 20)
	f.createTour(t, driver.ID, "Batumi", "Kazbegi", 4, 90)
	full := f.createTour(t, driver.ID, "Tbilisi", "Vardzia", 1, 10)
	booked := f.createTour(t, driver.ID, "Tbilisi", "Ananuri", 4, 15)

	other := f.registerUser(t, "o@example.com")
	f.book(t, other.ID, full.ID, 1, "cash")
	f.book(t, user.ID, booked.ID, 1, "cash")

	maxPrice := 50.0
	tours, err := f.tourService.ListActiveTours(f.ctx, &models.TourFilter{
		FromLocation: "tbil",
		MaxPrice:     &maxPrice,
	}, &models.Principal{ID: user.ID, Kind: models.PrincipalUser})
	if err != nil {
		t.Fatalf("ListActiveTours: %v", err)
	}
	if len(tours) != 1 || tours[0].ID != cheap.ID {
		ids := make([]string, 0, len(tours))
		for _, tr := range tours {
			ids = append(ids, tr.FromLocation+"→"+tr.ToLocation)
		}
		t.Fatalf("got %v, want only the cheap Tbilisi tour", ids)
	}

	// A driver viewer never has tours excluded.
	tours, err = f.tourService.ListActiveTours(f.ctx, &models.TourFilter{ToLocation: "ananuri"},
		&models.Principal{ID: driver.ID, Kind: models.PrincipalDriver})
	if err != nil {
		t.Fatalf("ListActiveTours: %v", err)
	}
	if len(tours) != 1 || tours[0].ID != booked.ID {
		t.Fatalf("driver view lost a tour: %d results", len(tours))
	}

	future := time.Now().Add(72 * time.Hour)
	tours, err = f.tourService.ListActiveTours(f.ctx, &models.TourFilter{DepartAfter: &future}, nil)
	if err != nil {
		t.Fatalf("ListActiveTours: %v", err)
	}
	if len(tours) != 0 {
		t.Fatalf("date filter returned %d tours", len(tours))
	}
}

func TestRankTours(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	now := time.Now()

	older := &models.Tour{ID: primitive.NewObjectID(), DriverID: a, CreatedAt: now.Add(-time.Hour)}
	newer := &models.Tour{ID: primitive.NewObjectID(), DriverID: a, CreatedAt: now}
	lone := &models.Tour{ID: primitive.NewObjectID(), DriverID: b, CreatedAt: now.Add(-24 * time.Hour)}

	tours := []*models.Tour{older, newer, lone}
	rankTours(tours, map[primitive.ObjectID]int64{a: 2, b: 1})

	want := []*models.Tour{lone, newer, older}
	for i := range want {
		if tours[i] != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, tours[i].ID.Hex(), want[i].ID.Hex())
		}
	}
}
