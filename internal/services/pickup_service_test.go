package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/models"
	"pickupapp/internal/utils"
	"pickupapp/internal/validators"
)

func (f *fixture) requestPickup(t *testing.T, userID primitive.ObjectID) *models.PickupRequest {
	t.Helper()
	req, err := f.pickupSvc.CreateRequest(f.ctx, userID, &validators.CreatePickupRequest{
		PickupLocation: "Rustaveli Ave 1",
		Destination:    "Airport",
		PickupTime:     time.Now().Add(2 * time.Hour).UTC(),
		NumberOfPeople: 2,
	})
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	return req
}

func TestCreatePickupRequestStartsPending(t *testing.T) {
	f := newFixture(t)
	user := f.registerUser(t, "u@example.com")

	req := f.requestPickup(t, user.ID)
	if req.Status != models.PickupStatusPending || req.DriverID != nil {
		t.Fatalf("unexpected new request: %+v", req)
	}

	pending, err := f.pickupSvc.PendingRequests(f.ctx)
	if err != nil {
		t.Fatalf("PendingRequests: %v", err)
	}
	if len(pending) != 1 || pending[0].User == nil || pending[0].User.FullName != user.FullName {
		t.Fatalf("requester not joined: %+v", pending)
	}
}

func TestConcurrentAcceptHasSingleWinner(t *testing.T) {
	f := newFixture(t)
	user := f.registerUser(t, "u@example.com")
	req := f.requestPickup(t, user.ID)

	drivers := []*models.Driver{
		f.registerDriver(t, "d1@example.com"),
		f.registerDriver(t, "d2@example.com"),
		f.registerDriver(t, "d3@example.com"),
		f.registerDriver(t, "d4@example.com"),
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		winners   []primitive.ObjectID
		conflicts int
	)
	for _, d := range drivers {
		wg.Add(1)
		go func(driverID primitive.ObjectID) {
			defer wg.Done()
			_, err := f.pickupSvc.DriverAccept(f.ctx, req.ID, driverID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners = append(winners, driverID)
			case errors.Is(err, utils.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(d.ID)
	}
	wg.Wait()

	if len(winners) != 1 || conflicts != len(drivers)-1 {
		t.Fatalf("winners=%d conflicts=%d", len(winners), conflicts)
	}

	stored, err := f.pickups.GetByID(f.ctx, req.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != models.PickupStatusAccepted || stored.DriverID == nil || *stored.DriverID != winners[0] {
		t.Fatalf("stored request does not name the winner: %+v", stored)
	}
}

func TestDriverCancelAndComplete(t *testing.T) {
	f := newFixture(t)
	user := f.registerUser(t, "u@example.com")
	assignee := f.registerDriver(t, "d1@example.com")
	other := f.registerDriver(t, "d2@example.com")
	req := f.requestPickup(t, user.ID)

	if _, err := f.pickupSvc.DriverAccept(f.ctx, req.ID, assignee.ID); err != nil {
		t.Fatalf("DriverAccept: %v", err)
	}

	_, err := f.pickupSvc.DriverCancel(f.ctx, req.ID, other.ID)
	wantKind(t, err, utils.ErrConflict)

	_, err = f.pickupSvc.DriverComplete(f.ctx, req.ID, other.ID)
	wantKind(t, err, utils.ErrConflict)

	reopened, err := f.pickupSvc.DriverCancel(f.ctx, req.ID, assignee.ID)
	if err != nil {
		t.Fatalf("DriverCancel: %v", err)
	}
	if reopened.Status != models.PickupStatusPending || reopened.DriverID != nil {
		t.Fatalf("request not re-opened: %+v", reopened)
	}

	// Re-opening a pending request is allowed for any driver.
	if _, err := f.pickupSvc.DriverCancel(f.ctx, req.ID, other.ID); err != nil {
		t.Fatalf("DriverCancel on pending: %v", err)
	}

	_, err = f.pickupSvc.DriverComplete(f.ctx, req.ID, assignee.ID)
	wantKind(t, err, utils.ErrConflict)

	if _, err := f.pickupSvc.DriverAccept(f.ctx, req.ID, other.ID); err != nil {
		t.Fatalf("DriverAccept: %v", err)
	}
	done, err := f.pickupSvc.DriverComplete(f.ctx, req.ID, other.ID)
	if err != nil {
		t.Fatalf("DriverComplete: %v", err)
	}
	if done.Status != models.PickupStatusCompleted {
		t.Fatalf("status = %s", done.Status)
	}

	_, err = f.pickupSvc.DriverAccept(f.ctx, req.ID, assignee.ID)
	wantKind(t, err, utils.ErrConflict)

	// accepted, re-opened, accepted again, completed
	if got := f.pusher.count(user.ID); got != 4 {
		t.Fatalf("user pushes = %d, want 4", got)
	}
}

func TestUserCancelPickup(t *testing.T) {
	f := newFixture(t)
	owner := f.registerUser(t, "u@example.com")
	stranger := f.registerUser(t, "s@example.com")
	driver := f.registerDriver(t, "d@example.com")

	req := f.requestPickup(t, owner.ID)

	_, err := f.pickupSvc.UserCancel(f.ctx, req.ID, stranger.ID)
	wantKind(t, err, utils.ErrForbidden)

	_, err = f.pickupSvc.UserCancel(f.ctx, primitive.NewObjectID(), owner.ID)
	wantKind(t, err, utils.ErrNotFound)

	cancelled, err := f.pickupSvc.UserCancel(f.ctx, req.ID, owner.ID)
	if err != nil {
		t.Fatalf("UserCancel: %v", err)
	}
	if cancelled.Status != models.PickupStatusCancelled {
		t.Fatalf("status = %s", cancelled.Status)
	}

	accepted := f.requestPickup(t, owner.ID)
	if _, err := f.pickupSvc.DriverAccept(f.ctx, accepted.ID, driver.ID); err != nil {
		t.Fatalf("DriverAccept: %v", err)
	}
	_, err = f.pickupSvc.UserCancel(f.ctx, accepted.ID, owner.ID)
	wantKind(t, err, utils.ErrInvalidTransition)

	mine, err := f.pickupSvc.MyRequests(f.ctx, owner.ID)
	if err != nil {
		t.Fatalf("MyRequests: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != accepted.ID {
		t.Fatalf("MyRequests not newest first: %+v", mine)
	}
}
