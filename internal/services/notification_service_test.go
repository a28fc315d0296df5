package services

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/models"
	"pickupapp/internal/utils"
)

func TestNotificationListAndMarkRead(t *testing.T) {
	f := newFixture(t)
	user := f.registerUser(t, "u@example.com")
	other := f.registerUser(t, "o@example.com")
	recipient := models.Principal{ID: user.ID, Kind: models.PrincipalUser}

	f.notifier.Notify(f.ctx, recipient, models.NotificationTypeSystem, "Welcome", "first", nil)
	f.notifier.Notify(f.ctx, recipient, models.NotificationTypeSystem, "Reminder", "second", nil)

	items, err := f.notifier.List(f.ctx, user.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 || items[0].Title != "Reminder" {
		t.Fatalf("notifications not newest first: %+v", items)
	}
	if f.pusher.count(user.ID) != 2 {
		t.Fatalf("pushes = %d, want 2", f.pusher.count(user.ID))
	}

	wantKind(t, f.notifier.MarkRead(f.ctx, items[0].ID, other.ID), utils.ErrNotFound)
	wantKind(t, f.notifier.MarkRead(f.ctx, primitive.NewObjectID(), user.ID), utils.ErrNotFound)

	if err := f.notifier.MarkRead(f.ctx, items[0].ID, user.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	// Marking again is not an error.
	if err := f.notifier.MarkRead(f.ctx, items[0].ID, user.ID); err != nil {
		t.Fatalf("MarkRead again: %v", err)
	}

	items, _ = f.notifier.List(f.ctx, user.ID)
	if !items[0].IsRead || items[1].IsRead {
		t.Fatalf("read flags = %v/%v", items[0].IsRead, items[1].IsRead)
	}

	if others, _ := f.notifier.List(f.ctx, other.ID); len(others) != 0 {
		t.Fatalf("other recipient sees %d notifications", len(others))
	}
}
