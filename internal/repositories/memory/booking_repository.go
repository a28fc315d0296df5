package memory

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/models"
	"pickupapp/internal/repositories/interfaces"
	"pickupapp/internal/utils"
)

type BookingRepository struct{ s *Store }

func NewBookingRepository(s *Store) interfaces.BookingRepository {
	return &BookingRepository{s: s}
}

func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	booking.ID = primitive.NewObjectID()
	r.s.bookings[booking.ID] = clone(booking)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, utils.NewNotFoundError("Booking")
	}
	return clone(b), nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int) ([]*models.Booking, error) {
	return r.list(func(b *models.Booking) bool { return b.UserID == userID }, limit), nil
}

func (r *BookingRepository) ListByDriver(ctx context.Context, driverID primitive.ObjectID, limit int) ([]*models.Booking, error) {
	return r.list(func(b *models.Booking) bool { return b.DriverID == driverID }, limit), nil
}

func (r *BookingRepository) list(match func(*models.Booking) bool, limit int) []*models.Booking {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	bookings := make([]*models.Booking, 0)
	for _, b := range r.s.bookings {
		if match(b) {
			bookings = append(bookings, clone(b))
		}
	}
	sortNewestFirst(bookings,
		func(b *models.Booking) time.Time { return b.CreatedAt },
		func(b *models.Booking) primitive.ObjectID { return b.ID },
	)
	return truncate(bookings, limit)
}

func (r *BookingRepository) BookedTourIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := make(map[primitive.ObjectID]bool)
	ids := make([]primitive.ObjectID, 0)
	for _, b := range r.s.bookings {
		if b.UserID != userID || b.Status == models.BookingStatusCancelled || seen[b.TourID] {
			continue
		}
		seen[b.TourID] = true
		ids = append(ids, b.TourID)
	}
	return ids, nil
}

func (r *BookingRepository) TransitionStatus(ctx context.Context, id primitive.ObjectID, from []models.BookingStatus, to models.BookingStatus) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, interfaces.ErrNoMatch
	}
	for _, status := range from {
		if b.Status == status {
			b.Status = to
			b.UpdatedAt = time.Now()
			return clone(b), nil
		}
	}
	return nil, interfaces.ErrNoMatch
}

func (r *BookingRepository) UserTotals(ctx context.Context, userID primitive.ObjectID, monthStart time.Time) (*models.BookingTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	totals := &models.BookingTotals{}
	for _, b := range r.s.bookings {
		if b.UserID != userID {
			continue
		}
		totals.Count++
		totals.TotalSpent += b.TotalPrice
		if !b.CreatedAt.Before(monthStart) {
			totals.ThisMonth++
		}
	}
	return totals, nil
}

func (r *BookingRepository) DriverEarnings(ctx context.Context, driverID primitive.ObjectID) (*models.EarningTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	totals := &models.EarningTotals{}
	for _, b := range r.s.bookings {
		if b.DriverID != driverID || b.Status == models.BookingStatusCancelled {
			continue
		}
		totals.TotalPrice += b.TotalPrice
		totals.TotalPeople += int64(b.NumberOfPeople)
	}
	return totals, nil
}
