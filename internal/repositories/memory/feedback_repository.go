package memory

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/models"
	"pickupapp/internal/repositories/interfaces"
	"pickupapp/internal/utils"
)

type RatingRepository struct{ s *Store }

func NewRatingRepository(s *Store) interfaces.RatingRepository {
	return &RatingRepository{s: s}
}

func (r *RatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.ratings[rating.BookingID]; exists {
		return utils.NewConflictError(utils.ErrMsgAlreadyRated)
	}

	rating.ID = primitive.NewObjectID()
	r.s.ratings[rating.BookingID] = clone(rating)
	return nil
}

func (r *RatingRepository) ExistsForBooking(ctx context.Context, bookingID primitive.ObjectID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, exists := r.s.ratings[bookingID]
	return exists, nil
}

func (r *RatingRepository) RatedBookings(ctx context.Context, bookingIDs []primitive.ObjectID) (map[primitive.ObjectID]bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rated := make(map[primitive.ObjectID]bool, len(bookingIDs))
	for _, id := range bookingIDs {
		if _, exists := r.s.ratings[id]; exists {
			rated[id] = true
		}
	}
	return rated, nil
}

func (r *RatingRepository) AggregateForDriver(ctx context.Context, driverID primitive.ObjectID) (*models.RatingAggregate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var sum, count int
	for _, rating := range r.s.ratings {
		if rating.DriverID == driverID {
			sum += rating.Rating
			count++
		}
	}

	agg := &models.RatingAggregate{Count: count}
	if count > 0 {
		agg.Average = float64(sum) / float64(count)
	}
	return agg, nil
}

type NotificationRepository struct{ s *Store }

func NewNotificationRepository(s *Store) interfaces.NotificationRepository {
	return &NotificationRepository{s: s}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	notification.ID = primitive.NewObjectID()
	r.s.notifications[notification.ID] = clone(notification)
	return nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID primitive.ObjectID, limit int) ([]*models.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := make([]*models.Notification, 0)
	for _, n := range r.s.notifications {
		if n.RecipientID == recipientID {
			items = append(items, clone(n))
		}
	}
	sortNewestFirst(items,
		func(n *models.Notification) time.Time { return n.CreatedAt },
		func(n *models.Notification) primitive.ObjectID { return n.ID },
	)
	return truncate(items, limit), nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notifications[id]
	if !ok || n.RecipientID != recipientID {
		return interfaces.ErrNoMatch
	}
	n.IsRead = true
	return nil
}

type DiscountRepository struct{ s *Store }

func NewDiscountRepository(s *Store) interfaces.DiscountRepository {
	return &DiscountRepository{s: s}
}

func (r *DiscountRepository) Create(ctx context.Context, discount *models.Discount) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	discount.Code = models.NormalizeDiscountCode(discount.Code)
	if _, exists := r.s.discounts[discount.Code]; exists {
		return utils.NewConflictError("Discount code already exists")
	}

	discount.ID = primitive.NewObjectID()
	r.s.discounts[discount.Code] = clone(discount)
	return nil
}

func (r *DiscountRepository) ListActive(ctx context.Context, now time.Time, limit int) ([]*models.Discount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := make([]*models.Discount, 0)
	for _, d := range r.s.discounts {
		if d.ValidAt(now) {
			items = append(items, clone(d))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].EndDate.Before(items[j].EndDate)
	})
	return truncate(items, limit), nil
}

func (r *DiscountRepository) GetValidByCode(ctx context.Context, code string, now time.Time) (*models.Discount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.discounts[models.NormalizeDiscountCode(code)]
	if !ok || !d.ValidAt(now) {
		return nil, utils.NewAppError(utils.ErrNotFound, utils.ErrMsgInvalidDiscountCode)
	}
	return clone(d), nil
}
