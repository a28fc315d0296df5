package memory

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/models"
	"pickupapp/internal/repositories/interfaces"
	"pickupapp/internal/utils"
)

type TourRepository struct{ s *Store }

func NewTourRepository(s *Store) interfaces.TourRepository {
	return &TourRepository{s: s}
}

func (r *TourRepository) Create(ctx context.Context, tour *models.Tour) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tour.ID = primitive.NewObjectID()
	r.s.tours[tour.ID] = clone(tour)
	return nil
}

func (r *TourRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tour, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tours[id]
	if !ok {
		return nil, utils.NewNotFoundError("Tour")
	}
	return clone(t), nil
}

func (r *TourRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Tour, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make(map[primitive.ObjectID]*models.Tour, len(ids))
	for _, id := range ids {
		if t, ok := r.s.tours[id]; ok {
			result[id] = clone(t)
		}
	}
	return result, nil
}

func (r *TourRepository) ListAvailable(ctx context.Context, filter *models.TourFilter) ([]*models.Tour, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if filter == nil {
		filter = &models.TourFilter{}
	}
	excluded := make(map[primitive.ObjectID]bool, len(filter.ExcludeIDs))
	for _, id := range filter.ExcludeIDs {
		excluded[id] = true
	}

	tours := make([]*models.Tour, 0)
	for _, t := range r.s.tours {
		switch {
		case t.Status != models.TourStatusActive || t.CurrentCapacity >= t.MaxCapacity:
			continue
		case excluded[t.ID]:
			continue
		case filter.FromLocation != "" && !containsFold(t.FromLocation, filter.FromLocation):
			continue
		case filter.ToLocation != "" && !containsFold(t.ToLocation, filter.ToLocation):
			continue
		case filter.MaxPrice != nil && t.PricePerPerson > *filter.MaxPrice:
			continue
		case filter.DepartAfter != nil && t.DepartureTime.Before(*filter.DepartAfter):
			continue
		}
		tours = append(tours, clone(t))
	}
	return tours, nil
}

func (r *TourRepository) ListByDriver(ctx context.Context, driverID primitive.ObjectID, limit int) ([]*models.Tour, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tours := make([]*models.Tour, 0)
	for _, t := range r.s.tours {
		if t.DriverID == driverID {
			tours = append(tours, clone(t))
		}
	}
	sortNewestFirst(tours,
		func(t *models.Tour) time.Time { return t.CreatedAt },
		func(t *models.Tour) primitive.ObjectID { return t.ID },
	)
	return truncate(tours, limit), nil
}

func (r *TourRepository) CountByDriverSince(ctx context.Context, driverID primitive.ObjectID, since time.Time) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var count int64
	for _, t := range r.s.tours {
		if t.DriverID == driverID && !t.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *TourRepository) CountByDrivers(ctx context.Context, driverIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[primitive.ObjectID]bool, len(driverIDs))
	for _, id := range driverIDs {
		wanted[id] = true
	}

	result := make(map[primitive.ObjectID]int64, len(driverIDs))
	for _, t := range r.s.tours {
		if wanted[t.DriverID] {
			result[t.DriverID]++
		}
	}
	return result, nil
}

func (r *TourRepository) ReserveSeats(ctx context.Context, tourID primitive.ObjectID, seats int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tours[tourID]
	if !ok || t.Status != models.TourStatusActive || t.CurrentCapacity+seats > t.MaxCapacity {
		return interfaces.ErrNoMatch
	}
	t.CurrentCapacity += seats
	return nil
}

func (r *TourRepository) ReleaseSeats(ctx context.Context, tourID primitive.ObjectID, seats int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tours[tourID]
	if !ok {
		return utils.NewNotFoundError("Tour")
	}
	t.CurrentCapacity -= seats
	if t.CurrentCapacity < 0 {
		t.CurrentCapacity = 0
	}
	return nil
}
