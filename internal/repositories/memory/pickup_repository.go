package memory

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/models"
	"pickupapp/internal/repositories/interfaces"
	"pickupapp/internal/utils"
)

type PickupRepository struct{ s *Store }

func NewPickupRepository(s *Store) interfaces.PickupRepository {
	return &PickupRepository{s: s}
}

func (r *PickupRepository) Create(ctx context.Context, request *models.PickupRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	request.ID = primitive.NewObjectID()
	r.s.pickups[request.ID] = clone(request)
	return nil
}

func (r *PickupRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.PickupRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.pickups[id]
	if !ok {
		return nil, utils.NewNotFoundError("Pickup request")
	}
	return clone(p), nil
}

func (r *PickupRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int) ([]*models.PickupRequest, error) {
	return r.list(func(p *models.PickupRequest) bool { return p.UserID == userID }, limit), nil
}

func (r *PickupRepository) ListByStatus(ctx context.Context, status models.PickupStatus, limit int) ([]*models.PickupRequest, error) {
	return r.list(func(p *models.PickupRequest) bool { return p.Status == status }, limit), nil
}

func (r *PickupRepository) List(ctx context.Context, limit int) ([]*models.PickupRequest, error) {
	return r.list(func(*models.PickupRequest) bool { return true }, limit), nil
}

func (r *PickupRepository) CancelByUser(ctx context.Context, id, userID primitive.ObjectID) (*models.PickupRequest, error) {
	return r.transition(id,
		func(p *models.PickupRequest) bool {
			return p.UserID == userID && p.Status == models.PickupStatusPending
		},
		func(p *models.PickupRequest) { p.Status = models.PickupStatusCancelled },
	)
}

func (r *PickupRepository) Accept(ctx context.Context, id, driverID primitive.ObjectID) (*models.PickupRequest, error) {
	return r.transition(id,
		func(p *models.PickupRequest) bool { return p.Status == models.PickupStatusPending },
		func(p *models.PickupRequest) {
			p.Status = models.PickupStatusAccepted
			assigned := driverID
			p.DriverID = &assigned
		},
	)
}

func (r *PickupRepository) Release(ctx context.Context, id, driverID primitive.ObjectID) (*models.PickupRequest, error) {
	return r.transition(id,
		func(p *models.PickupRequest) bool {
			return p.Status == models.PickupStatusPending || assignedTo(p, driverID)
		},
		func(p *models.PickupRequest) {
			p.Status = models.PickupStatusPending
			p.DriverID = nil
		},
	)
}

func (r *PickupRepository) Complete(ctx context.Context, id, driverID primitive.ObjectID) (*models.PickupRequest, error) {
	return r.transition(id,
		func(p *models.PickupRequest) bool { return assignedTo(p, driverID) },
		func(p *models.PickupRequest) { p.Status = models.PickupStatusCompleted },
	)
}

func assignedTo(p *models.PickupRequest, driverID primitive.ObjectID) bool {
	return p.Status == models.PickupStatusAccepted && p.DriverID != nil && *p.DriverID == driverID
}

func (r *PickupRepository) transition(id primitive.ObjectID, match func(*models.PickupRequest) bool, apply func(*models.PickupRequest)) (*models.PickupRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.pickups[id]
	if !ok || !match(p) {
		return nil, interfaces.ErrNoMatch
	}
	apply(p)
	p.UpdatedAt = time.Now()
	return clone(p), nil
}

func (r *PickupRepository) list(match func(*models.PickupRequest) bool, limit int) []*models.PickupRequest {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	requests := make([]*models.PickupRequest, 0)
	for _, p := range r.s.pickups {
		if match(p) {
			requests = append(requests, clone(p))
		}
	}
	sortNewestFirst(requests,
		func(p *models.PickupRequest) time.Time { return p.CreatedAt },
		func(p *models.PickupRequest) primitive.ObjectID { return p.ID },
	)
	return truncate(requests, limit)
}
