package memory

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/models"
	"pickupapp/internal/repositories/interfaces"
	"pickupapp/internal/utils"
)

type UserRepository struct{ s *Store }

func NewUserRepository(s *Store) interfaces.UserRepository {
	return &UserRepository{s: s}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return utils.NewConflictError(utils.ErrMsgEmailRegistered)
		}
	}

	user.ID = primitive.NewObjectID()
	r.s.users[user.ID] = clone(user)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, utils.NewNotFoundError("User")
	}
	return clone(u), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, utils.NewNotFoundError("User")
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make(map[primitive.ObjectID]*models.User, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			result[id] = clone(u)
		}
	}
	return result, nil
}

type DriverRepository struct{ s *Store }

func NewDriverRepository(s *Store) interfaces.DriverRepository {
	return &DriverRepository{s: s}
}

func (r *DriverRepository) Create(ctx context.Context, driver *models.Driver) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, d := range r.s.drivers {
		if d.Email == driver.Email {
			return utils.NewConflictError(utils.ErrMsgEmailRegistered)
		}
	}

	driver.ID = primitive.NewObjectID()
	r.s.drivers[driver.ID] = clone(driver)
	return nil
}

func (r *DriverRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Driver, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.drivers[id]
	if !ok {
		return nil, utils.NewNotFoundError("Driver")
	}
	return clone(d), nil
}

func (r *DriverRepository) GetByEmail(ctx context.Context, email string) (*models.Driver, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, d := range r.s.drivers {
		if d.Email == email {
			return clone(d), nil
		}
	}
	return nil, utils.NewNotFoundError("Driver")
}

func (r *DriverRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Driver, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make(map[primitive.ObjectID]*models.Driver, len(ids))
	for _, id := range ids {
		if d, ok := r.s.drivers[id]; ok {
			result[id] = clone(d)
		}
	}
	return result, nil
}

func (r *DriverRepository) List(ctx context.Context, limit int) ([]*models.Driver, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	drivers := make([]*models.Driver, 0, len(r.s.drivers))
	for _, d := range r.s.drivers {
		drivers = append(drivers, clone(d))
	}
	sort.Slice(drivers, func(i, j int) bool {
		return drivers[i].CreatedAt.Before(drivers[j].CreatedAt)
	})
	return truncate(drivers, limit), nil
}

func (r *DriverRepository) UpdateReputation(ctx context.Context, id primitive.ObjectID, rating float64, totalTrips int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.drivers[id]
	if !ok {
		return utils.NewNotFoundError("Driver")
	}
	d.Rating = rating
	d.TotalTrips = totalTrips
	return nil
}

func (r *DriverRepository) MarkPortfolioCompleted(ctx context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.drivers[id]
	if !ok {
		return utils.NewNotFoundError("Driver")
	}
	d.PortfolioCompleted = true
	return nil
}

type PortfolioRepository struct{ s *Store }

func NewPortfolioRepository(s *Store) interfaces.PortfolioRepository {
	return &PortfolioRepository{s: s}
}

func (r *PortfolioRepository) Upsert(ctx context.Context, portfolio *models.DriverPortfolio) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := clone(portfolio)
	if existing, ok := r.s.portfolios[portfolio.DriverID]; ok {
		stored.ID = existing.ID
		if stored.ProfileImage == "" {
			stored.ProfileImage = existing.ProfileImage
		}
	} else {
		stored.ID = primitive.NewObjectID()
	}
	stored.Languages = append([]string{}, portfolio.Languages...)
	stored.Certifications = append([]string{}, portfolio.Certifications...)

	r.s.portfolios[portfolio.DriverID] = stored
	return nil
}

func (r *PortfolioRepository) GetByDriverID(ctx context.Context, driverID primitive.ObjectID) (*models.DriverPortfolio, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return clone(r.s.portfolios[driverID]), nil
}

func (r *PortfolioRepository) GetByDriverIDs(ctx context.Context, driverIDs []primitive.ObjectID) (map[primitive.ObjectID]*models.DriverPortfolio, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make(map[primitive.ObjectID]*models.DriverPortfolio, len(driverIDs))
	for _, id := range driverIDs {
		if p, ok := r.s.portfolios[id]; ok {
			result[id] = clone(p)
		}
	}
	return result, nil
}

type AvailabilityRepository struct{ s *Store }

func NewAvailabilityRepository(s *Store) interfaces.AvailabilityRepository {
	return &AvailabilityRepository{s: s}
}

func (r *AvailabilityRepository) Upsert(ctx context.Context, availability *models.DriverAvailability) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := clone(availability)
	if existing, ok := r.s.availability[availability.DriverID]; ok {
		stored.ID = existing.ID
	} else {
		stored.ID = primitive.NewObjectID()
	}
	r.s.availability[availability.DriverID] = stored
	return nil
}

func (r *AvailabilityRepository) List(ctx context.Context, location, carType string, limit int) ([]*models.DriverAvailability, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*models.DriverAvailability, 0)
	for _, a := range r.s.availability {
		if location != "" && !anyContainsFold(a.Locations, location) {
			continue
		}
		if carType != "" && !contains(a.CarTypes, carType) {
			continue
		}
		result = append(result, clone(a))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return truncate(result, limit), nil
}

func anyContainsFold(values []string, substr string) bool {
	for _, v := range values {
		if containsFold(v, substr) {
			return true
		}
	}
	return false
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
