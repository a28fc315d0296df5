package services

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/models"
	"pickupapp/internal/repositories/interfaces"
	"pickupapp/internal/utils"
	"pickupapp/internal/validators"
	"pickupapp/pkg/logger"
)

type TourService interface {
	CreateTour(ctx context.Context, driverID primitive.ObjectID, request *validators.CreateTourRequest) (*models.TourWithDriver, error)
	// ListActiveTours returns bookable tours, drivers with fewer published tours
	// first. When viewer is a user, tours they already booked are left out.
	ListActiveTours(ctx context.Context, filter *models.TourFilter, viewer *models.Principal) ([]*models.TourWithDriver, error)
	GetTour(ctx context.Context, id primitive.ObjectID) (*models.TourWithDriver, error)
}

type tourService struct {
	tourRepo      interfaces.TourRepository
	bookingRepo   interfaces.BookingRepository
	driverRepo    interfaces.DriverRepository
	portfolioRepo interfaces.PortfolioRepository
	listLimit     int
	logger        *logger.Logger
}

func NewTourService(
	tourRepo interfaces.TourRepository,
	bookingRepo interfaces.BookingRepository,
	driverRepo interfaces.DriverRepository,
	portfolioRepo interfaces.PortfolioRepository,
	listLimit int,
	logger *logger.Logger,
) TourService {
	if listLimit <= 0 {
		listLimit = utils.DefaultListLimit
	}

	return &tourService{
		tourRepo:      tourRepo,
		bookingRepo:   bookingRepo,
		driverRepo:    driverRepo,
		portfolioRepo: portfolioRepo,
		listLimit:     listLimit,
		logger:        logger,
	}
}

func (s *tourService) CreateTour(ctx context.Context, driverID primitive.ObjectID, request *validators.CreateTourRequest) (*models.TourWithDriver, error) {
	if _, err := s.driverRepo.GetByID(ctx, driverID); err != nil {
		return nil, passThroughOrInternal(err)
	}

	tour, err := models.NewTour(driverID, models.NewTourParams{
		FromLocation:   request.FromLocation,
		ToLocation:     request.ToLocation,
		DepartureTime:  request.DepartureTime,
		ReturnTime:     request.ReturnTime,
		MaxCapacity:    request.MaxCapacity,
		PricePerPerson: request.PricePerPerson,
		Description:    request.Description,
	}, nowUTC())
	if err != nil {
		return nil, utils.NewInvalidArgumentError(err.Error())
	}

	if err := s.tourRepo.Create(ctx, tour); err != nil {
		return nil, utils.NewInternalError(err)
	}

	s.logger.WithDriverID(driverID).WithField("tour_id", tour.ID.Hex()).Info("Tour created")

	return s.withDriver(ctx, tour)
}

func (s *tourService) ListActiveTours(ctx context.Context, filter *models.TourFilter, viewer *models.Principal) ([]*models.TourWithDriver, error) {
	if filter == nil {
		filter = &models.TourFilter{}
	}

	if viewer != nil && viewer.Kind == models.PrincipalUser {
		booked, err := s.bookingRepo.BookedTourIDs(ctx, viewer.ID)
		if err != nil {
			return nil, utils.NewInternalError(err)
		}
		filter.ExcludeIDs = append(filter.ExcludeIDs, booked...)
	}

	tours, err := s.tourRepo.ListAvailable(ctx, filter)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	driverIDs := make([]primitive.ObjectID, 0, len(tours))
	for _, t := range tours {
		driverIDs = append(driverIDs, t.DriverID)
	}

	tourCounts, err := s.tourRepo.CountByDrivers(ctx, uniqueIDs(driverIDs))
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	rankTours(tours, tourCounts)
	if len(tours) > s.listLimit {
		tours = tours[:s.listLimit]
	}

	drivers, err := driverSummaries(ctx, s.driverRepo, s.portfolioRepo, driverIDs)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	result := make([]*models.TourWithDriver, 0, len(tours))
	for _, t := range tours {
		result = append(result, &models.TourWithDriver{Tour: t, Driver: drivers[t.DriverID]})
	}
	return result, nil
}

// rankTours orders by the owning driver's total tour count ascending, then by
// creation time descending.
func rankTours(tours []*models.Tour, tourCounts map[primitive.ObjectID]int64) {
	sort.SliceStable(tours, func(i, j int) bool {
		ci, cj := tourCounts[tours[i].DriverID], tourCounts[tours[j].DriverID]
		if ci != cj {
			return ci < cj
		}
		if !tours[i].CreatedAt.Equal(tours[j].CreatedAt) {
			return tours[i].CreatedAt.After(tours[j].CreatedAt)
		}
		return tours[i].ID.Hex() > tours[j].ID.Hex()
	})
}

func (s *tourService) GetTour(ctx context.Context, id primitive.ObjectID) (*models.TourWithDriver, error) {
	tour, err := s.tourRepo.GetByID(ctx, id)
	if err != nil {
		return nil, passThroughOrInternal(err)
	}
	return s.withDriver(ctx, tour)
}

func (s *tourService) withDriver(ctx context.Context, tour *models.Tour) (*models.TourWithDriver, error) {
	drivers, err := driverSummaries(ctx, s.driverRepo, s.portfolioRepo, []primitive.ObjectID{tour.DriverID})
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	return &models.TourWithDriver{Tour: tour, Driver: drivers[tour.DriverID]}, nil
}
