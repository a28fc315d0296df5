package services

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/models"
	"pickupapp/internal/repositories/interfaces"
	"pickupapp/internal/utils"
	"pickupapp/internal/validators"
	"pickupapp/pkg/logger"
)

// AccountService reads accounts and manages driver-owned profile data.
// Reputation fields are written only by RatingService.
type AccountService interface {
	GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	UserStats(ctx context.Context, userID primitive.ObjectID) (*models.UserStats, error)

	GetDriver(ctx context.Context, driverID primitive.ObjectID) (*models.DriverProfile, error)
	ListDrivers(ctx context.Context) ([]*models.DriverProfile, error)
	DriverStats(ctx context.Context, driverID primitive.ObjectID) (*models.DriverStats, error)
	RecentActivity(ctx context.Context, driverID primitive.ObjectID) ([]*models.ActivityItem, error)

	GetPortfolio(ctx context.Context, driverID primitive.ObjectID) (*models.DriverPortfolio, error)
	UpdatePortfolio(ctx context.Context, driverID primitive.ObjectID, request *validators.PortfolioRequest) (*models.DriverPortfolio, error)

	SetAvailability(ctx context.Context, driverID primitive.ObjectID, request *validators.AvailabilityRequest) (*models.DriverAvailability, error)
	ListAvailability(ctx context.Context, location, carType string) ([]*models.DriverAvailability, error)
}

type accountService struct {
	userRepo         interfaces.UserRepository
	driverRepo       interfaces.DriverRepository
	portfolioRepo    interfaces.PortfolioRepository
	availabilityRepo interfaces.AvailabilityRepository
	tourRepo         interfaces.TourRepository
	bookingRepo      interfaces.BookingRepository
	media            MediaService
	listLimit        int
	activityLimit    int
	logger           *logger.Logger
}

type AccountServiceConfig struct {
	ListLimit     int
	ActivityLimit int
}

func NewAccountService(
	userRepo interfaces.UserRepository,
	driverRepo interfaces.DriverRepository,
	portfolioRepo interfaces.PortfolioRepository,
	availabilityRepo interfaces.AvailabilityRepository,
	tourRepo interfaces.TourRepository,
	bookingRepo interfaces.BookingRepository,
	media MediaService,
	cfg AccountServiceConfig,
	logger *logger.Logger,
) AccountService {
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = utils.DefaultListLimit
	}
	if cfg.ActivityLimit <= 0 {
		cfg.ActivityLimit = utils.RecentActivityLimit
	}

	return &accountService{
		userRepo:         userRepo,
		driverRepo:       driverRepo,
		portfolioRepo:    portfolioRepo,
		availabilityRepo: availabilityRepo,
		tourRepo:         tourRepo,
		bookingRepo:      bookingRepo,
		media:            media,
		listLimit:        cfg.ListLimit,
		activityLimit:    cfg.ActivityLimit,
		logger:           logger,
	}
}

func (s *accountService) GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, passThroughOrInternal(err)
	}
	return user, nil
}

func (s *accountService) UserStats(ctx context.Context, userID primitive.ObjectID) (*models.UserStats, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	totals, err := s.bookingRepo.UserTotals(ctx, userID, utils.StartOfMonth(nowUTC()))
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	return &models.UserStats{
		TotalRides:    totals.Count,
		TotalSpent:    utils.RoundTo(totals.TotalSpent, 2),
		ThisMonth:     totals.ThisMonth,
		AverageRating: user.Rating,
	}, nil
}

func (s *accountService) GetDriver(ctx context.Context, driverID primitive.ObjectID) (*models.DriverProfile, error) {
	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, passThroughOrInternal(err)
	}

	portfolio, err := s.portfolioRepo.GetByDriverID(ctx, driverID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	return &models.DriverProfile{Driver: driver, Portfolio: portfolio}, nil
}

func (s *accountService) ListDrivers(ctx context.Context) ([]*models.DriverProfile, error) {
	drivers, err := s.driverRepo.List(ctx, s.listLimit)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	ids := make([]primitive.ObjectID, 0, len(drivers))
	for _, d := range drivers {
		ids = append(ids, d.ID)
	}

	portfolios, err := s.portfolioRepo.GetByDriverIDs(ctx, ids)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	profiles := make([]*models.DriverProfile, 0, len(drivers))
	for _, d := range drivers {
		profiles = append(profiles, &models.DriverProfile{Driver: d, Portfolio: portfolios[d.ID]})
	}
	return profiles, nil
}

func (s *accountService) DriverStats(ctx context.Context, driverID primitive.ObjectID) (*models.DriverStats, error) {
	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, passThroughOrInternal(err)
	}

	earnings, err := s.bookingRepo.DriverEarnings(ctx, driverID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	thisMonth, err := s.tourRepo.CountByDriverSince(ctx, driverID, utils.StartOfMonth(nowUTC()))
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	return &models.DriverStats{
		TotalEarnings: utils.RoundTo(earnings.TotalPrice, 2),
		TotalTrips:    earnings.TotalPeople,
		AverageRating: driver.Rating,
		ThisMonth:     thisMonth,
	}, nil
}

func (s *accountService) RecentActivity(ctx context.Context, driverID primitive.ObjectID) ([]*models.ActivityItem, error) {
	tours, err := s.tourRepo.ListByDriver(ctx, driverID, s.activityLimit)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	items := make([]*models.ActivityItem, 0, len(tours))
	for _, t := range tours {
		items = append(items, &models.ActivityItem{
			Type:      "tour_created",
			Title:     fmt.Sprintf("New Tour: %s → %s", t.FromLocation, t.ToLocation),
			Status:    string(t.Status),
			Details:   fmt.Sprintf("$%.2f per person", t.PricePerPerson),
			TourID:    t.ID,
			Timestamp: t.CreatedAt,
		})
	}
	return items, nil
}

func (s *accountService) GetPortfolio(ctx context.Context, driverID primitive.ObjectID) (*models.DriverPortfolio, error) {
	portfolio, err := s.portfolioRepo.GetByDriverID(ctx, driverID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	if portfolio != nil {
		return portfolio, nil
	}

	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, passThroughOrInternal(err)
	}
	return models.DefaultPortfolio(driver, nowUTC()), nil
}

func (s *accountService) UpdatePortfolio(ctx context.Context, driverID primitive.ObjectID, request *validators.PortfolioRequest) (*models.DriverPortfolio, error) {
	if _, err := s.driverRepo.GetByID(ctx, driverID); err != nil {
		return nil, passThroughOrInternal(err)
	}

	imageURL, err := s.media.StoreProfileImage(ctx, driverID, request.ProfileImage)
	if err != nil {
		return nil, err
	}

	portfolio := &models.DriverPortfolio{
		DriverID:        driverID,
		FullName:        strings.TrimSpace(request.FullName),
		Age:             request.Age,
		CarModel:        strings.TrimSpace(request.CarModel),
		CarYear:         request.CarYear,
		CarColor:        strings.TrimSpace(request.CarColor),
		ExperienceYears: request.ExperienceYears,
		Bio:             request.Bio,
		Languages:       nonNil(request.Languages),
		Certifications:  nonNil(request.Certifications),
		ProfileImage:    imageURL,
		UpdatedAt:       nowUTC(),
	}

	if err := s.portfolioRepo.Upsert(ctx, portfolio); err != nil {
		return nil, utils.NewInternalError(err)
	}

	if err := s.driverRepo.MarkPortfolioCompleted(ctx, driverID); err != nil {
		return nil, passThroughOrInternal(err)
	}

	s.logger.WithDriverID(driverID).Info("Portfolio updated")

	stored, err := s.portfolioRepo.GetByDriverID(ctx, driverID)
	if err != nil || stored == nil {
		return portfolio, nil
	}
	return stored, nil
}

func (s *accountService) SetAvailability(ctx context.Context, driverID primitive.ObjectID, request *validators.AvailabilityRequest) (*models.DriverAvailability, error) {
	if _, err := s.driverRepo.GetByID(ctx, driverID); err != nil {
		return nil, passThroughOrInternal(err)
	}

	availability := &models.DriverAvailability{
		DriverID:     driverID,
		WorkingHours: request.WorkingHours,
		Locations:    trimAll(request.Locations),
		CarTypes:     trimAll(request.CarTypes),
		CreatedAt:    nowUTC(),
	}

	if err := s.availabilityRepo.Upsert(ctx, availability); err != nil {
		return nil, utils.NewInternalError(err)
	}

	s.logger.WithDriverID(driverID).Info("Availability updated")
	return availability, nil
}

func (s *accountService) ListAvailability(ctx context.Context, location, carType string) ([]*models.DriverAvailability, error) {
	items, err := s.availabilityRepo.List(ctx, strings.TrimSpace(location), strings.TrimSpace(carType), s.listLimit)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	return items, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
