package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/models"
	"pickupapp/internal/repositories/interfaces"
	"pickupapp/internal/utils"
	"pickupapp/internal/validators"
	"pickupapp/pkg/logger"
)

type BookingService interface {
	CreateBooking(ctx context.Context, userID primitive.ObjectID, request *validators.CreateBookingRequest) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID primitive.ObjectID) (*models.Booking, error)
	CompleteBooking(ctx context.Context, bookingID, driverID primitive.ObjectID) (*models.Booking, error)

	MyBookings(ctx context.Context, userID primitive.ObjectID) ([]*models.BookingView, error)
	DriverBookings(ctx context.Context, driverID primitive.ObjectID) ([]*models.BookingView, error)
}

type bookingService struct {
	bookingRepo         interfaces.BookingRepository
	tourRepo            interfaces.TourRepository
	userRepo            interfaces.UserRepository
	driverRepo          interfaces.DriverRepository
	portfolioRepo       interfaces.PortfolioRepository
	ratingRepo          interfaces.RatingRepository
	notifications       NotificationService
	userListLimit       int
	driverBookingsLimit int
	logger              *logger.Logger
}

type BookingServiceConfig struct {
	UserListLimit       int
	DriverBookingsLimit int
}

func NewBookingService(
	bookingRepo interfaces.BookingRepository,
	tourRepo interfaces.TourRepository,
	userRepo interfaces.UserRepository,
	driverRepo interfaces.DriverRepository,
	portfolioRepo interfaces.PortfolioRepository,
	ratingRepo interfaces.RatingRepository,
	notifications NotificationService,
	cfg BookingServiceConfig,
	logger *logger.Logger,
) BookingService {
	if cfg.UserListLimit <= 0 {
		cfg.UserListLimit = utils.DefaultListLimit
	}

	return &bookingService{
		bookingRepo:         bookingRepo,
		tourRepo:            tourRepo,
		userRepo:            userRepo,
		driverRepo:          driverRepo,
		portfolioRepo:       portfolioRepo,
		ratingRepo:          ratingRepo,
		notifications:       notifications,
		userListLimit:       cfg.UserListLimit,
		driverBookingsLimit: cfg.DriverBookingsLimit,
		logger:              logger,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID primitive.ObjectID, request *validators.CreateBookingRequest) (*models.Booking, error) {
	tourID, err := primitive.ObjectIDFromHex(request.TourID)
	if err != nil {
		return nil, utils.NewInvalidArgumentError("Invalid tour ID")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, passThroughOrInternal(err)
	}

	tour, err := s.tourRepo.GetByID(ctx, tourID)
	if err != nil {
		return nil, passThroughOrInternal(err)
	}

	var driverName string
	driver, err := s.driverRepo.GetByID(ctx, tour.DriverID)
	switch {
	case err == nil:
		driverName = driver.FullName
	case !errors.Is(err, utils.ErrNotFound):
		return nil, utils.NewInternalError(err)
	}

	booking, err := models.NewBooking(user, tour, driverName, models.NewBookingParams{
		TourID:         tourID,
		NumberOfPeople: request.NumberOfPeople,
		TotalPrice:     request.TotalPrice,
		PaymentType:    request.PaymentType,
	}, nowUTC())
	if err != nil {
		return nil, utils.NewInvalidArgumentError(err.Error())
	}

	// The capacity check and the increment are one conditional update.
	if err := s.tourRepo.ReserveSeats(ctx, tourID, booking.NumberOfPeople); err != nil {
		if errors.Is(err, interfaces.ErrNoMatch) {
			return nil, utils.NewAppError(utils.ErrCapacityExceeded, utils.ErrMsgNotEnoughCapacity)
		}
		return nil, utils.NewInternalError(err)
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		if releaseErr := s.tourRepo.ReleaseSeats(ctx, tourID, booking.NumberOfPeople); releaseErr != nil {
			s.logger.WithError(releaseErr).WithField("tour_id", tourID.Hex()).
				Error("Failed to release seats after booking insert failure")
		}
		return nil, utils.NewInternalError(err)
	}

	s.logger.LogBookingEvent(booking.ID, utils.EventBookingCreated, map[string]interface{}{
		"tour_id":          tourID.Hex(),
		"user_id":          userID.Hex(),
		"number_of_people": booking.NumberOfPeople,
		"status":           booking.Status,
	})

	s.notifications.Notify(ctx,
		models.Principal{ID: tour.DriverID, Kind: models.PrincipalDriver},
		models.NotificationTypeBooking,
		"New booking",
		fmt.Sprintf("%s booked %d seat(s) on %s → %s", user.FullName, booking.NumberOfPeople, tour.FromLocation, tour.ToLocation),
		map[string]interface{}{"booking_id": booking.ID.Hex(), "tour_id": tourID.Hex()},
	)

	return booking, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID, userID primitive.ObjectID) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, passThroughOrInternal(err)
	}

	if booking.UserID != userID {
		return nil, utils.NewForbiddenError(utils.ErrMsgBookingNotFound)
	}

	if err := cancellable(booking.Status); err != nil {
		return nil, err
	}

	updated, err := s.bookingRepo.TransitionStatus(ctx, bookingID, models.ActiveBookingStatuses, models.BookingStatusCancelled)
	if err != nil {
		if errors.Is(err, interfaces.ErrNoMatch) {
			return nil, s.lostBookingRace(ctx, bookingID, cancellable)
		}
		return nil, utils.NewInternalError(err)
	}

	// Only the caller that won the status change gives the seats back.
	if err := s.tourRepo.ReleaseSeats(ctx, booking.TourID, booking.NumberOfPeople); err != nil {
		s.logger.WithError(err).WithField("tour_id", booking.TourID.Hex()).Error("Failed to release seats for cancelled booking")
	}

	s.logger.LogBookingEvent(bookingID, utils.EventBookingCancelled, map[string]interface{}{
		"tour_id":          booking.TourID.Hex(),
		"number_of_people": booking.NumberOfPeople,
	})

	s.notifications.Notify(ctx,
		models.Principal{ID: booking.DriverID, Kind: models.PrincipalDriver},
		models.NotificationTypeBooking,
		"Booking cancelled",
		fmt.Sprintf("%s cancelled a booking for %d seat(s)", booking.Username, booking.NumberOfPeople),
		map[string]interface{}{"booking_id": bookingID.Hex(), "tour_id": booking.TourID.Hex()},
	)

	return updated, nil
}

func (s *bookingService) CompleteBooking(ctx context.Context, bookingID, driverID primitive.ObjectID) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, passThroughOrInternal(err)
	}

	tour, err := s.tourRepo.GetByID(ctx, booking.TourID)
	if err != nil {
		return nil, passThroughOrInternal(err)
	}

	if tour.DriverID != driverID {
		return nil, utils.NewForbiddenError(utils.ErrMsgNotTourDriver)
	}

	if err := completable(booking.Status); err != nil {
		return nil, err
	}

	updated, err := s.bookingRepo.TransitionStatus(ctx, bookingID, models.ActiveBookingStatuses, models.BookingStatusCompleted)
	if err != nil {
		if errors.Is(err, interfaces.ErrNoMatch) {
			return nil, s.lostBookingRace(ctx, bookingID, completable)
		}
		return nil, utils.NewInternalError(err)
	}

	s.logger.LogBookingEvent(bookingID, utils.EventBookingCompleted, map[string]interface{}{
		"tour_id":   tour.ID.Hex(),
		"driver_id": driverID.Hex(),
	})

	s.notifications.Notify(ctx,
		models.Principal{ID: booking.UserID, Kind: models.PrincipalUser},
		models.NotificationTypeBooking,
		"Ride completed",
		fmt.Sprintf("Your ride %s → %s is complete. Rate your driver!", tour.FromLocation, tour.ToLocation),
		map[string]interface{}{"booking_id": bookingID.Hex(), "driver_id": driverID.Hex()},
	)

	return updated, nil
}

func cancellable(status models.BookingStatus) error {
	switch {
	case status == models.BookingStatusCompleted:
		return utils.NewInvalidTransitionError(utils.ErrMsgBookingCompleted)
	case !status.CanTransitionTo(models.BookingStatusCancelled):
		return utils.NewInvalidTransitionError(fmt.Sprintf("Cannot cancel a booking with status '%s'.", status))
	}
	return nil
}

func completable(status models.BookingStatus) error {
	if !status.CanTransitionTo(models.BookingStatusCompleted) {
		return utils.NewInvalidTransitionError(fmt.Sprintf("Cannot complete a booking with status '%s'.", status))
	}
	return nil
}

// lostBookingRace explains a compare-and-set miss using the booking's current status.
func (s *bookingService) lostBookingRace(ctx context.Context, bookingID primitive.ObjectID, check func(models.BookingStatus) error) error {
	current, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return passThroughOrInternal(err)
	}
	if err := check(current.Status); err != nil {
		return err
	}
	return utils.NewConflictError("Booking was modified concurrently, please retry.")
}

func (s *bookingService) MyBookings(ctx context.Context, userID primitive.ObjectID) ([]*models.BookingView, error) {
	bookings, err := s.bookingRepo.ListByUser(ctx, userID, s.userListLimit)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	tours, rated, err := s.bookingJoins(ctx, bookings)
	if err != nil {
		return nil, err
	}

	driverIDs := make([]primitive.ObjectID, 0, len(bookings))
	for _, b := range bookings {
		driverIDs = append(driverIDs, b.DriverID)
	}
	drivers, err := driverSummaries(ctx, s.driverRepo, s.portfolioRepo, driverIDs)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	views := make([]*models.BookingView, 0, len(bookings))
	for _, b := range bookings {
		view := newBookingView(b, tours[b.TourID], rated[b.ID])
		view.Driver = drivers[b.DriverID]
		views = append(views, view)
	}
	return views, nil
}

func (s *bookingService) DriverBookings(ctx context.Context, driverID primitive.ObjectID) ([]*models.BookingView, error) {
	bookings, err := s.bookingRepo.ListByDriver(ctx, driverID, s.driverBookingsLimit)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	tours, rated, err := s.bookingJoins(ctx, bookings)
	if err != nil {
		return nil, err
	}

	userIDs := make([]primitive.ObjectID, 0, len(bookings))
	for _, b := range bookings {
		userIDs = append(userIDs, b.UserID)
	}
	passengers, err := passengerSummaries(ctx, s.userRepo, userIDs)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	views := make([]*models.BookingView, 0, len(bookings))
	for _, b := range bookings {
		view := newBookingView(b, tours[b.TourID], rated[b.ID])
		view.Passenger = passengers[b.UserID]
		views = append(views, view)
	}
	return views, nil
}

func (s *bookingService) bookingJoins(ctx context.Context, bookings []*models.Booking) (map[primitive.ObjectID]*models.Tour, map[primitive.ObjectID]bool, error) {
	tourIDs := make([]primitive.ObjectID, 0, len(bookings))
	bookingIDs := make([]primitive.ObjectID, 0, len(bookings))
	for _, b := range bookings {
		tourIDs = append(tourIDs, b.TourID)
		bookingIDs = append(bookingIDs, b.ID)
	}

	tours, err := s.tourRepo.GetByIDs(ctx, uniqueIDs(tourIDs))
	if err != nil {
		return nil, nil, utils.NewInternalError(err)
	}

	rated, err := s.ratingRepo.RatedBookings(ctx, bookingIDs)
	if err != nil {
		return nil, nil, utils.NewInternalError(err)
	}
	return tours, rated, nil
}

func newBookingView(b *models.Booking, tour *models.Tour, isRated bool) *models.BookingView {
	view := &models.BookingView{
		ID:             b.ID,
		Status:         b.Status,
		TotalPrice:     b.TotalPrice,
		NumberOfPeople: b.NumberOfPeople,
		PaymentType:    b.PaymentType,
		CreatedAt:      b.CreatedAt,
		IsRated:        isRated,
	}
	if tour != nil {
		view.Tour = tour.Summary()
	}
	return view
}
