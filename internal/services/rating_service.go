package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/models"
	"pickupapp/internal/repositories/interfaces"
	"pickupapp/internal/utils"
	"pickupapp/internal/validators"
	"pickupapp/pkg/logger"
)

type RatingService interface {
	// SubmitRating records the single rating of a completed booking and
	// recomputes the driver's reputation from all of their ratings.
	SubmitRating(ctx context.Context, driverID, userID primitive.ObjectID, request *validators.RateDriverRequest) (*RatingResult, error)
}

type RatingResult struct {
	Rating       *models.Rating `json:"rating"`
	DriverRating float64        `json:"driver_rating"`
	TotalTrips   int            `json:"total_trips"`
}

type ratingService struct {
	ratingRepo    interfaces.RatingRepository
	bookingRepo   interfaces.BookingRepository
	tourRepo      interfaces.TourRepository
	driverRepo    interfaces.DriverRepository
	notifications NotificationService
	logger        *logger.Logger
}

func NewRatingService(
	ratingRepo interfaces.RatingRepository,
	bookingRepo interfaces.BookingRepository,
	tourRepo interfaces.TourRepository,
	driverRepo interfaces.DriverRepository,
	notifications NotificationService,
	logger *logger.Logger,
) RatingService {
	return &ratingService{
		ratingRepo:    ratingRepo,
		bookingRepo:   bookingRepo,
		tourRepo:      tourRepo,
		driverRepo:    driverRepo,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *ratingService) SubmitRating(ctx context.Context, driverID, userID primitive.ObjectID, request *validators.RateDriverRequest) (*RatingResult, error) {
	if request.Rating < utils.MinRatingScore || request.Rating > utils.MaxRatingScore {
		return nil, utils.NewInvalidArgumentError(validators.ErrInvalidRating.Error())
	}

	bookingID, err := primitive.ObjectIDFromHex(request.BookingID)
	if err != nil {
		return nil, utils.NewInvalidArgumentError("Invalid booking ID")
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, passThroughOrInternal(err)
	}

	if booking.UserID != userID {
		return nil, utils.NewForbiddenError("You can only rate your own bookings.")
	}

	tour, err := s.tourRepo.GetByID(ctx, booking.TourID)
	if err != nil {
		return nil, passThroughOrInternal(err)
	}
	if tour.DriverID != driverID {
		return nil, utils.NewInvalidArgumentError(utils.ErrMsgDriverMismatch)
	}

	if booking.Status != models.BookingStatusCompleted {
		return nil, utils.NewInvalidTransitionError(utils.ErrMsgRateOnlyCompleted)
	}

	exists, err := s.ratingRepo.ExistsForBooking(ctx, bookingID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	if exists {
		return nil, utils.NewConflictError(utils.ErrMsgAlreadyRated)
	}

	rating := &models.Rating{
		DriverID:  driverID,
		UserID:    userID,
		BookingID: bookingID,
		Rating:    request.Rating,
		CreatedAt: nowUTC(),
	}

	// The unique index on booking_id catches a concurrent duplicate.
	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		return nil, passThroughOrInternal(err)
	}

	result := &RatingResult{Rating: rating}

	agg, err := s.ratingRepo.AggregateForDriver(ctx, driverID)
	if err != nil {
		s.logger.WithError(err).WithDriverID(driverID).Error("Failed to aggregate driver ratings")
		return result, nil
	}

	result.DriverRating = utils.RoundHalfStar(agg.Average)
	result.TotalTrips = agg.Count

	if err := s.driverRepo.UpdateReputation(ctx, driverID, result.DriverRating, result.TotalTrips); err != nil {
		s.logger.WithError(err).WithDriverID(driverID).Error("Failed to update driver reputation")
	}

	s.logger.WithDriverID(driverID).WithFields(map[string]interface{}{
		"booking_id": bookingID.Hex(),
		"score":      rating.Rating,
		"average":    result.DriverRating,
	}).Info("Driver rated")

	s.notifications.Notify(ctx,
		models.Principal{ID: driverID, Kind: models.PrincipalDriver},
		models.NotificationTypeRating,
		"New rating",
		fmt.Sprintf("%s rated your ride %d/5", booking.Username, rating.Rating),
		map[string]interface{}{"booking_id": bookingID.Hex(), "rating": rating.Rating},
	)

	return result, nil
}

