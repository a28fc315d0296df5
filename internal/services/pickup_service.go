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

// PickupService drives ad-hoc ride requests. Every driver-side transition is a
// single conditional update; losing a race yields a Conflict, never a retry.
type PickupService interface {
	CreateRequest(ctx context.Context, userID primitive.ObjectID, request *validators.CreatePickupRequest) (*models.PickupRequest, error)
	MyRequests(ctx context.Context, userID primitive.ObjectID) ([]*models.PickupRequest, error)
	PendingRequests(ctx context.Context) ([]*models.PickupRequestView, error)
	AllRequests(ctx context.Context) ([]*models.PickupRequestView, error)

	UserCancel(ctx context.Context, requestID, userID primitive.ObjectID) (*models.PickupRequest, error)
	DriverAccept(ctx context.Context, requestID, driverID primitive.ObjectID) (*models.PickupRequest, error)
	DriverCancel(ctx context.Context, requestID, driverID primitive.ObjectID) (*models.PickupRequest, error)
	DriverComplete(ctx context.Context, requestID, driverID primitive.ObjectID) (*models.PickupRequest, error)
}

type pickupService struct {
	pickupRepo    interfaces.PickupRepository
	userRepo      interfaces.UserRepository
	driverRepo    interfaces.DriverRepository
	notifications NotificationService
	listLimit     int
	logger        *logger.Logger
}

func NewPickupService(
	pickupRepo interfaces.PickupRepository,
	userRepo interfaces.UserRepository,
	driverRepo interfaces.DriverRepository,
	notifications NotificationService,
	listLimit int,
	logger *logger.Logger,
) PickupService {
	if listLimit <= 0 {
		listLimit = utils.DefaultListLimit
	}

	return &pickupService{
		pickupRepo:    pickupRepo,
		userRepo:      userRepo,
		driverRepo:    driverRepo,
		notifications: notifications,
		listLimit:     listLimit,
		logger:        logger,
	}
}

func (s *pickupService) CreateRequest(ctx context.Context, userID primitive.ObjectID, request *validators.CreatePickupRequest) (*models.PickupRequest, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, passThroughOrInternal(err)
	}

	pickup, err := models.NewPickupRequest(userID, models.NewPickupParams{
		PickupLocation:       request.PickupLocation,
		Destination:          request.Destination,
		PickupTime:           request.PickupTime,
		NumberOfPeople:       request.NumberOfPeople,
		PreferredCarType:     request.PreferredCarType,
		AllowOtherPassengers: request.AllowOtherPassengers,
		SpecialRequests:      request.SpecialRequests,
	}, nowUTC())
	if err != nil {
		return nil, utils.NewInvalidArgumentError(err.Error())
	}

	if err := s.pickupRepo.Create(ctx, pickup); err != nil {
		return nil, utils.NewInternalError(err)
	}

	s.logger.LogPickupEvent(pickup.ID, utils.EventPickupCreated, map[string]interface{}{
		"user_id":          userID.Hex(),
		"number_of_people": pickup.NumberOfPeople,
	})
	return pickup, nil
}

func (s *pickupService) MyRequests(ctx context.Context, userID primitive.ObjectID) ([]*models.PickupRequest, error) {
	requests, err := s.pickupRepo.ListByUser(ctx, userID, s.listLimit)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	return requests, nil
}

func (s *pickupService) PendingRequests(ctx context.Context) ([]*models.PickupRequestView, error) {
	requests, err := s.pickupRepo.ListByStatus(ctx, models.PickupStatusPending, s.listLimit)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	return s.withRequesters(ctx, requests)
}

func (s *pickupService) AllRequests(ctx context.Context) ([]*models.PickupRequestView, error) {
	requests, err := s.pickupRepo.List(ctx, s.listLimit)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	return s.withRequesters(ctx, requests)
}

func (s *pickupService) withRequesters(ctx context.Context, requests []*models.PickupRequest) ([]*models.PickupRequestView, error) {
	userIDs := make([]primitive.ObjectID, 0, len(requests))
	for _, r := range requests {
		userIDs = append(userIDs, r.UserID)
	}

	users, err := passengerSummaries(ctx, s.userRepo, userIDs)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	views := make([]*models.PickupRequestView, 0, len(requests))
	for _, r := range requests {
		views = append(views, &models.PickupRequestView{PickupRequest: r, User: users[r.UserID]})
	}
	return views, nil
}

func (s *pickupService) UserCancel(ctx context.Context, requestID, userID primitive.ObjectID) (*models.PickupRequest, error) {
	current, err := s.pickupRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, passThroughOrInternal(err)
	}

	if current.UserID != userID {
		return nil, utils.NewForbiddenError("You can only cancel your own requests.")
	}
	if current.Status != models.PickupStatusPending {
		return nil, utils.NewInvalidTransitionError(fmt.Sprintf("Cannot cancel a request with status '%s'.", current.Status))
	}

	updated, err := s.pickupRepo.CancelByUser(ctx, requestID, userID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNoMatch) {
			return nil, utils.NewConflictError(utils.ErrMsgRequestHandled)
		}
		return nil, utils.NewInternalError(err)
	}

	s.logger.LogPickupEvent(requestID, utils.EventPickupCancelled, map[string]interface{}{"user_id": userID.Hex()})
	return updated, nil
}

func (s *pickupService) DriverAccept(ctx context.Context, requestID, driverID primitive.ObjectID) (*models.PickupRequest, error) {
	updated, err := s.pickupRepo.Accept(ctx, requestID, driverID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNoMatch) {
			return nil, utils.NewConflictError(utils.ErrMsgRequestHandled)
		}
		return nil, utils.NewInternalError(err)
	}

	s.logger.LogPickupEvent(requestID, utils.EventPickupAccepted, map[string]interface{}{"driver_id": driverID.Hex()})

	s.notifications.Notify(ctx,
		models.Principal{ID: updated.UserID, Kind: models.PrincipalUser},
		models.NotificationTypePickup,
		"Pickup accepted",
		fmt.Sprintf("%s accepted your pickup from %s", s.driverName(ctx, driverID), updated.PickupLocation),
		map[string]interface{}{"request_id": requestID.Hex(), "driver_id": driverID.Hex()},
	)
	return updated, nil
}

func (s *pickupService) DriverCancel(ctx context.Context, requestID, driverID primitive.ObjectID) (*models.PickupRequest, error) {
	// Read only to decide whether the passenger needs to hear about it; the
	// conditional update below is what decides the outcome.
	before, _ := s.pickupRepo.GetByID(ctx, requestID)

	updated, err := s.pickupRepo.Release(ctx, requestID, driverID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNoMatch) {
			return nil, utils.NewConflictError(utils.ErrMsgRequestNotCancel)
		}
		return nil, utils.NewInternalError(err)
	}

	s.logger.LogPickupEvent(requestID, utils.EventPickupReopened, map[string]interface{}{"driver_id": driverID.Hex()})

	if before != nil && before.Status == models.PickupStatusAccepted {
		s.notifications.Notify(ctx,
			models.Principal{ID: updated.UserID, Kind: models.PrincipalUser},
			models.NotificationTypePickup,
			"Pickup re-opened",
			fmt.Sprintf("Your driver cancelled. Your pickup from %s is open again.", updated.PickupLocation),
			map[string]interface{}{"request_id": requestID.Hex()},
		)
	}
	return updated, nil
}

func (s *pickupService) DriverComplete(ctx context.Context, requestID, driverID primitive.ObjectID) (*models.PickupRequest, error) {
	updated, err := s.pickupRepo.Complete(ctx, requestID, driverID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNoMatch) {
			return nil, utils.NewConflictError(utils.ErrMsgRequestNotComplete)
		}
		return nil, utils.NewInternalError(err)
	}

	s.logger.LogPickupEvent(requestID, utils.EventPickupCompleted, map[string]interface{}{"driver_id": driverID.Hex()})

	s.notifications.Notify(ctx,
		models.Principal{ID: updated.UserID, Kind: models.PrincipalUser},
		models.NotificationTypePickup,
		"Pickup completed",
		fmt.Sprintf("Your ride to %s is complete.", updated.Destination),
		map[string]interface{}{"request_id": requestID.Hex(), "driver_id": driverID.Hex()},
	)
	return updated, nil
}

func (s *pickupService) driverName(ctx context.Context, driverID primitive.ObjectID) string {
	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return "A driver"
	}
	return driver.FullName
}
