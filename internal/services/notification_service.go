package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/models"
	"pickupapp/internal/repositories/interfaces"
	"pickupapp/internal/utils"
	"pickupapp/pkg/logger"
	"pickupapp/pkg/sms"
	"pickupapp/pkg/websocket"
)

const smsSendTimeout = 10 * time.Second

// NotificationPusher delivers a message to the live connections of a recipient.
type NotificationPusher interface {
	SendToRecipient(recipientID primitive.ObjectID, message websocket.Message) int
}

type NotificationService interface {
	// Notify stores a notification and pushes it to the recipient. Delivery is
	// best-effort: failures are logged and never returned.
	Notify(ctx context.Context, recipient models.Principal, ntype models.NotificationType, title, message string, data map[string]interface{})

	List(ctx context.Context, recipientID primitive.ObjectID) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id, recipientID primitive.ObjectID) error
}

type notificationService struct {
	notificationRepo interfaces.NotificationRepository
	userRepo         interfaces.UserRepository
	driverRepo       interfaces.DriverRepository
	pusher           NotificationPusher
	smsProvider      sms.SMSProvider
	listLimit        int
	logger           *logger.Logger
}

// NewNotificationService wires the optional delivery channels. pusher and
// smsProvider may be nil.
func NewNotificationService(
	notificationRepo interfaces.NotificationRepository,
	userRepo interfaces.UserRepository,
	driverRepo interfaces.DriverRepository,
	pusher NotificationPusher,
	smsProvider sms.SMSProvider,
	listLimit int,
	logger *logger.Logger,
) NotificationService {
	if listLimit <= 0 {
		listLimit = utils.DefaultNotificationCap
	}

	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		driverRepo:       driverRepo,
		pusher:           pusher,
		smsProvider:      smsProvider,
		listLimit:        listLimit,
		logger:           logger,
	}
}

func (s *notificationService) Notify(ctx context.Context, recipient models.Principal, ntype models.NotificationType, title, message string, data map[string]interface{}) {
	notification := &models.Notification{
		RecipientID:   recipient.ID,
		RecipientType: recipient.Kind,
		Type:          ntype,
		Title:         title,
		Message:       message,
		Data:          data,
		CreatedAt:     time.Now().UTC(),
	}

	log := s.logger.WithField("recipient_id", recipient.ID.Hex()).WithField("notification_type", ntype)

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		log.WithError(err).Error("Failed to store notification")
		return
	}

	if s.pusher != nil {
		delivered := s.pusher.SendToRecipient(recipient.ID, websocket.Message{
			Type: "notification",
			Data: notification,
		})
		log.WithField("connections", delivered).Debug("Notification pushed")
	}

	if s.smsProvider != nil {
		// Detached so a slow provider never holds up the request.
		go s.sendSMS(context.WithoutCancel(ctx), recipient, title+": "+message)
	}
}

func (s *notificationService) sendSMS(ctx context.Context, recipient models.Principal, body string) {
	ctx, cancel := context.WithTimeout(ctx, smsSendTimeout)
	defer cancel()

	phone, err := s.phoneOf(ctx, recipient)
	if err != nil {
		s.logger.WithError(err).WithField("recipient_id", recipient.ID.Hex()).Warn("No phone for SMS notification")
		return
	}

	if _, err := s.smsProvider.SendSMS(ctx, &sms.SMSRequest{To: phone, Message: body, Type: "transactional"}); err != nil {
		s.logger.WithError(err).WithField("recipient_id", recipient.ID.Hex()).Warn("Failed to send SMS notification")
	}
}

func (s *notificationService) phoneOf(ctx context.Context, recipient models.Principal) (string, error) {
	var phone string
	switch recipient.Kind {
	case models.PrincipalUser:
		user, err := s.userRepo.GetByID(ctx, recipient.ID)
		if err != nil {
			return "", err
		}
		phone = user.Phone
	case models.PrincipalDriver:
		driver, err := s.driverRepo.GetByID(ctx, recipient.ID)
		if err != nil {
			return "", err
		}
		phone = driver.Phone
	}

	if phone == "" {
		return "", errors.New("recipient has no phone number")
	}
	return phone, nil
}

func (s *notificationService) List(ctx context.Context, recipientID primitive.ObjectID) ([]*models.Notification, error) {
	notifications, err := s.notificationRepo.ListByRecipient(ctx, recipientID, s.listLimit)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	return notifications, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, recipientID primitive.ObjectID) error {
	err := s.notificationRepo.MarkRead(ctx, id, recipientID)
	switch {
	case errors.Is(err, interfaces.ErrNoMatch):
		return utils.NewAppError(utils.ErrNotFound, utils.ErrMsgNotificationMissing)
	case err != nil:
		return utils.NewInternalError(err)
	}
	return nil
}
