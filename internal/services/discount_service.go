package services

import (
	"context"
	"strings"

	"pickupapp/internal/models"
	"pickupapp/internal/repositories/interfaces"
	"pickupapp/internal/utils"
	"pickupapp/pkg/logger"
)

type DiscountService interface {
	Create(ctx context.Context, discount *models.Discount) error
	Active(ctx context.Context) ([]*models.Discount, error)
	// Validate returns the discount when code is active and inside its window.
	Validate(ctx context.Context, code string) (*models.Discount, error)
}

type discountService struct {
	discountRepo interfaces.DiscountRepository
	listLimit    int
	logger       *logger.Logger
}

func NewDiscountService(discountRepo interfaces.DiscountRepository, listLimit int, logger *logger.Logger) DiscountService {
	if listLimit <= 0 {
		listLimit = utils.DefaultListLimit
	}
	return &discountService{
		discountRepo: discountRepo,
		listLimit:    listLimit,
		logger:       logger,
	}
}

func (s *discountService) Create(ctx context.Context, discount *models.Discount) error {
	if strings.TrimSpace(discount.Code) == "" {
		return utils.NewInvalidArgumentError("discount code is required")
	}
	if discount.EndDate.Before(discount.StartDate) {
		return utils.NewInvalidArgumentError("end_date must not be before start_date")
	}
	if discount.CreatedAt.IsZero() {
		discount.CreatedAt = nowUTC()
	}

	if err := s.discountRepo.Create(ctx, discount); err != nil {
		return passThroughOrInternal(err)
	}

	s.logger.WithField("code", discount.Code).Info("Discount created")
	return nil
}

func (s *discountService) Active(ctx context.Context) ([]*models.Discount, error) {
	discounts, err := s.discountRepo.ListActive(ctx, nowUTC(), s.listLimit)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	return discounts, nil
}

func (s *discountService) Validate(ctx context.Context, code string) (*models.Discount, error) {
	code = models.NormalizeDiscountCode(code)
	if code == "" {
		return nil, utils.NewAppError(utils.ErrNotFound, utils.ErrMsgInvalidDiscountCode)
	}

	discount, err := s.discountRepo.GetValidByCode(ctx, code, nowUTC())
	if err != nil {
		return nil, passThroughOrInternal(err)
	}
	return discount, nil
}
