package interfaces

import (
	"context"
	"time"

	"pickupapp/internal/models"
)

type DiscountRepository interface {
	Create(ctx context.Context, discount *models.Discount) error
	ListActive(ctx context.Context, now time.Time, limit int) ([]*models.Discount, error)
	// GetValidByCode returns a not-found error when the code is unknown, inactive or
	// outside its validity window.
	GetValidByCode(ctx context.Context, code string, now time.Time) (*models.Discount, error)
}
