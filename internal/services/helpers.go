package services

import (
	"errors"
	"time"

	"pickupapp/internal/utils"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// passThroughOrInternal keeps kinded errors (for example NotFound from a
// repository) and wraps everything else as internal.
func passThroughOrInternal(err error) error {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return utils.NewInternalError(err)
}
