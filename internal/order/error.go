package order

import (
	"fmt"

	"storefront-be/internal/apperror"
)

var (
	ErrOrderNotFound     = fmt.Errorf("%w: order not found", apperror.ErrNotFound)
	ErrInsufficientStock = fmt.Errorf("%w: insufficient stock", apperror.ErrConflict)
	ErrInvalidTransition = fmt.Errorf("%w: invalid status transition", apperror.ErrValidation)
)
