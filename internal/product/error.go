package product

import (
	"fmt"

	"storefront-be/internal/apperror"
)

var ErrProductNotFound = fmt.Errorf("%w: product not found", apperror.ErrNotFound)
