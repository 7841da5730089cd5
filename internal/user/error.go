package user

import (
	"errors"
	"fmt"

	"storefront-be/internal/apperror"
)

var (
	ErrUserNotFound       = fmt.Errorf("%w: user not found", apperror.ErrNotFound)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", apperror.ErrUnauthorized)
	ErrEmailExists        = fmt.Errorf("%w: email already registered", apperror.ErrConflict)
	ErrNoIssuer           = errors.New("token issuer is not configured")
)
