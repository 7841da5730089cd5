package auth

import (
	"context"
	"errors"

	"storefront-be/internal/apperror"
	"storefront-be/internal/logger"
	"storefront-be/internal/user"

	"go.uber.org/zap"
)

// UserLookup is the slice of the user service the gate needs.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*user.User, error)
}

type Gate interface {
	Resolve(ctx context.Context, token string) (*user.User, error)
	RequireRole(u *user.User, role user.Role) bool
}

type gate struct {
	issuer *Issuer
	users  UserLookup
}

func NewGate(issuer *Issuer, users UserLookup) Gate {
	return &gate{issuer: issuer, users: users}
}

// Resolve maps a bearer token to its user. Any failure is ErrUnauthorized.
func (g *gate) Resolve(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, apperror.ErrUnauthorized
	}

	claims, err := g.issuer.Parse(token)
	if err != nil {
		logger.FromCtx(ctx).Debug("token rejected", zap.Error(err))
		return nil, apperror.ErrUnauthorized
	}

	u, err := g.users.GetUser(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, err
	}
	return u, nil
}

// RequireRole reports whether u may act as role. Admin satisfies every role.
func (g *gate) RequireRole(u *user.User, role user.Role) bool {
	if u == nil {
		return false
	}
	return u.Role == user.RoleAdmin || u.Role == role
}
