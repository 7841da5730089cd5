package middleware

import (
	"context"
	"errors"
	"net/http"

	"storefront-be/internal/apperror"
	"storefront-be/internal/auth"
	"storefront-be/internal/logger"
	"storefront-be/internal/user"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

type contextKey string

const currentUserKey contextKey = "current_user"

// CurrentUser returns the user resolved by AuthMiddleware, if any.
func CurrentUser(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(currentUserKey).(*user.User)
	return u, ok && u != nil
}

func WithCurrentUser(ctx context.Context, u *user.User) context.Context {
	ctx = context.WithValue(ctx, currentUserKey, u)
	return utils.SetUserContext(ctx, u.ID, u.Email, string(u.Role))
}

// AuthMiddleware resolves the access token, when one is sent, and puts the
// user into the request context. Requests without a usable token pass
// through anonymously; routes that need a user reject them later.
func AuthMiddleware(gate auth.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.ExtractAccessToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			u, err := gate.Resolve(r.Context(), token)
			if err != nil {
				if !errors.Is(err, apperror.ErrUnauthorized) {
					logger.FromCtx(r.Context()).Error("failed to resolve access token", zap.Error(err))
					utils.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
					return
				}
				logger.FromCtx(r.Context()).Debug("ignoring unresolved access token")
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCurrentUser(r.Context(), u)))
		})
	}
}
