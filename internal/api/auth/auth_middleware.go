package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/FACorreiaa/go-user-accounts/internal/api"
	"github.com/FACorreiaa/go-user-accounts/internal/types"
)

const (
	msgNotAuthenticated   = "Not authenticated"
	msgInvalidCredentials = "Could not validate credentials"
)

// PrincipalResolverFunc adapts AuthService.ResolvePrincipal for the middleware.
type PrincipalResolverFunc func(ctx context.Context, token string) (*types.User, error)

// Authenticate resolves the bearer token on every request before the wrapped
// handler runs. Any failure ends the request with 401 and the handler is not
// called.
func Authenticate(resolve PrincipalResolverFunc, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				l.WarnContext(ctx, "Missing Authorization header")
				api.UnauthorizedResponse(w, r, msgNotAuthenticated)
				return
			}

			headerParts := strings.Fields(authHeader)
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				l.WarnContext(ctx, "Invalid Authorization header format")
				api.UnauthorizedResponse(w, r, msgNotAuthenticated)
				return
			}

			principal, err := resolve(ctx, headerParts[1])
			if err != nil {
				if errors.Is(err, types.ErrInvalidCredentials) {
					attrs := []any{slog.Any("error", err)}
					var decodeErr *DecodeError
					if errors.As(err, &decodeErr) {
						attrs = append(attrs, slog.String("reason", decodeErr.Kind.String()))
					}
					l.WarnContext(ctx, "Token rejected", attrs...)
					api.UnauthorizedResponse(w, r, msgInvalidCredentials)
					return
				}
				l.ErrorContext(ctx, "Failed to resolve principal", slog.Any("error", err))
				api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
				return
			}

			l.DebugContext(ctx, "Authentication successful", slog.Int64("userID", principal.ID))
			next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, principal)))
		})
	}
}
