package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/FACorreiaa/go-user-accounts/internal/types"
)

// UserFinder is the slice of the user store the auth core reads from.
type UserFinder interface {
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
}

// PrincipalResolver turns a bearer token into the user it was issued for.
type PrincipalResolver struct {
	codec *TokenCodec
	users UserFinder
}

func NewPrincipalResolver(codec *TokenCodec, users UserFinder) *PrincipalResolver {
	return &PrincipalResolver{
		codec: codec,
		users: users,
	}
}

// Resolve returns types.ErrInvalidCredentials when the token does not decode,
// carries no subject, or names a user that no longer exists. Store failures
// are returned wrapped.
func (p *PrincipalResolver) Resolve(ctx context.Context, token string) (*types.User, error) {
	claims, err := p.codec.Decode(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidCredentials, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", types.ErrInvalidCredentials)
	}

	user, err := p.users.GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, fmt.Errorf("%w: subject does not resolve", types.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to load principal: %w", err)
	}
	return user, nil
}

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal stores the authenticated user on ctx.
func WithPrincipal(ctx context.Context, user *types.User) context.Context {
	return context.WithValue(ctx, principalKey, user)
}

// PrincipalFromContext returns the user stored by the Authenticate middleware.
func PrincipalFromContext(ctx context.Context) (*types.User, bool) {
	user, ok := ctx.Value(principalKey).(*types.User)
	return user, ok && user != nil
}
