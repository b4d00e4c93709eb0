package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-user-accounts/app/observability/metrics"
	"github.com/FACorreiaa/go-user-accounts/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines the authentication workflow exposed to handlers.
type AuthService interface {
	// Login checks the credentials and issues an access token for the user.
	Login(ctx context.Context, email, password string) (*types.Token, error)
	// RefreshToken issues a new access token for an already authenticated principal.
	RefreshToken(ctx context.Context, principal *types.User) (*types.Token, error)
	// ResolvePrincipal validates a bearer token and loads the user it names.
	ResolvePrincipal(ctx context.Context, token string) (*types.User, error)
}

// AuthServiceImpl implements AuthService.
type AuthServiceImpl struct {
	logger   *slog.Logger
	repo     UserFinder
	hasher   Hasher
	codec    *TokenCodec
	resolver *PrincipalResolver
	ttl      time.Duration

	// checked when the email is unknown
	dummyHash string
}

// NewAuthService wires the workflow around a user store, hasher and codec.
func NewAuthService(repo UserFinder, hasher Hasher, codec *TokenCodec, ttl time.Duration, logger *slog.Logger) *AuthServiceImpl {
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}
	dummyHash, err := hasher.Hash("not-a-real-password")
	if err != nil {
		logger.Warn("Failed to prepare dummy password hash", slog.Any("error", err))
	}
	return &AuthServiceImpl{
		logger:    logger,
		repo:      repo,
		hasher:    hasher,
		codec:     codec,
		resolver:  NewPrincipalResolver(codec, repo),
		ttl:       ttl,
		dummyHash: dummyHash,
	}
}

// Login authenticates by email and password. An unknown email and a wrong
// password both return types.ErrInvalidCredentials so callers cannot tell
// which check failed.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*types.Token, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login")
	defer span.End()

	l := s.logger.With(slog.String("method", "Login"))
	m := metrics.Get()
	m.LoginRequestsTotal.Add(ctx, 1)

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		l.ErrorContext(ctx, "Failed to load user for login", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "User lookup failed")
		return nil, fmt.Errorf("error fetching user for login: %w", err)
	}

	if user == nil {
		s.hasher.Verify(password, s.dummyHash)
	}
	if user == nil || !s.hasher.Verify(password, user.Password) {
		l.InfoContext(ctx, "Login rejected")
		m.LoginFailuresTotal.Add(ctx, 1)
		span.SetStatus(codes.Error, "Invalid credentials")
		return nil, types.ErrInvalidCredentials
	}

	token, err := s.issue(ctx, user.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Token issuance failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	span.SetStatus(codes.Ok, "Login successful")
	l.InfoContext(ctx, "User logged in", slog.Int64("userID", user.ID))
	return token, nil
}

// RefreshToken re-reads the principal by email before issuing a new token.
func (s *AuthServiceImpl) RefreshToken(ctx context.Context, principal *types.User) (*types.Token, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "RefreshToken")
	defer span.End()

	if principal == nil {
		return nil, types.ErrInvalidCredentials
	}
	l := s.logger.With(slog.String("method", "RefreshToken"), slog.Int64("userID", principal.ID))

	user, err := s.repo.GetUserByEmail(ctx, principal.Email)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			l.WarnContext(ctx, "Principal vanished before refresh")
			return nil, types.ErrInvalidCredentials
		}
		l.ErrorContext(ctx, "Failed to reload principal", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "User lookup failed")
		return nil, fmt.Errorf("error fetching user for refresh: %w", err)
	}

	token, err := s.issue(ctx, user.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Token issuance failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Token refreshed")
	l.DebugContext(ctx, "Access token refreshed")
	return token, nil
}

// ResolvePrincipal implements AuthService.
func (s *AuthServiceImpl) ResolvePrincipal(ctx context.Context, token string) (*types.User, error) {
	return s.resolver.Resolve(ctx, token)
}

func (s *AuthServiceImpl) issue(ctx context.Context, subject string) (*types.Token, error) {
	accessToken, err := s.codec.Issue(subject, s.ttl)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to issue access token", slog.Any("error", err))
		return nil, err
	}
	metrics.Get().TokensIssuedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("token.type", types.TokenTypeBearer)))
	return &types.Token{
		AccessToken: accessToken,
		TokenType:   types.TokenTypeBearer,
	}, nil
}
