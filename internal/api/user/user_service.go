package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-user-accounts/app/observability/metrics"
	"github.com/FACorreiaa/go-user-accounts/internal/api/auth"
	"github.com/FACorreiaa/go-user-accounts/internal/types"
)

// Ensure implementation satisfies the interface
var _ UserService = (*UserServiceImpl)(nil)

// UserService defines the business logic contract for user operations.
type UserService interface {
	CreateUser(ctx context.Context, in types.UserSchema) (*types.User, error)
	GetUser(ctx context.Context, userID int64) (*types.User, error)
	ListUsers(ctx context.Context, page types.FilterPage) ([]types.User, error)
	// UpdateUser replaces username, email and password of the target user.
	// Only the user itself may do this.
	UpdateUser(ctx context.Context, userID int64, in types.UserSchema, principal *types.User) (*types.User, error)
	// DeleteUser removes the target user. Ownership is checked before existence.
	DeleteUser(ctx context.Context, userID int64, principal *types.User) error
}

// UserServiceImpl provides the implementation for UserService.
type UserServiceImpl struct {
	logger *slog.Logger
	repo   UserRepo
	hasher auth.Hasher
}

// NewUserService creates a new user service instance.
func NewUserService(repo UserRepo, hasher auth.Hasher, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		logger: logger,
		repo:   repo,
		hasher: hasher,
	}
}

// CreateUser registers a new account. A taken username is reported before a
// taken email.
func (s *UserServiceImpl) CreateUser(ctx context.Context, in types.UserSchema) (*types.User, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "CreateUser", trace.WithAttributes(
		attribute.String("user.username", in.Username),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateUser"), slog.String("username", in.Username))
	l.DebugContext(ctx, "Registering user")

	_, field, err := s.repo.GetUserByEmailOrUsername(ctx, in.Email, in.Username)
	switch {
	case err == nil:
		span.SetStatus(codes.Error, "Duplicate user")
		if field == types.UserFieldUsername {
			l.InfoContext(ctx, "Username already taken")
			return nil, types.ErrUsernameExists
		}
		l.InfoContext(ctx, "Email already taken")
		return nil, types.ErrEmailExists
	case !errors.Is(err, types.ErrNotFound):
		l.ErrorContext(ctx, "Failed to check for existing user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Lookup failed")
		return nil, fmt.Errorf("error checking existing user: %w", err)
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		l.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Password hashing failed")
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	created, err := s.repo.CreateUser(ctx, &types.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hashed,
	})
	if err != nil {
		// A concurrent registration can still win the unique index.
		l.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Insert failed")
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	metrics.Get().RegisterRequestsTotal.Add(ctx, 1)
	span.SetAttributes(attribute.Int64("user.id", created.ID))
	span.SetStatus(codes.Ok, "User created")
	l.InfoContext(ctx, "User registered", slog.Int64("userID", created.ID))
	return created, nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, userID int64) (*types.User, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "GetUser", trace.WithAttributes(
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			s.logger.ErrorContext(ctx, "Failed to fetch user", slog.Int64("userID", userID), slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Lookup failed")
		}
		return nil, fmt.Errorf("error fetching user %d: %w", userID, err)
	}
	span.SetStatus(codes.Ok, "")
	return user, nil
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, page types.FilterPage) ([]types.User, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "ListUsers", trace.WithAttributes(
		attribute.Int("page.offset", page.Offset),
		attribute.Int("page.limit", page.Limit),
	))
	defer span.End()

	users, err := s.repo.ListUsers(ctx, page.Offset, page.Limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "List failed")
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	span.SetStatus(codes.Ok, "")
	return users, nil
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, userID int64, in types.UserSchema, principal *types.User) (*types.User, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "UpdateUser", trace.WithAttributes(
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateUser"), slog.Int64("userID", userID))

	if err := auth.AuthorizeOwnerAction(principal, userID); err != nil {
		l.WarnContext(ctx, "Update rejected: principal does not own target")
		span.SetStatus(codes.Error, "Forbidden")
		return nil, err
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		l.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Password hashing failed")
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	updated, err := s.repo.UpdateUser(ctx, principal, types.UpdateUserParams{
		Username: &in.Username,
		Email:    &in.Email,
		Password: &hashed,
	})
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			l.InfoContext(ctx, "Update collides with another user")
			span.SetStatus(codes.Error, "Conflict")
			return nil, err
		}
		if !errors.Is(err, types.ErrNotFound) {
			l.ErrorContext(ctx, "Failed to update user", slog.Any("error", err))
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, "Update failed")
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	span.SetStatus(codes.Ok, "User updated")
	l.InfoContext(ctx, "User updated")
	return updated, nil
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, userID int64, principal *types.User) error {
	ctx, span := otel.Tracer("UserService").Start(ctx, "DeleteUser", trace.WithAttributes(
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "DeleteUser"), slog.Int64("userID", userID))

	if err := auth.AuthorizeOwnerAction(principal, userID); err != nil {
		l.WarnContext(ctx, "Delete rejected: principal does not own target")
		span.SetStatus(codes.Error, "Forbidden")
		return err
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, "Lookup failed")
		return fmt.Errorf("error fetching user %d: %w", userID, err)
	}

	if err := s.repo.DeleteUser(ctx, user); err != nil {
		l.ErrorContext(ctx, "Failed to delete user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Delete failed")
		return fmt.Errorf("error deleting user: %w", err)
	}

	span.SetStatus(codes.Ok, "User deleted")
	l.InfoContext(ctx, "User deleted")
	return nil
}
