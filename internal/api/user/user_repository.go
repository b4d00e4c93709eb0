package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-user-accounts/app/observability/metrics"
	"github.com/FACorreiaa/go-user-accounts/internal/types"
)

const uniqueViolation = "23505"

var _ UserRepo = (*PostgresUserRepo)(nil)

// DBTX is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock pools.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepo defines the contract for user data persistence.
type UserRepo interface {
	// GetUserByEmail returns types.ErrNotFound if no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	GetUserByUsername(ctx context.Context, username string) (*types.User, error)
	GetUserByID(ctx context.Context, userID int64) (*types.User, error)
	// GetUserByEmailOrUsername returns the user matching either column and
	// reports which one matched. A username match wins over an email match.
	GetUserByEmailOrUsername(ctx context.Context, email, username string) (*types.User, types.UserField, error)
	ListUsers(ctx context.Context, offset, limit int) ([]types.User, error)
	// CreateUser inserts the user and fills in the id and timestamps.
	CreateUser(ctx context.Context, user *types.User) (*types.User, error)
	// UpdateUser applies params to user's row. Returns types.ErrConflict when
	// the new username or email is taken.
	UpdateUser(ctx context.Context, user *types.User, params types.UpdateUserParams) (*types.User, error)
	DeleteUser(ctx context.Context, user *types.User) error
}

type PostgresUserRepo struct {
	logger *slog.Logger
	db     DBTX
}

func NewPostgresUserRepo(db DBTX, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
		logger: logger,
		db:     db,
	}
}

const userColumns = `id, username, email, password_hash, created_at, updated_at`

func scanUser(row pgx.Row) (*types.User, error) {
	var u types.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// startSpan opens a span for a users-table query and returns a func that
// records the duration, error count and span status.
func (r *PostgresUserRepo) startSpan(ctx context.Context, name, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span, func(error)) {
	attrs = append(attrs,
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", operation),
		attribute.String("db.sql.table", "users"),
	)
	ctx, span := otel.Tracer("UserRepo").Start(ctx, name, trace.WithAttributes(attrs...))
	start := time.Now()

	return ctx, span, func(err error) {
		m := metrics.Get()
		opAttr := metric.WithAttributes(attribute.String("db.operation", name))
		m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), opAttr)
		if err != nil && !errors.Is(err, types.ErrNotFound) {
			m.DbQueryErrorsTotal.Add(ctx, 1, opAttr)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}

func (r *PostgresUserRepo) getOne(ctx context.Context, name, where string, arg any) (user *types.User, err error) {
	ctx, _, finish := r.startSpan(ctx, name, "SELECT")
	defer func() { finish(err) }()

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	user, err = scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query user", slog.String("method", name), slog.Any("error", err))
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepo) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	return r.getOne(ctx, "GetUserByEmail", "email = $1", email)
}

func (r *PostgresUserRepo) GetUserByUsername(ctx context.Context, username string) (*types.User, error) {
	return r.getOne(ctx, "GetUserByUsername", "username = $1", username)
}

func (r *PostgresUserRepo) GetUserByID(ctx context.Context, userID int64) (*types.User, error) {
	return r.getOne(ctx, "GetUserByID", "id = $1", userID)
}

func (r *PostgresUserRepo) GetUserByEmailOrUsername(ctx context.Context, email, username string) (user *types.User, field types.UserField, err error) {
	ctx, _, finish := r.startSpan(ctx, "GetUserByEmailOrUsername", "SELECT")
	defer func() { finish(err) }()

	// Two different rows can match; the username match sorts first.
	query := `SELECT ` + userColumns + ` FROM users
		WHERE username = $1 OR email = $2
		ORDER BY (username = $1) DESC
		LIMIT 1`

	user, err = scanUser(r.db.QueryRow(ctx, query, username, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.UserFieldNone, types.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query user by email or username", slog.Any("error", err))
		return nil, types.UserFieldNone, fmt.Errorf("database error fetching user: %w", err)
	}

	if user.Username == username {
		return user, types.UserFieldUsername, nil
	}
	return user, types.UserFieldEmail, nil
}

func (r *PostgresUserRepo) ListUsers(ctx context.Context, offset, limit int) (users []types.User, err error) {
	ctx, span, finish := r.startSpan(ctx, "ListUsers", "SELECT",
		attribute.Int("db.offset", offset), attribute.Int("db.limit", limit))
	defer func() { finish(err) }()

	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		return nil, fmt.Errorf("database error listing users: %w", err)
	}
	defer rows.Close()

	users = make([]types.User, 0, limit)
	for rows.Next() {
		u, scanErr := scanUser(rows)
		if scanErr != nil {
			err = fmt.Errorf("database error scanning user row: %w", scanErr)
			return nil, err
		}
		users = append(users, *u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("database error iterating user rows: %w", err)
	}

	span.SetAttributes(attribute.Int("db.rows_returned", len(users)))
	return users, nil
}

func (r *PostgresUserRepo) CreateUser(ctx context.Context, user *types.User) (created *types.User, err error) {
	ctx, _, finish := r.startSpan(ctx, "CreateUser", "INSERT")
	defer func() { finish(err) }()

	query := `INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	created, err = scanUser(r.db.QueryRow(ctx, query, user.Username, user.Email, user.Password))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.logger.WarnContext(ctx, "Attempted to create user with duplicate username or email", slog.String("constraint", pgErr.ConstraintName))
			return nil, fmt.Errorf("user %q already exists: %w", user.Username, types.ErrConflict)
		}
		r.logger.ErrorContext(ctx, "Failed to insert new user", slog.Any("error", err))
		return nil, fmt.Errorf("database error creating user: %w", err)
	}
	return created, nil
}

func (r *PostgresUserRepo) UpdateUser(ctx context.Context, user *types.User, params types.UpdateUserParams) (updated *types.User, err error) {
	ctx, span, finish := r.startSpan(ctx, "UpdateUser", "UPDATE", attribute.Int64("db.user.id", user.ID))
	defer func() { finish(err) }()

	var setClauses []string
	var args []interface{}
	argID := 1

	if params.Username != nil {
		setClauses = append(setClauses, fmt.Sprintf("username = $%d", argID))
		args = append(args, *params.Username)
		argID++
		span.SetAttributes(attribute.Bool("update.username", true))
	}
	if params.Email != nil {
		setClauses = append(setClauses, fmt.Sprintf("email = $%d", argID))
		args = append(args, *params.Email)
		argID++
		span.SetAttributes(attribute.Bool("update.email", true))
	}
	if params.Password != nil {
		setClauses = append(setClauses, fmt.Sprintf("password_hash = $%d", argID))
		args = append(args, *params.Password)
		argID++
		span.SetAttributes(attribute.Bool("update.password", true))
	}

	if len(setClauses) == 0 {
		r.logger.DebugContext(ctx, "No fields provided for user update", slog.Int64("userID", user.ID))
		return user, nil
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, user.ID)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argID, userColumns)

	updated, err = scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.Code == uniqueViolation:
			r.logger.WarnContext(ctx, "User update collides with existing username or email", slog.Int64("userID", user.ID))
			return nil, fmt.Errorf("updating user %d: %w", user.ID, types.ErrConflict)
		case errors.Is(err, pgx.ErrNoRows):
			return nil, types.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to update user", slog.Any("error", err))
		return nil, fmt.Errorf("database error updating user: %w", err)
	}
	return updated, nil
}

func (r *PostgresUserRepo) DeleteUser(ctx context.Context, user *types.User) (err error) {
	ctx, _, finish := r.startSpan(ctx, "DeleteUser", "DELETE", attribute.Int64("db.user.id", user.ID))
	defer func() { finish(err) }()

	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, user.ID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete user", slog.Any("error", err))
		return fmt.Errorf("database error deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		err = types.ErrNotFound
		return err
	}
	return nil
}
