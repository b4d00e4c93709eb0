package user

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-user-accounts/internal/types"
)

var userCols = []string{"id", "username", "email", "password_hash", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (*PostgresUserRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPostgresUserRepo(pool, logger), pool
}

func TestPostgresUserRepo_GetUserByEmail(t *testing.T) {
	repo, pool := newMockRepo(t)
	ctx := context.Background()
	now := time.Now()

	pool.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
		WithArgs("a@x.io").
		WillReturnRows(pool.NewRows(userCols).AddRow(int64(1), "alice", "a@x.io", "hash", now, now))
	pool.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
		WithArgs("nobody@x.io").
		WillReturnRows(pool.NewRows(userCols))

	user, err := repo.GetUserByEmail(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "hash", user.Password)

	_, err = repo.GetUserByEmail(ctx, "nobody@x.io")
	assert.ErrorIs(t, err, types.ErrNotFound)

	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestPostgresUserRepo_GetUserByUsernameAndID(t *testing.T) {
	repo, pool := newMockRepo(t)
	ctx := context.Background()
	now := time.Now()

	pool.ExpectQuery(`SELECT .+ FROM users WHERE username = \$1`).
		WithArgs("alice").
		WillReturnRows(pool.NewRows(userCols).AddRow(int64(1), "alice", "a@x.io", "hash", now, now))
	pool.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs(int64(9)).
		WillReturnError(errors.New("conn closed"))

	user, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", user.Email)

	_, err = repo.GetUserByID(ctx, 9)
	require.Error(t, err)
	assert.NotErrorIs(t, err, types.ErrNotFound)

	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestPostgresUserRepo_GetUserByEmailOrUsername(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name        string
		row         []any
		expectField types.UserField
		expectErr   error
	}{
		{
			name:        "Username match",
			row:         []any{int64(1), "alice", "other@x.io", "h", now, now},
			expectField: types.UserFieldUsername,
		},
		{
			name:        "Email match",
			row:         []any{int64(2), "bob", "a@x.io", "h", now, now},
			expectField: types.UserFieldEmail,
		},
		{
			name:        "No match",
			expectField: types.UserFieldNone,
			expectErr:   types.ErrNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo, pool := newMockRepo(t)
			rows := pool.NewRows(userCols)
			if tc.row != nil {
				rows.AddRow(tc.row...)
			}
			pool.ExpectQuery(`WHERE username = \$1 OR email = \$2`).
				WithArgs("alice", "a@x.io").
				WillReturnRows(rows)

			_, field, err := repo.GetUserByEmailOrUsername(context.Background(), "a@x.io", "alice")
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.expectField, field)
			assert.NoError(t, pool.ExpectationsWereMet())
		})
	}
}

func TestPostgresUserRepo_CreateUser(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		pool.ExpectQuery(`INSERT INTO users \(username, email, password_hash\)`).
			WithArgs("alice", "a@x.io", "hash").
			WillReturnRows(pool.NewRows(userCols).AddRow(int64(1), "alice", "a@x.io", "hash", now, now))

		created, err := repo.CreateUser(ctx, &types.User{Username: "alice", Email: "a@x.io", Password: "hash"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)
		assert.Equal(t, now, created.CreatedAt)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("Unique violation", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		pool.ExpectQuery(`INSERT INTO users`).
			WithArgs("alice", "a@x.io", "hash").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

		_, err := repo.CreateUser(ctx, &types.User{Username: "alice", Email: "a@x.io", Password: "hash"})
		assert.ErrorIs(t, err, types.ErrConflict)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("Other error", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		pool.ExpectQuery(`INSERT INTO users`).
			WithArgs("alice", "a@x.io", "hash").
			WillReturnError(errors.New("connection refused"))

		_, err := repo.CreateUser(ctx, &types.User{Username: "alice", Email: "a@x.io", Password: "hash"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, types.ErrConflict)
	})
}

func TestPostgresUserRepo_UpdateUser(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	alice := &types.User{ID: 1, Username: "alice", Email: "a@x.io"}
	username, email, password := "alice2", "a2@x.io", "newhash"
	params := types.UpdateUserParams{Username: &username, Email: &email, Password: &password}

	t.Run("All fields", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		pool.ExpectQuery(`UPDATE users SET username = \$1, email = \$2, password_hash = \$3, updated_at = NOW\(\) WHERE id = \$4`).
			WithArgs("alice2", "a2@x.io", "newhash", int64(1)).
			WillReturnRows(pool.NewRows(userCols).AddRow(int64(1), "alice2", "a2@x.io", "newhash", now, now))

		updated, err := repo.UpdateUser(ctx, alice, params)
		require.NoError(t, err)
		assert.Equal(t, "alice2", updated.Username)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("No fields is a no-op", func(t *testing.T) {
		repo, pool := newMockRepo(t)

		updated, err := repo.UpdateUser(ctx, alice, types.UpdateUserParams{})
		require.NoError(t, err)
		assert.Same(t, alice, updated)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("Unique violation", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		pool.ExpectQuery(`UPDATE users SET`).
			WithArgs("alice2", "a2@x.io", "newhash", int64(1)).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.UpdateUser(ctx, alice, params)
		assert.ErrorIs(t, err, types.ErrConflict)
	})
}

func TestPostgresUserRepo_DeleteUser(t *testing.T) {
	ctx := context.Background()
	alice := &types.User{ID: 1}

	repo, pool := newMockRepo(t)
	pool.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	pool.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.DeleteUser(ctx, alice))
	assert.ErrorIs(t, repo.DeleteUser(ctx, alice), types.ErrNotFound)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestPostgresUserRepo_ListUsers(t *testing.T) {
	repo, pool := newMockRepo(t)
	now := time.Now()

	pool.ExpectQuery(`SELECT .+ FROM users ORDER BY id OFFSET \$1 LIMIT \$2`).
		WithArgs(0, 2).
		WillReturnRows(pool.NewRows(userCols).
			AddRow(int64(1), "alice", "a@x.io", "h", now, now).
			AddRow(int64(2), "bob", "b@x.io", "h", now, now))

	users, err := repo.ListUsers(context.Background(), 0, 2)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "bob", users[1].Username)
	assert.NoError(t, pool.ExpectationsWereMet())
}
