package user

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-user-accounts/internal/api/auth"
	"github.com/FACorreiaa/go-user-accounts/internal/types"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) CreateUser(ctx context.Context, in types.UserSchema) (*types.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, userID int64) (*types.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, page types.FilterPage) ([]types.User, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, userID int64, in types.UserSchema, principal *types.User) (*types.User, error) {
	args := m.Called(ctx, userID, in, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID int64, principal *types.User) error {
	args := m.Called(ctx, userID, principal)
	return args.Error(0)
}

// newTestRouter mounts the handler the same way the real router does, minus
// authentication; principal, when set, is injected into every request.
func newTestRouter(svc UserService, principal *types.User) http.Handler {
	h := NewHandlerImpl(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	if principal != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(auth.WithPrincipal(req.Context(), principal)))
			})
		})
	}
	r.Post("/users", h.CreateUser)
	r.Get("/users", h.ListUsers)
	r.Get("/users/{user_id}", h.GetUser)
	r.Put("/users/{user_id}", h.UpdateUser)
	r.Delete("/users/{user_id}", h.DeleteUser)
	return r
}

func decodeDetail(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body types.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Detail
}

func TestHandler_CreateUser(t *testing.T) {
	const body = `{"username":"alice","email":"a@x.io","password":"pw1"}`

	tests := []struct {
		name         string
		body         string
		setupMock    func(m *MockUserService)
		expectStatus int
		expectDetail string
	}{
		{
			name: "Created",
			body: body,
			setupMock: func(m *MockUserService) {
				m.On("CreateUser", mock.Anything, aliceSchema).
					Return(&types.User{ID: 1, Username: "alice", Email: "a@x.io", Password: "hash"}, nil)
			},
			expectStatus: http.StatusCreated,
		},
		{
			name: "Username taken",
			body: body,
			setupMock: func(m *MockUserService) {
				m.On("CreateUser", mock.Anything, aliceSchema).Return(nil, types.ErrUsernameExists)
			},
			expectStatus: http.StatusConflict,
			expectDetail: "Username already exists",
		},
		{
			name: "Email taken",
			body: body,
			setupMock: func(m *MockUserService) {
				m.On("CreateUser", mock.Anything, aliceSchema).Return(nil, types.ErrEmailExists)
			},
			expectStatus: http.StatusConflict,
			expectDetail: "Email already exists",
		},
		{
			name:         "Invalid email",
			body:         `{"username":"alice","email":"not-an-email","password":"pw1"}`,
			setupMock:    func(m *MockUserService) {},
			expectStatus: http.StatusUnprocessableEntity,
		},
		{
			name:         "Username too long",
			body:         `{"username":"` + strings.Repeat("a", 31) + `","email":"a@x.io","password":"pw1"}`,
			setupMock:    func(m *MockUserService) {},
			expectStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockUserService)
			tc.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			newTestRouter(svc, nil).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectStatus, rr.Code)
			if tc.expectDetail != "" {
				assert.Equal(t, tc.expectDetail, decodeDetail(t, rr))
			}
			if tc.expectStatus == http.StatusCreated {
				assert.JSONEq(t, `{"id":1,"username":"alice","email":"a@x.io"}`, rr.Body.String())
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_ListUsers(t *testing.T) {
	alice := &types.User{ID: 1, Username: "alice", Email: "a@x.io"}

	t.Run("Defaults", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("ListUsers", mock.Anything, types.FilterPage{Offset: 0, Limit: 100}).
			Return([]types.User{*alice}, nil)

		rr := httptest.NewRecorder()
		newTestRouter(svc, alice).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"users":[{"id":1,"username":"alice","email":"a@x.io"}]}`, rr.Body.String())
	})

	t.Run("Empty page serialises as empty list", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("ListUsers", mock.Anything, types.FilterPage{Offset: 10, Limit: 5}).Return([]types.User{}, nil)

		rr := httptest.NewRecorder()
		newTestRouter(svc, alice).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users?offset=10&limit=5", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"users":[]}`, rr.Body.String())
	})

	for _, query := range []string{"?limit=0", "?limit=101", "?offset=-1", "?offset=abc"} {
		t.Run("Invalid "+query, func(t *testing.T) {
			svc := new(MockUserService)
			rr := httptest.NewRecorder()
			newTestRouter(svc, alice).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users"+query, nil))

			assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
			svc.AssertNotCalled(t, "ListUsers", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_GetUser(t *testing.T) {
	alice := &types.User{ID: 1, Username: "alice", Email: "a@x.io"}
	svc := new(MockUserService)
	svc.On("GetUser", mock.Anything, int64(1)).Return(alice, nil)
	svc.On("GetUser", mock.Anything, int64(2)).Return(nil, types.ErrNotFound)
	router := newTestRouter(svc, alice)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users/1", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users/2", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "User not found", decodeDetail(t, rr))

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users/abc", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestHandler_UpdateUser(t *testing.T) {
	alice := &types.User{ID: 1, Username: "alice", Email: "a@x.io"}
	const body = `{"username":"alice","email":"a@x.io","password":"pw1"}`

	tests := []struct {
		name         string
		target       string
		err          error
		expectStatus int
		expectDetail string
	}{
		{name: "Updated", target: "1", expectStatus: http.StatusOK},
		{name: "Forbidden", target: "2", err: types.ErrForbidden, expectStatus: http.StatusForbidden, expectDetail: "Not enough permissions"},
		{name: "Conflict", target: "1", err: types.ErrConflict, expectStatus: http.StatusConflict, expectDetail: "Username or email already exists"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockUserService)
			var ret any
			if tc.err == nil {
				ret = alice
			}
			svc.On("UpdateUser", mock.Anything, mock.AnythingOfType("int64"), aliceSchema, alice).Return(ret, tc.err)

			req := httptest.NewRequest(http.MethodPut, "/users/"+tc.target, strings.NewReader(body))
			rr := httptest.NewRecorder()
			newTestRouter(svc, alice).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectStatus, rr.Code)
			if tc.expectDetail != "" {
				assert.Equal(t, tc.expectDetail, decodeDetail(t, rr))
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_DeleteUser(t *testing.T) {
	alice := &types.User{ID: 1, Username: "alice", Email: "a@x.io"}

	tests := []struct {
		name         string
		target       int64
		err          error
		expectStatus int
	}{
		{name: "Deleted", target: 1, expectStatus: http.StatusOK},
		{name: "Forbidden", target: 2, err: types.ErrForbidden, expectStatus: http.StatusForbidden},
		{name: "Not found", target: 1, err: types.ErrNotFound, expectStatus: http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockUserService)
			svc.On("DeleteUser", mock.Anything, tc.target, alice).Return(tc.err)

			req := httptest.NewRequest(http.MethodDelete, "/users/"+strconv.FormatInt(tc.target, 10), nil)
			rr := httptest.NewRecorder()
			newTestRouter(svc, alice).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectStatus, rr.Code)
			if tc.err == nil {
				assert.JSONEq(t, `{"message":"User deleted"}`, rr.Body.String())
			}
			svc.AssertExpectations(t)
		})
	}
}
