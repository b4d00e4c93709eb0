package user

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/go-user-accounts/internal/api"
	"github.com/FACorreiaa/go-user-accounts/internal/api/auth"
	"github.com/FACorreiaa/go-user-accounts/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	CreateUser(w http.ResponseWriter, r *http.Request)
	ListUsers(w http.ResponseWriter, r *http.Request)
	GetUser(w http.ResponseWriter, r *http.Request)
	UpdateUser(w http.ResponseWriter, r *http.Request)
	DeleteUser(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	userService UserService
	logger      *slog.Logger
}

// NewHandlerImpl creates a new user HandlerImpl instance.
func NewHandlerImpl(userService UserService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		userService: userService,
		logger:      logger,
	}
}

// CreateUser godoc
// @Summary      Register user
// @Description  Creates a new account. Username is checked for collisions before email.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        user body types.UserSchema true "New user"
// @Success      201 {object} types.UserPublic
// @Failure      409 {object} types.ErrorResponse "Username already exists / Email already exists"
// @Failure      422 {object} types.ErrorResponse "Invalid input"
// @Router       /users [post]
func (h *HandlerImpl) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "CreateUser"))

	var in types.UserSchema
	if !api.BindJSON(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		api.ErrorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := h.userService.CreateUser(ctx, in)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrUsernameExists):
			api.ErrorResponse(w, r, http.StatusConflict, "Username already exists")
		case errors.Is(err, types.ErrEmailExists):
			api.ErrorResponse(w, r, http.StatusConflict, "Email already exists")
		case errors.Is(err, types.ErrConflict):
			api.ErrorResponse(w, r, http.StatusConflict, "Username or email already exists")
		default:
			l.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, created.Public())
}

// ListUsers godoc
// @Summary      List users
// @Tags         Users
// @Produce      json
// @Param        offset query int false "Rows to skip" default(0)
// @Param        limit  query int false "Maximum rows" default(100)
// @Success      200 {object} types.UserList
// @Failure      401 {object} types.ErrorResponse "Could not validate credentials"
// @Failure      422 {object} types.ErrorResponse "Invalid pagination"
// @Security     BearerAuth
// @Router       /users [get]
func (h *HandlerImpl) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, err := parseFilterPage(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	users, err := h.userService.ListUsers(ctx, page)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	out := types.UserList{Users: make([]types.UserPublic, 0, len(users))}
	for i := range users {
		out.Users = append(out.Users, users[i].Public())
	}
	api.WriteJSONResponse(w, r, http.StatusOK, out)
}

// GetUser godoc
// @Summary      Get user
// @Tags         Users
// @Produce      json
// @Param        user_id path int true "User ID"
// @Success      200 {object} types.UserPublic
// @Failure      401 {object} types.ErrorResponse "Could not validate credentials"
// @Failure      404 {object} types.ErrorResponse "User not found"
// @Security     BearerAuth
// @Router       /users/{user_id} [get]
func (h *HandlerImpl) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to get user", slog.Int64("userID", userID), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, user.Public())
}

// UpdateUser godoc
// @Summary      Replace user
// @Description  Replaces username, email and password. Only the user itself may do this.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        user_id path int true "User ID"
// @Param        user body types.UserSchema true "Replacement values"
// @Success      200 {object} types.UserPublic
// @Failure      401 {object} types.ErrorResponse "Could not validate credentials"
// @Failure      403 {object} types.ErrorResponse "Not enough permissions"
// @Failure      409 {object} types.ErrorResponse "Username or email already exists"
// @Failure      422 {object} types.ErrorResponse "Invalid input"
// @Security     BearerAuth
// @Router       /users/{user_id} [put]
func (h *HandlerImpl) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "UpdateUser"))

	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	var in types.UserSchema
	if !api.BindJSON(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		api.ErrorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	principal, _ := auth.PrincipalFromContext(ctx)
	updated, err := h.userService.UpdateUser(ctx, userID, in, principal)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrForbidden):
			api.ErrorResponse(w, r, http.StatusForbidden, "Not enough permissions")
		case errors.Is(err, types.ErrConflict):
			api.ErrorResponse(w, r, http.StatusConflict, "Username or email already exists")
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
		default:
			l.ErrorContext(ctx, "Failed to update user", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, updated.Public())
}

// DeleteUser godoc
// @Summary      Delete user
// @Tags         Users
// @Produce      json
// @Param        user_id path int true "User ID"
// @Success      200 {object} types.Message
// @Failure      401 {object} types.ErrorResponse "Could not validate credentials"
// @Failure      403 {object} types.ErrorResponse "Not enough permissions"
// @Failure      404 {object} types.ErrorResponse "User not found"
// @Security     BearerAuth
// @Router       /users/{user_id} [delete]
func (h *HandlerImpl) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	principal, _ := auth.PrincipalFromContext(ctx)
	if err := h.userService.DeleteUser(ctx, userID, principal); err != nil {
		switch {
		case errors.Is(err, types.ErrForbidden):
			api.ErrorResponse(w, r, http.StatusForbidden, "Not enough permissions")
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
		default:
			h.logger.ErrorContext(ctx, "Failed to delete user", slog.Int64("userID", userID), slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Message{Message: "User deleted"})
}

func parseUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnprocessableEntity, "Invalid user ID format")
		return 0, false
	}
	return id, true
}

func parseFilterPage(r *http.Request) (types.FilterPage, error) {
	page := types.FilterPage{Offset: 0, Limit: types.DefaultPageLimit}
	q := r.URL.Query()

	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, errors.New("offset: must be an integer")
		}
		page.Offset = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, errors.New("limit: must be an integer")
		}
		page.Limit = n
	}
	return page, page.Validate()
}
