package auth

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/FACorreiaa/go-user-accounts/internal/api"
	"github.com/FACorreiaa/go-user-accounts/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Login(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	authService AuthService
	logger      *slog.Logger
}

// NewAuthHandlerImpl creates a new auth HandlerImpl instance.
func NewAuthHandlerImpl(authService AuthService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		authService: authService,
		logger:      logger,
	}
}

// Login godoc
// @Summary      Login
// @Description  Exchanges an email and password for a bearer access token. Accepts JSON or an OAuth2 password form.
// @Tags         Auth
// @Accept       json,x-www-form-urlencoded,mpfd
// @Produce      json
// @Param        credentials body types.LoginRequest true "Email (as username) and password"
// @Success      200 {object} types.Token
// @Failure      401 {object} types.ErrorResponse "Incorrect email or password"
// @Failure      422 {object} types.ErrorResponse "Invalid input"
// @Router       /auth/login [post]
func (h *HandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "Login"))

	var req types.LoginRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		form, err := api.DecodeFormBody(w, r)
		if err != nil {
			l.WarnContext(ctx, "Failed to parse login form", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		req.Username = form.Get("username")
		req.Password = form.Get("password")
	default:
		if !api.BindJSON(w, r, &req) {
			return
		}
	}

	if err := req.Validate(); err != nil {
		api.ErrorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	token, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, types.ErrInvalidCredentials) {
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Incorrect email or password")
			return
		}
		l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, token)
}

// RefreshToken godoc
// @Summary      Refresh access token
// @Description  Issues a fresh access token for the authenticated user.
// @Tags         Auth
// @Produce      json
// @Success      200 {object} types.Token
// @Failure      401 {object} types.ErrorResponse "Could not validate credentials"
// @Security     BearerAuth
// @Router       /auth/refresh_token [post]
func (h *HandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "RefreshToken"))

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "Principal not found in context")
		api.UnauthorizedResponse(w, r, msgInvalidCredentials)
		return
	}

	token, err := h.authService.RefreshToken(ctx, principal)
	if err != nil {
		if errors.Is(err, types.ErrInvalidCredentials) {
			api.UnauthorizedResponse(w, r, msgInvalidCredentials)
			return
		}
		l.ErrorContext(ctx, "Token refresh failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, token)
}
