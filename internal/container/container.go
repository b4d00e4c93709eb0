package container

import (
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/go-user-accounts/config"
	"github.com/FACorreiaa/go-user-accounts/internal/api/auth"
	"github.com/FACorreiaa/go-user-accounts/internal/api/user"
	"github.com/FACorreiaa/go-user-accounts/internal/router"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *slog.Logger
	AuthService *auth.AuthServiceImpl
	UserService *user.UserServiceImpl
	AuthHandler *auth.HandlerImpl
	UserHandler *user.HandlerImpl
}

// NewContainer wires the services and handlers around db. The caller owns
// db and closes it.
func NewContainer(cfg *config.Config, db user.DBTX, logger *slog.Logger) (*Container, error) {
	userRepo := user.NewPostgresUserRepo(db, logger)
	return NewContainerWithRepo(cfg, userRepo, logger)
}

// NewContainerWithRepo wires everything around an already built user store.
func NewContainerWithRepo(cfg *config.Config, userRepo user.UserRepo, logger *slog.Logger) (*Container, error) {
	codec, err := auth.NewTokenCodec(cfg.JWT)
	if err != nil {
		return nil, err
	}
	hasher := auth.NewBcryptHasher(cfg.Security.BcryptCost)

	authService := auth.NewAuthService(userRepo, hasher, codec, cfg.JWT.AccessTokenTTL, logger)
	userService := user.NewUserService(userRepo, hasher, logger)

	return &Container{
		Config:      cfg,
		Logger:      logger,
		AuthService: authService,
		UserService: userService,
		AuthHandler: auth.NewAuthHandlerImpl(authService, logger),
		UserHandler: user.NewHandlerImpl(userService, logger),
	}, nil
}

// Router returns the HTTP handler for the whole API.
func (c *Container) Router() http.Handler {
	return router.SetupRouter(&router.Config{
		AuthHandler:            c.AuthHandler,
		UserHandler:            c.UserHandler,
		AuthenticateMiddleware: auth.Authenticate(c.AuthService.ResolvePrincipal, c.Logger),
		Logger:                 c.Logger,
		RequestTimeout:         c.Config.Server.Timeout,
		AllowedOrigins:         c.Config.Server.AllowedOrigins,
	})
}
