package setup

import (
	"github.com/newsroom-dev/newsroom/internal/config"
	"github.com/newsroom-dev/newsroom/internal/handler"
	"github.com/newsroom-dev/newsroom/internal/jwt"
	"github.com/newsroom-dev/newsroom/internal/mailer"
	"github.com/newsroom-dev/newsroom/internal/middleware"
	"github.com/newsroom-dev/newsroom/internal/service"
	"github.com/newsroom-dev/newsroom/internal/storage/pg"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
	Jwt            jwt.Issuer
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	mail := mailer.New(&cfg.Private.Email, cfg.Public.FrontendURL)
	jwtService := jwt.New(cfg.JwtKey(), cfg.AccessTokenTTL(), cfg.RefreshTokenTTL())

	auth := service.NewAuth(storage, mail, jwtService, cfg)
	notes := service.NewNote(storage)

	h := handler.New(auth, notes, cfg)
	authMw := middleware.NewAuth(jwtService, auth)

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: authMw,
		Jwt:            jwtService,
	}, nil
}
