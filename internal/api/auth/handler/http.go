package authHandler

import (
	authService "Perception/internal/api/auth/service"
	"Perception/internal/middleware"
	"Perception/pkg/redis"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	log         *logrus.Logger
	authService authService.AuthService
	validator   *validator.Validate
	middleware  middleware.Middleware
	redisServer redis.IRedis
}

func New(
	log *logrus.Logger,
	as authService.AuthService,
	validate *validator.Validate,
	middleware middleware.Middleware,
	redisServer redis.IRedis) *AuthHandler {
	return &AuthHandler{
		log:         log,
		authService: as,
		validator:   validate,
		middleware:  middleware,
		redisServer: redisServer,
	}
}

func (h *AuthHandler) Start(srv fiber.Router) {
	auth := srv.Group("/auth")
	auth.Post("/login", h.HandleLogin)
	auth.Post("/logout", h.middleware.NewTokenMiddleware, h.HandleLogout)

	users := srv.Group("/users")
	users.Post("/", h.HandleRegister)
	users.Get("/activities", h.middleware.NewTokenMiddleware, h.HandleGetActivities)
}
