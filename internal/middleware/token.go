package middleware

import (
	"Perception/internal/entity"
	jwtPkg "Perception/pkg/jwt"
	"Perception/pkg/redis"
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const (
	AccessTokenSecret = "JWT_ACCESS_TOKEN_SECRET"
)

type tokenMiddleware struct {
}

func newTokenMiddleware() *tokenMiddleware {
	return &tokenMiddleware{}
}

func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	unauthorized := func() error {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, access token invalid or expired",
		})
	}

	// WebSocket clients cannot set headers from a browser, so the token may
	// arrive as a query parameter instead.
	if ctx.Get("Authorization") == "" && ctx.Query("access_token") == "" {
		m.log.WithFields(logrus.Fields{
			"path": ctx.Path(),
		}).Warn("Missing access token")
		return unauthorized()
	}

	userToken, err := jwtPkg.VerifyTokenHeader(ctx, AccessTokenSecret)
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Warn("Token verification failed")
		return unauthorized()
	}

	claims, ok := userToken.Claims.(jwt.MapClaims)
	if !ok {
		m.log.WithFields(logrus.Fields{
			"error": "Invalid token claims",
		}).Warn("Token claims check")
		return unauthorized()
	}

	username, _ := claims["username"].(string)
	sessionID, _ := claims["session_id"].(string)
	if username == "" || sessionID == "" {
		m.log.WithFields(logrus.Fields{
			"error": "Token claims are missing required fields",
		}).Warn("Token claims check")
		return unauthorized()
	}

	// The token alone is not enough: logout deletes the session, which must
	// invalidate tokens that are otherwise still within their expiry.
	sessionCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := m.redisServer.GetSession(sessionCtx, sessionID); err != nil {
		if errors.Is(err, redis.ErrSessionNotFound) {
			m.log.WithFields(logrus.Fields{
				"session_id": sessionID,
			}).Warn("Session not found or expired")
			return unauthorized()
		}
		m.log.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("Session lookup failed")
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	user := entity.UserLoginData{
		Username:  username,
		SessionID: sessionID,
	}
	ctx.Locals("user", user)

	return ctx.Next()
}
