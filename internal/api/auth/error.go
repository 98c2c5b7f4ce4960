package auth

import (
	"Perception/pkg/response"
	"net/http"
)

var (
	ErrUsernameAlreadyExists     = response.NewError(http.StatusConflict, "username already exists")
	ErrInvalidUsernameOrPassword = response.NewError(http.StatusBadRequest, "username or password is wrong")
	ErrUserNotFound              = response.NewError(http.StatusNotFound, "user not found")
	ErrSessionNotFound           = response.NewError(http.StatusUnauthorized, "session expired or not found")
	ErrInvalidToken              = response.NewError(http.StatusUnauthorized, "invalid token")
)
