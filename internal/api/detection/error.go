package detection

import (
	"Perception/pkg/response"
	"net/http"
)

var (
	ErrModelUnavailable    = response.NewError(http.StatusServiceUnavailable, "detection model unavailable")
	ErrInvalidImage        = response.NewError(http.StatusBadRequest, "invalid image")
	ErrInternalServerError = response.NewError(http.StatusInternalServerError, "internal server error")
)
