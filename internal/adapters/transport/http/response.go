package http

import (
	"errors"
	nethttp "net/http"

	customErrors "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/errors"
	"github.com/gin-gonic/gin"
)

// envelope wraps every JSON body the API returns.
type envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < nethttp.StatusBadRequest,
	})
}

// handleError is the single place where domain errors become HTTP statuses.
func handleError(c *gin.Context, err error) {
	status, msg := mapError(err)
	if status == nethttp.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, envelope{
		StatusCode: status,
		Data:       nil,
		Message:    msg,
		Success:    false,
	})
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, customErrors.ErrInvalidArgument),
		errors.Is(err, customErrors.ErrLimitExceeded):
		return nethttp.StatusBadRequest, err.Error()
	case errors.Is(err, customErrors.ErrInvalidCredentials):
		return nethttp.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, customErrors.ErrInvalidToken):
		return nethttp.StatusUnauthorized, "invalid token"
	case errors.Is(err, customErrors.ErrInvalidOtp):
		return nethttp.StatusUnauthorized, "invalid otp"
	case errors.Is(err, customErrors.ErrUnauthorized):
		return nethttp.StatusUnauthorized, "unauthorized"
	case errors.Is(err, customErrors.ErrAlreadyExists):
		return nethttp.StatusConflict, err.Error()
	case errors.Is(err, customErrors.ErrNotFound):
		return nethttp.StatusNotFound, err.Error()
	case errors.Is(err, customErrors.ErrTooManyRequests):
		return nethttp.StatusTooManyRequests, err.Error()
	default:
		return nethttp.StatusInternalServerError, "internal server error"
	}
}

func badRequest(c *gin.Context, err error) {
	handleError(c, customErrors.NewInvalidArgument(err.Error()))
}
