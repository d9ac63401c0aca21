package handlers

import (
	"errors"
	"net/http"

	"bookingcal/services/availability"
	"bookingcal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor maps service error kinds onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, availability.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, availability.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, availability.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, availability.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, message string, err error) {
	status := statusFor(err)
	details := err.Error()
	var calErr *availability.CalendarError
	if errors.As(err, &calErr) {
		details = calErr.Message
	}
	if status == http.StatusInternalServerError {
		getLogger(c).Error(message, zap.Error(err))
		details = "An unexpected error occurred. Please try again later."
	}
	utils.JSONError(c, status, message, details)
}

func actorFrom(c *gin.Context) string {
	return c.GetString("actor")
}
