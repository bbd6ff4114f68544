package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/meatledger/internal/domain/models"
	"github.com/mamadbah2/meatledger/internal/repository/storage"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case models.IsValidationError(err),
		errors.Is(err, models.ErrInvalidDate),
		errors.Is(err, models.ErrInvertedDateRange):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		message := "internal error"
		if status == http.StatusServiceUnavailable {
			message = "storage unavailable"
		}
		c.JSON(status, gin.H{"error": message})
		return
	}

	body := gin.H{"error": err.Error()}
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		body["field"] = verr.Field
	}
	c.JSON(status, body)
}
