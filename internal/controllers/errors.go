package controllers

import (
	"errors"
	"net/http"

	"github.com/franciscosanchezn/claim-tracker-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// statusFor maps an error kind to its HTTP status.
// Duplicate emails surface as 500 like any other store failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidCredentials), errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError writes err as {"message": ...}. Errors without a client
// message are logged and answered with a generic one.
func respondWithError(ctx *gin.Context, err error) {
	status := statusFor(err)

	message := models.MsgInternal
	var appErr *models.Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}

	entry := logrus.WithFields(logrus.Fields{
		"path":   ctx.FullPath(),
		"status": status,
		"error":  err.Error(),
	})
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Debug("Request rejected")
	}

	_ = ctx.Error(err)
	ctx.JSON(status, models.NewAPIError(message))
}

// badRequest answers a body that failed to bind
func badRequest(ctx *gin.Context, err error) {
	respondWithError(ctx, models.WrapError(models.ErrValidation, "Invalid request body", err))
}
