package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mini-social/api-go/monitoring"
	"github.com/mini-social/api-go/services"
)

func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindUnauthenticated:
		return http.StatusUnauthorized
	case services.KindNotFoundOrUnauthorized:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the client-safe message of err. Internal causes are
// attached to the gin context for the request logger only.
func respondError(c *gin.Context, operation string, err error) {
	message := "internal error"
	var serviceErr *services.Error
	if errors.As(err, &serviceErr) {
		message = serviceErr.Message
	}
	respondErrorMessage(c, operation, err, message)
}

func respondErrorMessage(c *gin.Context, operation string, err error, message string) {
	kind := services.KindOf(err)
	monitoring.ObserveMutation(operation, kind.String())
	if kind == services.KindStorageUnavailable || kind == services.KindUnknown {
		_ = c.Error(err)
	}
	c.JSON(statusFor(kind), gin.H{"error": message})
}

// respondBindError hides the binding error text, which names Go types and
// struct fields.
func respondBindError(c *gin.Context, operation string, err error) {
	monitoring.ObserveMutation(operation, services.KindValidation.String())
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

func observeOK(operation string) {
	monitoring.ObserveMutation(operation, "ok")
}
