package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/userdesk/backend/internal/model"
	"github.com/userdesk/backend/internal/service"
)

// writeError translates domain errors into HTTP statuses. Anything not in the
// taxonomy becomes a generic 500 without leaking internals.
func writeError(c *gin.Context, err error) {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for field, ferr := range fieldErrs {
			fields[field] = ferr.Error()
		}
		c.JSON(http.StatusBadRequest, model.ValidationErrorResponse{Errors: fields})
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, service.ErrDuplicateLogin):
		c.JSON(http.StatusConflict, gin.H{"error": "Login already exists"})
	case errors.Is(err, service.ErrSelfDelete):
		c.JSON(http.StatusConflict, gin.H{"error": "cannot delete own account"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	}
}
