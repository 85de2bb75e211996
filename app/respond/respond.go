// Package respond maps domain errors from the store layer onto HTTP
// responses so every handler reports the same failure the same way
package respond

import (
	"errors"
	"net/http"

	"pagebin/html-api/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrForbidden),
		errors.Is(err, store.ErrQuotaExceeded):
		return http.StatusForbidden
	case errors.Is(err, store.ErrURLTaken),
		errors.Is(err, store.ErrEmailTaken),
		errors.Is(err, store.ErrAlreadyVerified):
		return http.StatusConflict
	case errors.Is(err, store.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, store.ErrInvalidFileType),
		errors.Is(err, store.ErrInvalidURL),
		errors.Is(err, store.ErrCodeInvalid):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrBadCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// DomainError writes err as a JSON error response. Anything that
// isn't part of the domain taxonomy is treated as a storage failure:
// logged in full, reported as a generic internal error so nothing
// internal leaks to the caller.
func DomainError(c *gin.Context, requestID string, err error) {
	code := statusOf(err)

	if code == http.StatusInternalServerError {
		zap.L().Error("Unexpected storage error",
			zap.Error(err),
			zap.String("requestID", requestID),
			zap.String("path", c.FullPath()))

		c.JSON(code, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})
		return
	}

	c.JSON(code, gin.H{
		"error":     err.Error(),
		"requestID": requestID,
	})
}
