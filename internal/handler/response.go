// Package handler holds the shared response helpers used by every
// entity handler. The wire contract is the legacy clinic API's: errors
// are `{"error": "<message>"}` with the status derived from the error
// kind, successes are flat key-value bodies.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medhub/clinic-api/pkg/apperror"
)

// Error writes the error body for err, mapping its kind to a status
// code. Anything outside the taxonomy becomes a 500 with a generic
// message so internals never leak to the client.
func Error(c *gin.Context, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.StatusCode(), gin.H{"error": appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// Message writes a `{"message": ...}` success body.
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}
