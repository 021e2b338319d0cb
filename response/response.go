// Package response writes the uniform JSON envelope every endpoint answers
// with: {success, message, data?, error?}.
package response

import (
	"errors"
	"log/slog"
	"net/http"

	"taskmanager/services"

	"github.com/gin-gonic/gin"
)

type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   any    `json:"error,omitempty"`
}

func Success(c *gin.Context, status int, message string, data any) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func Fail(c *gin.Context, status int, message string, detail map[string]any) {
	c.JSON(status, failure(message, detail))
}

// Abort is Fail for middleware: it stops the handler chain.
func Abort(c *gin.Context, status int, message string, detail map[string]any) {
	c.AbortWithStatusJSON(status, failure(message, detail))
}

// Error classifies err and writes it. Errors that are not a classified
// *services.Error are logged and reported as a bare 500.
func Error(c *gin.Context, log *slog.Logger, err error) {
	status, message, detail := Classify(err)
	if status == http.StatusInternalServerError && log != nil {
		log.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
	}
	c.AbortWithStatusJSON(status, failure(message, detail))
}

// Classify maps an error onto an HTTP status and the client-facing message
// and detail.
func Classify(err error) (int, string, map[string]any) {
	var appErr *services.Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, "Internal Server Error", nil
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrInvalidID):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidToken):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	default:
		return http.StatusInternalServerError, "Internal Server Error", nil
	}
	return status, appErr.Message, appErr.Detail
}

func failure(message string, detail map[string]any) Envelope {
	if detail == nil {
		detail = map[string]any{}
	}
	return Envelope{Success: false, Message: message, Error: detail}
}
