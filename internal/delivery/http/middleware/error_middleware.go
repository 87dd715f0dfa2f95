package middleware

import (
	"log/slog"
	"net/http"

	"contact-relay-backend/internal/delivery/http/response"
	"contact-relay-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// UnexpectedErrorMessage is the only detail a client sees for a 5xx.
const UnexpectedErrorMessage = "An unexpected error occurred"

func ErrorHandler(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		if appErr, ok := apperror.As(err); ok && appErr.Code < http.StatusInternalServerError {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}

		// Never expose internal error details to clients.
		log.Error("Error processing request",
			"error", err,
			"path", c.Request.URL.Path,
			"request_id", response.RequestID(c),
		)
		response.Error(c, http.StatusInternalServerError, UnexpectedErrorMessage)
	}
}

// Recovery turns a panic into the same generic 500 the ErrorHandler emits.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		log.Error("Recovered from panic",
			"panic", recovered,
			"path", c.Request.URL.Path,
			"request_id", response.RequestID(c),
		)
		response.Error(c, http.StatusInternalServerError, UnexpectedErrorMessage)
		c.Abort()
	})
}
