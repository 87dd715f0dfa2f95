package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows cross-origin POSTs carrying only a Content-Type header
// from the configured origins. Entries may contain one '*' wildcard, for
// example https://*.vercel.app. Requests from other origins get a 403.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{http.MethodPost},
		AllowHeaders:  []string{"Content-Type"},
		AllowWildcard: true,
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		// cors.New rejects a config with no origins at all.
		cfg.AllowOriginFunc = func(string) bool { return false }
	}
	return cors.New(cfg)
}
