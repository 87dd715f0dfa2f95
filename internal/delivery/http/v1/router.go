package v1

import (
	"log/slog"
	"net/http"

	"contact-relay-backend/config"
	"contact-relay-backend/internal/delivery/http/middleware"
	"contact-relay-backend/internal/delivery/http/response"
	"contact-relay-backend/internal/domain"
	"contact-relay-backend/internal/usecase"
	"contact-relay-backend/pkg/apperror"
	"contact-relay-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	ContactUC domain.ContactUsecase
	HealthUC  usecase.HealthUsecase
	Config    *config.Config
	Logger    *slog.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	// Global Middlewares. The request logger wraps Recovery so panicked
	// requests are logged with their 500. CORS runs on the engine so
	// preflight OPTIONS requests reach it before route matching.
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.CORSMiddleware(deps.Config.AllowedOrigins))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler(log))

	r.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperror.NotFound("Not Found"))
	})
	r.NoMethod(func(c *gin.Context) {
		_ = c.Error(apperror.New(http.StatusMethodNotAllowed, "Method Not Allowed", nil))
	})

	api := r.Group("/api")

	healthUC := deps.HealthUC
	if healthUC == nil {
		healthUC = usecase.NewHealthUsecase(nil)
	}
	api.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, healthUC.Check(c.Request.Context()))
	})

	NewContactHandler(api, deps.ContactUC)

	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	return r
}
