package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/resume-extractor/api/handlers"
	"github.com/feichai0017/resume-extractor/api/middleware"
	"github.com/feichai0017/resume-extractor/config"
	"github.com/feichai0017/resume-extractor/pkg/logger"
	"github.com/feichai0017/resume-extractor/web"
)

// NewRouter builds the engine with recovery, the page templates and every route.
func NewRouter(h *handlers.Handlers, cfg *config.Config, limiter middleware.Limiter, log logger.Logger) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	r.Use(gin.Recovery())
	r.SetHTMLTemplate(tmpl)
	SetupRoutes(r, h, cfg, limiter, log)
	return r, nil
}

// SetupRoutes registers the page routes. limiter may be nil, in which case
// uploads are not rate limited.
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, cfg *config.Config, limiter middleware.Limiter, log logger.Logger) {
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS())
	r.Use(middleware.Sessions(cfg.Session))

	r.GET("/health", handlers.HealthCheck)

	r.GET("/", h.Resume.Index)

	upload := []gin.HandlerFunc{h.Resume.Upload}
	if limiter != nil {
		upload = append([]gin.HandlerFunc{middleware.RateLimit(limiter, "/upload", log)}, upload...)
	}
	r.GET("/upload", h.Resume.UploadForm)
	r.POST("/upload", upload...)

	r.GET("/result", h.Resume.Result)
	r.POST("/result", h.Resume.ResultAction)
	r.GET("/view-data", h.Resume.ViewData)
	r.GET("/details/:id", h.Resume.Details)
}
