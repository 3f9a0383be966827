package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/medhub/clinic-api/internal/config"
	"github.com/medhub/clinic-api/internal/middleware"
	"github.com/medhub/clinic-api/pkg/metrics"
)

// Handler is anything that mounts routes on the engine. All legacy
// paths live at the root, so handlers register directly on *gin.Engine.
type Handler interface {
	RegisterRoutes(*gin.Engine)
}

type Options struct {
	Logger       zerolog.Logger
	RateLimit    config.RateLimitConfig
	Metrics      *metrics.Metrics
	TemplateGlob string
}

// New assembles the engine with the shared middleware chain and mounts
// every handler.
func New(opts Options, handlers ...Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(opts.Logger))
	engine.Use(middleware.CORS())
	engine.Use(middleware.SecurityHeaders())
	if opts.RateLimit.Enabled {
		engine.Use(middleware.RateLimit(opts.RateLimit))
	}
	if opts.Metrics != nil {
		engine.Use(opts.Metrics.Middleware())
		engine.GET("/metrics", metrics.Handler())
	}

	if opts.TemplateGlob != "" {
		engine.LoadHTMLGlob(opts.TemplateGlob)
	}

	for _, h := range handlers {
		h.RegisterRoutes(engine)
	}

	return engine
}
