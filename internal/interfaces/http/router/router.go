// Package router assembles the HTTP routes.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"edu-tutor-api/internal/config"
	"edu-tutor-api/internal/interfaces/http/handler"
	"edu-tutor-api/internal/interfaces/http/middleware"
	"edu-tutor-api/internal/realtime"
)

// Handlers groups the route handlers the router wires up.
type Handlers struct {
	Health *handler.HealthHandler
	Chat   *handler.ChatHandler
	Hub    *realtime.Hub

	// ChatRateLimit guards POST /api/chat; nil means no limiting.
	ChatRateLimit gin.HandlerFunc
}

// Router is the HTTP router.
type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	handlers Handlers
}

// New creates the router with middleware and routes installed.
func New(cfg *config.Config, handlers Handlers) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:   gin.New(),
		cfg:      cfg,
		handlers: handlers,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine returns the gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}
}

func (r *Router) setupRoutes() {
	r.engine.GET("/", r.handlers.Health.Root)
	r.engine.GET("/test-env", r.handlers.Health.EnvCheck)
	r.engine.GET("/health", r.handlers.Health.Health)
	r.engine.GET("/ready", r.handlers.Health.Ready)
	r.engine.GET("/live", r.handlers.Health.Live)

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	r.engine.GET("/ws", r.handlers.Hub.Subscribe)

	api := r.engine.Group("/api")
	{
		chat := api.Group("/chat")
		if r.handlers.ChatRateLimit != nil {
			chat.Use(r.handlers.ChatRateLimit)
		}
		chat.POST("", r.handlers.Chat.Chat)

		api.GET("/historial/:grado", r.handlers.Chat.History)
	}
}
