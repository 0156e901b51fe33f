// Package handler provides HTTP request handlers.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"edu-tutor-api/internal/config"
	"edu-tutor-api/internal/infrastructure/persistence/mongodb"
	"edu-tutor-api/internal/infrastructure/persistence/redis"
	"edu-tutor-api/internal/interfaces/http/dto"
)

// HealthHandler serves the health and diagnostics endpoints.
type HealthHandler struct {
	cfg   *config.Config
	mongo *mongodb.Client
	redis *redis.Client
}

// NewHealthHandler creates the handler. redisClient may be nil when the
// rate limiter is disabled.
func NewHealthHandler(cfg *config.Config, mongoClient *mongodb.Client, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		cfg:   cfg,
		mongo: mongoClient,
		redis: redisClient,
	}
}

// HealthResponse is the health check body.
type HealthResponse struct {
	Status string `json:"status"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

// Root responds with a fixed plain-text success payload.
func (h *HealthHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// EnvCheck reports presence of the required settings and the active
// model and port. Secret values are reported as booleans only.
func (h *HealthHandler) EnvCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.EnvCheckResponse{
		OpenAI: h.cfg.LLM.APIKey != "",
		Mongo:  h.cfg.Database.Mongo.URI != "",
		Model:  h.cfg.LLM.Model,
		Port:   h.cfg.Server.HTTP.Port,
	})
}

// Health reports service health.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready reports whether the service can take traffic.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]*readinessCheck{
		"mongodb": {Status: "unknown"},
	}

	ready := true

	if h.mongo == nil {
		checks["mongodb"].Status = "missing"
		checks["mongodb"].Error = "mongodb client not configured"
		ready = false
	} else {
		start := time.Now()
		err := h.mongo.HealthCheck(ctx)
		checks["mongodb"].LatencyMs = time.Since(start).Milliseconds()
		if err != nil {
			checks["mongodb"].Status = "error"
			checks["mongodb"].Error = err.Error()
			ready = false
		} else {
			checks["mongodb"].Status = "ok"
		}
	}

	// Redis is optional; a failure degrades rate limiting but does not
	// block readiness.
	if h.redis != nil {
		checks["redis"] = &readinessCheck{Status: "unknown"}
		start := time.Now()
		err := h.redis.HealthCheck(ctx)
		checks["redis"].LatencyMs = time.Since(start).Milliseconds()
		if err != nil {
			checks["redis"].Status = "degraded"
			checks["redis"].Error = err.Error()
		} else {
			checks["redis"].Status = "ok"
		}
	}

	resp := readinessResponse{
		Status: "ok",
		Checks: checks,
	}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
