// Package handler provides HTTP request handlers.
package handler

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"edu-tutor-api/internal/domain/entity"
	"edu-tutor-api/internal/domain/repository"
	"edu-tutor-api/internal/interfaces/http/dto"
	"edu-tutor-api/internal/realtime"
	"edu-tutor-api/pkg/logger"
	"edu-tutor-api/pkg/metrics"
)

// Client-facing messages. Causes stay in the server logs.
const (
	msgMissingFields = "Faltan datos del estudiante."
	msgChatFailed    = "Error al procesar la respuesta."
	msgHistoryFailed = "No se pudo obtener el historial."
)

// AnswerGenerator is the handler's dependency on the completion flow.
type AnswerGenerator interface {
	Generate(ctx context.Context, grade, topic string) (string, error)
}

// Broadcaster is the handler's dependency on the realtime fan-out.
type Broadcaster interface {
	Publish(event string, payload any)
}

// ChatHandler serves the chat and history endpoints.
type ChatHandler struct {
	generator   AnswerGenerator
	usageRepo   repository.UsageRecordRepository
	broadcaster Broadcaster
}

// NewChatHandler creates the handler.
func NewChatHandler(generator AnswerGenerator, usageRepo repository.UsageRecordRepository, broadcaster Broadcaster) *ChatHandler {
	return &ChatHandler{
		generator:   generator,
		usageRepo:   usageRepo,
		broadcaster: broadcaster,
	}
}

// Chat handles POST /api/chat: validate, generate, persist, broadcast,
// respond. Persistence happens only after a successful generation, and
// the broadcast only after a successful write.
func (h *ChatHandler) Chat(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.ChatRequestsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		dto.BadRequest(c, msgMissingFields)
		return
	}

	grade := strings.TrimSpace(string(req.Grade))
	topic := strings.TrimSpace(string(req.Topic))
	if grade == "" || topic == "" {
		metrics.ChatRequestsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		dto.BadRequest(c, msgMissingFields)
		return
	}

	start := time.Now()
	answer, err := h.generator.Generate(ctx, grade, topic)
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Error(ctx, "chat generation failed", err, "grade", grade)
		metrics.ChatRequestsTotal.WithLabelValues(metrics.OutcomeGeneration).Inc()
		dto.InternalError(c, msgChatFailed)
		return
	}

	record := &entity.UsageRecord{
		Grade:  grade,
		Topic:  topic,
		Answer: answer,
	}
	if err := h.usageRepo.Create(ctx, record); err != nil {
		logger.Error(ctx, "failed to persist usage record", err, "grade", grade)
		metrics.ChatRequestsTotal.WithLabelValues(metrics.OutcomePersist).Inc()
		dto.InternalError(c, msgChatFailed)
		return
	}

	h.broadcaster.Publish(realtime.EventNewUsage, dto.NewUsageEvent(record))

	metrics.ChatRequestsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	c.JSON(200, dto.ChatResponse{Answer: answer})
}

// History handles GET /api/historial/:grado. The path parameter is not
// validated: an unknown or empty grade yields an empty list.
func (h *ChatHandler) History(c *gin.Context) {
	ctx := c.Request.Context()
	grade := c.Param("grado")

	records, err := h.usageRepo.FindByGrade(ctx, grade)
	if err != nil {
		logger.Error(ctx, "failed to load usage history", err, "grade", grade)
		dto.InternalError(c, msgHistoryFailed)
		return
	}

	c.JSON(200, records)
}
