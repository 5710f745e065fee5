package exports

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dragon-learning/hr-backend/internal/middleware"
	"github.com/dragon-learning/hr-backend/pkg/queue"
	"github.com/dragon-learning/hr-backend/pkg/response"
)

// Handler handles the admin export endpoints.
type Handler struct {
	queue  *queue.Queue
	logger *zap.Logger
}

// NewHandler creates an exports handler.
func NewHandler(q *queue.Queue, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{queue: q, logger: logger}
}

// Request handles POST /exports/events. The export runs on the worker;
// the response only acknowledges the enqueue.
func (h *Handler) Request(c *gin.Context) {
	requestedBy := c.GetString(middleware.ContextUserEmail)
	payload := queue.ExportPayload{
		RequestedBy: requestedBy,
		Email:       c.Query("email"),
	}
	if err := h.queue.EnqueueExport(c.Request.Context(), payload); err != nil {
		h.logger.Error("enqueue export failed", zap.Error(err))
		response.Internal(c, "failed to schedule export")
		return
	}
	response.Accepted(c, gin.H{"message": "export scheduled"})
}
