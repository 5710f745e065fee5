package notify

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dragon-learning/hr-backend/internal/models"
	"github.com/dragon-learning/hr-backend/pkg/queue"
	"github.com/dragon-learning/hr-backend/pkg/response"
)

// Handler handles the admin notification endpoints.
type Handler struct {
	repo   *Repository
	queue  Enqueuer
	logger *zap.Logger
}

// NewHandler creates a notifications handler.
func NewHandler(repo *Repository, q Enqueuer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, queue: q, logger: logger}
}

// List handles GET /notifications?status=.
func (h *Handler) List(c *gin.Context) {
	status := c.Query("status")
	switch status {
	case "", models.NotificationStatusPending, models.NotificationStatusSent, models.NotificationStatusFailed:
	default:
		response.BadRequest(c, "invalid status filter")
		return
	}
	list, err := h.repo.List(c.Request.Context(), status)
	if err != nil {
		h.logger.Error("list notifications failed", zap.Error(err))
		response.Internal(c, "failed to list notifications")
		return
	}
	response.OK(c, gin.H{"notifications": list, "count": len(list)})
}

// Resend handles POST /notifications/:id/resend. Re-queues a failed
// delivery through the worker.
func (h *Handler) Resend(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid notification id")
		return
	}
	rec, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("get notification failed", zap.Error(err), zap.String("id", id.String()))
		response.Internal(c, "failed to load notification")
		return
	}
	if rec == nil {
		response.NotFound(c, "notification not found")
		return
	}
	if rec.Status == models.NotificationStatusSent {
		response.Conflict(c, "notification already delivered")
		return
	}
	if err := h.repo.MarkPending(c.Request.Context(), rec.ID); err != nil {
		response.Internal(c, "failed to requeue notification")
		return
	}
	if err := h.queue.EnqueueNotification(c.Request.Context(), queue.NotificationPayload{NotificationID: rec.ID}); err != nil {
		h.logger.Error("enqueue resend failed", zap.Error(err), zap.String("id", rec.ID.String()))
		response.Internal(c, "failed to enqueue delivery")
		return
	}
	response.Accepted(c, gin.H{"notification_id": rec.ID, "status": models.NotificationStatusPending})
}
