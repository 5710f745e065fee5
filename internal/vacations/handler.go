package vacations

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dragon-learning/hr-backend/internal/busdays"
	"github.com/dragon-learning/hr-backend/internal/directory"
	"github.com/dragon-learning/hr-backend/internal/models"
	"github.com/dragon-learning/hr-backend/pkg/response"
)

// SubmitRequestBody is the body for POST /vacations/requests.
type SubmitRequestBody struct {
	LeaveStart  string `json:"leave_start" binding:"required"`
	LeaveReturn string `json:"leave_return" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Notes       string `json:"notes"`
}

// CancelRequestBody is the body for POST /vacations/cancellations.
type CancelRequestBody struct {
	Email         string `json:"email" binding:"required,email"`
	Justification string `json:"justification"`
}

// EventLister lists events for the admin surface.
type EventLister interface {
	ListByEmail(ctx context.Context, email string) ([]models.VacationEvent, error)
	ListAll(ctx context.Context) ([]models.VacationEvent, error)
}

// Handler handles vacation HTTP endpoints.
type Handler struct {
	svc    *Service
	events EventLister
	logger *zap.Logger
}

// NewHandler creates a vacations handler.
func NewHandler(svc *Service, events EventLister, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, events: events, logger: logger}
}

// SubmitRequest handles POST /vacations/requests.
func (h *Handler) SubmitRequest(c *gin.Context) {
	var req SubmitRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	msg, err := h.svc.SubmitRequest(c.Request.Context(), req.LeaveStart, req.LeaveReturn, req.Email, req.Notes)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Created(c, gin.H{"message": msg})
}

// CancelRequest handles POST /vacations/cancellations.
func (h *Handler) CancelRequest(c *gin.Context) {
	var req CancelRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	res, err := h.svc.CancelRequest(c.Request.Context(), req.Email, req.Justification)
	if err != nil {
		h.renderError(c, err)
		return
	}
	if res.NoOp {
		response.Accepted(c, gin.H{"message": res.Message})
		return
	}
	response.OK(c, gin.H{
		"message":                res.Message,
		"original_leave_start":   busdays.FormatDate(res.OriginalLeaveStart),
		"original_leave_return":  busdays.FormatDate(res.OriginalLeaveReturn),
		"original_business_days": res.OriginalBusinessDays,
	})
}

// BusinessDays handles GET /vacations/business-days?start=&end=.
func (h *Handler) BusinessDays(c *gin.Context) {
	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		response.BadRequest(c, "start and end query parameters are required")
		return
	}
	msg, err := h.svc.CountBusinessDays(start, end)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, gin.H{"message": msg})
}

// CurrentYear handles GET /vacations/current-year.
func (h *Handler) CurrentYear(c *gin.Context) {
	response.OK(c, gin.H{"message": h.svc.CurrentYear()})
}

// ListEvents handles GET /vacations/events?email= (admin).
func (h *Handler) ListEvents(c *gin.Context) {
	var (
		list []models.VacationEvent
		err  error
	)
	if email := c.Query("email"); email != "" {
		list, err = h.events.ListByEmail(c.Request.Context(), email)
	} else {
		list, err = h.events.ListAll(c.Request.Context())
	}
	if err != nil {
		h.logger.Error("list vacation events failed", zap.Error(err))
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, gin.H{"events": list, "count": len(list)})
}

// renderError maps domain errors onto HTTP statuses. Every message is
// already user-facing.
func (h *Handler) renderError(c *gin.Context, err error) {
	var nf *directory.NotFoundError
	switch {
	case errors.As(err, &nf):
		response.NotFound(c, nf.Error())
	case errors.Is(err, busdays.ErrInvalidDate):
		response.BadRequest(c, err.Error())
	case errors.Is(err, ErrAmbiguousOpenRequests):
		response.Conflict(c, err.Error())
	case errors.Is(err, ErrBusy):
		response.ServiceUnavailable(c, err.Error())
	default:
		h.logger.Error("vacation operation failed", zap.Error(err))
		response.Internal(c, err.Error())
	}
}
