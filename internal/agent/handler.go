package agent

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dragon-learning/hr-backend/pkg/response"
)

// InvokeRequest is the body for POST /agent/tools.
type InvokeRequest struct {
	Tool Tool            `json:"tool" binding:"required"`
	Args json.RawMessage `json:"args"`
}

// Handler exposes tool dispatch over HTTP for the conversational layer.
type Handler struct {
	dispatcher *Dispatcher
	logger     *zap.Logger
}

// NewHandler creates an agent tools handler.
func NewHandler(dispatcher *Dispatcher, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{dispatcher: dispatcher, logger: logger}
}

// Invoke handles POST /agent/tools. Any internal failure maps to a generic
// 500 carrying the error text for diagnostics.
func (h *Handler) Invoke(c *gin.Context) {
	var req InvokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	answer, err := h.dispatcher.Dispatch(c.Request.Context(), req.Tool, req.Args)
	if err != nil {
		if errors.Is(err, ErrUnknownTool) {
			response.BadRequest(c, err.Error())
			return
		}
		h.logger.Error("tool invocation failed", zap.String("tool", string(req.Tool)), zap.Error(err))
		response.Internal(c, err.Error())
		return
	}
	response.OK(c, gin.H{"answer": answer})
}
