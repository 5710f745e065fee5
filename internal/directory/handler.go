package directory

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dragon-learning/hr-backend/internal/models"
	"github.com/dragon-learning/hr-backend/pkg/response"
)

// UpsertRequest is the body for PUT /employees.
type UpsertRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Manager string `json:"manager"`
	Tribe   string `json:"tribe"`
	Area    string `json:"area"`
}

// Handler handles the admin directory endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a directory handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /employees.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list employees failed", zap.Error(err))
		response.Internal(c, "failed to list employees")
		return
	}
	response.OK(c, gin.H{"employees": list, "count": len(list)})
}

// Get handles GET /employees/:email.
func (h *Handler) Get(c *gin.Context) {
	emp, err := h.repo.Lookup(c.Request.Context(), c.Param("email"))
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			response.NotFound(c, nf.Error())
			return
		}
		h.logger.Error("lookup employee failed", zap.Error(err))
		response.Internal(c, "failed to look up employee")
		return
	}
	response.OK(c, emp)
}

// Upsert handles PUT /employees. Syncs one organogram row from the
// external HR source.
func (h *Handler) Upsert(c *gin.Context) {
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	emp := &models.Employee{
		Email:   req.Email,
		Manager: req.Manager,
		Tribe:   req.Tribe,
		Area:    req.Area,
	}
	if err := h.repo.Upsert(c.Request.Context(), emp); err != nil {
		h.logger.Error("upsert employee failed", zap.Error(err), zap.String("email", req.Email))
		response.Internal(c, "failed to save employee")
		return
	}
	response.OK(c, emp)
}
