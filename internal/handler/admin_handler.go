package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/learnloop/streakengine/internal/dto"
	"github.com/learnloop/streakengine/internal/service"
	"github.com/learnloop/streakengine/pkg/response"
	"github.com/learnloop/streakengine/pkg/validator"
)

type AdminHandler struct {
	sweepService   service.SweepService
	statService    service.StatService
	learnerService service.LearnerService
}

func NewAdminHandler(sweepService service.SweepService, statService service.StatService, learnerService service.LearnerService) *AdminHandler {
	return &AdminHandler{
		sweepService:   sweepService,
		statService:    statService,
		learnerService: learnerService,
	}
}

// RunSweep triggers the maintenance sweep outside its schedule. Safe to
// re-run; the sweep is idempotent.
func (h *AdminHandler) RunSweep(c *gin.Context) {
	closed, err := h.sweepService.Sweep(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"closed_out": closed})
}

func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.statService.GetEngineStats(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}

func (h *AdminHandler) RegisterLearner(c *gin.Context) {
	var req dto.RegisterLearnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	learner, err := h.learnerService.Register(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": learner})
}

func (h *AdminHandler) UpdateLearner(c *gin.Context) {
	learnerID, err := uuid.Parse(c.Param("learner_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid learner id"})
		return
	}

	var req dto.UpdateLearnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	learner, err := h.learnerService.Update(c.Request.Context(), learnerID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": learner})
}
