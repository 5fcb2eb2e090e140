package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/learnloop/streakengine/internal/dto"
	"github.com/learnloop/streakengine/internal/service"
	"github.com/learnloop/streakengine/pkg/response"
	"github.com/learnloop/streakengine/pkg/validator"
)

type ActivityHandler struct {
	service service.StreakService
}

func NewActivityHandler(service service.StreakService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// RecordActivity ingests one learning action for the authenticated learner
// and returns the refreshed streak record snapshot.
func (h *ActivityHandler) RecordActivity(c *gin.Context) {
	var req dto.RecordActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	learnerID, err := response.GetLearnerID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	record, err := h.service.RecordActivity(c.Request.Context(), learnerID, req.ActivityType, req.ActivityData)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": record})
}

// RecordActivityFor ingests on behalf of a learner. Admin only.
func (h *ActivityHandler) RecordActivityFor(c *gin.Context) {
	var req dto.AdminRecordActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	record, err := h.service.RecordActivity(c.Request.Context(), req.LearnerID, req.ActivityType, req.ActivityData)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": record})
}
