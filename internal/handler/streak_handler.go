package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/learnloop/streakengine/internal/service"
	"github.com/learnloop/streakengine/pkg/response"
)

type StreakHandler struct {
	service service.StreakService
}

func NewStreakHandler(service service.StreakService) *StreakHandler {
	return &StreakHandler{service: service}
}

func (h *StreakHandler) GetStreak(c *gin.Context) {
	learnerID, err := uuid.Parse(c.Param("learner_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid learner id"})
		return
	}

	record, err := h.service.GetStreak(c.Request.Context(), learnerID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": record})
}

func (h *StreakHandler) GetRecentActivities(c *gin.Context) {
	learnerID, err := uuid.Parse(c.Param("learner_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid learner id"})
		return
	}

	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	events, err := h.service.RecentActivities(c.Request.Context(), learnerID, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": events})
}
