package response

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/learnloop/streakengine/pkg/apperror"
)

// GetLearnerID retrieves the authenticated learner ID from the context
func GetLearnerID(c *gin.Context) (uuid.UUID, error) {
	learnerIDStr, exists := c.Get("learner_id")
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	learnerID, err := uuid.Parse(learnerIDStr.(string))
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return learnerID, nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
