package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/learnloop/streakengine/internal/model"
	"github.com/learnloop/streakengine/internal/repository"
)

// AuthMiddleware validates externally issued JWTs (the host application owns
// login/session handling). The subject claim carries the learner ID.
type AuthMiddleware struct {
	learnerRepo repository.LearnerRepository
	secret      string
}

func NewAuthMiddleware(learnerRepo repository.LearnerRepository, secret string) *AuthMiddleware {
	return &AuthMiddleware{
		learnerRepo: learnerRepo,
		secret:      secret,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			c.Abort()
			return
		}

		token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(m.secret), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			c.Abort()
			return
		}

		c.Set("learner_id", claims.Subject)
		c.Next()
	}
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		learnerIDStr, exists := c.Get("learner_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			c.Abort()
			return
		}

		learnerID, err := uuid.Parse(learnerIDStr.(string))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid learner id in token"})
			c.Abort()
			return
		}

		learner, err := m.learnerRepo.FindByID(c.Request.Context(), learnerID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "learner not found"})
			c.Abort()
			return
		}

		if learner.Role != model.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}

		c.Set("learner", learner)
		c.Next()
	}
}
