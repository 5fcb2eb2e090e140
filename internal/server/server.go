package server

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/learnloop/streakengine/internal/config"
	"github.com/learnloop/streakengine/internal/handler"
	"github.com/learnloop/streakengine/internal/middleware"
	"github.com/learnloop/streakengine/internal/repository"
	"github.com/learnloop/streakengine/internal/service"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine       *gin.Engine
	db           *gorm.DB
	redisClient  *redis.Client
	sweepService service.SweepService
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	loc := cfg.Location()

	learnerRepo := repository.NewLearnerRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	streakRepo := repository.NewStreakRepository(db)

	streakSvc := service.NewStreakService(db, activityRepo, streakRepo, learnerRepo, loc, cfg.LookbackEvents)
	sweepSvc := service.NewSweepService(db, streakRepo, loc, cfg.SweepSchedule)
	leaderboardSvc := service.NewLeaderboardService(streakRepo, redisClient, cfg.LeaderboardCacheTTL)
	statSvc := service.NewStatService(learnerRepo, streakRepo, activityRepo, loc)
	learnerSvc := service.NewLearnerService(learnerRepo)

	activityHandler := handler.NewActivityHandler(streakSvc)
	streakHandler := handler.NewStreakHandler(streakSvc)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardSvc)
	adminHandler := handler.NewAdminHandler(sweepSvc, statSvc, learnerSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMiddleware := middleware.NewAuthMiddleware(learnerRepo, cfg.JWTSecret)

	api := router.Group("/api")

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.POST("/sweep", adminHandler.RunSweep)
			adminGroup.GET("/stats", adminHandler.GetStats)
			adminGroup.POST("/learners", adminHandler.RegisterLearner)
			adminGroup.PUT("/learners/:learner_id", adminHandler.UpdateLearner)
			adminGroup.POST("/activities", activityHandler.RecordActivityFor)
		}

		protected.POST("/activities", activityHandler.RecordActivity)
		protected.GET("/learners/:learner_id/streak", streakHandler.GetStreak)
		protected.GET("/learners/:learner_id/activities", streakHandler.GetRecentActivities)
		protected.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
	}

	if err := sweepSvc.Start(); err != nil {
		log.Fatalf("failed to start sweep scheduler: %v", err)
	}

	return &Server{
		engine:       router,
		db:           db,
		redisClient:  redisClient,
		sweepService: sweepSvc,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) Shutdown() {
	s.sweepService.Stop()
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
