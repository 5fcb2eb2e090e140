package main

import (
	"log"

	"github.com/learnloop/streakengine/internal/bootstrap"
	"github.com/learnloop/streakengine/internal/config"
	"github.com/learnloop/streakengine/internal/model"
	"github.com/learnloop/streakengine/internal/server"
	"github.com/learnloop/streakengine/pkg/database"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedDemoLearners(db); err != nil {
			log.Fatalf("failed to seed learners: %v", err)
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	}

	srv := server.NewServer(cfg, db, redisClient)
	defer srv.Shutdown()

	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Learner{},
		&model.ActivityEvent{},
		&model.StreakRecord{},
		&model.StreakPeriod{},
	)
}
