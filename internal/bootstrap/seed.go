package bootstrap

import (
	"log"

	"github.com/learnloop/streakengine/internal/model"
	"gorm.io/gorm"
)

// SeedDemoLearners populates a handful of learners for development. No-op
// when the directory already has entries.
func SeedDemoLearners(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Learner{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("learner directory already seeded, skipping")
		return nil
	}

	demo := []model.Learner{
		{Name: "Admin", Email: "admin@learnloop.dev", Role: model.RoleAdmin},
		{Name: "Ava Chen", Email: "ava@learnloop.dev", Role: model.RoleLearner},
		{Name: "Marcus Webb", Email: "marcus@learnloop.dev", Role: model.RoleLearner},
		{Name: "Priya Nair", Email: "priya@learnloop.dev", Role: model.RoleLearner},
	}

	for i := range demo {
		if err := db.Create(&demo[i]).Error; err != nil {
			return err
		}
	}

	log.Printf("seeded %d demo learners", len(demo))
	return nil
}
