package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/learnloop/streakengine/internal/model"
	"github.com/learnloop/streakengine/pkg/apperror"
	"gorm.io/gorm"
)

type LearnerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Learner, error)
	Create(ctx context.Context, learner *model.Learner) error
	Update(ctx context.Context, learner *model.Learner) error
	Count(ctx context.Context) (int64, error)
}

type learnerRepository struct {
	db *gorm.DB
}

func NewLearnerRepository(db *gorm.DB) LearnerRepository {
	return &learnerRepository{db: db}
}

func (r *learnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Learner, error) {
	var learner model.Learner
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&learner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrLearnerNotFound
		}
		return nil, err
	}
	return &learner, nil
}

func (r *learnerRepository) Create(ctx context.Context, learner *model.Learner) error {
	return r.db.WithContext(ctx).Create(learner).Error
}

func (r *learnerRepository) Update(ctx context.Context, learner *model.Learner) error {
	return r.db.WithContext(ctx).Save(learner).Error
}

func (r *learnerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Learner{}).Count(&count).Error
	return count, err
}
