package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/learnloop/streakengine/internal/dto"
	"github.com/learnloop/streakengine/internal/model"
	"github.com/learnloop/streakengine/internal/repository"
)

type LearnerService interface {
	Register(ctx context.Context, req dto.RegisterLearnerRequest) (*model.Learner, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateLearnerRequest) (*model.Learner, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Learner, error)
}

type learnerService struct {
	learners repository.LearnerRepository
}

func NewLearnerService(learners repository.LearnerRepository) LearnerService {
	return &learnerService{learners: learners}
}

func (s *learnerService) Register(ctx context.Context, req dto.RegisterLearnerRequest) (*model.Learner, error) {
	role := req.Role
	if role == "" {
		role = model.RoleLearner
	}

	learner := &model.Learner{
		Name:      req.Name,
		Email:     req.Email,
		AvatarURL: req.AvatarURL,
		Role:      role,
	}
	if req.ID != nil {
		learner.ID = *req.ID
	}

	if err := s.learners.Create(ctx, learner); err != nil {
		return nil, err
	}
	return learner, nil
}

func (s *learnerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateLearnerRequest) (*model.Learner, error) {
	learner, err := s.learners.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		learner.Name = *req.Name
	}
	if req.Email != nil {
		learner.Email = *req.Email
	}
	if req.AvatarURL != nil {
		learner.AvatarURL = req.AvatarURL
	}
	if req.Role != nil {
		learner.Role = *req.Role
	}

	if err := s.learners.Update(ctx, learner); err != nil {
		return nil, err
	}
	return learner, nil
}

func (s *learnerService) Get(ctx context.Context, id uuid.UUID) (*model.Learner, error) {
	return s.learners.FindByID(ctx, id)
}
