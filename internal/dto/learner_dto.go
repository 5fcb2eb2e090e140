package dto

import "github.com/google/uuid"

// RegisterLearnerRequest mirrors a learner from the host application's
// directory into the engine. ID is optional so the host can reuse its own
// learner identifier.
type RegisterLearnerRequest struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	Name      string     `json:"name" binding:"required,max=100"`
	Email     string     `json:"email" binding:"required,email"`
	AvatarURL *string    `json:"avatar_url,omitempty"`
	Role      string     `json:"role,omitempty" binding:"omitempty,oneof=learner admin"`
}

type UpdateLearnerRequest struct {
	Name      *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Email     *string `json:"email,omitempty" binding:"omitempty,email"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Role      *string `json:"role,omitempty" binding:"omitempty,oneof=learner admin"`
}
