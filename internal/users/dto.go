package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
)

// UserDTO is the transport shape that omits the credential hash.
type UserDTO struct {
	ID                  uuid.UUID      `json:"id"`
	Email               string         `json:"email"`
	Name                string         `json:"name"`
	Phone               *string        `json:"phone,omitempty"`
	Role                enums.UserRole `json:"role"`
	AssessmentCompleted bool           `json:"assessment_completed"`
	LastLoginAt         *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:                  u.ID,
		Email:               u.Email,
		Name:                u.Name,
		Phone:               u.Phone,
		Role:                u.Role,
		AssessmentCompleted: u.AssessmentCompleted,
		LastLoginAt:         u.LastLoginAt,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}

func FromModels(users []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, *FromModel(&users[i]))
	}
	return out
}
