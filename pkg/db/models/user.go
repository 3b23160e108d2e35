package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
)

// User represents the canonical identity entity.
type User struct {
	ID                  uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email               string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash        string         `gorm:"column:password_hash;not null"`
	Name                string         `gorm:"column:name;not null"`
	Phone               *string        `gorm:"column:phone"`
	Role                enums.UserRole `gorm:"column:role;type:user_role;not null;default:'client'"`
	AssessmentCompleted bool           `gorm:"column:assessment_completed;not null;default:false"`
	LastLoginAt         *time.Time     `gorm:"column:last_login_at"`
	CreatedAt           time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
