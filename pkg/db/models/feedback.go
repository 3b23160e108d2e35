package models

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is a client testimonial. Public visibility requires both
// IsApproved and IsVisible.
type Feedback struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AuthorName  string    `gorm:"column:author_name;not null"`
	AuthorEmail *string   `gorm:"column:author_email"`
	Content     string    `gorm:"column:content;not null"`
	Rating      *int      `gorm:"column:rating"`
	IsApproved  bool      `gorm:"column:is_approved;not null;default:false"`
	IsVisible   bool      `gorm:"column:is_visible;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
