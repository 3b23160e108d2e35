package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactMessage persists a public contact-form submission before the email
// relay is attempted.
type ContactMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email;not null"`
	Message   string    `gorm:"column:message;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
