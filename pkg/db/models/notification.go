package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is the in-app copy of a coach broadcast, one row per
// recipient.
type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	Title     string     `gorm:"column:title;type:text;not null"`
	Body      string     `gorm:"column:body;type:text;not null"`
	Link      *string    `gorm:"column:link;type:text"`
	Tag       *string    `gorm:"column:tag;type:text"`
	ReadAt    *time.Time `gorm:"column:read_at;type:timestamptz"`
	CreatedAt time.Time  `gorm:"column:created_at;type:timestamptz;default:now()"`
}
