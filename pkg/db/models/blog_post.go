package models

import (
	"time"

	"github.com/google/uuid"
)

// BlogPost is public content authored by a coach.
type BlogPost struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AuthorID        uuid.UUID  `gorm:"column:author_id;type:uuid;not null;index"`
	Title           string     `gorm:"column:title;not null"`
	Slug            string     `gorm:"column:slug;not null;uniqueIndex"`
	Content         string     `gorm:"column:content;not null"`
	Excerpt         *string    `gorm:"column:excerpt"`
	CoverURL        *string    `gorm:"column:cover_url"`
	Published       bool       `gorm:"column:published;not null;default:false"`
	PublishedAt     *time.Time `gorm:"column:published_at"`
	ReadTimeMinutes int        `gorm:"column:read_time_minutes;not null;default:1"`
	ViewCount       int64      `gorm:"column:view_count;not null;default:0"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
