package models

import (
	"time"

	"github.com/google/uuid"
)

// PushSubscription is one browser push registration. EndpointHash dedupes
// per-device registrations per user.
type PushSubscription struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_push_user_endpoint"`
	Endpoint     string    `gorm:"column:endpoint;not null"`
	EndpointHash string    `gorm:"column:endpoint_hash;not null;uniqueIndex:idx_push_user_endpoint"`
	P256DH       string    `gorm:"column:p256dh;not null"`
	Auth         string    `gorm:"column:auth;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
