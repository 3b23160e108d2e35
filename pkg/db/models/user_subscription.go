package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
)

// UserSubscription is one subscription instance owned by exactly one user.
// At most one row per user carries status "active"; the subscribe flow
// enforces that inside a single transaction.
type UserSubscription struct {
	ID        uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index"`
	PlanID    uuid.UUID                `gorm:"column:plan_id;type:uuid;not null"`
	Status    enums.SubscriptionStatus `gorm:"column:status;type:subscription_status;not null;default:'active'"`
	StartDate time.Time                `gorm:"column:start_date;not null"`
	EndDate   time.Time                `gorm:"column:end_date;not null"`
	CreatedAt time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time                `gorm:"column:updated_at;autoUpdateTime"`

	Plan *SubscriptionPlan `gorm:"foreignKey:PlanID"`
}
