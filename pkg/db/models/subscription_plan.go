package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// SubscriptionPlan is a named, priced offering.
type SubscriptionPlan struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string          `gorm:"column:name;not null"`
	Description  *string         `gorm:"column:description"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	DurationDays int             `gorm:"column:duration_days;not null"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	Features     pq.StringArray  `gorm:"column:features;type:text[];default:ARRAY[]::text[]"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
