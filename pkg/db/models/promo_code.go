package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
)

// PromoCode is a discount rule. Codes are stored uppercased and compared
// case-insensitively by uppercasing the lookup.
type PromoCode struct {
	ID                uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code              string             `gorm:"column:code;not null;uniqueIndex"`
	DiscountType      enums.DiscountType `gorm:"column:discount_type;type:discount_type;not null"`
	DiscountValue     decimal.Decimal    `gorm:"column:discount_value;type:numeric(12,2);not null"`
	MinPurchaseAmount *decimal.Decimal   `gorm:"column:min_purchase_amount;type:numeric(12,2)"`
	MaxUses           *int               `gorm:"column:max_uses"`
	CurrentUses       int                `gorm:"column:current_uses;not null;default:0"`
	ExpiresAt         *time.Time         `gorm:"column:expires_at"`
	IsActive          bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt         time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
