package promocodes

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
)

// Repository exposes persistence helpers for promo codes.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByCode(ctx context.Context, code string) (*models.PromoCode, error)
	Create(ctx context.Context, promo *models.PromoCode) error
	ConsumeUse(ctx context.Context, id uuid.UUID) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a promo code repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

// FindByCode looks up a promo by its canonical uppercased code. A missing
// code returns (nil, nil) so the evaluator can produce the typed rejection.
func (r *repositoryImpl) FindByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	var promo models.PromoCode
	err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&promo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promo, nil
}

func (r *repositoryImpl) Create(ctx context.Context, promo *models.PromoCode) error {
	promo.Code = strings.ToUpper(strings.TrimSpace(promo.Code))
	return r.db.WithContext(ctx).Create(promo).Error
}

// ConsumeUse increments current_uses with a guard so concurrent redemptions
// cannot push a code past its limit. Returns false when the guard rejected
// the increment.
func (r *repositoryImpl) ConsumeUse(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PromoCode{}).
		Where("id = ? AND is_active AND (max_uses IS NULL OR current_uses < max_uses)", id).
		UpdateColumn("current_uses", gorm.Expr("current_uses + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
