package plans

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
)

// Repository exposes persistence helpers for the plan catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context, activeOnly bool) ([]models.SubscriptionPlan, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error)
	Create(ctx context.Context, plan *models.SubscriptionPlan) error
	Update(ctx context.Context, plan *models.SubscriptionPlan) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a plan repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) List(ctx context.Context, activeOnly bool) ([]models.SubscriptionPlan, error) {
	query := r.db.WithContext(ctx).Model(&models.SubscriptionPlan{})
	if activeOnly {
		query = query.Where("is_active")
	}
	var plans []models.SubscriptionPlan
	err := query.Order("price ASC").Find(&plans).Error
	return plans, err
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	err := r.db.WithContext(ctx).First(&plan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *repositoryImpl) Create(ctx context.Context, plan *models.SubscriptionPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *repositoryImpl) Update(ctx context.Context, plan *models.SubscriptionPlan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.SubscriptionPlan{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
