package subscriptions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
)

// Repository exposes persistence helpers for subscriptions and plans.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserSubscription, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.UserSubscription, error)
	Create(ctx context.Context, sub *models.UserSubscription) error
	CancelActive(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.SubscriptionStatus) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	FindPlan(ctx context.Context, planID uuid.UUID) (*models.SubscriptionPlan, error)
	ExpireLapsed(ctx context.Context, now time.Time) (int64, error)
	ListExpiringActive(ctx context.Context, from, to time.Time) ([]models.UserSubscription, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a subscriptions repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserSubscription, error) {
	var subs []models.UserSubscription
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subs).Error
	return subs, err
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := r.db.WithContext(ctx).First(&sub, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *repositoryImpl) Create(ctx context.Context, sub *models.UserSubscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// CancelActive flips every active record for the user to cancelled and
// reports how many rows changed.
func (r *repositoryImpl) CancelActive(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.UserSubscription{}).
		Where("user_id = ? AND status = ?", userID, enums.SubscriptionStatusActive).
		UpdateColumns(map[string]any{"status": enums.SubscriptionStatusCancelled, "updated_at": now})
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.SubscriptionStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.UserSubscription{}).
		Where("id = ?", id).
		UpdateColumn("status", status)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.UserSubscription{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) FindPlan(ctx context.Context, planID uuid.UUID) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	err := r.db.WithContext(ctx).First(&plan, "id = ?", planID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

// ExpireLapsed reconciles persisted status with derived expiry for
// reporting. Idempotent; access control never depends on it.
func (r *repositoryImpl) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.UserSubscription{}).
		Where("status = ? AND end_date < ?", enums.SubscriptionStatusActive, now).
		UpdateColumn("status", enums.SubscriptionStatusExpired)
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) ListExpiringActive(ctx context.Context, from, to time.Time) ([]models.UserSubscription, error) {
	var subs []models.UserSubscription
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("status = ? AND end_date >= ? AND end_date < ?", enums.SubscriptionStatusActive, from, to).
		Find(&subs).Error
	return subs, err
}
