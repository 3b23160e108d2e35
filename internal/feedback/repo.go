package feedback

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
)

// Repository exposes persistence helpers for testimonials.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, fb *models.Feedback) error
	ListPublic(ctx context.Context) ([]models.Feedback, error)
	ListAll(ctx context.Context) ([]models.Feedback, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Feedback, error)
	Update(ctx context.Context, fb *models.Feedback) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a feedback repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, fb *models.Feedback) error {
	return r.db.WithContext(ctx).Create(fb).Error
}

// ListPublic returns testimonials that passed moderation: approved and
// visible, both.
func (r *repositoryImpl) ListPublic(ctx context.Context) ([]models.Feedback, error) {
	var items []models.Feedback
	err := r.db.WithContext(ctx).
		Where("is_approved AND is_visible").
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *repositoryImpl) ListAll(ctx context.Context) ([]models.Feedback, error) {
	var items []models.Feedback
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Feedback, error) {
	var fb models.Feedback
	err := r.db.WithContext(ctx).First(&fb, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &fb, nil
}

func (r *repositoryImpl) Update(ctx context.Context, fb *models.Feedback) error {
	return r.db.WithContext(ctx).Save(fb).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Feedback{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
