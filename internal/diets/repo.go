package diets

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
)

// Repository exposes persistence helpers for diet plans.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByCoach(ctx context.Context, coachID uuid.UUID) ([]models.DietPlan, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.DietPlan, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.DietPlan, error)
	Create(ctx context.Context, plan *models.DietPlan) error
	Update(ctx context.Context, plan *models.DietPlan) error
	ReplaceMeals(ctx context.Context, planID uuid.UUID, meals []models.Meal) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a diet repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) ListByCoach(ctx context.Context, coachID uuid.UUID) ([]models.DietPlan, error) {
	var plans []models.DietPlan
	err := r.db.WithContext(ctx).
		Preload("Meals", orderedChildren).
		Where("coach_id = ?", coachID).
		Order("created_at DESC").
		Find(&plans).Error
	return plans, err
}

func (r *repositoryImpl) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.DietPlan, error) {
	var plans []models.DietPlan
	err := r.db.WithContext(ctx).
		Preload("Meals", orderedChildren).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&plans).Error
	return plans, err
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.DietPlan, error) {
	var plan models.DietPlan
	err := r.db.WithContext(ctx).
		Preload("Meals", orderedChildren).
		First(&plan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *repositoryImpl) Create(ctx context.Context, plan *models.DietPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *repositoryImpl) Update(ctx context.Context, plan *models.DietPlan) error {
	return r.db.WithContext(ctx).
		Model(&models.DietPlan{}).
		Where("id = ?", plan.ID).
		UpdateColumns(map[string]any{"title": plan.Title, "notes": plan.Notes, "client_id": plan.ClientID}).Error
}

// ReplaceMeals swaps the plan's child set wholesale.
func (r *repositoryImpl) ReplaceMeals(ctx context.Context, planID uuid.UUID, meals []models.Meal) error {
	if err := r.db.WithContext(ctx).
		Delete(&models.Meal{}, "diet_plan_id = ?", planID).Error; err != nil {
		return err
	}
	if len(meals) == 0 {
		return nil
	}
	for i := range meals {
		meals[i].DietPlanID = planID
	}
	return r.db.WithContext(ctx).Create(&meals).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.DietPlan{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func orderedChildren(db *gorm.DB) *gorm.DB {
	return db.Order("day ASC, position ASC")
}
