package workouts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
)

// Repository exposes persistence helpers for workout plans.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByCoach(ctx context.Context, coachID uuid.UUID) ([]models.WorkoutPlan, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.WorkoutPlan, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.WorkoutPlan, error)
	Create(ctx context.Context, plan *models.WorkoutPlan) error
	Update(ctx context.Context, plan *models.WorkoutPlan) error
	ReplaceExercises(ctx context.Context, planID uuid.UUID, exercises []models.Exercise) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a workout repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) ListByCoach(ctx context.Context, coachID uuid.UUID) ([]models.WorkoutPlan, error) {
	var plans []models.WorkoutPlan
	err := r.db.WithContext(ctx).
		Preload("Exercises", orderedChildren).
		Where("coach_id = ?", coachID).
		Order("created_at DESC").
		Find(&plans).Error
	return plans, err
}

func (r *repositoryImpl) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.WorkoutPlan, error) {
	var plans []models.WorkoutPlan
	err := r.db.WithContext(ctx).
		Preload("Exercises", orderedChildren).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&plans).Error
	return plans, err
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.WorkoutPlan, error) {
	var plan models.WorkoutPlan
	err := r.db.WithContext(ctx).
		Preload("Exercises", orderedChildren).
		First(&plan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *repositoryImpl) Create(ctx context.Context, plan *models.WorkoutPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *repositoryImpl) Update(ctx context.Context, plan *models.WorkoutPlan) error {
	return r.db.WithContext(ctx).
		Model(&models.WorkoutPlan{}).
		Where("id = ?", plan.ID).
		UpdateColumns(map[string]any{"title": plan.Title, "notes": plan.Notes, "client_id": plan.ClientID}).Error
}

// ReplaceExercises swaps the plan's child set wholesale.
func (r *repositoryImpl) ReplaceExercises(ctx context.Context, planID uuid.UUID, exercises []models.Exercise) error {
	if err := r.db.WithContext(ctx).
		Delete(&models.Exercise{}, "workout_plan_id = ?", planID).Error; err != nil {
		return err
	}
	if len(exercises) == 0 {
		return nil
	}
	for i := range exercises {
		exercises[i].WorkoutPlanID = planID
	}
	return r.db.WithContext(ctx).Create(&exercises).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.WorkoutPlan{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func orderedChildren(db *gorm.DB) *gorm.DB {
	return db.Order("day ASC, position ASC")
}
