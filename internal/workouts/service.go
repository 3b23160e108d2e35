package workouts

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
	pkgerrors "github.com/fitcoachhq/fitcoach-backend/pkg/errors"
)

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages coach-authored workout plans.
type Service interface {
	ListForCoach(ctx context.Context, coachID uuid.UUID) ([]models.WorkoutPlan, error)
	ListForClient(ctx context.Context, clientID uuid.UUID) ([]models.WorkoutPlan, error)
	Get(ctx context.Context, id uuid.UUID) (*models.WorkoutPlan, error)
	Create(ctx context.Context, coachID uuid.UUID, params PlanParams) (*models.WorkoutPlan, error)
	Update(ctx context.Context, coachID, id uuid.UUID, params PlanParams) (*models.WorkoutPlan, error)
	Delete(ctx context.Context, coachID, id uuid.UUID) error
}

// PlanParams carries the full plan shape; Exercises replaces the child set
// wholesale on update.
type PlanParams struct {
	ClientID  uuid.UUID       `json:"client_id" validate:"required"`
	Title     string          `json:"title" validate:"required"`
	Notes     *string         `json:"notes,omitempty"`
	Exercises []ExerciseInput `json:"exercises" validate:"dive"`
}

// ExerciseInput is one ordered exercise row.
type ExerciseInput struct {
	Day          string  `json:"day" validate:"required"`
	Name         string  `json:"name" validate:"required"`
	Sets         int     `json:"sets" validate:"required,min=1"`
	Reps         int     `json:"reps" validate:"required,min=1"`
	RestSeconds  *int    `json:"rest_seconds,omitempty"`
	Instructions *string `json:"instructions,omitempty"`
}

type service struct {
	repo Repository
	tx   TxRunner
}

// NewService wires workout plan dependencies.
func NewService(repo Repository, tx TxRunner) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "workouts repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) ListForCoach(ctx context.Context, coachID uuid.UUID) ([]models.WorkoutPlan, error) {
	plans, err := s.repo.ListByCoach(ctx, coachID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list workout plans")
	}
	return plans, nil
}

func (s *service) ListForClient(ctx context.Context, clientID uuid.UUID) ([]models.WorkoutPlan, error) {
	plans, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list workout plans")
	}
	return plans, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.WorkoutPlan, error) {
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find workout plan")
	}
	if plan == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "workout plan not found")
	}
	return plan, nil
}

func (s *service) Create(ctx context.Context, coachID uuid.UUID, params PlanParams) (*models.WorkoutPlan, error) {
	exercises, err := buildExercises(params.Exercises)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	if params.ClientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id required")
	}

	plan := models.WorkoutPlan{
		CoachID:   coachID,
		ClientID:  params.ClientID,
		Title:     strings.TrimSpace(params.Title),
		Notes:     params.Notes,
		Exercises: exercises,
	}
	if err := s.repo.Create(ctx, &plan); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create workout plan")
	}
	return &plan, nil
}

func (s *service) Update(ctx context.Context, coachID, id uuid.UUID, params PlanParams) (*models.WorkoutPlan, error) {
	plan, err := s.ownedPlan(ctx, coachID, id)
	if err != nil {
		return nil, err
	}
	exercises, err := buildExercises(params.Exercises)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}

	plan.Title = strings.TrimSpace(params.Title)
	plan.Notes = params.Notes
	if params.ClientID != uuid.Nil {
		plan.ClientID = params.ClientID
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Update(ctx, plan); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update workout plan")
		}
		if err := repo.ReplaceExercises(ctx, plan.ID, exercises); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace exercises")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	plan.Exercises = exercises
	return plan, nil
}

func (s *service) Delete(ctx context.Context, coachID, id uuid.UUID) error {
	if _, err := s.ownedPlan(ctx, coachID, id); err != nil {
		return err
	}
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete workout plan")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "workout plan not found")
	}
	return nil
}

func (s *service) ownedPlan(ctx context.Context, coachID, id uuid.UUID) (*models.WorkoutPlan, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan id required")
	}
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find workout plan")
	}
	if plan == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "workout plan not found")
	}
	if coachID != uuid.Nil && plan.CoachID != coachID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "plan belongs to another coach")
	}
	return plan, nil
}

func buildExercises(inputs []ExerciseInput) ([]models.Exercise, error) {
	exercises := make([]models.Exercise, 0, len(inputs))
	positions := map[enums.Weekday]int{}
	for _, input := range inputs {
		day, err := enums.ParseWeekday(strings.ToLower(strings.TrimSpace(input.Day)))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid weekday").
				WithDetails(map[string]string{"day": input.Day})
		}
		if strings.TrimSpace(input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "exercise name required")
		}
		if input.Sets <= 0 || input.Reps <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sets and reps must be positive")
		}
		exercises = append(exercises, models.Exercise{
			Day:          day,
			Position:     positions[day],
			Name:         strings.TrimSpace(input.Name),
			Sets:         input.Sets,
			Reps:         input.Reps,
			RestSeconds:  input.RestSeconds,
			Instructions: input.Instructions,
		})
		positions[day]++
	}
	return exercises, nil
}
