package diets

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

// Service manages coach-authored diet plans.
type Service interface {
	ListForCoach(ctx context.Context, coachID uuid.UUID) ([]models.DietPlan, error)
	ListForClient(ctx context.Context, clientID uuid.UUID) ([]models.DietPlan, error)
	Get(ctx context.Context, id uuid.UUID) (*models.DietPlan, error)
	Create(ctx context.Context, coachID uuid.UUID, params PlanParams) (*models.DietPlan, error)
	Update(ctx context.Context, coachID, id uuid.UUID, params PlanParams) (*models.DietPlan, error)
	Delete(ctx context.Context, coachID, id uuid.UUID) error
}

// PlanParams carries the full plan shape; Meals replaces the child set
// wholesale on update.
type PlanParams struct {
	ClientID uuid.UUID   `json:"client_id" validate:"required"`
	Title    string      `json:"title" validate:"required"`
	Notes    *string     `json:"notes,omitempty"`
	Meals    []MealInput `json:"meals" validate:"dive"`
}

// MealInput is one ordered meal row.
type MealInput struct {
	Day         string  `json:"day" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Calories    *int    `json:"calories,omitempty"`
	ProteinG    *int    `json:"protein_g,omitempty"`
	CarbsG      *int    `json:"carbs_g,omitempty"`
	FatG        *int    `json:"fat_g,omitempty"`
	Description *string `json:"description,omitempty"`
}

type service struct {
	repo Repository
	tx   TxRunner
}

// NewService wires diet plan dependencies.
func NewService(repo Repository, tx TxRunner) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "diets repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) ListForCoach(ctx context.Context, coachID uuid.UUID) ([]models.DietPlan, error) {
	plans, err := s.repo.ListByCoach(ctx, coachID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list diet plans")
	}
	return plans, nil
}

func (s *service) ListForClient(ctx context.Context, clientID uuid.UUID) ([]models.DietPlan, error) {
	plans, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list diet plans")
	}
	return plans, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.DietPlan, error) {
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find diet plan")
	}
	if plan == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "diet plan not found")
	}
	return plan, nil
}

func (s *service) Create(ctx context.Context, coachID uuid.UUID, params PlanParams) (*models.DietPlan, error) {
	meals, err := buildMeals(params.Meals)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	if params.ClientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id required")
	}

	plan := models.DietPlan{
		CoachID:  coachID,
		ClientID: params.ClientID,
		Title:    strings.TrimSpace(params.Title),
		Notes:    params.Notes,
		Meals:    meals,
	}
	if err := s.repo.Create(ctx, &plan); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create diet plan")
	}
	return &plan, nil
}

func (s *service) Update(ctx context.Context, coachID, id uuid.UUID, params PlanParams) (*models.DietPlan, error) {
	plan, err := s.ownedPlan(ctx, coachID, id)
	if err != nil {
		return nil, err
	}
	meals, err := buildMeals(params.Meals)
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
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update diet plan")
		}
		if err := repo.ReplaceMeals(ctx, plan.ID, meals); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace meals")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	plan.Meals = meals
	return plan, nil
}

func (s *service) Delete(ctx context.Context, coachID, id uuid.UUID) error {
	if _, err := s.ownedPlan(ctx, coachID, id); err != nil {
		return err
	}
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete diet plan")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "diet plan not found")
	}
	return nil
}

func (s *service) ownedPlan(ctx context.Context, coachID, id uuid.UUID) (*models.DietPlan, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan id required")
	}
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find diet plan")
	}
	if plan == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "diet plan not found")
	}
	if coachID != uuid.Nil && plan.CoachID != coachID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "plan belongs to another coach")
	}
	return plan, nil
}

func buildMeals(inputs []MealInput) ([]models.Meal, error) {
	meals := make([]models.Meal, 0, len(inputs))
	positions := map[enums.Weekday]int{}
	for _, input := range inputs {
		day, err := enums.ParseWeekday(strings.ToLower(strings.TrimSpace(input.Day)))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid weekday").
				WithDetails(map[string]string{"day": input.Day})
		}
		if strings.TrimSpace(input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "meal name required")
		}
		meals = append(meals, models.Meal{
			Day:         day,
			Position:    positions[day],
			Name:        strings.TrimSpace(input.Name),
			Calories:    input.Calories,
			ProteinG:    input.ProteinG,
			CarbsG:      input.CarbsG,
			FatG:        input.FatG,
			Description: input.Description,
		})
		positions[day]++
	}
	return meals, nil
}
