package plans

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
	pkgerrors "github.com/fitcoachhq/fitcoach-backend/pkg/errors"
)

// Service manages the subscription plan catalog.
type Service interface {
	List(ctx context.Context, activeOnly bool) ([]models.SubscriptionPlan, error)
	Create(ctx context.Context, params PlanParams) (*models.SubscriptionPlan, error)
	Update(ctx context.Context, id uuid.UUID, params PlanParams) (*models.SubscriptionPlan, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PlanParams is the full plan shape used by create and update.
type PlanParams struct {
	Name         string          `json:"name" validate:"required"`
	Description  *string         `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price" validate:"required"`
	DurationDays int             `json:"duration_days" validate:"required,min=1"`
	IsActive     *bool           `json:"is_active,omitempty"`
	Features     []string        `json:"features,omitempty"`
}

type service struct {
	repo Repository
}

// NewService wires plan catalog dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "plans repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]models.SubscriptionPlan, error) {
	plans, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list plans")
	}
	return plans, nil
}

func (s *service) Create(ctx context.Context, params PlanParams) (*models.SubscriptionPlan, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	plan := models.SubscriptionPlan{
		Name:         strings.TrimSpace(params.Name),
		Description:  params.Description,
		Price:        params.Price.Round(2),
		DurationDays: params.DurationDays,
		IsActive:     true,
		Features:     params.Features,
	}
	if params.IsActive != nil {
		plan.IsActive = *params.IsActive
	}
	if plan.Features == nil {
		plan.Features = []string{}
	}

	if err := s.repo.Create(ctx, &plan); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create plan")
	}
	return &plan, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, params PlanParams) (*models.SubscriptionPlan, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan id required")
	}
	if err := validateParams(params); err != nil {
		return nil, err
	}

	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find plan")
	}
	if plan == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
	}

	plan.Name = strings.TrimSpace(params.Name)
	plan.Description = params.Description
	plan.Price = params.Price.Round(2)
	plan.DurationDays = params.DurationDays
	if params.IsActive != nil {
		plan.IsActive = *params.IsActive
	}
	if params.Features != nil {
		plan.Features = params.Features
	}

	if err := s.repo.Update(ctx, plan); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update plan")
	}
	return plan, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "plan id required")
	}
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete plan")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
	}
	return nil
}

func validateParams(params PlanParams) error {
	if strings.TrimSpace(params.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if params.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if params.DurationDays <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "duration must be positive")
	}
	return nil
}
