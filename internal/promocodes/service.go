package promocodes

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	pkgerrors "github.com/fitcoachhq/fitcoach-backend/pkg/errors"
)

// Service defines promo code evaluation operations.
type Service interface {
	Validate(ctx context.Context, code string, cartTotal decimal.Decimal) (*Quote, error)
	Apply(ctx context.Context, code string, cartTotal decimal.Decimal) (*Quote, error)
	ApplyTx(ctx context.Context, tx *gorm.DB, code string, cartTotal decimal.Decimal) (*Quote, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires promo code dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "promo code repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// Validate runs the evaluation without consuming a use.
func (s *service) Validate(ctx context.Context, code string, cartTotal decimal.Decimal) (*Quote, error) {
	promo, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find promo code")
	}
	quote, err := Evaluate(promo, cartTotal, s.now().UTC())
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// Apply re-validates and consumes one use atomically.
func (s *service) Apply(ctx context.Context, code string, cartTotal decimal.Decimal) (*Quote, error) {
	return s.apply(ctx, s.repo, code, cartTotal)
}

// ApplyTx is Apply scoped to a caller-owned transaction, used when a
// redemption must commit together with the action it discounts.
func (s *service) ApplyTx(ctx context.Context, tx *gorm.DB, code string, cartTotal decimal.Decimal) (*Quote, error) {
	return s.apply(ctx, s.repo.WithTx(tx), code, cartTotal)
}

func (s *service) apply(ctx context.Context, repo Repository, code string, cartTotal decimal.Decimal) (*Quote, error) {
	promo, err := repo.FindByCode(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find promo code")
	}
	quote, err := Evaluate(promo, cartTotal, s.now().UTC())
	if err != nil {
		return nil, err
	}

	consumed, err := repo.ConsumeUse(ctx, promo.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume promo code use")
	}
	if !consumed {
		return nil, rejection(ReasonUsageLimitReached, "promo code usage limit reached")
	}
	return &quote, nil
}
