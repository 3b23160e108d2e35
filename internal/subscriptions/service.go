package subscriptions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fitcoachhq/fitcoach-backend/internal/promocodes"
	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
	pkgerrors "github.com/fitcoachhq/fitcoach-backend/pkg/errors"
)

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// PromoApplier redeems a promo code inside a caller-owned transaction.
type PromoApplier interface {
	ApplyTx(ctx context.Context, tx *gorm.DB, code string, cartTotal decimal.Decimal) (*promocodes.Quote, error)
}

// Service defines subscription lifecycle operations.
type Service interface {
	Subscribe(ctx context.Context, params SubscribeParams) (*SubscribeResult, error)
	Current(ctx context.Context, userID uuid.UUID) (*Status, error)
	CurrentState(ctx context.Context, userID uuid.UUID) (enums.SubscriptionState, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.SubscriptionStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubscribeParams configures a subscribe call. PromoCode is optional.
type SubscribeParams struct {
	UserID    uuid.UUID
	PlanID    uuid.UUID
	PromoCode string
}

// SubscribeResult returns the created record and the priced quote.
type SubscribeResult struct {
	Subscription models.UserSubscription `json:"subscription"`
	Pricing      promocodes.Quote        `json:"pricing"`
}

type service struct {
	repo   Repository
	tx     TxRunner
	promos PromoApplier
	now    func() time.Time
}

// NewService wires subscription dependencies. promos may be nil when promo
// redemption is disabled.
func NewService(repo Repository, tx TxRunner, promos PromoApplier) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "subscriptions repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{repo: repo, tx: tx, promos: promos, now: time.Now}, nil
}

// Subscribe replaces any active subscription with a new one. Cancelling the
// old records, redeeming the promo code, and inserting the replacement all
// commit or roll back together, so at most one active record can survive.
func (s *service) Subscribe(ctx context.Context, params SubscribeParams) (*SubscribeResult, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if params.PlanID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan id required")
	}

	plan, err := s.repo.FindPlan(ctx, params.PlanID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find plan")
	}
	if plan == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
	}
	if !plan.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan is not available")
	}
	if params.PromoCode != "" && s.promos == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo codes are not accepted")
	}

	now := s.now().UTC()
	pricing := promocodes.Quote{
		OriginalAmount: plan.Price.Round(2),
		DiscountAmount: decimal.Zero,
		FinalAmount:    plan.Price.Round(2),
	}

	var result SubscribeResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if params.PromoCode != "" {
			quote, err := s.promos.ApplyTx(ctx, tx, params.PromoCode, plan.Price)
			if err != nil {
				return err
			}
			pricing = *quote
		}

		if _, err := repo.CancelActive(ctx, params.UserID, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel active subscriptions")
		}

		sub := models.UserSubscription{
			UserID:    params.UserID,
			PlanID:    plan.ID,
			Status:    enums.SubscriptionStatusActive,
			StartDate: now,
			EndDate:   now.AddDate(0, 0, plan.DurationDays),
		}
		if err := repo.Create(ctx, &sub); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create subscription")
		}

		sub.Plan = plan
		result = SubscribeResult{Subscription: sub, Pricing: pricing}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Current projects the user's subscription state at call time.
func (s *service) Current(ctx context.Context, userID uuid.UUID) (*Status, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	subs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list subscriptions")
	}
	status := Evaluate(subs, s.now().UTC())
	return &status, nil
}

// CurrentState satisfies the access middleware's checker interface.
func (s *service) CurrentState(ctx context.Context, userID uuid.UUID) (enums.SubscriptionState, error) {
	status, err := s.Current(ctx, userID)
	if err != nil {
		return "", err
	}
	return status.State, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.SubscriptionStatus) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "subscription id required")
	}
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid subscription status")
	}
	// Reactivation must displace the user's current active record, so it
	// runs through the same cancel-then-activate transaction as Subscribe.
	if status == enums.SubscriptionStatusActive {
		return s.reactivate(ctx, id)
	}
	found, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update subscription status")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found")
	}
	return nil
}

// reactivate cancels every active record the owner has and then flips the
// target row to active, all in one transaction, so at most one active
// record per user survives the override.
func (s *service) reactivate(ctx context.Context, id uuid.UUID) error {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find subscription")
	}
	if sub == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found")
	}

	now := s.now().UTC()
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.CancelActive(ctx, sub.UserID, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel active subscriptions")
		}
		found, err := repo.UpdateStatus(ctx, id, enums.SubscriptionStatusActive)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activate subscription")
		}
		if !found {
			return pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found")
		}
		return nil
	})
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "subscription id required")
	}
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete subscription")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found")
	}
	return nil
}
