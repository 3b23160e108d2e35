package promocodes

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
)

type fakePromoRepo struct {
	findByCode func(ctx context.Context, code string) (*models.PromoCode, error)
	consumeUse func(ctx context.Context, id uuid.UUID) (bool, error)
	consumed   int
}

func (f *fakePromoRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakePromoRepo) FindByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	return f.findByCode(ctx, code)
}

func (f *fakePromoRepo) Create(ctx context.Context, promo *models.PromoCode) error { return nil }

func (f *fakePromoRepo) ConsumeUse(ctx context.Context, id uuid.UUID) (bool, error) {
	f.consumed++
	if f.consumeUse != nil {
		return f.consumeUse(ctx, id)
	}
	return true, nil
}

func storedPromo() *models.PromoCode {
	return &models.PromoCode{
		ID:            uuid.New(),
		Code:          "JOINCOACH10",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(10),
		IsActive:      true,
	}
}

func TestValidateDoesNotConsume(t *testing.T) {
	repo := &fakePromoRepo{
		findByCode: func(ctx context.Context, code string) (*models.PromoCode, error) {
			return storedPromo(), nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	quote, err := svc.Validate(context.Background(), "joincoach10", decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.FinalAmount.String() != "900" {
		t.Fatalf("expected final 900, got %s", quote.FinalAmount)
	}
	if repo.consumed != 0 {
		t.Fatalf("validate must not consume a use")
	}
}

func TestApplyConsumesOneUse(t *testing.T) {
	repo := &fakePromoRepo{
		findByCode: func(ctx context.Context, code string) (*models.PromoCode, error) {
			return storedPromo(), nil
		},
	}
	svc, _ := NewService(repo)

	quote, err := svc.Apply(context.Background(), "JOINCOACH10", decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.DiscountAmount.String() != "100" {
		t.Fatalf("expected discount 100, got %s", quote.DiscountAmount)
	}
	if repo.consumed != 1 {
		t.Fatalf("expected exactly one consume, got %d", repo.consumed)
	}
}

func TestApplyRejectsWhenGuardLoses(t *testing.T) {
	repo := &fakePromoRepo{
		findByCode: func(ctx context.Context, code string) (*models.PromoCode, error) {
			return storedPromo(), nil
		},
		consumeUse: func(ctx context.Context, id uuid.UUID) (bool, error) {
			return false, nil
		},
	}
	svc, _ := NewService(repo)

	_, err := svc.Apply(context.Background(), "JOINCOACH10", decimal.NewFromInt(1000))
	assertRejection(t, err, ReasonUsageLimitReached)
}

func TestApplyRejectsExpiredBeforeConsuming(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	repo := &fakePromoRepo{
		findByCode: func(ctx context.Context, code string) (*models.PromoCode, error) {
			promo := storedPromo()
			promo.ExpiresAt = &past
			return promo, nil
		},
	}
	svc, _ := NewService(repo)

	_, err := svc.Apply(context.Background(), "JOINCOACH10", decimal.NewFromInt(1000))
	assertRejection(t, err, ReasonExpired)
	if repo.consumed != 0 {
		t.Fatalf("rejected code must not consume a use")
	}
}
