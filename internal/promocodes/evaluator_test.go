package promocodes

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
	pkgerrors "github.com/fitcoachhq/fitcoach-backend/pkg/errors"
)

func decimalPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func intPtr(v int) *int { return &v }

func activePromo(mut func(*models.PromoCode)) *models.PromoCode {
	promo := &models.PromoCode{
		Code:          "JOINCOACH10",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(10),
		IsActive:      true,
	}
	if mut != nil {
		mut(promo)
	}
	return promo
}

func assertRejection(t *testing.T, err error, reason string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected rejection")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %s", typed.Code())
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || details["reason"] != reason {
		t.Fatalf("expected reason %q, got %v", reason, typed.Details())
	}
}

func TestEvaluatePercentageScenario(t *testing.T) {
	quote, err := Evaluate(activePromo(nil), decimal.NewFromInt(1000), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.DiscountAmount.String() != "100" {
		t.Fatalf("expected discount 100, got %s", quote.DiscountAmount)
	}
	if quote.FinalAmount.String() != "900" {
		t.Fatalf("expected final 900, got %s", quote.FinalAmount)
	}
}

func TestEvaluateFixedCapsAtTotal(t *testing.T) {
	promo := activePromo(func(p *models.PromoCode) {
		p.DiscountType = enums.DiscountTypeFixed
		p.DiscountValue = decimal.NewFromInt(50)
	})
	quote, err := Evaluate(promo, decimal.RequireFromString("19.99"), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.DiscountAmount.String() != "19.99" {
		t.Fatalf("expected capped discount, got %s", quote.DiscountAmount)
	}
	if !quote.FinalAmount.IsZero() {
		t.Fatalf("expected final 0, got %s", quote.FinalAmount)
	}
}

func TestEvaluateRoundsHalfUpToCents(t *testing.T) {
	promo := activePromo(func(p *models.PromoCode) {
		p.DiscountValue = decimal.RequireFromString("15")
	})
	// 10.03 * 15% = 1.5045 -> 1.50; 49.99 * 15% = 7.4985 -> 7.50
	quote, err := Evaluate(promo, decimal.RequireFromString("49.99"), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.DiscountAmount.String() != "7.5" {
		t.Fatalf("expected 7.5, got %s", quote.DiscountAmount)
	}
	if quote.FinalAmount.String() != "42.49" {
		t.Fatalf("expected 42.49, got %s", quote.FinalAmount)
	}
}

func TestEvaluateRejectionOrder(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	cases := []struct {
		name   string
		promo  *models.PromoCode
		total  decimal.Decimal
		reason string
	}{
		{"missing", nil, decimal.NewFromInt(100), ReasonInvalidCode},
		{"inactive", activePromo(func(p *models.PromoCode) { p.IsActive = false }), decimal.NewFromInt(100), ReasonInactive},
		{"expired", activePromo(func(p *models.PromoCode) { p.ExpiresAt = &past }), decimal.NewFromInt(100), ReasonExpired},
		{"usage limit", activePromo(func(p *models.PromoCode) {
			p.MaxUses = intPtr(5)
			p.CurrentUses = 5
		}), decimal.NewFromInt(100), ReasonUsageLimitReached},
		{"below minimum", activePromo(func(p *models.PromoCode) {
			p.MinPurchaseAmount = decimalPtr("200")
		}), decimal.NewFromInt(100), ReasonBelowMinimum},
		{"inactive wins over expired", activePromo(func(p *models.PromoCode) {
			p.IsActive = false
			p.ExpiresAt = &past
		}), decimal.NewFromInt(100), ReasonInactive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Evaluate(tc.promo, tc.total, now)
			assertRejection(t, err, tc.reason)
		})
	}
}

func TestEvaluateExpiryBoundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// Expiring exactly at the evaluation instant is still valid.
	exact := now
	promo := activePromo(func(p *models.PromoCode) { p.ExpiresAt = &exact })
	if _, err := Evaluate(promo, decimal.NewFromInt(100), now); err != nil {
		t.Fatalf("expiry equal to now must pass: %v", err)
	}

	past := now.Add(-time.Nanosecond)
	promo = activePromo(func(p *models.PromoCode) { p.ExpiresAt = &past })
	_, err := Evaluate(promo, decimal.NewFromInt(100), now)
	assertRejection(t, err, ReasonExpired)
}

func TestEvaluateUsageBoundary(t *testing.T) {
	promo := activePromo(func(p *models.PromoCode) {
		p.MaxUses = intPtr(3)
		p.CurrentUses = 2
	})
	if _, err := Evaluate(promo, decimal.NewFromInt(100), time.Now()); err != nil {
		t.Fatalf("expected acceptance one use below limit: %v", err)
	}
	promo.CurrentUses = 3
	_, err := Evaluate(promo, decimal.NewFromInt(100), time.Now())
	assertRejection(t, err, ReasonUsageLimitReached)
}
