package promocodes

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
	pkgerrors "github.com/fitcoachhq/fitcoach-backend/pkg/errors"
)

// Quote is the outcome of evaluating a promo code against a cart total.
// Amounts are rounded half-up to cents; FinalAmount never goes below zero.
type Quote struct {
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	OriginalAmount decimal.Decimal `json:"original_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
}

// Rejection reasons surfaced in the validation error details.
const (
	ReasonInvalidCode       = "invalid_code"
	ReasonInactive          = "code_inactive"
	ReasonExpired           = "code_expired"
	ReasonUsageLimitReached = "usage_limit_reached"
	ReasonBelowMinimum      = "below_minimum_purchase"
)

func rejection(reason, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).
		WithDetails(map[string]string{"reason": reason})
}

// Evaluate applies the promo rules in order and stops at the first failure:
// existence, active flag, expiry, usage limit, minimum purchase.
func Evaluate(code *models.PromoCode, cartTotal decimal.Decimal, now time.Time) (Quote, error) {
	if code == nil {
		return Quote{}, rejection(ReasonInvalidCode, "promo code not found")
	}
	if !code.IsActive {
		return Quote{}, rejection(ReasonInactive, "promo code is not active")
	}
	// An expiry equal to the evaluation instant still passes; only a
	// strictly past expiry rejects.
	if code.ExpiresAt != nil && code.ExpiresAt.Before(now) {
		return Quote{}, rejection(ReasonExpired, "promo code has expired")
	}
	if code.MaxUses != nil && code.CurrentUses >= *code.MaxUses {
		return Quote{}, rejection(ReasonUsageLimitReached, "promo code usage limit reached")
	}
	if code.MinPurchaseAmount != nil && cartTotal.LessThan(*code.MinPurchaseAmount) {
		return Quote{}, rejection(ReasonBelowMinimum, "purchase total below promo code minimum")
	}

	var discount decimal.Decimal
	switch code.DiscountType {
	case enums.DiscountTypePercentage:
		discount = cartTotal.Mul(code.DiscountValue).Div(decimal.NewFromInt(100))
	case enums.DiscountTypeFixed:
		discount = code.DiscountValue
	default:
		return Quote{}, rejection(ReasonInvalidCode, "unknown discount type")
	}

	if discount.GreaterThan(cartTotal) {
		discount = cartTotal
	}
	discount = discount.Round(2)

	final := cartTotal.Sub(discount).Round(2)
	if final.IsNegative() {
		final = decimal.Zero
	}

	return Quote{
		Code:           code.Code,
		DiscountAmount: discount,
		OriginalAmount: cartTotal.Round(2),
		FinalAmount:    final,
	}, nil
}
