package subscriptions

import (
	"math"
	"time"

	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
)

// Status is the read-time projection of a user's subscription records.
// Nothing here is persisted; expiry is derived from end_date at call time.
type Status struct {
	State         enums.SubscriptionState  `json:"state"`
	Subscription  *models.UserSubscription `json:"subscription,omitempty"`
	DaysRemaining int                      `json:"days_remaining"`
}

// Evaluate projects the subscription state at the given instant.
//
// active: a status=active record whose end_date has not passed (inclusive).
// expired: no such record, but a record that ran out exists (status=active
// past its end_date, or a reconciled status=expired row).
// none: everything else. Cancelled records never contribute, so a cancelled
// subscription with a future end date projects to none.
func Evaluate(subs []models.UserSubscription, now time.Time) Status {
	var current *models.UserSubscription
	var lapsed *models.UserSubscription

	for i := range subs {
		sub := &subs[i]
		switch sub.Status {
		case enums.SubscriptionStatusActive:
			if !sub.EndDate.Before(now) {
				if current == nil || sub.EndDate.After(current.EndDate) {
					current = sub
				}
			} else if lapsed == nil || sub.EndDate.After(lapsed.EndDate) {
				lapsed = sub
			}
		case enums.SubscriptionStatusExpired:
			if lapsed == nil || sub.EndDate.After(lapsed.EndDate) {
				lapsed = sub
			}
		}
	}

	if current != nil {
		return Status{
			State:         enums.SubscriptionStateActive,
			Subscription:  current,
			DaysRemaining: daysRemaining(current.EndDate, now),
		}
	}
	if lapsed != nil {
		return Status{State: enums.SubscriptionStateExpired, Subscription: lapsed}
	}
	return Status{State: enums.SubscriptionStateNone}
}

func daysRemaining(end, now time.Time) int {
	remaining := end.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours() / 24))
}
