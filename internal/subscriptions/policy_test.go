package subscriptions

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
)

func sub(status enums.SubscriptionStatus, start, end time.Time) models.UserSubscription {
	return models.UserSubscription{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		PlanID:    uuid.New(),
		Status:    status,
		StartDate: start,
		EndDate:   end,
	}
}

func TestEvaluateStateTable(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)
	if !end.Equal(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected end 2025-01-31, got %s", end)
	}

	cases := []struct {
		name  string
		subs  []models.UserSubscription
		now   time.Time
		state enums.SubscriptionState
	}{
		{
			name:  "no records",
			subs:  nil,
			now:   start,
			state: enums.SubscriptionStateNone,
		},
		{
			name:  "active mid-term",
			subs:  []models.UserSubscription{sub(enums.SubscriptionStatusActive, start, end)},
			now:   time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			state: enums.SubscriptionStateActive,
		},
		{
			name:  "active on end date",
			subs:  []models.UserSubscription{sub(enums.SubscriptionStatusActive, start, end)},
			now:   end,
			state: enums.SubscriptionStateActive,
		},
		{
			name:  "lapsed after end date",
			subs:  []models.UserSubscription{sub(enums.SubscriptionStatusActive, start, end)},
			now:   time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			state: enums.SubscriptionStateExpired,
		},
		{
			name:  "reconciled expired record",
			subs:  []models.UserSubscription{sub(enums.SubscriptionStatusExpired, start, end)},
			now:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			state: enums.SubscriptionStateExpired,
		},
		{
			name:  "cancelled with future end date",
			subs:  []models.UserSubscription{sub(enums.SubscriptionStatusCancelled, start, end)},
			now:   time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			state: enums.SubscriptionStateNone,
		},
		{
			name: "cancelled does not mask replacement",
			subs: []models.UserSubscription{
				sub(enums.SubscriptionStatusCancelled, start, end),
				sub(enums.SubscriptionStatusActive, start, end.AddDate(0, 0, 30)),
			},
			now:   time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
			state: enums.SubscriptionStateActive,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status := Evaluate(tc.subs, tc.now)
			if status.State != tc.state {
				t.Fatalf("expected state %s, got %s", tc.state, status.State)
			}
			if tc.state == enums.SubscriptionStateActive && status.Subscription == nil {
				t.Fatal("expected subscription on active state")
			}
			if tc.state != enums.SubscriptionStateActive && status.DaysRemaining != 0 {
				t.Fatalf("expected zero days remaining, got %d", status.DaysRemaining)
			}
		})
	}
}

func TestEvaluateDaysRemainingCeils(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC)
	status := Evaluate([]models.UserSubscription{sub(enums.SubscriptionStatusActive, now.AddDate(0, 0, -5), end)}, now)
	if status.DaysRemaining != 3 {
		t.Fatalf("expected 3 days remaining (2.5 rounded up), got %d", status.DaysRemaining)
	}
}

func TestEvaluatePicksLongestActive(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	short := sub(enums.SubscriptionStatusActive, start, start.AddDate(0, 0, 7))
	long := sub(enums.SubscriptionStatusActive, start, start.AddDate(0, 0, 90))
	status := Evaluate([]models.UserSubscription{short, long}, start.AddDate(0, 0, 2))
	if status.Subscription == nil || status.Subscription.ID != long.ID {
		t.Fatal("expected the longest-running active record")
	}
}
