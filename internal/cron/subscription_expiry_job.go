package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
)

type lapsedSubscriptionExpirer interface {
	ExpireLapsed(ctx context.Context, now time.Time) (int64, error)
}

// SubscriptionExpiryJobParams configures the status reconciliation job.
type SubscriptionExpiryJobParams struct {
	Logger        *logger.Logger
	Subscriptions lapsedSubscriptionExpirer
	Now           func() time.Time
}

// NewSubscriptionExpiryJob builds the job that flips lapsed active rows to
// expired. Access checks derive expiry at read time; this keeps reporting in
// line with what clients actually see.
func NewSubscriptionExpiryJob(params SubscriptionExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Subscriptions == nil {
		return nil, fmt.Errorf("subscriptions repository required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &subscriptionExpiryJob{logg: params.Logger, subs: params.Subscriptions, now: now}, nil
}

type subscriptionExpiryJob struct {
	logg *logger.Logger
	subs lapsedSubscriptionExpirer
	now  func() time.Time
}

func (j *subscriptionExpiryJob) Name() string { return "subscription-expiry-reconcile" }

func (j *subscriptionExpiryJob) Run(ctx context.Context) error {
	expired, err := j.subs.ExpireLapsed(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("expire lapsed subscriptions: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "expired", expired), "lapsed subscriptions reconciled")
	return nil
}
