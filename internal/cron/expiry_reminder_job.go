package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
	"github.com/fitcoachhq/fitcoach-backend/pkg/mail"
	"github.com/google/uuid"
)

const (
	defaultReminderLeadDays = 3
	reminderDedupeTTL       = 48 * time.Hour
)

type expiringSubscriptionLister interface {
	ListExpiringActive(ctx context.Context, from, to time.Time) ([]models.UserSubscription, error)
}

type reminderUserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type reminderDeduper interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	ReminderSentKey(subscriptionID, day string) string
}

// ExpiryReminderJobParams configures the subscription expiry reminder job.
type ExpiryReminderJobParams struct {
	Logger        *logger.Logger
	Subscriptions expiringSubscriptionLister
	Users         reminderUserFinder
	Mailer        mail.Sender
	Dedupe        reminderDeduper
	LeadDays      int
	Now           func() time.Time
}

// NewExpiryReminderJob builds the job that emails clients whose active
// subscription ends within the configured lead window.
func NewExpiryReminderJob(params ExpiryReminderJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Subscriptions == nil {
		return nil, fmt.Errorf("subscriptions repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.Mailer == nil {
		return nil, fmt.Errorf("mailer required")
	}
	leadDays := params.LeadDays
	if leadDays <= 0 {
		leadDays = defaultReminderLeadDays
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &expiryReminderJob{
		logg:     params.Logger,
		subs:     params.Subscriptions,
		users:    params.Users,
		mailer:   params.Mailer,
		dedupe:   params.Dedupe,
		leadDays: leadDays,
		now:      now,
	}, nil
}

type expiryReminderJob struct {
	logg     *logger.Logger
	subs     expiringSubscriptionLister
	users    reminderUserFinder
	mailer   mail.Sender
	dedupe   reminderDeduper
	leadDays int
	now      func() time.Time
}

func (j *expiryReminderJob) Name() string { return "subscription-expiry-reminder" }

// Run emails every client whose active subscription ends within the lead
// window. A redis marker caps delivery at one reminder per subscription per
// day so overlapping runs never double-send.
func (j *expiryReminderJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	until := now.AddDate(0, 0, j.leadDays)

	expiring, err := j.subs.ListExpiringActive(ctx, now, until)
	if err != nil {
		return fmt.Errorf("list expiring subscriptions: %w", err)
	}
	if len(expiring) == 0 {
		return nil
	}

	var errs error
	reminded := 0
	for _, sub := range expiring {
		sent, err := j.remind(ctx, sub, now)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("subscription %s: %w", sub.ID, err))
			continue
		}
		if sent {
			reminded++
		}
	}

	runCtx := j.logg.WithFields(ctx, map[string]any{
		"expiring": len(expiring),
		"reminded": reminded,
	})
	j.logg.Info(runCtx, "expiry reminders processed")
	return errs
}

func (j *expiryReminderJob) remind(ctx context.Context, sub models.UserSubscription, now time.Time) (bool, error) {
	if j.dedupe != nil {
		key := j.dedupe.ReminderSentKey(sub.ID.String(), now.Format("2006-01-02"))
		fresh, err := j.dedupe.SetNX(ctx, key, "1", reminderDedupeTTL)
		if err != nil {
			return false, fmt.Errorf("reminder dedupe: %w", err)
		}
		if !fresh {
			return false, nil
		}
	}

	user, err := j.users.FindByID(ctx, sub.UserID)
	if err != nil {
		return false, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return false, nil
	}

	daysLeft := int(sub.EndDate.Sub(now).Hours() / 24)
	planName := "your plan"
	if sub.Plan != nil {
		planName = sub.Plan.Name
	}
	msg := mail.Message{
		ToName:  user.Name,
		ToEmail: user.Email,
		Subject: "Your subscription is about to expire",
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour %s subscription ends on %s (%d day(s) left). Renew to keep access to your workout and diet plans.\n\nThe FitCoach team",
			user.Name, planName, sub.EndDate.Format("January 2, 2006"), daysLeft,
		),
	}
	if err := j.mailer.Send(ctx, msg); err != nil {
		return false, fmt.Errorf("send reminder: %w", err)
	}
	return true, nil
}
