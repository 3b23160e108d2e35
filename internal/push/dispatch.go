package push

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
	"github.com/fitcoachhq/fitcoach-backend/pkg/webpush"
)

const defaultDispatchConcurrency = 16

// DispatchResult reports how a broadcast fared across endpoints.
type DispatchResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// Dispatcher fans one payload out to many push endpoints with bounded
// parallelism. A failing endpoint never blocks the others.
type Dispatcher struct {
	sender      webpush.Sender
	repo        Repository
	logg        *logger.Logger
	concurrency int
}

// NewDispatcher builds a dispatcher. Concurrency <= 0 falls back to the default.
func NewDispatcher(sender webpush.Sender, repo Repository, logg *logger.Logger, concurrency int) *Dispatcher {
	if concurrency <= 0 {
		concurrency = defaultDispatchConcurrency
	}
	return &Dispatcher{sender: sender, repo: repo, logg: logg, concurrency: concurrency}
}

// Dispatch delivers the payload to every registration. Gone endpoints are
// pruned from the registry; transient failures are logged and counted.
func (d *Dispatcher) Dispatch(ctx context.Context, subs []models.PushSubscription, payload webpush.Payload) DispatchResult {
	if d.sender == nil || len(subs) == 0 {
		return DispatchResult{}
	}

	var (
		sent   atomic.Int64
		failed atomic.Int64
		wg     sync.WaitGroup
	)
	sem := make(chan struct{}, d.concurrency)

	for _, sub := range subs {
		wg.Add(1)
		sem <- struct{}{}
		go func(sub models.PushSubscription) {
			defer wg.Done()
			defer func() { <-sem }()

			err := d.sender.Send(ctx, webpush.Subscription{
				Endpoint: sub.Endpoint,
				P256DH:   sub.P256DH,
				Auth:     sub.Auth,
			}, payload)
			if err == nil {
				sent.Add(1)
				return
			}

			failed.Add(1)
			if errors.Is(err, webpush.ErrEndpointGone) {
				if delErr := d.repo.DeleteByID(ctx, sub.ID); delErr != nil && d.logg != nil {
					d.logg.Error(d.logg.WithField(ctx, "subscription_id", sub.ID.String()), "prune gone push endpoint", delErr)
				}
				return
			}
			if d.logg != nil {
				d.logg.Warn(d.logg.WithField(ctx, "subscription_id", sub.ID.String()), "push delivery failed")
			}
		}(sub)
	}
	wg.Wait()

	return DispatchResult{Sent: int(sent.Load()), Failed: int(failed.Load())}
}
