package webpush

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/fitcoachhq/fitcoach-backend/pkg/config"
)

// ErrEndpointGone marks a permanent transport failure: the push service no
// longer recognizes the endpoint and the registration should be pruned.
var ErrEndpointGone = errors.New("push endpoint gone")

// Subscription is the browser-issued push registration.
type Subscription struct {
	Endpoint string
	P256DH   string
	Auth     string
}

// Payload is the notification body delivered to the service worker.
type Payload struct {
	Title string  `json:"title"`
	Body  string  `json:"body"`
	Icon  *string `json:"icon,omitempty"`
	Tag   *string `json:"tag,omitempty"`
	URL   *string `json:"url,omitempty"`
}

// Sender delivers Web Push messages. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, sub Subscription, payload Payload) error
}

// VAPIDSender implements Sender over the Web Push protocol with VAPID keys.
type VAPIDSender struct {
	cfg config.PushConfig
}

// NewVAPIDSender builds a sender from the configured VAPID key pair.
func NewVAPIDSender(cfg config.PushConfig) (*VAPIDSender, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("vapid public and private keys are required")
	}
	return &VAPIDSender{cfg: cfg}, nil
}

// Send delivers one push message. One attempt, no retries; 404/410 from the
// push service map to ErrEndpointGone.
func (s *VAPIDSender) Send(ctx context.Context, sub Subscription, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode push payload: %w", err)
	}

	resp, err := webpush.SendNotificationWithContext(ctx, body, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      s.cfg.Subscriber,
		VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
		TTL:             60,
	})
	if err != nil {
		return fmt.Errorf("webpush send: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return ErrEndpointGone
	case resp.StatusCode >= 400:
		return fmt.Errorf("webpush send: status %d", resp.StatusCode)
	}
	return nil
}
