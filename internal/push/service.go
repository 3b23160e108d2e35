package push

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"

	"github.com/fitcoachhq/fitcoach-backend/internal/notifications"
	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
	pkgerrors "github.com/fitcoachhq/fitcoach-backend/pkg/errors"
	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
	"github.com/fitcoachhq/fitcoach-backend/pkg/webpush"
)

// ClientLister resolves broadcast recipients.
type ClientLister interface {
	ListByRole(ctx context.Context, role enums.UserRole) ([]models.User, error)
}

// Inbox fans the in-app copy of a broadcast into per-user rows.
type Inbox interface {
	CreateForUsers(ctx context.Context, userIDs []uuid.UUID, msg notifications.Message) error
}

// Service manages push registrations and coach broadcasts.
type Service interface {
	Subscribe(ctx context.Context, userID uuid.UUID, params SubscribeParams) error
	Unsubscribe(ctx context.Context, userID uuid.UUID, endpoint string) error
	Broadcast(ctx context.Context, params BroadcastParams) (*BroadcastResult, error)
}

// SubscribeParams is a browser push registration.
type SubscribeParams struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	P256DH   string `json:"p256dh" validate:"required"`
	Auth     string `json:"auth" validate:"required"`
}

// BroadcastParams is one coach announcement delivered to every client.
type BroadcastParams struct {
	Title string  `json:"title" validate:"required"`
	Body  string  `json:"body" validate:"required"`
	Link  *string `json:"link,omitempty"`
	Tag   *string `json:"tag,omitempty"`
}

// BroadcastResult reports recipients reached and push delivery counts.
type BroadcastResult struct {
	Recipients int            `json:"recipients"`
	Push       DispatchResult `json:"push"`
}

// ServiceParams wires push dependencies. Dispatcher may be nil when VAPID
// keys are not configured; broadcasts then create inbox rows only.
type ServiceParams struct {
	Repo       Repository
	Inbox      Inbox
	Clients    ClientLister
	Dispatcher *Dispatcher
	Logger     *logger.Logger
}

type service struct {
	repo       Repository
	inbox      Inbox
	clients    ClientLister
	dispatcher *Dispatcher
	logg       *logger.Logger
}

// NewService validates the wiring and returns a push service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "push repository required")
	}
	if params.Inbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notification inbox required")
	}
	if params.Clients == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "client lister required")
	}
	return &service{
		repo:       params.Repo,
		inbox:      params.Inbox,
		clients:    params.Clients,
		dispatcher: params.Dispatcher,
		logg:       params.Logger,
	}, nil
}

func (s *service) Subscribe(ctx context.Context, userID uuid.UUID, params SubscribeParams) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	endpoint := strings.TrimSpace(params.Endpoint)
	if endpoint == "" || params.P256DH == "" || params.Auth == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "endpoint, p256dh, and auth are required")
	}

	sub := models.PushSubscription{
		UserID:       userID,
		Endpoint:     endpoint,
		EndpointHash: hashEndpoint(endpoint),
		P256DH:       params.P256DH,
		Auth:         params.Auth,
	}
	if err := s.repo.Upsert(ctx, &sub); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register push endpoint")
	}
	return nil
}

func (s *service) Unsubscribe(ctx context.Context, userID uuid.UUID, endpoint string) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "endpoint required")
	}

	deleted, err := s.repo.DeleteByEndpointHash(ctx, userID, hashEndpoint(endpoint))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove push endpoint")
	}
	if deleted == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "push registration not found")
	}
	return nil
}

// Broadcast writes the inbox rows first so every client sees the message
// even when push delivery is unavailable or partially fails.
func (s *service) Broadcast(ctx context.Context, params BroadcastParams) (*BroadcastResult, error) {
	if strings.TrimSpace(params.Title) == "" || strings.TrimSpace(params.Body) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title and body are required")
	}

	clients, err := s.clients.ListByRole(ctx, enums.UserRoleClient)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list broadcast recipients")
	}
	recipients := make([]uuid.UUID, 0, len(clients))
	for _, client := range clients {
		recipients = append(recipients, client.ID)
	}

	if err := s.inbox.CreateForUsers(ctx, recipients, notifications.Message{
		Title: params.Title,
		Body:  params.Body,
		Link:  params.Link,
		Tag:   params.Tag,
	}); err != nil {
		return nil, err
	}

	result := BroadcastResult{Recipients: len(recipients)}
	if s.dispatcher == nil || len(recipients) == 0 {
		return &result, nil
	}

	subs, err := s.repo.ListByUsers(ctx, recipients)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "list push registrations for broadcast", err)
		}
		return &result, nil
	}
	result.Push = s.dispatcher.Dispatch(ctx, subs, webpush.Payload{
		Title: params.Title,
		Body:  params.Body,
		Tag:   params.Tag,
		URL:   params.Link,
	})
	return &result, nil
}

func hashEndpoint(endpoint string) string {
	sum := sha256.Sum256([]byte(endpoint))
	return hex.EncodeToString(sum[:])
}
