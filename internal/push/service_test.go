package push

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/fitcoachhq/fitcoach-backend/internal/notifications"
	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
	pkgerrors "github.com/fitcoachhq/fitcoach-backend/pkg/errors"
	"github.com/fitcoachhq/fitcoach-backend/pkg/webpush"
)

type fakeInbox struct {
	calls []struct {
		userIDs []uuid.UUID
		msg     notifications.Message
	}
}

func (f *fakeInbox) CreateForUsers(ctx context.Context, userIDs []uuid.UUID, msg notifications.Message) error {
	f.calls = append(f.calls, struct {
		userIDs []uuid.UUID
		msg     notifications.Message
	}{userIDs, msg})
	return nil
}

type fakeClientLister struct {
	clients []models.User
}

func (f *fakeClientLister) ListByRole(ctx context.Context, role enums.UserRole) ([]models.User, error) {
	if role != enums.UserRoleClient {
		return nil, nil
	}
	return f.clients, nil
}

func newPushService(t *testing.T, repo Repository, inbox Inbox, clients ClientLister, d *Dispatcher) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Inbox: inbox, Clients: clients, Dispatcher: d})
	if err != nil {
		t.Fatalf("unexpected wiring error: %v", err)
	}
	return svc
}

func TestSubscribeHashesEndpoint(t *testing.T) {
	repo := &fakePushRepo{}
	svc := newPushService(t, repo, &fakeInbox{}, &fakeClientLister{}, nil)

	userID := uuid.New()
	err := svc.Subscribe(context.Background(), userID, SubscribeParams{
		Endpoint: "https://push.example/sub-1",
		P256DH:   "p256",
		Auth:     "auth",
	})
	if err != nil {
		t.Fatalf("unexpected subscribe error: %v", err)
	}
	if len(repo.upserts) != 1 {
		t.Fatalf("expected one upsert, got %d", len(repo.upserts))
	}
	stored := repo.upserts[0]
	if stored.UserID != userID {
		t.Fatal("registration bound to wrong user")
	}
	if stored.EndpointHash == "" || stored.EndpointHash == stored.Endpoint {
		t.Fatalf("expected hashed endpoint, got %q", stored.EndpointHash)
	}
	if stored.EndpointHash != hashEndpoint("https://push.example/sub-1") {
		t.Fatal("endpoint hash not deterministic")
	}
}

func TestSubscribeValidation(t *testing.T) {
	svc := newPushService(t, &fakePushRepo{}, &fakeInbox{}, &fakeClientLister{}, nil)
	err := svc.Subscribe(context.Background(), uuid.New(), SubscribeParams{Endpoint: "https://push.example/x"})
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUnsubscribeNotFound(t *testing.T) {
	repo := &fakePushRepo{deleteHash: func(userID uuid.UUID, hash string) (int64, error) {
		return 0, nil
	}}
	svc := newPushService(t, repo, &fakeInbox{}, &fakeClientLister{}, nil)

	err := svc.Unsubscribe(context.Background(), uuid.New(), "https://push.example/unknown")
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBroadcastCreatesInboxRowsAndDispatches(t *testing.T) {
	clientA := models.User{ID: uuid.New(), Role: enums.UserRoleClient}
	clientB := models.User{ID: uuid.New(), Role: enums.UserRoleClient}

	repo := &fakePushRepo{byUsers: []models.PushSubscription{
		{ID: uuid.New(), UserID: clientA.ID, Endpoint: "https://push.example/a"},
	}}
	sender := &fakeSender{}
	inbox := &fakeInbox{}
	lister := &fakeClientLister{clients: []models.User{clientA, clientB}}
	svc := newPushService(t, repo, inbox, lister, NewDispatcher(sender, repo, nil, 4))

	result, err := svc.Broadcast(context.Background(), BroadcastParams{
		Title: "Gym closed Friday",
		Body:  "Holiday hours this week.",
	})
	if err != nil {
		t.Fatalf("unexpected broadcast error: %v", err)
	}
	if result.Recipients != 2 {
		t.Fatalf("expected 2 recipients, got %d", result.Recipients)
	}
	if len(inbox.calls) != 1 || len(inbox.calls[0].userIDs) != 2 {
		t.Fatal("expected a single inbox fan-out covering both clients")
	}
	if result.Push.Sent != 1 || result.Push.Failed != 0 {
		t.Fatalf("unexpected push result %+v", result.Push)
	}
	if len(sender.calls) != 1 || sender.calls[0] != "https://push.example/a" {
		t.Fatalf("unexpected sender calls %v", sender.calls)
	}
}

func TestBroadcastWithoutDispatcher(t *testing.T) {
	client := models.User{ID: uuid.New(), Role: enums.UserRoleClient}
	inbox := &fakeInbox{}
	svc := newPushService(t, &fakePushRepo{}, inbox, &fakeClientLister{clients: []models.User{client}}, nil)

	result, err := svc.Broadcast(context.Background(), BroadcastParams{Title: "t", Body: "b"})
	if err != nil {
		t.Fatalf("unexpected broadcast error: %v", err)
	}
	if result.Recipients != 1 || result.Push.Sent != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(inbox.calls) != 1 {
		t.Fatal("expected inbox rows even without push transport")
	}
}

var _ webpush.Sender = (*fakeSender)(nil)
