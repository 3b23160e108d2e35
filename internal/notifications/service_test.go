package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
	pkgerrors "github.com/fitcoachhq/fitcoach-backend/pkg/errors"
	paginationpkg "github.com/fitcoachhq/fitcoach-backend/pkg/pagination"
)

type fakeRepository struct {
	listFn        func(ctx context.Context, params listNotificationsParams) ([]models.Notification, *paginationpkg.Cursor, error)
	markReadFn    func(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error)
	markAllReadFn func(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
	created       [][]models.Notification
	deletedTags   []string
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) CreateMany(ctx context.Context, notifications []models.Notification) error {
	f.created = append(f.created, notifications)
	return nil
}

func (f *fakeRepository) List(ctx context.Context, params listNotificationsParams) ([]models.Notification, *paginationpkg.Cursor, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, nil, nil
}

func (f *fakeRepository) MarkRead(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
	if f.markReadFn != nil {
		return f.markReadFn(ctx, userID, notificationID, now)
	}
	return notificationMarkResult{}, nil
}

func (f *fakeRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	if f.markAllReadFn != nil {
		return f.markAllReadFn(ctx, userID, now)
	}
	return 0, nil
}

func (f *fakeRepository) DeleteByTag(ctx context.Context, tag string) (int64, error) {
	f.deletedTags = append(f.deletedTags, tag)
	return 2, nil
}

func newServiceWithRepo(repo Repository) Service {
	svc, _ := NewService(repo)
	return svc
}

func TestService_ListNotifications(t *testing.T) {
	first := models.Notification{ID: uuid.New(), CreatedAt: time.Now().Add(-time.Hour)}
	second := models.Notification{ID: uuid.New(), CreatedAt: time.Now()}

	repo := &fakeRepository{
		listFn: func(ctx context.Context, params listNotificationsParams) ([]models.Notification, *paginationpkg.Cursor, error) {
			if params.Limit != 1 {
				t.Fatalf("unexpected limit %d", params.Limit)
			}
			return []models.Notification{first}, &paginationpkg.Cursor{CreatedAt: second.CreatedAt, ID: second.ID}, nil
		},
	}

	svc := newServiceWithRepo(repo)
	result, err := svc.List(context.Background(), ListParams{UserID: uuid.New(), Limit: 1})
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(result.Items))
	}
	if result.Cursor == "" {
		t.Fatal("expected cursor for next page")
	}
	decoded, err := paginationpkg.ParseCursor(result.Cursor)
	if err != nil {
		t.Fatalf("invalid cursor %q: %v", result.Cursor, err)
	}
	if decoded.ID != second.ID {
		t.Fatalf("expected cursor id %s got %s", second.ID, decoded.ID)
	}
}

func TestService_ListNotificationsInvalidCursor(t *testing.T) {
	svc := newServiceWithRepo(&fakeRepository{})
	_, err := svc.List(context.Background(), ListParams{UserID: uuid.New(), Cursor: "bad"})
	if err == nil {
		t.Fatal("expected error for invalid cursor")
	}
	errCode := pkgerrors.As(err).Code()
	if errCode != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %s", errCode)
	}
}

func TestService_ListNotificationsUnreadOnly(t *testing.T) {
	repo := &fakeRepository{
		listFn: func(ctx context.Context, params listNotificationsParams) ([]models.Notification, *paginationpkg.Cursor, error) {
			if !params.UnreadOnly {
				t.Fatal("expected unread filter to propagate")
			}
			return nil, nil, nil
		},
	}
	svc := newServiceWithRepo(repo)
	if _, err := svc.List(context.Background(), ListParams{UserID: uuid.New(), UnreadOnly: true}); err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
}

func TestService_MarkRead(t *testing.T) {
	repo := &fakeRepository{
		markReadFn: func(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
			return notificationMarkResult{Found: true, Updated: true}, nil
		},
	}
	svc := newServiceWithRepo(repo)
	if err := svc.MarkRead(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("unexpected mark read error: %v", err)
	}
}

func TestService_MarkReadNotFound(t *testing.T) {
	repo := &fakeRepository{
		markReadFn: func(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
			return notificationMarkResult{Found: false}, nil
		},
	}
	svc := newServiceWithRepo(repo)
	if err := svc.MarkRead(context.Background(), uuid.New(), uuid.New()); err == nil {
		t.Fatal("expected not found error")
	} else if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestService_MarkAllRead(t *testing.T) {
	repo := &fakeRepository{
		markAllReadFn: func(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
			return 3, nil
		},
	}
	svc := newServiceWithRepo(repo)
	count, err := svc.MarkAllRead(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected mark all read error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 updated rows, got %d", count)
	}
}

func TestService_MarkAllReadError(t *testing.T) {
	repo := &fakeRepository{
		markAllReadFn: func(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
			return 0, errors.New("boom")
		},
	}
	svc := newServiceWithRepo(repo)
	if _, err := svc.MarkAllRead(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error")
	}
}

func TestService_CreateForUsersFansOut(t *testing.T) {
	repo := &fakeRepository{}
	svc := newServiceWithRepo(repo)

	recipients := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	link := "https://fitcoachhq.com/blog/new-program"
	err := svc.CreateForUsers(context.Background(), recipients, Message{
		Title: "New program available",
		Body:  "Your coach published a new plan.",
		Link:  &link,
	})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected a single batched insert, got %d", len(repo.created))
	}
	rows := repo.created[0]
	if len(rows) != len(recipients) {
		t.Fatalf("expected %d rows, got %d", len(recipients), len(rows))
	}
	for i, row := range rows {
		if row.UserID != recipients[i] {
			t.Fatalf("row %d bound to wrong user", i)
		}
		if row.Title != "New program available" || row.Link == nil || *row.Link != link {
			t.Fatalf("row %d lost message content", i)
		}
		if row.ReadAt != nil {
			t.Fatalf("row %d should start unread", i)
		}
	}
}

func TestService_CreateForUsersRequiresTitle(t *testing.T) {
	svc := newServiceWithRepo(&fakeRepository{})
	err := svc.CreateForUsers(context.Background(), []uuid.UUID{uuid.New()}, Message{Body: "no title"})
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_DeleteBroadcast(t *testing.T) {
	repo := &fakeRepository{}
	svc := newServiceWithRepo(repo)

	count, err := svc.DeleteBroadcast(context.Background(), "launch-2025")
	if err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 deleted rows, got %d", count)
	}
	if len(repo.deletedTags) != 1 || repo.deletedTags[0] != "launch-2025" {
		t.Fatalf("unexpected deleted tags %v", repo.deletedTags)
	}

	if _, err := svc.DeleteBroadcast(context.Background(), ""); err == nil {
		t.Fatal("expected validation error for empty tag")
	}
}
