package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fitcoachhq/fitcoach-backend/pkg/config"
	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
	pkgerrors "github.com/fitcoachhq/fitcoach-backend/pkg/errors"
	"github.com/fitcoachhq/fitcoach-backend/pkg/mail"
	"github.com/fitcoachhq/fitcoach-backend/pkg/security"
)

type fakeUserRepo struct {
	createErr   error
	byEmail     map[string]*models.User
	byID        map[uuid.UUID]*models.User
	lastLogin   *time.Time
	updatedHash string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: map[string]*models.User{},
		byID:    map[uuid.UUID]*models.User{},
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	user.ID = uuid.New()
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return f.byID[id], nil
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	f.lastLogin = &at
	return nil
}

func (f *fakeUserRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	f.updatedHash = hash
	return nil
}

type fakeMailer struct {
	sent []mail.Message
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, msg mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "fitcoach", ExpirationMinutes: 60}
}

func newTestService(t *testing.T, repo *fakeUserRepo, mailer mail.Sender) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:  repo,
		Mailer:    mailer,
		JWTConfig: testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string, role enums.UserRole) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         "Seeded User",
		Role:         role,
	}
	repo.byEmail[email] = user
	repo.byID[user.ID] = user
	return user
}

func TestRegisterCreatesClientAndMintsToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(t, repo, nil)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "New.Client@Example.com",
		Password: "supersecret",
		Name:     "New Client",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a signed token")
	}
	if resp.User.Role != enums.UserRoleClient {
		t.Fatalf("expected client role, got %s", resp.User.Role)
	}
	if resp.User.Email != "new.client@example.com" {
		t.Fatalf("expected normalized email, got %s", resp.User.Email)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	repo := newFakeUserRepo()
	repo.createErr = errors.New(`duplicate key value violates unique constraint "idx_users_email"`)
	svc := newTestService(t, repo, nil)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "taken@example.com",
		Password: "supersecret",
		Name:     "Taken",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginSuccessRecordsLastLogin(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "client@example.com", "correct-horse", enums.UserRoleClient)
	svc := newTestService(t, repo, nil)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "client@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a signed token")
	}
	if repo.lastLogin == nil {
		t.Fatal("expected last login to be recorded")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "client@example.com", "correct-horse", enums.UserRoleClient)
	svc := newTestService(t, repo, nil)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "client@example.com",
		Password: "wrong",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmailSameMessage(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(t, repo, nil)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestSendCredentialsEmailsTempPassword(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo, "client@example.com", "old-password", enums.UserRoleClient)
	mailer := &fakeMailer{}
	svc := newTestService(t, repo, mailer)

	err := svc.SendCredentials(context.Background(), SendCredentialsRequest{UserID: user.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.updatedHash == "" {
		t.Fatal("expected password hash to be replaced")
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(mailer.sent))
	}
	if mailer.sent[0].ToEmail != user.Email {
		t.Fatalf("unexpected recipient %s", mailer.sent[0].ToEmail)
	}
	if !strings.Contains(mailer.sent[0].Body, "Temporary password:") {
		t.Fatalf("expected credentials in body: %s", mailer.sent[0].Body)
	}
}

func TestSendCredentialsWithoutMailer(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo, "client@example.com", "old-password", enums.UserRoleClient)
	svc := newTestService(t, repo, nil)

	err := svc.SendCredentials(context.Background(), SendCredentialsRequest{UserID: user.ID})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
