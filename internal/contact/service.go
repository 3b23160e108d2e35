package contact

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
	pkgerrors "github.com/fitcoachhq/fitcoach-backend/pkg/errors"
	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
	"github.com/fitcoachhq/fitcoach-backend/pkg/mail"
)

// Service persists contact-form submissions and relays them by email.
type Service interface {
	Submit(ctx context.Context, params SubmitParams) error
}

// SubmitParams is one public contact-form submission.
type SubmitParams struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// Repository persists contact messages.
type Repository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a contact repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, msg *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

type service struct {
	repo   Repository
	mailer mail.Sender
	inbox  string
	logg   *logger.Logger
}

// NewService wires contact-form dependencies. Mailer may be nil; the
// submission is then stored without a relay.
func NewService(repo Repository, mailer mail.Sender, inbox string, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "contact repository required")
	}
	return &service{repo: repo, mailer: mailer, inbox: inbox, logg: logg}, nil
}

// Submit stores the message first; the email relay is best effort and a
// transport failure never fails the submission.
func (s *service) Submit(ctx context.Context, params SubmitParams) error {
	name := strings.TrimSpace(params.Name)
	email := strings.TrimSpace(params.Email)
	body := strings.TrimSpace(params.Message)
	if name == "" || email == "" || body == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name, email, and message are required")
	}

	msg := models.ContactMessage{Name: name, Email: email, Message: body}
	if err := s.repo.Create(ctx, &msg); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store contact message")
	}

	if s.mailer == nil || s.inbox == "" {
		return nil
	}
	relay := mail.Message{
		ToEmail: s.inbox,
		Subject: fmt.Sprintf("Contact form: %s", name),
		Body:    fmt.Sprintf("From: %s <%s>\n\n%s", name, email, body),
	}
	if err := s.mailer.Send(ctx, relay); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "contact_id", msg.ID.String()), "contact relay email failed")
	}
	return nil
}
