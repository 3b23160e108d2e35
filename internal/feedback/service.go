package feedback

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
	pkgerrors "github.com/fitcoachhq/fitcoach-backend/pkg/errors"
)

// Service manages testimonial submission and moderation.
type Service interface {
	Submit(ctx context.Context, params SubmitParams) (*models.Feedback, error)
	ListPublic(ctx context.Context) ([]models.Feedback, error)
	ListAll(ctx context.Context) ([]models.Feedback, error)
	Moderate(ctx context.Context, id uuid.UUID, params ModerateParams) (*models.Feedback, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubmitParams is a public testimonial submission. New entries always start
// unapproved and hidden.
type SubmitParams struct {
	AuthorName  string  `json:"author_name" validate:"required"`
	AuthorEmail *string `json:"author_email,omitempty" validate:"omitempty,email"`
	Content     string  `json:"content" validate:"required"`
	Rating      *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
}

// ModerateParams toggles the moderation flags; nil fields are left as is.
type ModerateParams struct {
	IsApproved *bool `json:"is_approved,omitempty"`
	IsVisible  *bool `json:"is_visible,omitempty"`
}

type service struct {
	repo Repository
}

// NewService wires feedback dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "feedback repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Submit(ctx context.Context, params SubmitParams) (*models.Feedback, error) {
	name := strings.TrimSpace(params.AuthorName)
	content := strings.TrimSpace(params.Content)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "author name required")
	}
	if content == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content required")
	}
	if params.Rating != nil && (*params.Rating < 1 || *params.Rating > 5) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	fb := models.Feedback{
		AuthorName:  name,
		AuthorEmail: params.AuthorEmail,
		Content:     content,
		Rating:      params.Rating,
	}
	if err := s.repo.Create(ctx, &fb); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create feedback")
	}
	return &fb, nil
}

func (s *service) ListPublic(ctx context.Context) ([]models.Feedback, error) {
	items, err := s.repo.ListPublic(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list feedback")
	}
	return items, nil
}

func (s *service) ListAll(ctx context.Context) ([]models.Feedback, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list feedback")
	}
	return items, nil
}

func (s *service) Moderate(ctx context.Context, id uuid.UUID, params ModerateParams) (*models.Feedback, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "feedback id required")
	}
	fb, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find feedback")
	}
	if fb == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "feedback not found")
	}

	if params.IsApproved != nil {
		fb.IsApproved = *params.IsApproved
	}
	if params.IsVisible != nil {
		fb.IsVisible = *params.IsVisible
	}

	if err := s.repo.Update(ctx, fb); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update feedback")
	}
	return fb, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "feedback id required")
	}
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete feedback")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "feedback not found")
	}
	return nil
}
