package blog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fitcoachhq/fitcoach-backend/pkg/db"
	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
	pkgerrors "github.com/fitcoachhq/fitcoach-backend/pkg/errors"
	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
	"github.com/fitcoachhq/fitcoach-backend/pkg/mail"
	"github.com/fitcoachhq/fitcoach-backend/pkg/pagination"
)

// ViewBuffer accumulates public view counts outside the hot path. The
// reminder worker flushes the buffered counts into the posts table.
type ViewBuffer interface {
	BufferView(ctx context.Context, postID uuid.UUID) error
}

// ClientEmailLister resolves the recipients for publish announcements.
type ClientEmailLister interface {
	ListByRole(ctx context.Context, role enums.UserRole) ([]models.User, error)
}

// Service manages blog content.
type Service interface {
	List(ctx context.Context, params pagination.Params) (*ListResult, error)
	Latest(ctx context.Context, limit int) ([]models.BlogPost, error)
	ListAll(ctx context.Context) ([]models.BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	Create(ctx context.Context, authorID uuid.UUID, params PostParams) (*models.BlogPost, error)
	Update(ctx context.Context, id uuid.UUID, params PostParams) (*models.BlogPost, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PostParams carries the writable post fields. Slug and read time are
// always derived, never accepted from the caller.
type PostParams struct {
	Title     string  `json:"title" validate:"required"`
	Content   string  `json:"content" validate:"required"`
	Excerpt   *string `json:"excerpt,omitempty"`
	CoverURL  *string `json:"cover_url,omitempty"`
	Published bool    `json:"published"`
}

// ListResult wraps returned posts and the cursor for the next page.
type ListResult struct {
	Items  []models.BlogPost `json:"items"`
	Cursor string            `json:"cursor"`
}

type service struct {
	repo    Repository
	views   ViewBuffer
	mailer  mail.Sender
	clients ClientEmailLister
	logg    *logger.Logger
	now     func() time.Time
}

// ServiceParams bundles blog service dependencies. Views, Mailer, and
// Clients are optional; the matching side effects are skipped when nil.
type ServiceParams struct {
	Repo    Repository
	Views   ViewBuffer
	Mailer  mail.Sender
	Clients ClientEmailLister
	Logger  *logger.Logger
}

// NewService wires blog dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "blog repository required")
	}
	return &service{
		repo:    params.Repo,
		views:   params.Views,
		mailer:  params.Mailer,
		clients: params.Clients,
		logg:    params.Logger,
		now:     time.Now,
	}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*ListResult, error) {
	query := listPostsParams{Limit: params.Limit}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	posts, next, err := s.repo.ListPublished(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list posts")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: posts, Cursor: cursor}, nil
}

func (s *service) Latest(ctx context.Context, limit int) ([]models.BlogPost, error) {
	if limit <= 0 || limit > 10 {
		limit = 3
	}
	posts, err := s.repo.Latest(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list latest posts")
	}
	return posts, nil
}

func (s *service) ListAll(ctx context.Context) ([]models.BlogPost, error) {
	posts, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list posts")
	}
	return posts, nil
}

// GetBySlug serves a published post and buffers the view. A buffering
// failure never fails the read.
func (s *service) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	post, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug), true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find post")
	}
	if post == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
	}

	if s.views != nil {
		if err := s.views.BufferView(ctx, post.ID); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "post_id", post.ID.String()), "buffer view count failed")
		}
	}
	return post, nil
}

func (s *service) Create(ctx context.Context, authorID uuid.UUID, params PostParams) (*models.BlogPost, error) {
	if authorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "author id required")
	}
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	slug := Slugify(title)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title must contain letters or digits")
	}

	post := models.BlogPost{
		AuthorID:        authorID,
		Title:           title,
		Slug:            slug,
		Content:         params.Content,
		Excerpt:         params.Excerpt,
		CoverURL:        params.CoverURL,
		Published:       params.Published,
		ReadTimeMinutes: ReadTimeMinutes(params.Content),
	}
	if params.Published {
		now := s.now().UTC()
		post.PublishedAt = &now
	}

	if err := s.repo.Create(ctx, &post); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a post with this title already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create post")
	}

	if post.Published {
		s.announce(ctx, &post)
	}
	return &post, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, params PostParams) (*models.BlogPost, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "post id required")
	}
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find post")
	}
	if post == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
	}

	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	slug := Slugify(title)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title must contain letters or digits")
	}

	becamePublished := params.Published && !post.Published

	post.Title = title
	post.Slug = slug
	post.Content = params.Content
	post.Excerpt = params.Excerpt
	post.CoverURL = params.CoverURL
	post.Published = params.Published
	post.ReadTimeMinutes = ReadTimeMinutes(params.Content)
	if becamePublished {
		now := s.now().UTC()
		post.PublishedAt = &now
	}

	if err := s.repo.Update(ctx, post); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a post with this title already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update post")
	}

	if becamePublished {
		s.announce(ctx, post)
	}
	return post, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "post id required")
	}
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete post")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
	}
	return nil
}

// announce emails every client about the freshly published post. The post
// is already committed; transport failures are logged and swallowed so the
// publish itself never fails.
func (s *service) announce(ctx context.Context, post *models.BlogPost) {
	if s.mailer == nil || s.clients == nil {
		return
	}
	clients, err := s.clients.ListByRole(ctx, enums.UserRoleClient)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "list announcement recipients failed", err)
		}
		return
	}

	for i := range clients {
		client := clients[i]
		msg := mail.Message{
			ToName:  client.Name,
			ToEmail: client.Email,
			Subject: fmt.Sprintf("New post: %s", post.Title),
			Body:    fmt.Sprintf("Hi %s,\n\nWe just published \"%s\".\n\nRead it here: /blog/%s", client.Name, post.Title, post.Slug),
		}
		if err := s.mailer.Send(ctx, msg); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "recipient", client.Email), "announcement email failed")
		}
	}
}
