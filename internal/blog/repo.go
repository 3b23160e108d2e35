package blog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
	"github.com/fitcoachhq/fitcoach-backend/pkg/pagination"
)

// Repository exposes persistence helpers for blog posts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListPublished(ctx context.Context, params listPostsParams) ([]models.BlogPost, *pagination.Cursor, error)
	Latest(ctx context.Context, limit int) ([]models.BlogPost, error)
	ListAll(ctx context.Context) ([]models.BlogPost, error)
	FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.BlogPost, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	Create(ctx context.Context, post *models.BlogPost) error
	Update(ctx context.Context, post *models.BlogPost) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	AddViews(ctx context.Context, id uuid.UUID, delta int64) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a blog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listPostsParams struct {
	Limit  int
	Cursor *pagination.Cursor
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) ListPublished(ctx context.Context, params listPostsParams) ([]models.BlogPost, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.BlogPost{}).Where("published")
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var posts []models.BlogPost
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&posts).Error; err != nil {
		return nil, nil, err
	}

	if len(posts) > normalized {
		next := posts[normalized]
		posts = posts[:normalized]
		return posts, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return posts, nil, nil
}

func (r *repositoryImpl) Latest(ctx context.Context, limit int) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	err := r.db.WithContext(ctx).
		Where("published").
		Order("published_at DESC NULLS LAST, created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *repositoryImpl) ListAll(ctx context.Context) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&posts).Error
	return posts, err
}

func (r *repositoryImpl) FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.BlogPost, error) {
	query := r.db.WithContext(ctx).Where("slug = ?", slug)
	if publishedOnly {
		query = query.Where("published")
	}
	var post models.BlogPost
	err := query.First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (r *repositoryImpl) Create(ctx context.Context, post *models.BlogPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *repositoryImpl) Update(ctx context.Context, post *models.BlogPost) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.BlogPost{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AddViews folds buffered view counts into the durable counter.
func (r *repositoryImpl) AddViews(ctx context.Context, id uuid.UUID, delta int64) error {
	return r.db.WithContext(ctx).
		Model(&models.BlogPost{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", delta)).Error
}
