package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
	"github.com/fitcoachhq/fitcoach-backend/pkg/pagination"
)

// Repository exposes persistence helpers for notifications.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateMany(ctx context.Context, notifications []models.Notification) error
	List(ctx context.Context, params listNotificationsParams) ([]models.Notification, *pagination.Cursor, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
	DeleteByTag(ctx context.Context, tag string) (int64, error)
}

type listNotificationsParams struct {
	UserID     uuid.UUID
	Limit      int
	Cursor     *pagination.Cursor
	UnreadOnly bool
}

// notificationMarkResult distinguishes "already read" from "not yours /
// not there" so the service can pick between 200 and 404.
type notificationMarkResult struct {
	Updated bool
	Found   bool
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a notifications repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

// CreateMany inserts one row per recipient in a single statement.
// Broadcasts fan out here, so the batch can be large.
func (r *repositoryImpl) CreateMany(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

func (r *repositoryImpl) List(ctx context.Context, params listNotificationsParams) ([]models.Notification, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ?", params.UserID)
	if params.UnreadOnly {
		query = query.Where("read_at IS NULL")
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	// Fetch one row past the page to learn whether a next page exists.
	var rows []models.Notification
	err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	pageSize := pagination.NormalizeLimit(params.Limit)
	if len(rows) <= pageSize {
		return rows, nil, nil
	}
	next := rows[pageSize]
	return rows[:pageSize], &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
}

// MarkRead stamps read_at on the user's own unread notification. When
// nothing was updated it checks whether the row exists at all, since an
// idempotent re-read and a foreign id must produce different answers.
func (r *repositoryImpl) MarkRead(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
	update := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", notificationID, userID).
		UpdateColumn("read_at", now)
	if update.Error != nil {
		return notificationMarkResult{}, update.Error
	}
	if update.RowsAffected > 0 {
		return notificationMarkResult{Updated: true, Found: true}, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Count(&count).Error
	if err != nil {
		return notificationMarkResult{}, err
	}
	return notificationMarkResult{Found: count > 0}, nil
}

func (r *repositoryImpl) MarkAllRead(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		UpdateColumn("read_at", now)
	return result.RowsAffected, result.Error
}

// DeleteByTag removes every recipient's copy of a tagged broadcast.
func (r *repositoryImpl) DeleteByTag(ctx context.Context, tag string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Notification{}, "tag = ?", tag)
	return result.RowsAffected, result.Error
}
