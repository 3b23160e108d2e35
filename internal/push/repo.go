package push

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
)

// Repository persists browser push registrations.
type Repository interface {
	Upsert(ctx context.Context, sub *models.PushSubscription) error
	DeleteByEndpointHash(ctx context.Context, userID uuid.UUID, endpointHash string) (int64, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	ListByUsers(ctx context.Context, userIDs []uuid.UUID) ([]models.PushSubscription, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.PushSubscription, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a push registration repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// Upsert registers an endpoint, refreshing the crypto keys when the browser
// re-subscribes with the same endpoint.
func (r *repositoryImpl) Upsert(ctx context.Context, sub *models.PushSubscription) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "endpoint_hash"}},
			DoUpdates: clause.AssignmentColumns([]string{"endpoint", "p256dh", "auth"}),
		}).
		Create(sub).Error
}

func (r *repositoryImpl) DeleteByEndpointHash(ctx context.Context, userID uuid.UUID, endpointHash string) (int64, error) {
	result := r.db.WithContext(ctx).
		Delete(&models.PushSubscription{}, "user_id = ? AND endpoint_hash = ?", userID, endpointHash)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repositoryImpl) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.PushSubscription{}, "id = ?", id).Error
}

func (r *repositoryImpl) ListByUsers(ctx context.Context, userIDs []uuid.UUID) ([]models.PushSubscription, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var subs []models.PushSubscription
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.PushSubscription, error) {
	var subs []models.PushSubscription
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}
