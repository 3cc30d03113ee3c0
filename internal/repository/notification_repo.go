package repository

import (
	"context"

	"notifyhub/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateBatch inserts all notifications in one transaction and fills in their ids and timestamps.
func (r *NotificationRepository) CreateBatch(ctx context.Context, list []models.Notification) ([]models.Notification, error) {
	if len(list) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&list).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to save notifications")
	}
	return list, nil
}

// ListByUserID returns a page of the user's notifications, newest first.
func (r *NotificationRepository) ListByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Notification, error) {
	list := []models.Notification{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, errors.Wrap(err, "unable to list notifications")
	}
	return list, nil
}

func (r *NotificationRepository) Count(ctx context.Context, userID uuid.UUID, onlyUnread bool) (int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if onlyUnread {
		q = q.Where("is_read = ?", false)
	}
	if err := q.Count(&total).Error; err != nil {
		return 0, errors.Wrap(err, "unable to count notifications")
	}
	return total, nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	var n models.Notification
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&n).Error
	if err != nil {
		return nil, errors.Wrapf(err, "unable to get notification %s", id)
	}
	return &n, nil
}

// Update persists the mutable fields of n. Ownership is never rewritten.
func (r *NotificationRepository) Update(ctx context.Context, n *models.Notification) error {
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", n.ID).
		Updates(map[string]interface{}{"is_read": n.IsRead, "message": n.Message}).Error
	return errors.Wrap(err, "unable to update notification")
}

// MarkAllRead flags every unread notification of the user as read and returns how many changed.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "unable to mark notifications as read")
	}
	return res.RowsAffected, nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Notification{}).Error
	return errors.Wrap(err, "unable to delete notification")
}
