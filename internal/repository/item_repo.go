package repository

import (
	"context"

	"notifyhub/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) Create(ctx context.Context, it *models.Item) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(it).Error, "unable to create item")
}

func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var it models.Item
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&it).Error
	if err != nil {
		return nil, errors.Wrapf(err, "unable to get item %s", id)
	}
	return &it, nil
}

// List returns a page of items; ownerID == uuid.Nil lists every owner's items.
func (r *ItemRepository) List(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]models.Item, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Item{})
	if ownerID != uuid.Nil {
		q = q.Where("owner_id = ?", ownerID)
	}
	// Count and Find share the filter, so the chain must be reusable.
	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "unable to count items")
	}
	list := []models.Item{}
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error; err != nil {
		return nil, 0, errors.Wrap(err, "unable to list items")
	}
	return list, total, nil
}

func (r *ItemRepository) Update(ctx context.Context, it *models.Item) error {
	err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", it.ID).
		Updates(map[string]interface{}{"title": it.Title, "description": it.Description}).Error
	return errors.Wrap(err, "unable to update item")
}

func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Delete(&models.ItemLike{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Item{}).Error
	})
	return errors.Wrap(err, "unable to delete item")
}

// AddLike records that userID likes itemID. created is false when the like already existed.
func (r *ItemRepository) AddLike(ctx context.Context, itemID, userID uuid.UUID) (created bool, err error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ItemLike{ItemID: itemID, UserID: userID})
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "unable to like item")
	}
	return res.RowsAffected == 1, nil
}

func (r *ItemRepository) CountLikes(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.ItemLike{}).Where("item_id = ?", itemID).Count(&total).Error
	return total, errors.Wrap(err, "unable to count likes")
}
