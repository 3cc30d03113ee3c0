package service

import (
	"context"
	"errors"

	"notifyhub/internal/models"
	"notifyhub/internal/repository"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ItemService manages user content and emits mention and like notifications for it.
type ItemService struct {
	repo     *repository.ItemRepository
	notifSvc *NotificationService
}

func NewItemService(repo *repository.ItemRepository, notifSvc *NotificationService) *ItemService {
	return &ItemService{repo: repo, notifSvc: notifSvc}
}

type ItemPage struct {
	Data  []models.Item `json:"data"`
	Count int64         `json:"count"`
}

func (s *ItemService) Create(ctx context.Context, owner *models.User, title, description string) (*models.Item, error) {
	it := &models.Item{OwnerID: owner.ID, Title: title, Description: description}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	s.notifyMentions(ctx, it, owner)
	return it, nil
}

// List returns the caller's items; superusers see everyone's.
func (s *ItemService) List(ctx context.Context, user *models.User, skip, limit int) (*ItemPage, error) {
	skip, limit = normalizePage(skip, limit)
	ownerID := user.ID
	if user.IsSuperuser {
		ownerID = uuid.Nil
	}
	list, total, err := s.repo.List(ctx, ownerID, skip, limit)
	if err != nil {
		return nil, err
	}
	return &ItemPage{Data: list, Count: total}, nil
}

func (s *ItemService) Get(ctx context.Context, user *models.User, id uuid.UUID) (*models.Item, error) {
	it, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsSuperuser && it.OwnerID != user.ID {
		return nil, ErrForbidden
	}
	return it, nil
}

// Update edits title and/or description (nil leaves a field unchanged) and re-runs mention
// notifications on the new text.
func (s *ItemService) Update(ctx context.Context, user *models.User, id uuid.UUID, title, description *string) (*models.Item, error) {
	it, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if title != nil {
		it.Title = *title
	}
	if description != nil {
		it.Description = *description
	}
	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	s.notifyMentions(ctx, it, user)
	return it, nil
}

func (s *ItemService) Delete(ctx context.Context, user *models.User, id uuid.UUID) error {
	if _, err := s.Get(ctx, user, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Like records the like and notifies the owner the first time. It returns the item's like count.
func (s *ItemService) Like(ctx context.Context, user *models.User, id uuid.UUID) (int64, error) {
	it, err := s.find(ctx, id)
	if err != nil {
		return 0, err
	}
	created, err := s.repo.AddLike(ctx, it.ID, user.ID)
	if err != nil {
		return 0, err
	}
	if created {
		if _, err := s.notifSvc.NotifyLike(ctx, it.OwnerID, user, it.ID); err != nil {
			log.WithError(err).WithField("item_id", it.ID).Error("[items] like notification failed")
		}
	}
	return s.repo.CountLikes(ctx, it.ID)
}

func (s *ItemService) find(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return it, nil
}

// notifyMentions runs after the item is committed, so a failure is logged rather than returned.
func (s *ItemService) notifyMentions(ctx context.Context, it *models.Item, actor *models.User) {
	if _, err := s.notifSvc.CreateMentionNotifications(ctx, it.MentionText(), actor, it.ID); err != nil {
		log.WithError(err).WithField("item_id", it.ID).Error("[items] mention notifications failed")
	}
}
