package service

import (
	"context"
	"errors"

	"notifyhub/internal/domain"
	"notifyhub/internal/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NotificationStore is the persistence the service needs; *repository.NotificationRepository implements it.
type NotificationStore interface {
	CreateBatch(ctx context.Context, list []models.Notification) ([]models.Notification, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Notification, error)
	Count(ctx context.Context, userID uuid.UUID, onlyUnread bool) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	Update(ctx context.Context, n *models.Notification) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserLookup resolves users; *repository.UserRepository implements it.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListByEmails(ctx context.Context, emails []string) ([]models.User, error)
}

// Pusher delivers live payloads to a user's open connections; *ws.Hub implements it.
type Pusher interface {
	SendToUser(userID uuid.UUID, payload interface{}) int
}

// MobilePusher sends a device push; *FCMService implements it and tolerates a nil receiver.
type MobilePusher interface {
	SendToUser(ctx context.Context, fcmToken, notifType, title, body string, data map[string]interface{}) error
}

type NotificationService struct {
	repo   NotificationStore
	users  UserLookup
	hub    Pusher
	mobile MobilePusher
}

func NewNotificationService(repo NotificationStore, users UserLookup, hub Pusher, mobile MobilePusher) *NotificationService {
	return &NotificationService{repo: repo, users: users, hub: hub, mobile: mobile}
}

// NotificationPage is one page of a user's notifications with the totals the bell badge needs.
type NotificationPage struct {
	Data        []models.Notification `json:"data"`
	Count       int64                 `json:"count"`
	UnreadCount int64                 `json:"unread_count"`
}

// CreateMentionNotifications notifies every registered user mentioned in text, except the mentioner.
// Unknown addresses are ignored. The records are saved in one batch, then pushed live best effort.
func (s *NotificationService) CreateMentionNotifications(ctx context.Context, text string, mentioner *models.User, referenceID uuid.UUID) ([]models.Notification, error) {
	emails := ParseMentions(text)
	if len(emails) == 0 {
		return []models.Notification{}, nil
	}
	users, err := s.users.ListByEmails(ctx, emails)
	if err != nil {
		return nil, err
	}

	message := mentioner.DisplayName() + " mentioned you"
	tokens := make(map[uuid.UUID]string, len(users))
	list := make([]models.Notification, 0, len(users))
	for _, u := range users {
		if u.ID == mentioner.ID {
			continue
		}
		ref := referenceID
		list = append(list, models.Notification{
			UserID:      u.ID,
			Type:        domain.NotificationTypeMention,
			Message:     message,
			ReferenceID: &ref,
		})
		tokens[u.ID] = u.FCMToken
	}
	if len(list) == 0 {
		return list, nil
	}

	saved, err := s.repo.CreateBatch(ctx, list)
	if err != nil {
		return nil, err
	}
	for i := range saved {
		s.deliver(ctx, &saved[i], tokens[saved[i].UserID])
	}
	log.WithFields(log.Fields{"mentioner": mentioner.ID, "reference_id": referenceID, "count": len(saved)}).
		Info("[notifications] mention notifications created")
	return saved, nil
}

// NotifyLike tells ownerID that liker liked the item. Liking your own item notifies nobody and
// returns nil.
func (s *NotificationService) NotifyLike(ctx context.Context, ownerID uuid.UUID, liker *models.User, itemID uuid.UUID) (*models.Notification, error) {
	if ownerID == liker.ID {
		return nil, nil
	}
	ref := itemID
	saved, err := s.repo.CreateBatch(ctx, []models.Notification{{
		UserID:      ownerID,
		Type:        domain.NotificationTypeLike,
		Message:     liker.DisplayName() + " liked your item",
		ReferenceID: &ref,
	}})
	if err != nil {
		return nil, err
	}
	n := &saved[0]

	var token string
	if owner, err := s.users.GetByID(ctx, ownerID); err == nil {
		token = owner.FCMToken
	}
	s.deliver(ctx, n, token)
	return n, nil
}

// deliver pushes n live and, when the user registered a device, to FCM. Failures are logged only;
// the stored row stays authoritative.
func (s *NotificationService) deliver(ctx context.Context, n *models.Notification, fcmToken string) {
	if s.hub != nil {
		s.hub.SendToUser(n.UserID, n.Payload())
	}
	if s.mobile == nil || fcmToken == "" {
		return
	}
	data := map[string]interface{}{"notification_id": n.ID.String()}
	if n.ReferenceID != nil {
		data["reference_id"] = n.ReferenceID.String()
	}
	if err := s.mobile.SendToUser(ctx, fcmToken, n.Type, "New notification", n.Message, data); err != nil {
		log.WithError(err).WithField("user_id", n.UserID).Warn("[notifications] mobile push failed")
	}
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, skip, limit int) (*NotificationPage, error) {
	skip, limit = normalizePage(skip, limit)
	total, err := s.repo.Count(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.Count(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.ListByUserID(ctx, userID, skip, limit)
	if err != nil {
		return nil, err
	}
	return &NotificationPage{Data: list, Count: total, UnreadCount: unread}, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.Count(ctx, userID, true)
}

// Get returns the notification if userID owns it.
func (s *NotificationService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if n.UserID != userID {
		return nil, ErrForbidden
	}
	return n, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) (*models.Notification, error) {
	n, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}
	n.IsRead = true
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func normalizePage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = domain.DefaultPageLimit
	}
	if limit > domain.MaxPageLimit {
		limit = domain.MaxPageLimit
	}
	return skip, limit
}
