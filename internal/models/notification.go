package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notification struct {
	ID          uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:char(36);not null;index:idx_notifications_user_read" json:"user_id"`
	Type        string     `gorm:"size:20;not null" json:"type"`
	Message     string     `gorm:"size:500;not null" json:"message"`
	ReferenceID *uuid.UUID `gorm:"type:char(36)" json:"reference_id"`
	IsRead      bool       `gorm:"not null;default:false;index:idx_notifications_user_read" json:"is_read"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(*gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// PushPayload is the JSON frame sent over the notification WebSocket.
type PushPayload struct {
	Type        string     `json:"type"`
	Message     string     `json:"message"`
	ReferenceID *uuid.UUID `json:"reference_id"`
}

func (n *Notification) Payload() PushPayload {
	return PushPayload{Type: n.Type, Message: n.Message, ReferenceID: n.ReferenceID}
}
