package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item is user content; its title and description may carry @mentions.
type Item struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	OwnerID     uuid.UUID `gorm:"type:char(36);not null;index" json:"owner_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"size:2000" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Owner User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Item) TableName() string {
	return "items"
}

func (i *Item) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// MentionText is the text scanned for mentions.
func (i *Item) MentionText() string {
	if i.Description == "" {
		return i.Title
	}
	return i.Title + "\n" + i.Description
}

type ItemLike struct {
	ItemID    uuid.UUID `gorm:"type:char(36);primaryKey" json:"item_id"`
	UserID    uuid.UUID `gorm:"type:char(36);primaryKey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	Item Item `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"-"`
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ItemLike) TableName() string {
	return "item_likes"
}
