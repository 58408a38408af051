package models

import (
	"time"
)

const NotificationTypeGeneral = "general"

type Notification struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	RecipientID uint       `gorm:"not null;index:idx_notifications_recipient_read,priority:1" json:"recipient_id"`
	Recipient   User       `gorm:"foreignKey:RecipientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Type        string     `gorm:"type:varchar(50);not null;default:'general'" json:"type"`
	Title       string     `gorm:"type:varchar(200);not null" json:"title"`
	Message     string     `gorm:"type:text;not null" json:"message"`
	Link        *string    `gorm:"type:varchar(255)" json:"link,omitempty"`
	IsRead      bool       `gorm:"not null;default:false;index:idx_notifications_recipient_read,priority:2" json:"is_read"`
	ReadAt      *time.Time `json:"read_at"`
	CreatedAt   time.Time  `gorm:"not null;index" json:"created_at"`
}
