package models

import (
	"time"
)

const (
	NotificationFileShared      = "file_shared"
	NotificationAccessRequested = "access_requested"
	NotificationAccessApproved  = "access_approved"
	NotificationAccessRejected  = "access_rejected"
)

// Notification is immutable once written except for the read flag.
type Notification struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Type      string    `gorm:"type:varchar(50);not null" json:"type"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	Read      bool      `gorm:"default:false" json:"read"`
	Metadata  string    `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
