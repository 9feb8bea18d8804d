package models

import (
	"time"
)

type File struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(255);not null;index" json:"name"`
	StoragePath string `gorm:"type:varchar(1000);not null" json:"-"`
	Size        int64  `gorm:"not null" json:"size"`
	MimeType    string `gorm:"type:varchar(100)" json:"mime_type"`
	OwnerID     uint   `gorm:"not null;index" json:"owner_id"`
	Shared      bool   `gorm:"default:false;index" json:"shared"`
	IsEncrypted bool   `gorm:"default:false" json:"is_encrypted"`
	// OriginalType and EncryptionMetadata are populated only for encrypted
	// files, where MimeType describes the ciphertext envelope instead.
	OriginalType       string    `gorm:"type:varchar(100)" json:"original_type,omitempty"`
	EncryptionMetadata string    `gorm:"type:text" json:"encryption_metadata,omitempty"`
	CreatedAt          time.Time `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
