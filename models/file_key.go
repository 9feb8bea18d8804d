package models

import (
	"time"
)

// FileKey holds the envelope-encrypted symmetric key protecting one file's
// bytes. The ciphertext is opaque to this service. The unique index on
// file_id enforces the one-key-per-file invariant at the store level.
type FileKey struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FileID       uint      `gorm:"uniqueIndex;not null" json:"file_id"`
	EncryptedKey string    `gorm:"type:text;not null" json:"encrypted_key"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
