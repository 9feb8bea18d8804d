package models

import (
	"time"
)

// UserSettings is read by the policy evaluator and the request workflow as
// configuration; neither mutates it.
type UserSettings struct {
	ID                       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID                   uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	PrivateFilesByDefault    bool      `gorm:"default:true" json:"private_files_by_default"`
	RequireApprovalForAccess bool      `gorm:"default:true" json:"require_approval_for_access"`
	NotifyOnShare            bool      `gorm:"default:true" json:"notify_on_share"`
	NotifyOnAccessRequest    bool      `gorm:"default:true" json:"notify_on_access_request"`
	NotifyOnAccessResponse   bool      `gorm:"default:true" json:"notify_on_access_response"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// DefaultUserSettings returns the settings applied to a user that has never
// saved any.
func DefaultUserSettings(userID uint) UserSettings {
	return UserSettings{
		UserID:                   userID,
		PrivateFilesByDefault:    true,
		RequireApprovalForAccess: true,
		NotifyOnShare:            true,
		NotifyOnAccessRequest:    true,
		NotifyOnAccessResponse:   true,
	}
}
