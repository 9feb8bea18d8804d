package models

import (
	"time"
)

const (
	AccessRequestPending   = "pending"
	AccessRequestApproved  = "approved"
	AccessRequestRejected  = "rejected"
	AccessRequestCancelled = "cancelled"
)

// AccessRequest is a requester's petition to read a non-shared file.
//
// Active is 1 while the request is pending and NULL once it reaches a
// terminal state. The unique index over (file_id, requester_id, active)
// therefore admits at most one pending request per pair while letting any
// number of terminal rows accumulate: NULLs never collide in the index.
type AccessRequest struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	FileID          uint       `gorm:"not null;index;uniqueIndex:uniq_pending_request" json:"file_id"`
	RequesterID     uint       `gorm:"not null;index;uniqueIndex:uniq_pending_request" json:"requester_id"`
	OwnerID         uint       `gorm:"not null;index" json:"owner_id"`
	Status          string     `gorm:"type:varchar(20);not null;default:pending" json:"status"`
	Active          *uint8     `gorm:"uniqueIndex:uniq_pending_request" json:"-"`
	Message         string     `gorm:"type:text;not null" json:"message"`
	ResponseMessage *string    `gorm:"type:text" json:"response_message,omitempty"`
	RespondedAt     *time.Time `json:"responded_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (r *AccessRequest) IsPending() bool {
	return r.Status == AccessRequestPending
}

func (r *AccessRequest) IsTerminal() bool {
	return r.Status == AccessRequestApproved ||
		r.Status == AccessRequestRejected ||
		r.Status == AccessRequestCancelled
}

// PendingActive is the marker value stored in Active for pending rows.
func PendingActive() *uint8 {
	one := uint8(1)
	return &one
}
