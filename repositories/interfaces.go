package repositories

import (
	"context"

	"fileshare/models"

	"gorm.io/gorm"
)

type TxManager interface {
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type UserRepository interface {
	CountByUsername(ctx context.Context, username string) (int64, error)
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (models.User, error)
	GetByID(ctx context.Context, tx *gorm.DB, userID uint) (models.User, error)
}

type SearchFilesInput struct {
	RequesterID uint
	Pattern     string
	Limit       int
}

type FileRepository interface {
	Create(ctx context.Context, tx *gorm.DB, file *models.File) error
	GetByID(ctx context.Context, tx *gorm.DB, fileID uint) (models.File, error)
	GetByIDAndOwner(ctx context.Context, tx *gorm.DB, fileID uint, ownerID uint) (models.File, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uint, limit int) ([]models.File, error)
	UpdateByIDAndOwner(ctx context.Context, tx *gorm.DB, fileID uint, ownerID uint, updates map[string]interface{}) error
	DeleteByIDAndOwner(ctx context.Context, tx *gorm.DB, fileID uint, ownerID uint) error
	SearchOwned(ctx context.Context, tx *gorm.DB, in SearchFilesInput) ([]models.File, error)
	SearchShared(ctx context.Context, tx *gorm.DB, in SearchFilesInput) ([]models.File, error)
}

type FileKeyRepository interface {
	Create(ctx context.Context, tx *gorm.DB, key *models.FileKey) error
	GetByFileID(ctx context.Context, tx *gorm.DB, fileID uint) (models.FileKey, error)
	DeleteByFileID(ctx context.Context, tx *gorm.DB, fileID uint) error
}

type AccessRequestRepository interface {
	Create(ctx context.Context, tx *gorm.DB, request *models.AccessRequest) error
	GetByID(ctx context.Context, tx *gorm.DB, requestID uint) (models.AccessRequest, error)
	FindApproved(ctx context.Context, tx *gorm.DB, fileID uint, requesterID uint) (models.AccessRequest, error)
	ListPendingByFile(ctx context.Context, tx *gorm.DB, fileID uint) ([]models.AccessRequest, error)
	ListByRequester(ctx context.Context, tx *gorm.DB, requesterID uint) ([]models.AccessRequest, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uint) ([]models.AccessRequest, error)
	// TransitionFromPending applies updates to the request only while it is
	// still pending and reports how many rows changed; zero means the
	// request already reached a terminal state.
	TransitionFromPending(ctx context.Context, tx *gorm.DB, requestID uint, updates map[string]interface{}) (int64, error)
	DeleteByFileID(ctx context.Context, tx *gorm.DB, fileID uint) error
}

type ListNotificationsInput struct {
	UserID uint
	Limit  int
}

type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error
	ListByUser(ctx context.Context, tx *gorm.DB, in ListNotificationsInput) ([]models.Notification, error)
	MarkReadByIDAndUser(ctx context.Context, tx *gorm.DB, notificationID uint, userID uint) (int64, error)
	DeleteByIDAndUser(ctx context.Context, tx *gorm.DB, notificationID uint, userID uint) (int64, error)
}

type UserSettingsRepository interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (models.UserSettings, error)
	Create(ctx context.Context, tx *gorm.DB, settings *models.UserSettings) error
	UpdateByUserID(ctx context.Context, tx *gorm.DB, userID uint, updates map[string]interface{}) error
}

// NotificationStream publishes stored notifications to a realtime channel so
// a push tier can deliver them without polling the table. Publishing is
// best-effort.
type NotificationStream interface {
	Publish(ctx context.Context, userID uint, payload []byte) error
}

type Container struct {
	TxManager          TxManager
	Users              UserRepository
	Files              FileRepository
	FileKeys           FileKeyRepository
	AccessRequests     AccessRequestRepository
	Notifications      NotificationRepository
	Settings           UserSettingsRepository
	NotificationStream NotificationStream
}
