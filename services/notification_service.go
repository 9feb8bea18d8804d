package services

import (
	"context"
	"encoding/json"
	"errors"

	"fileshare/config"
	"fileshare/logger"
	"fileshare/models"
	"fileshare/repositories"

	"gorm.io/gorm"
)

// Notifier is the dispatcher side of notifications: workflow services fire
// events through it. Dispatch is fire-and-forget; a delivery failure is
// logged and never fails the triggering operation.
type Notifier interface {
	Dispatch(ctx context.Context, userID uint, eventType string, title string, message string, metadata map[string]interface{})
}

type NotificationService interface {
	Notifier
	List(ctx context.Context, userID uint) ([]models.Notification, error)
	MarkRead(ctx context.Context, notificationID uint, userID uint) error
	Delete(ctx context.Context, notificationID uint, userID uint) error
}

type notificationService struct {
	notifications repositories.NotificationRepository
	settings      repositories.UserSettingsRepository
	stream        repositories.NotificationStream
}

func NewNotificationService(
	notifications repositories.NotificationRepository,
	settings repositories.UserSettingsRepository,
	stream repositories.NotificationStream,
) NotificationService {
	return &notificationService{notifications: notifications, settings: settings, stream: stream}
}

// muted reports whether the recipient turned off this event type. A missing
// settings row means defaults, where every toggle is on.
func (s *notificationService) muted(ctx context.Context, userID uint, eventType string) bool {
	settings, err := s.settings.GetByUserID(ctx, nil, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warnf("failed to load notification settings for user %d: %v", userID, err)
		}
		return false
	}

	switch eventType {
	case models.NotificationFileShared:
		return !settings.NotifyOnShare
	case models.NotificationAccessRequested:
		return !settings.NotifyOnAccessRequest
	case models.NotificationAccessApproved, models.NotificationAccessRejected:
		return !settings.NotifyOnAccessResponse
	}
	return false
}

func (s *notificationService) Dispatch(ctx context.Context, userID uint, eventType string, title string, message string, metadata map[string]interface{}) {
	if s.muted(ctx, userID, eventType) {
		return
	}

	var metadataJSON string
	if metadata != nil {
		data, err := json.Marshal(metadata)
		if err != nil {
			logger.Warnf("failed to encode notification metadata: %v", err)
		} else {
			metadataJSON = string(data)
		}
	}

	notification := models.Notification{
		UserID:   userID,
		Type:     eventType,
		Title:    title,
		Message:  message,
		Metadata: metadataJSON,
	}
	if err := s.notifications.Create(ctx, nil, &notification); err != nil {
		logger.Warnf("failed to store %s notification for user %d: %v", eventType, userID, err)
		return
	}

	if s.stream != nil {
		payload, err := json.Marshal(notification)
		if err == nil {
			err = s.stream.Publish(ctx, userID, payload)
		}
		if err != nil {
			logger.Warnf("failed to publish notification %d: %v", notification.ID, err)
		}
	}
}

func (s *notificationService) List(ctx context.Context, userID uint) ([]models.Notification, error) {
	limit := 0
	if config.AppConfig != nil {
		limit = config.AppConfig.Notifications.ListLimit
	}

	list, err := s.notifications.ListByUser(ctx, nil, repositories.ListNotificationsInput{
		UserID: userID,
		Limit:  limit,
	})
	if err != nil {
		return nil, newStorageError("failed to list notifications", err)
	}
	return list, nil
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID uint, userID uint) error {
	affected, err := s.notifications.MarkReadByIDAndUser(ctx, nil, notificationID, userID)
	if err != nil {
		return newStorageError("failed to update notification", err)
	}
	if affected == 0 {
		// Covers both a missing notification and someone else's; the two
		// must be indistinguishable to the caller.
		return newNotFoundError("notification not found")
	}
	return nil
}

func (s *notificationService) Delete(ctx context.Context, notificationID uint, userID uint) error {
	affected, err := s.notifications.DeleteByIDAndUser(ctx, nil, notificationID, userID)
	if err != nil {
		return newStorageError("failed to delete notification", err)
	}
	if affected == 0 {
		return newNotFoundError("notification not found")
	}
	return nil
}
