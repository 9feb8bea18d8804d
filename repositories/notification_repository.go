package repositories

import (
	"context"

	"fileshare/models"

	"gorm.io/gorm"
)

type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) Create(_ context.Context, tx *gorm.DB, notification *models.Notification) error {
	return useTx(r.db, tx).Create(notification).Error
}

func (r *GormNotificationRepository) ListByUser(_ context.Context, tx *gorm.DB, in ListNotificationsInput) ([]models.Notification, error) {
	var notifications []models.Notification
	query := useTx(r.db, tx).
		Where("user_id = ?", in.UserID).
		Order("created_at DESC, id ASC")
	if in.Limit > 0 {
		query = query.Limit(in.Limit)
	}
	err := query.Find(&notifications).Error
	return notifications, err
}

func (r *GormNotificationRepository) MarkReadByIDAndUser(_ context.Context, tx *gorm.DB, notificationID uint, userID uint) (int64, error) {
	result := useTx(r.db, tx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	return result.RowsAffected, result.Error
}

func (r *GormNotificationRepository) DeleteByIDAndUser(_ context.Context, tx *gorm.DB, notificationID uint, userID uint) (int64, error) {
	result := useTx(r.db, tx).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
