package repositories

import (
	"context"

	"fileshare/models"

	"gorm.io/gorm"
)

type GormUserSettingsRepository struct {
	db *gorm.DB
}

func NewGormUserSettingsRepository(db *gorm.DB) *GormUserSettingsRepository {
	return &GormUserSettingsRepository{db: db}
}

func (r *GormUserSettingsRepository) GetByUserID(_ context.Context, tx *gorm.DB, userID uint) (models.UserSettings, error) {
	var settings models.UserSettings
	err := useTx(r.db, tx).Where("user_id = ?", userID).First(&settings).Error
	return settings, err
}

func (r *GormUserSettingsRepository) Create(_ context.Context, tx *gorm.DB, settings *models.UserSettings) error {
	return useTx(r.db, tx).Create(settings).Error
}

func (r *GormUserSettingsRepository) UpdateByUserID(_ context.Context, tx *gorm.DB, userID uint, updates map[string]interface{}) error {
	return useTx(r.db, tx).Model(&models.UserSettings{}).
		Where("user_id = ?", userID).
		Updates(updates).Error
}
