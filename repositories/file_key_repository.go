package repositories

import (
	"context"

	"fileshare/models"

	"gorm.io/gorm"
)

type GormFileKeyRepository struct {
	db *gorm.DB
}

func NewGormFileKeyRepository(db *gorm.DB) *GormFileKeyRepository {
	return &GormFileKeyRepository{db: db}
}

// Create relies on the unique index on file_id: a second key for the same
// file surfaces as gorm.ErrDuplicatedKey.
func (r *GormFileKeyRepository) Create(_ context.Context, tx *gorm.DB, key *models.FileKey) error {
	return useTx(r.db, tx).Create(key).Error
}

func (r *GormFileKeyRepository) GetByFileID(_ context.Context, tx *gorm.DB, fileID uint) (models.FileKey, error) {
	var key models.FileKey
	err := useTx(r.db, tx).Where("file_id = ?", fileID).First(&key).Error
	return key, err
}

func (r *GormFileKeyRepository) DeleteByFileID(_ context.Context, tx *gorm.DB, fileID uint) error {
	return useTx(r.db, tx).Where("file_id = ?", fileID).Delete(&models.FileKey{}).Error
}
