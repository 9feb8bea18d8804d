package repositories

import (
	"context"

	"fileshare/models"

	"gorm.io/gorm"
)

type GormFileRepository struct {
	db *gorm.DB
}

func NewGormFileRepository(db *gorm.DB) *GormFileRepository {
	return &GormFileRepository{db: db}
}

func (r *GormFileRepository) Create(_ context.Context, tx *gorm.DB, file *models.File) error {
	return useTx(r.db, tx).Create(file).Error
}

func (r *GormFileRepository) GetByID(_ context.Context, tx *gorm.DB, fileID uint) (models.File, error) {
	var file models.File
	err := useTx(r.db, tx).First(&file, fileID).Error
	return file, err
}

func (r *GormFileRepository) GetByIDAndOwner(_ context.Context, tx *gorm.DB, fileID uint, ownerID uint) (models.File, error) {
	var file models.File
	err := useTx(r.db, tx).Where("id = ? AND owner_id = ?", fileID, ownerID).First(&file).Error
	return file, err
}

func (r *GormFileRepository) ListByOwner(_ context.Context, tx *gorm.DB, ownerID uint, limit int) ([]models.File, error) {
	var files []models.File
	query := useTx(r.db, tx).Where("owner_id = ?", ownerID).Order("created_at DESC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&files).Error
	return files, err
}

func (r *GormFileRepository) UpdateByIDAndOwner(_ context.Context, tx *gorm.DB, fileID uint, ownerID uint, updates map[string]interface{}) error {
	return useTx(r.db, tx).Model(&models.File{}).
		Where("id = ? AND owner_id = ?", fileID, ownerID).
		Updates(updates).Error
}

func (r *GormFileRepository) DeleteByIDAndOwner(_ context.Context, tx *gorm.DB, fileID uint, ownerID uint) error {
	return useTx(r.db, tx).Where("id = ? AND owner_id = ?", fileID, ownerID).Delete(&models.File{}).Error
}

func (r *GormFileRepository) SearchOwned(_ context.Context, tx *gorm.DB, in SearchFilesInput) ([]models.File, error) {
	var files []models.File
	err := useTx(r.db, tx).
		Where("owner_id = ? AND LOWER(name) LIKE ?", in.RequesterID, in.Pattern).
		Order("created_at DESC, id ASC").
		Limit(in.Limit).
		Find(&files).Error
	return files, err
}

func (r *GormFileRepository) SearchShared(_ context.Context, tx *gorm.DB, in SearchFilesInput) ([]models.File, error) {
	var files []models.File
	err := useTx(r.db, tx).
		Where("owner_id <> ? AND shared = ? AND LOWER(name) LIKE ?", in.RequesterID, true, in.Pattern).
		Order("created_at DESC, id ASC").
		Limit(in.Limit).
		Find(&files).Error
	return files, err
}
