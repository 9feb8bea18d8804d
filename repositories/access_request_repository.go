package repositories

import (
	"context"

	"fileshare/models"

	"gorm.io/gorm"
)

type GormAccessRequestRepository struct {
	db *gorm.DB
}

func NewGormAccessRequestRepository(db *gorm.DB) *GormAccessRequestRepository {
	return &GormAccessRequestRepository{db: db}
}

// Create inserts the request and lets the uniq_pending_request index reject
// a concurrent duplicate: two simultaneous creates for the same pair cannot
// both commit, no application-level check-then-act involved.
func (r *GormAccessRequestRepository) Create(_ context.Context, tx *gorm.DB, request *models.AccessRequest) error {
	return useTx(r.db, tx).Create(request).Error
}

func (r *GormAccessRequestRepository) GetByID(_ context.Context, tx *gorm.DB, requestID uint) (models.AccessRequest, error) {
	var request models.AccessRequest
	err := useTx(r.db, tx).First(&request, requestID).Error
	return request, err
}

func (r *GormAccessRequestRepository) FindApproved(_ context.Context, tx *gorm.DB, fileID uint, requesterID uint) (models.AccessRequest, error) {
	var request models.AccessRequest
	err := useTx(r.db, tx).
		Where("file_id = ? AND requester_id = ? AND status = ?", fileID, requesterID, models.AccessRequestApproved).
		First(&request).Error
	return request, err
}

func (r *GormAccessRequestRepository) ListPendingByFile(_ context.Context, tx *gorm.DB, fileID uint) ([]models.AccessRequest, error) {
	var requests []models.AccessRequest
	err := useTx(r.db, tx).
		Where("file_id = ? AND status = ?", fileID, models.AccessRequestPending).
		Find(&requests).Error
	return requests, err
}

func (r *GormAccessRequestRepository) ListByRequester(_ context.Context, tx *gorm.DB, requesterID uint) ([]models.AccessRequest, error) {
	var requests []models.AccessRequest
	err := useTx(r.db, tx).
		Where("requester_id = ?", requesterID).
		Order("created_at DESC, id ASC").
		Find(&requests).Error
	return requests, err
}

func (r *GormAccessRequestRepository) ListByOwner(_ context.Context, tx *gorm.DB, ownerID uint) ([]models.AccessRequest, error) {
	var requests []models.AccessRequest
	err := useTx(r.db, tx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id ASC").
		Find(&requests).Error
	return requests, err
}

// TransitionFromPending is the compare-and-swap for terminal transitions:
// the WHERE clause re-checks pending inside the statement, so when an
// approve and a cancel race, exactly one of them changes a row.
func (r *GormAccessRequestRepository) TransitionFromPending(_ context.Context, tx *gorm.DB, requestID uint, updates map[string]interface{}) (int64, error) {
	result := useTx(r.db, tx).Model(&models.AccessRequest{}).
		Where("id = ? AND status = ?", requestID, models.AccessRequestPending).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *GormAccessRequestRepository) DeleteByFileID(_ context.Context, tx *gorm.DB, fileID uint) error {
	return useTx(r.db, tx).Where("file_id = ?", fileID).Delete(&models.AccessRequest{}).Error
}
