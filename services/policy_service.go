package services

import (
	"context"
	"errors"

	"fileshare/models"
	"fileshare/repositories"

	"gorm.io/gorm"
)

// PolicyService is the single source of truth for read authorization. It is
// a pure predicate over stored state: evaluating it never mutates anything,
// so every read path calls it unconditionally.
type PolicyService interface {
	// CanRead reports whether requesterID may read the file. Access is
	// granted to the owner, to anyone when the file is shared, and to a
	// requester holding an approved access request.
	CanRead(ctx context.Context, file models.File, requesterID uint) (bool, error)
	// CanRetrieveKey additionally requires the file to be encrypted.
	// Whether a key row actually exists is the vault's concern.
	CanRetrieveKey(ctx context.Context, file models.File, requesterID uint) (bool, error)
}

type policyService struct {
	accessRequests repositories.AccessRequestRepository
}

func NewPolicyService(accessRequests repositories.AccessRequestRepository) PolicyService {
	return &policyService{accessRequests: accessRequests}
}

func (s *policyService) CanRead(ctx context.Context, file models.File, requesterID uint) (bool, error) {
	if file.OwnerID == requesterID {
		return true, nil
	}
	if file.Shared {
		return true, nil
	}

	_, err := s.accessRequests.FindApproved(ctx, nil, file.ID, requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, newStorageError("failed to evaluate access", err)
	}
	return true, nil
}

func (s *policyService) CanRetrieveKey(ctx context.Context, file models.File, requesterID uint) (bool, error) {
	if !file.IsEncrypted {
		return false, nil
	}
	return s.CanRead(ctx, file, requesterID)
}
