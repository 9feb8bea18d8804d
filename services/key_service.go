package services

import (
	"context"
	"errors"

	"fileshare/models"
	"fileshare/repositories"

	"gorm.io/gorm"
)

type FileKeyOutput struct {
	FileID             uint   `json:"file_id"`
	EncryptedKey       string `json:"encrypted_key"`
	OriginalType       string `json:"original_type,omitempty"`
	EncryptionMetadata string `json:"encryption_metadata,omitempty"`
}

// KeyVaultService owns the one-key-per-encrypted-file records. The key
// ciphertext is opaque here; the vault only guards who may read it.
type KeyVaultService interface {
	// StoreKey records the encrypted key for a file. A second key for the
	// same file is a Conflict: the unique constraint on file_id is the
	// invariant, not an accident of schema.
	StoreKey(ctx context.Context, tx *gorm.DB, fileID uint, encryptedKey string) (models.FileKey, error)
	// GetKey returns the raw key record without any access check. Callers
	// outside the owning transaction path want RetrieveForUser.
	GetKey(ctx context.Context, fileID uint) (models.FileKey, error)
	// RetrieveForUser returns key material only after the policy evaluator
	// clears the requester for the file.
	RetrieveForUser(ctx context.Context, fileID uint, requesterID uint) (FileKeyOutput, error)
}

type keyVaultService struct {
	files    repositories.FileRepository
	fileKeys repositories.FileKeyRepository
	policy   PolicyService
}

func NewKeyVaultService(
	files repositories.FileRepository,
	fileKeys repositories.FileKeyRepository,
	policy PolicyService,
) KeyVaultService {
	return &keyVaultService{files: files, fileKeys: fileKeys, policy: policy}
}

func (s *keyVaultService) StoreKey(ctx context.Context, tx *gorm.DB, fileID uint, encryptedKey string) (models.FileKey, error) {
	if encryptedKey == "" {
		return models.FileKey{}, newValidationError("encrypted key must not be empty")
	}

	key := models.FileKey{FileID: fileID, EncryptedKey: encryptedKey}
	if err := s.fileKeys.Create(ctx, tx, &key); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.FileKey{}, newConflictError("a key for this file already exists")
		}
		return models.FileKey{}, newStorageError("failed to store file key", err)
	}
	return key, nil
}

func (s *keyVaultService) GetKey(ctx context.Context, fileID uint) (models.FileKey, error) {
	key, err := s.fileKeys.GetByFileID(ctx, nil, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.FileKey{}, newNotFoundError("file key not found")
		}
		return models.FileKey{}, newStorageError("failed to load file key", err)
	}
	return key, nil
}

func (s *keyVaultService) RetrieveForUser(ctx context.Context, fileID uint, requesterID uint) (FileKeyOutput, error) {
	file, err := s.files.GetByID(ctx, nil, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FileKeyOutput{}, newNotFoundError("file not found")
		}
		return FileKeyOutput{}, newStorageError("failed to load file", err)
	}

	allowed, err := s.policy.CanRetrieveKey(ctx, file, requesterID)
	if err != nil {
		return FileKeyOutput{}, err
	}
	if !allowed {
		// An unauthorized requester learns nothing beyond "not found",
		// the same answer a nonexistent file gives.
		return FileKeyOutput{}, newNotFoundError("file not found")
	}

	key, err := s.GetKey(ctx, fileID)
	if err != nil {
		return FileKeyOutput{}, err
	}

	return FileKeyOutput{
		FileID:             file.ID,
		EncryptedKey:       key.EncryptedKey,
		OriginalType:       file.OriginalType,
		EncryptionMetadata: file.EncryptionMetadata,
	}, nil
}
