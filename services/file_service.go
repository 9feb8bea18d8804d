package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"fileshare/config"
	"fileshare/logger"
	"fileshare/models"
	"fileshare/repositories"
	"fileshare/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateFileInput struct {
	Name     string
	Size     int64
	MimeType string
	Reader   io.Reader
	// Shared overrides the owner's private_files_by_default setting when
	// set.
	Shared             *bool
	EncryptedKey       string
	OriginalType       string
	EncryptionMetadata string
}

type DownloadOutput struct {
	File   models.File
	Reader io.ReadCloser
}

type FileService interface {
	Create(ctx context.Context, ownerID uint, in CreateFileInput) (models.File, error)
	Get(ctx context.Context, fileID uint, requesterID uint) (models.File, error)
	ListOwn(ctx context.Context, ownerID uint) ([]models.File, error)
	ToggleShared(ctx context.Context, fileID uint, ownerID uint, shared bool) (models.File, error)
	Delete(ctx context.Context, fileID uint, ownerID uint) error
	Download(ctx context.Context, fileID uint, requesterID uint) (DownloadOutput, error)
}

type fileService struct {
	txManager      TxManager
	files          repositories.FileRepository
	fileKeys       repositories.FileKeyRepository
	accessRequests repositories.AccessRequestRepository
	settings       repositories.UserSettingsRepository
	store          storage.ObjectStorage
	policy         PolicyService
	vault          KeyVaultService
	notifier       Notifier
}

func NewFileService(
	txManager TxManager,
	files repositories.FileRepository,
	fileKeys repositories.FileKeyRepository,
	accessRequests repositories.AccessRequestRepository,
	settings repositories.UserSettingsRepository,
	store storage.ObjectStorage,
	policy PolicyService,
	vault KeyVaultService,
	notifier Notifier,
) FileService {
	return &fileService{
		txManager:      txManager,
		files:          files,
		fileKeys:       fileKeys,
		accessRequests: accessRequests,
		settings:       settings,
		store:          store,
		policy:         policy,
		vault:          vault,
		notifier:       notifier,
	}
}

func isExtensionAllowed(name string) bool {
	allowed := config.AppConfig.Storage.AllowedExtensions
	if len(allowed) == 0 {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == ext {
			return true
		}
	}
	return false
}

func (s *fileService) Create(ctx context.Context, ownerID uint, in CreateFileInput) (models.File, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.File{}, newValidationError("file name must not be empty")
	}
	if in.Size <= 0 {
		return models.File{}, newValidationError("file size must be positive")
	}
	if in.Size > config.AppConfig.Storage.MaxFileSize {
		return models.File{}, newValidationError("file size exceeds the allowed maximum")
	}
	if !isExtensionAllowed(in.Name) {
		return models.File{}, newValidationError("file type is not allowed")
	}
	encrypted := in.EncryptedKey != ""
	if !encrypted && (in.OriginalType != "" || in.EncryptionMetadata != "") {
		return models.File{}, newValidationError("encryption metadata requires an encrypted key")
	}

	shared := false
	if in.Shared != nil {
		shared = *in.Shared
	} else {
		ownerSettings, err := s.settings.GetByUserID(ctx, nil, ownerID)
		if err == nil {
			shared = !ownerSettings.PrivateFilesByDefault
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.File{}, newStorageError("failed to load user settings", err)
		}
	}

	locator := uuid.NewString() + strings.ToLower(filepath.Ext(in.Name))
	if err := s.store.Put(ctx, locator, in.Reader, in.Size, in.MimeType); err != nil {
		return models.File{}, newStorageError("failed to store file content", err)
	}

	file := models.File{
		Name:               in.Name,
		StoragePath:        locator,
		Size:               in.Size,
		MimeType:           in.MimeType,
		OwnerID:            ownerID,
		Shared:             shared,
		IsEncrypted:        encrypted,
		OriginalType:       in.OriginalType,
		EncryptionMetadata: in.EncryptionMetadata,
	}

	err := s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.files.Create(ctx, tx, &file); err != nil {
			return err
		}
		if encrypted {
			// The key row is born in the same transaction as its file so
			// the one-key-per-encrypted-file invariant never has a window.
			if _, err := s.vault.StoreKey(ctx, tx, file.ID, in.EncryptedKey); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if removeErr := s.store.Remove(ctx, locator); removeErr != nil {
			logger.Warnf("failed to remove orphaned object %s: %v", locator, removeErr)
		}
		var appErr *AppError
		if errors.As(err, &appErr) {
			return models.File{}, appErr
		}
		return models.File{}, newStorageError("failed to create file record", err)
	}

	return file, nil
}

func (s *fileService) Get(ctx context.Context, fileID uint, requesterID uint) (models.File, error) {
	file, err := s.files.GetByID(ctx, nil, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.File{}, newNotFoundError("file not found")
		}
		return models.File{}, newStorageError("failed to load file", err)
	}

	allowed, err := s.policy.CanRead(ctx, file, requesterID)
	if err != nil {
		return models.File{}, err
	}
	if !allowed {
		return models.File{}, newNotFoundError("file not found")
	}
	return file, nil
}

func (s *fileService) ListOwn(ctx context.Context, ownerID uint) ([]models.File, error) {
	limit := config.AppConfig.Search.MaxResults
	files, err := s.files.ListByOwner(ctx, nil, ownerID, limit)
	if err != nil {
		return nil, newStorageError("failed to list files", err)
	}
	return files, nil
}

func (s *fileService) ToggleShared(ctx context.Context, fileID uint, ownerID uint, shared bool) (models.File, error) {
	file, err := s.files.GetByIDAndOwner(ctx, nil, fileID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.File{}, newNotFoundError("file not found")
		}
		return models.File{}, newStorageError("failed to load file", err)
	}

	if file.Shared == shared {
		return file, nil
	}

	if err := s.files.UpdateByIDAndOwner(ctx, nil, fileID, ownerID, map[string]interface{}{"shared": shared}); err != nil {
		return models.File{}, newStorageError("failed to update file", err)
	}
	file.Shared = shared

	if shared {
		// Pending requesters hear that their petition became moot.
		pending, err := s.accessRequests.ListPendingByFile(ctx, nil, fileID)
		if err != nil {
			logger.Warnf("failed to list pending requests for file %d: %v", fileID, err)
			return file, nil
		}
		for _, request := range pending {
			s.notifier.Dispatch(ctx, request.RequesterID, models.NotificationFileShared,
				"File is now shared",
				fmt.Sprintf("%q is now shared with everyone", file.Name),
				map[string]interface{}{"file_id": file.ID})
		}
	}

	return file, nil
}

func (s *fileService) Delete(ctx context.Context, fileID uint, ownerID uint) error {
	file, err := s.files.GetByIDAndOwner(ctx, nil, fileID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newNotFoundError("file not found")
		}
		return newStorageError("failed to load file", err)
	}

	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.fileKeys.DeleteByFileID(ctx, tx, fileID); err != nil {
			return err
		}
		if err := s.accessRequests.DeleteByFileID(ctx, tx, fileID); err != nil {
			return err
		}
		return s.files.DeleteByIDAndOwner(ctx, tx, fileID, ownerID)
	})
	if err != nil {
		return newStorageError("failed to delete file", err)
	}

	// Object removal is outside the transaction: an orphaned object is
	// recoverable, a dangling database row is not.
	if err := s.store.Remove(ctx, file.StoragePath); err != nil {
		logger.Warnf("failed to remove object %s: %v", file.StoragePath, err)
	}
	return nil
}

func (s *fileService) Download(ctx context.Context, fileID uint, requesterID uint) (DownloadOutput, error) {
	file, err := s.Get(ctx, fileID, requesterID)
	if err != nil {
		return DownloadOutput{}, err
	}

	reader, err := s.store.Get(ctx, file.StoragePath)
	if err != nil {
		return DownloadOutput{}, newStorageError("failed to read file content", err)
	}
	return DownloadOutput{File: file, Reader: reader}, nil
}
