package services

import (
	"context"
	"errors"

	"fileshare/models"
	"fileshare/repositories"

	"gorm.io/gorm"
)

type UpdateSettingsInput struct {
	PrivateFilesByDefault    *bool
	RequireApprovalForAccess *bool
	NotifyOnShare            *bool
	NotifyOnAccessRequest    *bool
	NotifyOnAccessResponse   *bool
}

type SettingsService interface {
	Get(ctx context.Context, userID uint) (models.UserSettings, error)
	Update(ctx context.Context, userID uint, in UpdateSettingsInput) (models.UserSettings, error)
}

type settingsService struct {
	settings repositories.UserSettingsRepository
}

func NewSettingsService(settings repositories.UserSettingsRepository) SettingsService {
	return &settingsService{settings: settings}
}

// Get materializes the defaults row on first read so later updates have a
// row to target.
func (s *settingsService) Get(ctx context.Context, userID uint) (models.UserSettings, error) {
	settings, err := s.settings.GetByUserID(ctx, nil, userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.UserSettings{}, newStorageError("failed to load settings", err)
	}

	settings = models.DefaultUserSettings(userID)
	if err := s.settings.Create(ctx, nil, &settings); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a create race; the winner's row is what counts.
			settings, err = s.settings.GetByUserID(ctx, nil, userID)
			if err == nil {
				return settings, nil
			}
		}
		return models.UserSettings{}, newStorageError("failed to create settings", err)
	}
	return settings, nil
}

func (s *settingsService) Update(ctx context.Context, userID uint, in UpdateSettingsInput) (models.UserSettings, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return models.UserSettings{}, err
	}

	updates := map[string]interface{}{}
	if in.PrivateFilesByDefault != nil {
		updates["private_files_by_default"] = *in.PrivateFilesByDefault
	}
	if in.RequireApprovalForAccess != nil {
		updates["require_approval_for_access"] = *in.RequireApprovalForAccess
	}
	if in.NotifyOnShare != nil {
		updates["notify_on_share"] = *in.NotifyOnShare
	}
	if in.NotifyOnAccessRequest != nil {
		updates["notify_on_access_request"] = *in.NotifyOnAccessRequest
	}
	if in.NotifyOnAccessResponse != nil {
		updates["notify_on_access_response"] = *in.NotifyOnAccessResponse
	}

	if len(updates) > 0 {
		if err := s.settings.UpdateByUserID(ctx, nil, userID, updates); err != nil {
			return models.UserSettings{}, newStorageError("failed to update settings", err)
		}
	}

	settings, err := s.settings.GetByUserID(ctx, nil, userID)
	if err != nil {
		return models.UserSettings{}, newStorageError("failed to load settings", err)
	}
	return settings, nil
}
