package services

import (
	"fileshare/repositories"
	"fileshare/storage"
)

type Container struct {
	Auth           AuthService
	Files          FileService
	Policy         PolicyService
	Vault          KeyVaultService
	AccessRequests AccessRequestService
	Notifications  NotificationService
	Search         SearchService
	Settings       SettingsService
}

func NewContainer(repos repositories.Container, store storage.ObjectStorage) *Container {
	notifications := NewNotificationService(repos.Notifications, repos.Settings, repos.NotificationStream)
	policy := NewPolicyService(repos.AccessRequests)
	vault := NewKeyVaultService(repos.Files, repos.FileKeys, policy)

	return &Container{
		Auth:           NewAuthService(repos.TxManager, repos.Users, repos.Settings),
		Files:          NewFileService(repos.TxManager, repos.Files, repos.FileKeys, repos.AccessRequests, repos.Settings, store, policy, vault, notifications),
		Policy:         policy,
		Vault:          vault,
		AccessRequests: NewAccessRequestService(repos.Files, repos.AccessRequests, repos.Settings, notifications),
		Notifications:  notifications,
		Search:         NewSearchService(repos.Files),
		Settings:       NewSettingsService(repos.Settings),
	}
}
