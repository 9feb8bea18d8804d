package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"fileshare/models"
)

type fileServiceFixture struct {
	files         *fakeFileRepo
	fileKeys      *fakeFileKeyRepo
	requests      *fakeAccessRequestRepo
	settings      *fakeSettingsRepo
	store         *fakeObjectStorage
	notifications *fakeNotificationRepo
	svc           FileService
}

func newFileServiceFixture() *fileServiceFixture {
	f := &fileServiceFixture{
		files:         newFakeFileRepo(),
		fileKeys:      newFakeFileKeyRepo(),
		requests:      newFakeAccessRequestRepo(),
		settings:      newFakeSettingsRepo(),
		store:         newFakeObjectStorage(),
		notifications: newFakeNotificationRepo(),
	}
	policy := NewPolicyService(f.requests)
	vault := NewKeyVaultService(f.files, f.fileKeys, policy)
	notifier := NewNotificationService(f.notifications, f.settings, &fakeNotificationStream{})
	f.svc = NewFileService(&fakeTxManager{}, f.files, f.fileKeys, f.requests, f.settings,
		f.store, policy, vault, notifier)
	return f
}

func uploadInput(name, content string) CreateFileInput {
	return CreateFileInput{
		Name:     name,
		Size:     int64(len(content)),
		MimeType: "text/plain",
		Reader:   strings.NewReader(content),
	}
}

func TestCreateFileStoresObjectAndRecord(t *testing.T) {
	f := newFileServiceFixture()

	file, err := f.svc.Create(context.Background(), 1, uploadInput("notes.txt", "hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.ID == 0 || file.OwnerID != 1 || file.Name != "notes.txt" {
		t.Fatalf("unexpected file record: %+v", file)
	}
	if file.StoragePath == "" {
		t.Fatalf("file must carry a storage locator")
	}

	data, ok := f.store.objects[file.StoragePath]
	if !ok || string(data) != "hello" {
		t.Fatalf("object content not stored under %q", file.StoragePath)
	}
}

func TestCreateFileValidations(t *testing.T) {
	f := newFileServiceFixture()

	cases := []struct {
		name string
		in   CreateFileInput
	}{
		{"empty name", CreateFileInput{Name: "  ", Size: 5, Reader: strings.NewReader("hello")}},
		{"zero size", CreateFileInput{Name: "a.txt", Size: 0, Reader: strings.NewReader("")}},
		{"oversized", CreateFileInput{Name: "a.txt", Size: 11 << 20, Reader: strings.NewReader("x")}},
		{"metadata without key", CreateFileInput{
			Name: "a.txt", Size: 5, Reader: strings.NewReader("hello"),
			EncryptionMetadata: `{"alg":"aes-gcm"}`,
		}},
	}
	for _, tc := range cases {
		if _, err := f.svc.Create(context.Background(), 1, tc.in); !IsKind(err, KindValidation) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
	if len(f.store.objects) != 0 {
		t.Fatalf("rejected uploads must not reach object storage")
	}
}

func TestCreateFileSharedDefaultFromSettings(t *testing.T) {
	f := newFileServiceFixture()

	// Defaults: private_files_by_default is on, so uploads land private.
	file, err := f.svc.Create(context.Background(), 1, uploadInput("a.txt", "x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.Shared {
		t.Fatalf("upload must default to private")
	}

	settings := models.DefaultUserSettings(2)
	settings.PrivateFilesByDefault = false
	if err := f.settings.Create(context.Background(), nil, &settings); err != nil {
		t.Fatalf("failed to seed settings: %v", err)
	}
	file, err = f.svc.Create(context.Background(), 2, uploadInput("b.txt", "x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !file.Shared {
		t.Fatalf("upload must honor the owner's public-by-default setting")
	}

	// An explicit flag beats the setting.
	private := false
	in := uploadInput("c.txt", "x")
	in.Shared = &private
	file, err = f.svc.Create(context.Background(), 2, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.Shared {
		t.Fatalf("explicit shared flag must override the default")
	}
}

func TestCreateEncryptedFileStoresKey(t *testing.T) {
	f := newFileServiceFixture()

	in := uploadInput("secret.bin", "ciphertext-bytes")
	in.EncryptedKey = "wrapped-key"
	in.OriginalType = "application/pdf"
	in.EncryptionMetadata = `{"alg":"aes-gcm"}`

	file, err := f.svc.Create(context.Background(), 1, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !file.IsEncrypted || file.OriginalType != "application/pdf" {
		t.Fatalf("encrypted upload must record encryption fields: %+v", file)
	}

	key, err := f.fileKeys.GetByFileID(context.Background(), nil, file.ID)
	if err != nil {
		t.Fatalf("key must be stored with the file: %v", err)
	}
	if key.EncryptedKey != "wrapped-key" {
		t.Fatalf("unexpected key material: %q", key.EncryptedKey)
	}
}

func TestCreateFileCleansUpObjectOnRecordFailure(t *testing.T) {
	f := newFileServiceFixture()

	// Force the vault insert to fail after the object upload by pre-seeding
	// a key for the ID the next file will take.
	nextID := f.files.nextID
	if err := f.fileKeys.Create(context.Background(), nil, &models.FileKey{FileID: nextID, EncryptedKey: "stale"}); err != nil {
		t.Fatalf("failed to seed key: %v", err)
	}

	in := uploadInput("secret.bin", "ciphertext")
	in.EncryptedKey = "wrapped-key"
	_, err := f.svc.Create(context.Background(), 1, in)
	if !IsKind(err, KindConflict) {
		t.Fatalf("expected the vault conflict to surface, got %v", err)
	}

	if len(f.store.objects) != 0 {
		t.Fatalf("the uploaded object must be removed when the record fails")
	}
	if len(f.store.removed) != 1 {
		t.Fatalf("expected one removal, got %d", len(f.store.removed))
	}
}

func TestGetFileEnforcesPolicy(t *testing.T) {
	f := newFileServiceFixture()
	private := f.files.add(models.File{Name: "private.txt", OwnerID: 1, StoragePath: "p"})
	shared := f.files.add(models.File{Name: "shared.txt", OwnerID: 1, Shared: true, StoragePath: "s"})

	if _, err := f.svc.Get(context.Background(), private.ID, 1); err != nil {
		t.Fatalf("owner must read own file: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), shared.ID, 2); err != nil {
		t.Fatalf("anyone must read a shared file: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), private.ID, 2); !IsKind(err, KindNotFound) {
		t.Fatalf("a denied reader must get not found, got %v", err)
	}

	seedRequest(t, f.requests, models.AccessRequest{
		FileID: private.ID, RequesterID: 2, OwnerID: 1, Status: models.AccessRequestApproved,
	})
	if _, err := f.svc.Get(context.Background(), private.ID, 2); err != nil {
		t.Fatalf("approved requester must read the file: %v", err)
	}
}

func TestToggleSharedOwnerOnly(t *testing.T) {
	f := newFileServiceFixture()
	file := f.files.add(models.File{Name: "a.txt", OwnerID: 1})

	if _, err := f.svc.ToggleShared(context.Background(), file.ID, 2, true); !IsKind(err, KindNotFound) {
		t.Fatalf("a non-owner toggling must get not found, got %v", err)
	}

	updated, err := f.svc.ToggleShared(context.Background(), file.ID, 1, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.Shared {
		t.Fatalf("file must be shared after the toggle")
	}
}

func TestToggleSharedNotifiesPendingRequesters(t *testing.T) {
	f := newFileServiceFixture()
	file := f.files.add(models.File{Name: "a.txt", OwnerID: 1})
	seedRequest(t, f.requests, models.AccessRequest{
		FileID: file.ID, RequesterID: 2, OwnerID: 1,
		Status: models.AccessRequestPending, Active: models.PendingActive(),
	})
	seedRequest(t, f.requests, models.AccessRequest{
		FileID: file.ID, RequesterID: 3, OwnerID: 1, Status: models.AccessRequestRejected,
	})

	if _, err := f.svc.ToggleShared(context.Background(), file.ID, 1, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pendingSide := f.notifications.byUser(2)
	if len(pendingSide) != 1 || pendingSide[0].Type != models.NotificationFileShared {
		t.Fatalf("pending requester must be told the file went shared, got %+v", pendingSide)
	}
	if len(f.notifications.byUser(3)) != 0 {
		t.Fatalf("requesters with terminal requests must not be notified")
	}

	// Toggling to the same value again is a no-op, no second notification.
	if _, err := f.svc.ToggleShared(context.Background(), file.ID, 1, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.notifications.byUser(2)) != 1 {
		t.Fatalf("a no-op toggle must not re-notify")
	}
}

func TestToggleSharedToPrivateIsSilent(t *testing.T) {
	f := newFileServiceFixture()
	file := f.files.add(models.File{Name: "a.txt", OwnerID: 1, Shared: true})
	seedRequest(t, f.requests, models.AccessRequest{
		FileID: file.ID, RequesterID: 2, OwnerID: 1,
		Status: models.AccessRequestPending, Active: models.PendingActive(),
	})

	updated, err := f.svc.ToggleShared(context.Background(), file.ID, 1, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Shared {
		t.Fatalf("file must be private after the toggle")
	}
	if len(f.notifications.byUser(2)) != 0 {
		t.Fatalf("flipping to private must not notify anyone")
	}
}

func TestDeleteFileCascades(t *testing.T) {
	f := newFileServiceFixture()

	in := uploadInput("secret.bin", "ciphertext")
	in.EncryptedKey = "wrapped-key"
	file, err := f.svc.Create(context.Background(), 1, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seedRequest(t, f.requests, models.AccessRequest{
		FileID: file.ID, RequesterID: 2, OwnerID: 1,
		Status: models.AccessRequestPending, Active: models.PendingActive(),
	})

	if err := f.svc.Delete(context.Background(), file.ID, 2); !IsKind(err, KindNotFound) {
		t.Fatalf("a non-owner deleting must get not found, got %v", err)
	}

	if err := f.svc.Delete(context.Background(), file.ID, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.files.GetByID(context.Background(), nil, file.ID); err == nil {
		t.Fatalf("file record must be gone")
	}
	if _, err := f.fileKeys.GetByFileID(context.Background(), nil, file.ID); err == nil {
		t.Fatalf("file key must be gone")
	}
	if list, _ := f.requests.ListByOwner(context.Background(), nil, 1); len(list) != 0 {
		t.Fatalf("access requests must be gone, got %+v", list)
	}
	if _, ok := f.store.objects[file.StoragePath]; ok {
		t.Fatalf("object must be removed")
	}
}

func TestDownloadReturnsContent(t *testing.T) {
	f := newFileServiceFixture()

	file, err := f.svc.Create(context.Background(), 1, uploadInput("notes.txt", "hello world"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := f.svc.Download(context.Background(), file.ID, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer out.Reader.Close()

	data, err := io.ReadAll(out.Reader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "hello world" {
		t.Fatalf("unexpected content: %q", data)
	}
	if out.File.ID != file.ID {
		t.Fatalf("download must carry the file record")
	}

	if _, err := f.svc.Download(context.Background(), file.ID, 2); !IsKind(err, KindNotFound) {
		t.Fatalf("a denied reader must get not found, got %v", err)
	}
}
