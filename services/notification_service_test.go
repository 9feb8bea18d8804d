package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"fileshare/models"
)

type notificationServiceFixture struct {
	notifications *fakeNotificationRepo
	settings      *fakeSettingsRepo
	stream        *fakeNotificationStream
	svc           NotificationService
}

func newNotificationServiceFixture() *notificationServiceFixture {
	f := &notificationServiceFixture{
		notifications: newFakeNotificationRepo(),
		settings:      newFakeSettingsRepo(),
		stream:        &fakeNotificationStream{},
	}
	f.svc = NewNotificationService(f.notifications, f.settings, f.stream)
	return f
}

func TestDispatchStoresAndPublishes(t *testing.T) {
	f := newNotificationServiceFixture()

	f.svc.Dispatch(context.Background(), 1, models.NotificationAccessRequested,
		"New access request", "Someone wants in",
		map[string]interface{}{"file_id": float64(7)})

	stored := f.notifications.byUser(1)
	if len(stored) != 1 {
		t.Fatalf("expected one stored notification, got %d", len(stored))
	}
	if stored[0].Type != models.NotificationAccessRequested || stored[0].Read {
		t.Fatalf("unexpected notification: %+v", stored[0])
	}

	var metadata map[string]interface{}
	if err := json.Unmarshal([]byte(stored[0].Metadata), &metadata); err != nil {
		t.Fatalf("metadata must be valid JSON: %v", err)
	}
	if metadata["file_id"] != float64(7) {
		t.Fatalf("unexpected metadata: %v", metadata)
	}

	if len(f.stream.published) != 1 {
		t.Fatalf("expected one published payload, got %d", len(f.stream.published))
	}
	var published models.Notification
	if err := json.Unmarshal(f.stream.published[0], &published); err != nil {
		t.Fatalf("published payload must be the notification JSON: %v", err)
	}
	if published.ID != stored[0].ID {
		t.Fatalf("published notification must match the stored row")
	}
}

func TestDispatchHonorsMutedToggles(t *testing.T) {
	cases := []struct {
		eventType string
		mute      func(*models.UserSettings)
	}{
		{models.NotificationFileShared, func(s *models.UserSettings) { s.NotifyOnShare = false }},
		{models.NotificationAccessRequested, func(s *models.UserSettings) { s.NotifyOnAccessRequest = false }},
		{models.NotificationAccessApproved, func(s *models.UserSettings) { s.NotifyOnAccessResponse = false }},
		{models.NotificationAccessRejected, func(s *models.UserSettings) { s.NotifyOnAccessResponse = false }},
	}

	for _, tc := range cases {
		f := newNotificationServiceFixture()
		settings := models.DefaultUserSettings(1)
		tc.mute(&settings)
		if err := f.settings.Create(context.Background(), nil, &settings); err != nil {
			t.Fatalf("failed to seed settings: %v", err)
		}

		f.svc.Dispatch(context.Background(), 1, tc.eventType, "t", "m", nil)

		if got := len(f.notifications.byUser(1)); got != 0 {
			t.Fatalf("%s: muted event must not be stored, got %d notifications", tc.eventType, got)
		}
		if len(f.stream.published) != 0 {
			t.Fatalf("%s: muted event must not be published", tc.eventType)
		}
	}
}

func TestDispatchDefaultsToAllTogglesOn(t *testing.T) {
	f := newNotificationServiceFixture()

	// No settings row seeded for the recipient.
	f.svc.Dispatch(context.Background(), 1, models.NotificationFileShared, "t", "m", nil)

	if got := len(f.notifications.byUser(1)); got != 1 {
		t.Fatalf("expected delivery with default settings, got %d notifications", got)
	}
}

func TestDispatchSwallowsStoreFailure(t *testing.T) {
	f := newNotificationServiceFixture()
	f.notifications.createErr = errors.New("db down")

	// Must not panic or propagate anything.
	f.svc.Dispatch(context.Background(), 1, models.NotificationAccessApproved, "t", "m", nil)

	if len(f.stream.published) != 0 {
		t.Fatalf("a notification that failed to store must not be published")
	}
}

func TestDispatchSwallowsPublishFailure(t *testing.T) {
	f := newNotificationServiceFixture()
	f.stream.publishErr = errors.New("redis down")

	f.svc.Dispatch(context.Background(), 1, models.NotificationAccessApproved, "t", "m", nil)

	if got := len(f.notifications.byUser(1)); got != 1 {
		t.Fatalf("a publish failure must not lose the stored notification, got %d", got)
	}
}

func TestListNotificationsOrderAndLimit(t *testing.T) {
	f := newNotificationServiceFixture()
	base := time.Now()
	for i := 0; i < 3; i++ {
		notification := models.Notification{
			UserID:    1,
			Type:      models.NotificationFileShared,
			Title:     "t",
			Message:   "m",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := f.notifications.Create(context.Background(), nil, &notification); err != nil {
			t.Fatalf("failed to seed notification: %v", err)
		}
	}
	other := models.Notification{UserID: 2, Type: models.NotificationFileShared, Title: "t", Message: "m"}
	if err := f.notifications.Create(context.Background(), nil, &other); err != nil {
		t.Fatalf("failed to seed notification: %v", err)
	}

	list, err := f.svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].CreatedAt.After(list[i-1].CreatedAt) {
			t.Fatalf("notifications must be newest first")
		}
	}
	for _, notification := range list {
		if notification.UserID != 1 {
			t.Fatalf("list must only contain the caller's notifications")
		}
	}
}

func TestMarkReadGuardsOwnership(t *testing.T) {
	f := newNotificationServiceFixture()
	notification := models.Notification{UserID: 1, Type: models.NotificationFileShared, Title: "t", Message: "m"}
	if err := f.notifications.Create(context.Background(), nil, &notification); err != nil {
		t.Fatalf("failed to seed notification: %v", err)
	}

	if err := f.svc.MarkRead(context.Background(), notification.ID, 2); !IsKind(err, KindNotFound) {
		t.Fatalf("another user's notification must look missing, got %v", err)
	}
	if err := f.svc.MarkRead(context.Background(), notification.ID, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list := f.notifications.byUser(1)
	if len(list) != 1 || !list[0].Read {
		t.Fatalf("notification must be marked read: %+v", list)
	}
}

func TestDeleteNotificationGuardsOwnership(t *testing.T) {
	f := newNotificationServiceFixture()
	notification := models.Notification{UserID: 1, Type: models.NotificationFileShared, Title: "t", Message: "m"}
	if err := f.notifications.Create(context.Background(), nil, &notification); err != nil {
		t.Fatalf("failed to seed notification: %v", err)
	}

	if err := f.svc.Delete(context.Background(), notification.ID, 2); !IsKind(err, KindNotFound) {
		t.Fatalf("another user's notification must look missing, got %v", err)
	}
	if len(f.notifications.byUser(1)) != 1 {
		t.Fatalf("foreign delete attempt must not remove the row")
	}

	if err := f.svc.Delete(context.Background(), notification.ID, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.notifications.byUser(1)) != 0 {
		t.Fatalf("notification must be gone after delete")
	}

	if err := f.svc.Delete(context.Background(), notification.ID, 1); !IsKind(err, KindNotFound) {
		t.Fatalf("deleting twice must report not found, got %v", err)
	}
}
