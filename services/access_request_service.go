package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fileshare/models"
	"fileshare/repositories"

	"gorm.io/gorm"
)

type CreateAccessRequestInput struct {
	FileID  uint
	Message string
}

type RespondAccessRequestInput struct {
	Decision        string
	ResponseMessage string
}

// AccessRequestService drives the request state machine:
// pending -> approved/rejected by the owner, pending -> cancelled by the
// requester. The three outcome states are terminal.
type AccessRequestService interface {
	Create(ctx context.Context, requesterID uint, in CreateAccessRequestInput) (models.AccessRequest, error)
	Respond(ctx context.Context, requestID uint, ownerID uint, in RespondAccessRequestInput) (models.AccessRequest, error)
	Cancel(ctx context.Context, requestID uint, requesterID uint) (models.AccessRequest, error)
	ListForRequester(ctx context.Context, requesterID uint) ([]models.AccessRequest, error)
	ListForOwner(ctx context.Context, ownerID uint) ([]models.AccessRequest, error)
}

// accessRequestService needs no transactions: creation is one insert
// guarded by the pending unique index, and terminal transitions are one
// compare-and-swap update.
type accessRequestService struct {
	files          repositories.FileRepository
	accessRequests repositories.AccessRequestRepository
	settings       repositories.UserSettingsRepository
	notifier       Notifier
}

func NewAccessRequestService(
	files repositories.FileRepository,
	accessRequests repositories.AccessRequestRepository,
	settings repositories.UserSettingsRepository,
	notifier Notifier,
) AccessRequestService {
	return &accessRequestService{
		files:          files,
		accessRequests: accessRequests,
		settings:       settings,
		notifier:       notifier,
	}
}

func (s *accessRequestService) Create(ctx context.Context, requesterID uint, in CreateAccessRequestInput) (models.AccessRequest, error) {
	if strings.TrimSpace(in.Message) == "" {
		return models.AccessRequest{}, newValidationError("request message must not be empty")
	}

	file, err := s.files.GetByID(ctx, nil, in.FileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.AccessRequest{}, newNotFoundError("file not found")
		}
		return models.AccessRequest{}, newStorageError("failed to load file", err)
	}

	if file.OwnerID == requesterID {
		return models.AccessRequest{}, newValidationError("cannot request access to your own file")
	}
	if file.Shared {
		return models.AccessRequest{}, newConflictError("already has access")
	}

	if _, err := s.accessRequests.FindApproved(ctx, nil, file.ID, requesterID); err == nil {
		return models.AccessRequest{}, newConflictError("already has access")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.AccessRequest{}, newStorageError("failed to check existing access", err)
	}

	request := models.AccessRequest{
		FileID:      file.ID,
		RequesterID: requesterID,
		OwnerID:     file.OwnerID,
		Status:      models.AccessRequestPending,
		Active:      models.PendingActive(),
		Message:     in.Message,
	}

	// Owners may opt out of manual approval; the request is then resolved
	// in the same insert rather than parked at pending.
	autoApprove := false
	if ownerSettings, err := s.settings.GetByUserID(ctx, nil, file.OwnerID); err == nil {
		autoApprove = !ownerSettings.RequireApprovalForAccess
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.AccessRequest{}, newStorageError("failed to load owner settings", err)
	}
	if autoApprove {
		now := time.Now()
		request.Status = models.AccessRequestApproved
		request.Active = nil
		request.RespondedAt = &now
	}

	if err := s.accessRequests.Create(ctx, nil, &request); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.AccessRequest{}, newConflictError("a pending request for this file already exists")
		}
		return models.AccessRequest{}, newStorageError("failed to create access request", err)
	}

	s.notifier.Dispatch(ctx, file.OwnerID, models.NotificationAccessRequested,
		"New access request",
		fmt.Sprintf("A user requested access to %q", file.Name),
		map[string]interface{}{"file_id": file.ID, "request_id": request.ID, "requester_id": requesterID})
	if autoApprove {
		s.notifier.Dispatch(ctx, requesterID, models.NotificationAccessApproved,
			"Access request approved",
			fmt.Sprintf("Your request for %q was approved automatically", file.Name),
			map[string]interface{}{"file_id": file.ID, "request_id": request.ID})
	}

	return request, nil
}

func (s *accessRequestService) Respond(ctx context.Context, requestID uint, ownerID uint, in RespondAccessRequestInput) (models.AccessRequest, error) {
	if in.Decision != models.AccessRequestApproved && in.Decision != models.AccessRequestRejected {
		return models.AccessRequest{}, newValidationError("decision must be approved or rejected")
	}

	request, err := s.accessRequests.GetByID(ctx, nil, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.AccessRequest{}, newNotFoundError("access request not found")
		}
		return models.AccessRequest{}, newStorageError("failed to load access request", err)
	}
	if request.OwnerID != ownerID {
		// A non-owner probing the request must not learn it exists.
		return models.AccessRequest{}, newNotFoundError("access request not found")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":           in.Decision,
		"active":           nil,
		"response_message": in.ResponseMessage,
		"responded_at":     now,
	}
	affected, err := s.accessRequests.TransitionFromPending(ctx, nil, requestID, updates)
	if err != nil {
		return models.AccessRequest{}, newStorageError("failed to update access request", err)
	}
	if affected == 0 {
		return models.AccessRequest{}, newConflictError("access request is no longer pending")
	}

	request.Status = in.Decision
	request.Active = nil
	request.ResponseMessage = &in.ResponseMessage
	request.RespondedAt = &now

	eventType := models.NotificationAccessApproved
	title := "Access request approved"
	if in.Decision == models.AccessRequestRejected {
		eventType = models.NotificationAccessRejected
		title = "Access request rejected"
	}
	s.notifier.Dispatch(ctx, request.RequesterID, eventType, title,
		fmt.Sprintf("The owner %s your access request", in.Decision),
		map[string]interface{}{"file_id": request.FileID, "request_id": request.ID})

	return request, nil
}

func (s *accessRequestService) Cancel(ctx context.Context, requestID uint, requesterID uint) (models.AccessRequest, error) {
	request, err := s.accessRequests.GetByID(ctx, nil, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.AccessRequest{}, newNotFoundError("access request not found")
		}
		return models.AccessRequest{}, newStorageError("failed to load access request", err)
	}
	if request.RequesterID != requesterID {
		return models.AccessRequest{}, newNotFoundError("access request not found")
	}

	updates := map[string]interface{}{
		"status": models.AccessRequestCancelled,
		"active": nil,
	}
	affected, err := s.accessRequests.TransitionFromPending(ctx, nil, requestID, updates)
	if err != nil {
		return models.AccessRequest{}, newStorageError("failed to update access request", err)
	}
	if affected == 0 {
		return models.AccessRequest{}, newConflictError("access request is no longer pending")
	}

	request.Status = models.AccessRequestCancelled
	request.Active = nil
	return request, nil
}

func (s *accessRequestService) ListForRequester(ctx context.Context, requesterID uint) ([]models.AccessRequest, error) {
	list, err := s.accessRequests.ListByRequester(ctx, nil, requesterID)
	if err != nil {
		return nil, newStorageError("failed to list access requests", err)
	}
	return list, nil
}

func (s *accessRequestService) ListForOwner(ctx context.Context, ownerID uint) ([]models.AccessRequest, error) {
	list, err := s.accessRequests.ListByOwner(ctx, nil, ownerID)
	if err != nil {
		return nil, newStorageError("failed to list access requests", err)
	}
	return list, nil
}
