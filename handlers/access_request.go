package handlers

import (
	"net/http"

	"fileshare/services"
	"fileshare/utils"

	"github.com/gin-gonic/gin"
)

type CreateAccessRequestRequest struct {
	FileID  uint   `json:"file_id" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type RespondAccessRequestRequest struct {
	Decision        string `json:"decision" binding:"required"`
	ResponseMessage string `json:"response_message"`
}

func CreateAccessRequest(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req CreateAccessRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	request, err := getServices().AccessRequests.Create(c.Request.Context(), userID, services.CreateAccessRequestInput{
		FileID:  req.FileID,
		Message: req.Message,
	})
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, request)
}

func RespondAccessRequest(c *gin.Context) {
	userID := c.GetUint("user_id")
	requestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RespondAccessRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	request, err := getServices().AccessRequests.Respond(c.Request.Context(), requestID, userID, services.RespondAccessRequestInput{
		Decision:        req.Decision,
		ResponseMessage: req.ResponseMessage,
	})
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, request)
}

func CancelAccessRequest(c *gin.Context) {
	userID := c.GetUint("user_id")
	requestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	request, err := getServices().AccessRequests.Cancel(c.Request.Context(), requestID, userID)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, request)
}

// ListAccessRequests returns the caller's outgoing requests by default, or
// the requests against the caller's files with role=owner.
func ListAccessRequests(c *gin.Context) {
	userID := c.GetUint("user_id")

	svc := getServices().AccessRequests
	if c.DefaultQuery("role", "requester") == "owner" {
		requests, err := svc.ListForOwner(c.Request.Context(), userID)
		if respondServiceError(c, err) {
			return
		}
		utils.Success(c, gin.H{"requests": requests})
		return
	}

	requests, err := svc.ListForRequester(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, gin.H{"requests": requests})
}
