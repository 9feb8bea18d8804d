package handlers

import (
	"net/http"

	"fileshare/services"
	"fileshare/utils"

	"github.com/gin-gonic/gin"
)

type UpdateSettingsRequest struct {
	PrivateFilesByDefault    *bool `json:"private_files_by_default"`
	RequireApprovalForAccess *bool `json:"require_approval_for_access"`
	NotifyOnShare            *bool `json:"notify_on_share"`
	NotifyOnAccessRequest    *bool `json:"notify_on_access_request"`
	NotifyOnAccessResponse   *bool `json:"notify_on_access_response"`
}

func GetSettings(c *gin.Context) {
	userID := c.GetUint("user_id")

	settings, err := getServices().Settings.Get(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, settings)
}

func UpdateSettings(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	settings, err := getServices().Settings.Update(c.Request.Context(), userID, services.UpdateSettingsInput{
		PrivateFilesByDefault:    req.PrivateFilesByDefault,
		RequireApprovalForAccess: req.RequireApprovalForAccess,
		NotifyOnShare:            req.NotifyOnShare,
		NotifyOnAccessRequest:    req.NotifyOnAccessRequest,
		NotifyOnAccessResponse:   req.NotifyOnAccessResponse,
	})
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, settings)
}
