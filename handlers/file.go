package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"fileshare/services"
	"fileshare/utils"

	"github.com/gin-gonic/gin"
)

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.Error(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// UploadFile accepts a multipart upload. Encrypted uploads additionally
// carry the wrapped key and the pre-encryption metadata as form fields.
func UploadFile(c *gin.Context) {
	userID := c.GetUint("user_id")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	in := services.CreateFileInput{
		Name:               header.Filename,
		Size:               header.Size,
		MimeType:           header.Header.Get("Content-Type"),
		Reader:             file,
		EncryptedKey:       c.PostForm("encrypted_key"),
		OriginalType:       c.PostForm("original_type"),
		EncryptionMetadata: c.PostForm("encryption_metadata"),
	}
	if raw, ok := c.GetPostForm("shared"); ok {
		shared := raw == "true" || raw == "1"
		in.Shared = &shared
	}

	created, err := getServices().Files.Create(c.Request.Context(), userID, in)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, created)
}

func GetFile(c *gin.Context) {
	userID := c.GetUint("user_id")
	fileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	file, err := getServices().Files.Get(c.Request.Context(), fileID, userID)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, file)
}

func ListFiles(c *gin.Context) {
	userID := c.GetUint("user_id")

	files, err := getServices().Files.ListOwn(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, gin.H{"files": files})
}

type ToggleSharedRequest struct {
	Shared *bool `json:"shared" binding:"required"`
}

func ToggleShared(c *gin.Context) {
	userID := c.GetUint("user_id")
	fileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ToggleSharedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	file, err := getServices().Files.ToggleShared(c.Request.Context(), fileID, userID, *req.Shared)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, file)
}

func DeleteFile(c *gin.Context) {
	userID := c.GetUint("user_id")
	fileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if respondServiceError(c, getServices().Files.Delete(c.Request.Context(), fileID, userID)) {
		return
	}

	utils.Success(c, nil)
}

func DownloadFile(c *gin.Context) {
	userID := c.GetUint("user_id")
	fileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	out, err := getServices().Files.Download(c.Request.Context(), fileID, userID)
	if respondServiceError(c, err) {
		return
	}
	defer out.Reader.Close()

	contentType := out.File.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.File.Name))
	c.DataFromReader(http.StatusOK, out.File.Size, contentType, out.Reader, nil)
}

func GetFileKey(c *gin.Context) {
	userID := c.GetUint("user_id")
	fileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	key, err := getServices().Vault.RetrieveForUser(c.Request.Context(), fileID, userID)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, key)
}
