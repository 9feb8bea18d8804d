package handlers

import (
	"fileshare/utils"

	"github.com/gin-gonic/gin"
)

func Search(c *gin.Context) {
	userID := c.GetUint("user_id")
	query := c.Query("q")

	out, err := getServices().Search.Search(c.Request.Context(), userID, query)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, out)
}
