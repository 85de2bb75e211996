package file

import (
	"net/http"

	"pagebin/html-api/app/respond"
	"pagebin/html-api/internal"

	"github.com/gin-gonic/gin"
)

// FileDelete removes a file the caller owns together with its view
// record
func FileDelete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	url := c.Param("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No URL provided",
			"requestID": requestID,
		})
		return
	}

	if err := d.Files.Delete(url, userID); err != nil {
		respond.DomainError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "File deleted",
		"requestID": requestID,
	})
}
