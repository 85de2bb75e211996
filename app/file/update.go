package file

import (
	"net/http"

	"pagebin/html-api/app/respond"
	"pagebin/html-api/internal"
	"pagebin/html-api/pkg/validators"

	"github.com/gin-gonic/gin"
)

// FileUpdate replaces the content and filename of a file the caller
// owns. The URL and creation time stay as they are.
func FileUpdate(c *gin.Context, d *internal.Deps) {
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

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No file provided",
			"requestID": requestID,
		})
		return
	}

	code, content, err := validators.HTMLValidator(fh)
	if err != nil {
		c.JSON(code, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if err := d.Files.Update(url, userID, fh.Filename, content); err != nil {
		respond.DomainError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "File updated",
		"requestID": requestID,
	})
}
