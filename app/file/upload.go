package file

import (
	"net/http"

	"pagebin/html-api/app/respond"
	"pagebin/html-api/internal"
	"pagebin/html-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FileUpload stores a new HTML document under a short URL. The caller
// may ask for a custom URL via the url form field; otherwise one is
// allocated. Allocation doesn't reserve anything, the insert is what
// claims the key, so a lost race comes back as a conflict.
func FileUpload(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

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

	url := c.PostForm("url")
	if url != "" {
		if err := d.URLs.ValidateCustom(url); err != nil {
			respond.DomainError(c, requestID, err)
			return
		}
	} else {
		url, err = d.URLs.Allocate()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to allocate URL", zap.Error(err), zap.String("requestID", requestID))
			return
		}
	}

	ent, err := d.Files.Create(userID, fh.Filename, content, url)
	if err != nil {
		respond.DomainError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":        ent.URL,
		"name":       ent.Filename,
		"size":       ent.Size,
		"created_at": ent.CreatedAt,
	})
}
