package file

import (
	"net/http"

	"pagebin/html-api/app/respond"
	"pagebin/html-api/internal"

	"github.com/gin-gonic/gin"
)

// FileViews reports the view tally for a URL. Unknown URLs answer
// with 0 instead of an error since the count is advisory telemetry.
func FileViews(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	url := c.Param("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No URL provided",
			"requestID": requestID,
		})
		return
	}

	views, err := d.Views.Count(url)
	if err != nil {
		respond.DomainError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":   url,
		"views": views,
	})
}
