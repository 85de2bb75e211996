package file

import (
	"net/http"
	"strconv"

	"pagebin/html-api/app/respond"
	"pagebin/html-api/internal"

	"github.com/gin-gonic/gin"
)

// FileServe returns the document behind a short URL. Serving the
// content is what counts as a view; the post-increment tally rides
// along in the X-Views header.
func FileServe(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	url := c.Param("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No URL provided",
			"requestID": requestID,
		})
		return
	}

	ent, views, err := d.Files.Get(url)
	if err != nil {
		respond.DomainError(c, requestID, err)
		return
	}

	c.Header("X-Views", strconv.FormatInt(views, 10))
	c.Header("Content-Disposition", "inline; filename=\""+ent.Filename+"\"")
	c.Data(http.StatusOK, "text/html; charset=utf-8", ent.Content)
}
