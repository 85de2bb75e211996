package file

import (
	"net/http"

	"pagebin/html-api/app/respond"
	"pagebin/html-api/internal"

	"github.com/gin-gonic/gin"
)

// FileList returns summaries of every file the caller owns, oldest
// first. The number of entries is capped by the per-user quota so
// there's no paging to do.
func FileList(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	entries, err := d.Files.ListByOwner(userID)
	if err != nil {
		respond.DomainError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}
