package user

import (
	"net/http"

	"pagebin/html-api/app/respond"
	"pagebin/html-api/internal"

	"github.com/gin-gonic/gin"
)

// UserFetch returns the authenticated user's profile together with
// summaries of their files
func UserFetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	usr, err := d.Users.ByID(userID)
	if err != nil {
		respond.DomainError(c, requestID, err)
		return
	}

	files, err := d.Files.ListByOwner(userID)
	if err != nil {
		respond.DomainError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userID":   usr.ID,
		"email":    usr.Email,
		"verified": usr.Verified,
		"files":    files,
	})
}
