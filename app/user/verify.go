package user

import (
	"net/http"

	"pagebin/html-api/app/respond"
	"pagebin/html-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type verifyBody struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// UserVerify consumes a verification code and marks the account as
// verified. Invalid, expired and already-used codes all fail the same
// way on purpose.
func UserVerify(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data verifyBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Email == "" || data.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Email and code fields can't be empty",
			"requestID": requestID,
		})
		return
	}

	if err := d.Codes.ConsumeVerify(data.Email, data.Code); err != nil {
		respond.DomainError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Account verified successfully",
		"requestID": requestID,
	})
}
