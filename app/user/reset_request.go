package user

import (
	"net/http"

	"pagebin/html-api/app/respond"
	"pagebin/html-api/internal"
	"pagebin/html-api/internal/model"
	"pagebin/html-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type resetRequestBody struct {
	Email string `json:"email"`
}

// UserResetRequest issues a password reset code for a registered
// email and queues the mail carrying it
func UserResetRequest(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data resetRequestBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if _, err := d.Users.ByEmail(data.Email); err != nil {
		respond.DomainError(c, requestID, err)
		return
	}

	code, err := d.Codes.Issue(data.Email, model.PurposePasswordReset, codeTTL)
	if err != nil {
		respond.DomainError(c, requestID, err)
		return
	}

	if err := d.Mailer.Enqueue(service.ResetMail(data.Email, code.Code)); err != nil {
		zap.L().Warn("Failed to enqueue reset mail", zap.Error(err), zap.String("requestID", requestID))
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Reset mail sent",
		"requestID": requestID,
	})
}
