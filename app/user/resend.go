package user

import (
	"net/http"

	"pagebin/html-api/app/respond"
	"pagebin/html-api/internal"
	"pagebin/html-api/internal/model"
	"pagebin/html-api/internal/service"
	"pagebin/html-api/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type resendBody struct {
	Email string `json:"email"`
}

// UserResendVerification replaces the live verification code for an
// unverified account with a fresh one and mails it out again
func UserResendVerification(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data resendBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	usr, err := d.Users.ByEmail(data.Email)
	if err != nil {
		respond.DomainError(c, requestID, err)
		return
	}

	if usr.Verified {
		respond.DomainError(c, requestID, store.ErrAlreadyVerified)
		return
	}

	code, err := d.Codes.Issue(data.Email, model.PurposeEmailVerify, codeTTL)
	if err != nil {
		respond.DomainError(c, requestID, err)
		return
	}

	if err := d.Mailer.Enqueue(service.VerificationMail(data.Email, code.Code)); err != nil {
		zap.L().Warn("Failed to enqueue verification mail", zap.Error(err), zap.String("requestID", requestID))
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Verification mail sent",
		"requestID": requestID,
	})
}
