package user

import (
	"net/http"
	"time"

	"pagebin/html-api/app/respond"
	"pagebin/html-api/internal"
	"pagebin/html-api/internal/model"
	"pagebin/html-api/internal/service"
	"pagebin/html-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const codeTTL = 30 * time.Minute

type registerBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserRegister creates a new, unverified account and queues the
// verification mail
func UserRegister(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data registerBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	hash, err := d.Argon.GenerateFromPassword(data.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	usr, err := d.Users.Create(data.Email, hash)
	if err != nil {
		respond.DomainError(c, requestID, err)
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
		"userID":   usr.ID,
		"verified": usr.Verified,
	})
}
