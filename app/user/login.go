package user

import (
	"errors"
	"net/http"
	"time"

	"pagebin/html-api/app/respond"
	"pagebin/html-api/internal"
	"pagebin/html-api/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserLogin checks credentials and hands out the auth_token cookie.
// A wrong password and an unknown email both come back as bad
// credentials so the endpoint can't be used to probe for accounts.
func UserLogin(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data loginBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Email == "" || data.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Email and password fields can't be empty",
			"requestID": requestID,
		})
		return
	}

	usr, err := d.Users.ByEmail(data.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond.DomainError(c, requestID, store.ErrBadCredentials)
			return
		}

		respond.DomainError(c, requestID, err)
		return
	}

	ok, err := d.Argon.VerifyPasswd(data.Password, usr.PasswordHash)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to verify password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !ok {
		respond.DomainError(c, requestID, store.ErrBadCredentials)
		return
	}

	authToken, err := makeToken(&jwt.MapClaims{
		"user_id": usr.ID,
		"type":    "auth",
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(time.Hour * 24 * 30).Unix(),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate JWT auth token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	sslEnabled := viper.GetBool("host.ssl.enabled")

	c.SetCookie("auth_token", authToken, 60*60*24*30, "/", "", sslEnabled, true)
	c.SetCookie("logged_in", "1", 60*60*24*30, "/", "", sslEnabled, false)
	c.JSON(http.StatusOK, gin.H{
		"userID":   usr.ID,
		"email":    usr.Email,
		"verified": usr.Verified,
	})
}

func makeToken(c *jwt.MapClaims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString([]byte(viper.GetString("jwt.secret")))
}
