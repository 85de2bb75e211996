package service

import (
	"time"

	"pagebin/html-api/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CodeCleanup periodically deletes expired verification and reset
// codes. Expired rows already behave like absent ones, this just
// keeps the table from growing forever.
func CodeCleanup(t time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Code cleanup attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			res := db.
				Where("expires_at < ?", time.Now()).
				Delete(model.VerificationCode{})
			if res.Error != nil {
				zap.L().Error("Failed to cleanup expired codes", zap.Error(res.Error))
				continue
			}

			if res.RowsAffected > 0 {
				zap.L().Debug("Cleaned up expired codes", zap.Int64("deleted", res.RowsAffected))
			}
		}
	}()
}
