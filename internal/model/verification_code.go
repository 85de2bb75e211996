package model

import "time"

// Purposes a VerificationCode can be issued for
const (
	PurposeEmailVerify   = "email_verify"
	PurposePasswordReset = "password_reset"
)

// VerificationCode is a short lived, single use code bound to an email
// address. At most one live row exists per (email, purpose) because
// issuing a new code deletes the previous one first
type VerificationCode struct {
	ID        int    `gorm:"primaryKey;autoIncrement"`
	Email     string `gorm:"index;not null"`
	Code      string `gorm:"uniqueIndex;not null"`
	Purpose   string `gorm:"not null"`
	ExpiresAt time.Time
	CreatedAt time.Time
}
