package store

import (
	"errors"
	"time"

	"pagebin/html-api/internal/model"
	"pagebin/html-api/pkg/util"

	"gorm.io/gorm"
)

const codeSize = 32

// Codes is the ledger of short lived email verification and password
// reset codes. A code is single use: the transaction that applies its
// effect also deletes it, so a replay finds nothing. Expired codes
// behave exactly like absent ones and callers can't tell the two
// apart.
type Codes struct {
	db *gorm.DB
}

func NewCodes(db *gorm.DB) *Codes {
	return &Codes{db: db}
}

// Issue creates a fresh code for email. Any previous code for the
// same email and purpose is dropped first so only one can ever be
// live.
func (s *Codes) Issue(email, purpose string, ttl time.Duration) (*model.VerificationCode, error) {
	code, err := util.GenerateToken(codeSize)
	if err != nil {
		return nil, err
	}

	rec := &model.VerificationCode{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(ttl),
		CreatedAt: time.Now(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("email = ? AND purpose = ?", email, purpose).
			Delete(model.VerificationCode{}).
			Error
		if err != nil {
			return err
		}

		return tx.Create(rec).Error
	})
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// ConsumeVerify flips the user behind email to verified if code is an
// exact, unexpired match. The code is deleted in the same transaction
// so a second attempt fails with ErrCodeInvalid.
func (s *Codes) ConsumeVerify(email, code string) error {
	return s.consume(email, code, model.PurposeEmailVerify, func(tx *gorm.DB) error {
		return tx.
			Model(model.User{}).
			Where("email = ?", email).
			Update("verified", true).
			Error
	})
}

// ConsumeReset swaps the stored credential hash if code is an exact,
// unexpired match, deleting the code alongside.
func (s *Codes) ConsumeReset(email, code, newHash string) error {
	return s.consume(email, code, model.PurposePasswordReset, func(tx *gorm.DB) error {
		return tx.
			Model(model.User{}).
			Where("email = ?", email).
			Update("password_hash", newHash).
			Error
	})
}

func (s *Codes) consume(email, code, purpose string, apply func(tx *gorm.DB) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var rec model.VerificationCode

		err := tx.
			Where("email = ? AND code = ? AND purpose = ? AND expires_at > ?",
				email, code, purpose, time.Now()).
			First(&rec).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCodeInvalid
			}

			return err
		}

		if err := tx.Delete(&rec).Error; err != nil {
			return err
		}

		return apply(tx)
	})
}
