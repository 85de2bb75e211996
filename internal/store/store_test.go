package store_test

import (
	"path/filepath"
	"testing"

	"pagebin/html-api/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testMaxFileSize = 64
	testMaxURLs     = 10
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(model.User{}, model.File{}, model.ViewRecord{}, model.VerificationCode{})
	require.NoError(t, err)

	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()

	usr := &model.User{
		ID:           "user-" + email,
		Email:        email,
		PasswordHash: "$argon2id$stub",
		Active:       true,
	}
	require.NoError(t, db.Create(usr).Error)

	return usr
}
