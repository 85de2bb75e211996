// Package db opens the database handle used by every store
package db

import (
	"errors"
	"fmt"
	"pagebin/html-api/internal/model"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New opens the configured database (sqlite by default, postgres for
// real deployments) and migrates all tables. TranslateError is on so
// unique key violations surface as gorm.ErrDuplicatedKey instead of
// driver specific errors.
func New() (*gorm.DB, error) {
	dsn := viper.GetString("db.dsn")

	var dial gorm.Dialector

	switch viper.GetString("db.driver") {
	case "postgres":
		dial = postgres.Open(dsn)
	case "sqlite":
		dial = sqlite.Open(dsn)
	default:
		return nil, errors.New("invalid database driver provided")
	}

	db, err := gorm.Open(dial, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	err = db.AutoMigrate(model.User{}, model.File{}, model.ViewRecord{}, model.VerificationCode{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
