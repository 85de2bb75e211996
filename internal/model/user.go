// Package model defines database models
package model

import "time"

type User struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null"`
	Active       bool   `gorm:"default:true"`
	Verified     bool   `gorm:"default:false"`
	CreatedAt    time.Time

	Files []File `gorm:"foreignKey:OwnerID"`
}
