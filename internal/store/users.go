package store

import (
	"errors"
	"time"

	"pagebin/html-api/internal/model"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Users is the identity store. Credential hashing and token issuing
// happen elsewhere; this only holds the records.
type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// Create registers a new, unverified user. The unique index on email
// is what catches duplicates, not a lookup beforehand.
func (u *Users) Create(email, passwordHash string) (*model.User, error) {
	id, err := gonanoid.Generate(idCharset, 16)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Active:       true,
		CreatedAt:    time.Now(),
	}

	if err := u.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}

		return nil, err
	}

	return user, nil
}

func (u *Users) ByEmail(email string) (*model.User, error) {
	var user model.User

	err := u.db.
		Where("email = ?", email).
		First(&user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return &user, nil
}

func (u *Users) ByID(id string) (*model.User, error) {
	var user model.User

	err := u.db.
		Where("id = ?", id).
		First(&user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return &user, nil
}
