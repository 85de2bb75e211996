package store

import (
	"errors"
	"fmt"
	"pagebin/html-api/internal/model"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

const (
	urlAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	urlLength   = 6
)

// URLs hands out short identifiers for new uploads. Allocation only
// guarantees the URL was free at the moment it was drawn; the insert
// that follows is what actually claims it, so callers must treat a
// duplicate key error on insert as ErrURLTaken and retry or bail.
type URLs struct {
	db *gorm.DB
}

func NewURLs(db *gorm.DB) *URLs {
	return &URLs{db: db}
}

// Allocate draws random 6 character identifiers until one is found
// that no file currently uses. With 36^6 possible keys a retry is
// nearly impossible, but the loop tolerates any number of them.
func (u *URLs) Allocate() (string, error) {
	for {
		url, err := gonanoid.Generate(urlAlphabet, urlLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate URL, %w", err)
		}

		taken, err := u.taken(url)
		if err != nil {
			return "", err
		}

		if !taken {
			return url, nil
		}
	}
}

// ValidateCustom checks a caller supplied identifier for shape and
// availability. A malformed candidate fails with ErrInvalidURL, an
// occupied one with ErrURLTaken.
func (u *URLs) ValidateCustom(candidate string) error {
	if len(candidate) != urlLength {
		return ErrInvalidURL
	}

	for _, r := range candidate {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ErrInvalidURL
		}
	}

	taken, err := u.taken(candidate)
	if err != nil {
		return err
	}

	if taken {
		return ErrURLTaken
	}

	return nil
}

func (u *URLs) taken(url string) (bool, error) {
	err := u.db.
		Model(model.File{}).
		Select("url").
		Where("url = ?", url).
		First(&url).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}
