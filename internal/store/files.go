package store

import (
	"errors"
	"strings"
	"time"

	"pagebin/html-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Files owns the short URL -> document mapping and enforces the
// per-owner quota. All mutations are scoped to the owning user.
type Files struct {
	db    *gorm.DB
	views *Views

	maxFileSize    int64
	maxURLsPerUser int64
}

func NewFiles(db *gorm.DB, views *Views, maxFileSize, maxURLsPerUser int64) *Files {
	return &Files{
		db:             db,
		views:          views,
		maxFileSize:    maxFileSize,
		maxURLsPerUser: maxURLsPerUser,
	}
}

func (f *Files) validate(filename string, content []byte) error {
	if !strings.HasSuffix(strings.ToLower(filename), ".html") {
		return ErrInvalidFileType
	}

	if int64(len(content)) > f.maxFileSize {
		return ErrFileTooLarge
	}

	return nil
}

// Create claims url for ownerID and stores the document together with
// a zero valued view record. Every precondition failure returns a
// domain error and leaves the database untouched. The quota check is
// a plain count-then-insert: two simultaneous uploads from the same
// owner can both pass it and overshoot the limit by one, which is an
// accepted gap rather than something worth a table lock.
func (f *Files) Create(ownerID, filename string, content []byte, url string) (*model.File, error) {
	if err := f.validate(filename, content); err != nil {
		return nil, err
	}

	var count int64
	err := f.db.
		Model(model.File{}).
		Where("owner_id = ?", ownerID).
		Count(&count).
		Error
	if err != nil {
		return nil, err
	}

	if count >= f.maxURLsPerUser {
		return nil, ErrQuotaExceeded
	}

	file := &model.File{
		URL:       url,
		OwnerID:   ownerID,
		Filename:  filename,
		Content:   content,
		Size:      int64(len(content)),
		CreatedAt: time.Now().UnixMilli(),
	}

	err = f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(file).Error; err != nil {
			return err
		}

		// A counter can already exist if the URL was claimed and
		// deleted before. The new owner starts from zero either way
		return tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "url"}},
				DoUpdates: clause.Assignments(map[string]interface{}{"views": 0}),
			}).
			Create(&model.ViewRecord{URL: url}).
			Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrURLTaken
		}

		return nil, err
	}

	return file, nil
}

// Update replaces the content and filename of the file behind url.
// Only the owner may do this, and the URL, owner and creation time
// never change.
func (f *Files) Update(url, callerID, filename string, content []byte) error {
	var file model.File

	err := f.db.
		Select("url", "owner_id").
		Where("url = ?", url).
		First(&file).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}

		return err
	}

	if file.OwnerID != callerID {
		return ErrForbidden
	}

	if err := f.validate(filename, content); err != nil {
		return err
	}

	return f.db.
		Model(model.File{}).
		Where("url = ?", url).
		Updates(map[string]any{
			"filename":   filename,
			"content":    content,
			"size":       int64(len(content)),
			"updated_at": time.Now().UnixMilli(),
		}).
		Error
}

// Delete removes the file and its view record. The file row goes
// first so a concurrent read can't serve content for a URL whose
// counter is already gone.
func (f *Files) Delete(url, callerID string) error {
	var file model.File

	err := f.db.
		Select("url", "owner_id").
		Where("url = ?", url).
		First(&file).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}

		return err
	}

	if file.OwnerID != callerID {
		return ErrForbidden
	}

	err = f.db.
		Where("url = ?", url).
		Delete(model.File{}).
		Error
	if err != nil {
		return err
	}

	return f.db.
		Where("url = ?", url).
		Delete(model.ViewRecord{}).
		Error
}

// Get returns the document behind url together with its post-read
// view count. Counting the view is part of the read path, not a
// separate step callers have to remember.
func (f *Files) Get(url string) (*model.File, int64, error) {
	var file model.File

	err := f.db.
		Where("url = ?", url).
		First(&file).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}

		return nil, 0, err
	}

	views, err := f.views.Record(url)
	if err != nil {
		return nil, 0, err
	}

	return &file, views, nil
}

// ListByOwner returns summaries of every file ownerID currently
// holds, oldest first. Contents stay in the database.
func (f *Files) ListByOwner(ownerID string) ([]model.FileSummary, error) {
	var entries []model.FileSummary

	err := f.db.
		Model(model.File{}).
		Select("files.url, files.filename, files.size, files.created_at, files.updated_at, COALESCE(view_records.views, 0) AS views").
		Joins("LEFT JOIN view_records ON view_records.url = files.url").
		Where("files.owner_id = ?", ownerID).
		Order("files.created_at asc").
		Scan(&entries).
		Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}
