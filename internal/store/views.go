package store

import (
	"errors"
	"pagebin/html-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Views is the per-URL view counter. It lives next to the file store
// but never references file rows directly, only the shared URL key,
// which is what lets a view land even when the file row is missing.
type Views struct {
	db *gorm.DB
}

func NewViews(db *gorm.DB) *Views {
	return &Views{db: db}
}

// Record bumps the counter for url and returns the post-increment
// value. The increment-or-init runs as a single upsert with RETURNING
// so concurrent callers always observe distinct, strictly increasing
// counts. A missing row starts the counter at 1.
func (v *Views) Record(url string) (int64, error) {
	rec := model.ViewRecord{URL: url, Views: 1}

	err := v.db.
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "url"}},
				DoUpdates: clause.Assignments(map[string]any{"views": gorm.Expr("view_records.views + 1")}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "views"}}},
		).
		Create(&rec).
		Error
	if err != nil {
		return 0, err
	}

	return rec.Views, nil
}

// Count returns the current tally for url, or 0 when no record
// exists. View counts are advisory telemetry so an unknown URL is
// never an error.
func (v *Views) Count(url string) (int64, error) {
	var rec model.ViewRecord

	err := v.db.
		Where("url = ?", url).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}

		return 0, err
	}

	return rec.Views, nil
}
