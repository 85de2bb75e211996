package model

// ViewRecord tracks how often a short URL was fetched. It shares its
// key with File but has an independent lifecycle: the counter may be
// bumped for a URL whose file row doesn't exist (yet)
type ViewRecord struct {
	URL   string `gorm:"primaryKey" json:"url"`
	Views int64  `gorm:"not null;default:0" json:"views"`
}
