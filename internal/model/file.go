package model

// File is a single hosted HTML document. The short URL is the primary
// key and never changes once the row is claimed by an upload.
type File struct {
	URL      string `gorm:"primaryKey" json:"url"`
	OwnerID  string `gorm:"index;not null" json:"-"`
	Filename string `gorm:"not null" json:"name"`
	Content  []byte `gorm:"not null" json:"-"`
	Size     int64  `json:"size"`

	// Unix millisecond timestamps. UpdatedAt stays nil until the
	// first edit so clients can tell untouched files apart
	CreatedAt int64  `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt *int64 `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`
}

// FileSummary is what file listings return. Views are joined in from
// the view_records table by the store
type FileSummary struct {
	URL       string `json:"url"`
	Filename  string `json:"name"`
	Size      int64  `json:"size"`
	Views     int64  `json:"views"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt *int64 `json:"updated_at,omitempty"`
}
