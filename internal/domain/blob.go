package domain

import "time"

// BlobEntry is one value of the durable key/value store used for the
// municipal document and small per-session flags.
type BlobEntry struct {
	Key       string    `gorm:"type:varchar(255);primaryKey"`
	Value     []byte    `gorm:"type:blob;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName implements the GORM tabler interface.
func (BlobEntry) TableName() string { return "blobs" }
