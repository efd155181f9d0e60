package models

import "time"

// MediaItem tracks an asset stored in the upload backend.
type MediaItem struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	FileID         string    `gorm:"size:255;not null;index" json:"fileId"`
	URL            string    `gorm:"size:512;not null" json:"url"`
	Type           string    `gorm:"size:64;not null;index" json:"type"`
	MimeType       string    `gorm:"size:128" json:"mimeType"`
	SizeBytes      int64     `json:"size"`
	OriginalName   string    `gorm:"size:255" json:"originalName"`
	IsDefaultImage bool      `gorm:"not null;default:false" json:"isDefaultImage"`
	InUse          bool      `gorm:"not null;default:false" json:"inUse"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
