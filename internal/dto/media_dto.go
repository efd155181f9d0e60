package dto

import (
	"time"

	"github.com/vireo-cms/vireo-api/internal/models"
)

// UpdateMediaRequest edits media metadata. Only these fields are mutable;
// the stored file itself is immutable after upload.
type UpdateMediaRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=1,max=255"`
	IsDefaultImage *bool   `json:"isDefaultImage"`
	InUse          *bool   `json:"inUse"`
}

// MediaResponse serializes a media library item.
type MediaResponse struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	FileID         string    `json:"fileId"`
	URL            string    `json:"url"`
	Type           string    `json:"type"`
	MimeType       string    `json:"mimeType"`
	SizeBytes      int64     `json:"sizeBytes"`
	OriginalName   string    `json:"originalName"`
	IsDefaultImage bool      `json:"isDefaultImage"`
	InUse          bool      `json:"inUse"`
	CreatedAt      time.Time `json:"createdAt"`
}

// MediaListResponse wraps a paginated media listing.
type MediaListResponse struct {
	Items      []MediaResponse `json:"items"`
	Pagination PaginationMeta  `json:"pagination"`
}

// ToMediaResponse maps a media model.
func ToMediaResponse(m models.MediaItem) MediaResponse {
	return MediaResponse{
		ID:             m.ID,
		Name:           m.Name,
		FileID:         m.FileID,
		URL:            m.URL,
		Type:           m.Type,
		MimeType:       m.MimeType,
		SizeBytes:      m.SizeBytes,
		OriginalName:   m.OriginalName,
		IsDefaultImage: m.IsDefaultImage,
		InUse:          m.InUse,
		CreatedAt:      m.CreatedAt,
	}
}
