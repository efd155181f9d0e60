package dto

import (
	"time"

	"github.com/vireo-cms/vireo-api/internal/models"
)

// BlockInput is a block entry in a create/update page payload. A zero or
// unknown ID means the block is created; a known ID updates the existing row.
// A nil OrderIndex falls back to the entry's position in the array.
type BlockInput struct {
	ID         uint   `json:"id"`
	Type       string `json:"type" validate:"required,min=1,max=64"`
	Title      string `json:"title" validate:"max=255"`
	Content    string `json:"content"`
	OrderIndex *int   `json:"orderIndex" validate:"omitempty,gte=0"`
	Status     string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// CreatePageRequest is the admin payload for creating a page.
type CreatePageRequest struct {
	Title          string       `json:"title" validate:"required,min=1,max=255"`
	Slug           string       `json:"slug" validate:"required,min=1,max=255"`
	Description    string       `json:"description"`
	MetaTitle      string       `json:"metaTitle" validate:"max=255"`
	MetaKeywords   string       `json:"metaKeywords" validate:"max=512"`
	OGImage        string       `json:"ogImage" validate:"omitempty,max=512"`
	FeaturedImage  string       `json:"featuredImage" validate:"omitempty,max=512"`
	CanonicalURL   string       `json:"canonicalUrl" validate:"omitempty,max=512"`
	StructuredData string       `json:"structuredData"`
	Robots         string       `json:"robots" validate:"max=128"`
	Status         string       `json:"status" validate:"omitempty,oneof=draft published"`
	IsMainPage     bool         `json:"isMainPage"`
	Blocks         []BlockInput `json:"blocks" validate:"omitempty,dive"`
}

// UpdatePageRequest is the admin payload for updating a page. Blocks, when
// present, fully replace the page's block collection.
type UpdatePageRequest struct {
	Title          *string      `json:"title" validate:"omitempty,min=1,max=255"`
	Slug           *string      `json:"slug" validate:"omitempty,min=1,max=255"`
	Description    *string      `json:"description"`
	MetaTitle      *string      `json:"metaTitle" validate:"omitempty,max=255"`
	MetaKeywords   *string      `json:"metaKeywords" validate:"omitempty,max=512"`
	OGImage        *string      `json:"ogImage" validate:"omitempty,max=512"`
	FeaturedImage  *string      `json:"featuredImage" validate:"omitempty,max=512"`
	CanonicalURL   *string      `json:"canonicalUrl" validate:"omitempty,max=512"`
	StructuredData *string      `json:"structuredData"`
	Robots         *string      `json:"robots" validate:"omitempty,max=128"`
	Status         *string      `json:"status" validate:"omitempty,oneof=draft published"`
	IsMainPage     *bool        `json:"isMainPage"`
	Blocks         []BlockInput `json:"blocks" validate:"omitempty,dive"`
}

// BlockResponse serializes a block.
type BlockResponse struct {
	ID         uint      `json:"id"`
	PageID     uint      `json:"pageId"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	OrderIndex int       `json:"orderIndex"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// PageResponse serializes a page with its ordered blocks.
type PageResponse struct {
	ID             uint            `json:"id"`
	Title          string          `json:"title"`
	Slug           string          `json:"slug"`
	Description    string          `json:"description"`
	MetaTitle      string          `json:"metaTitle"`
	MetaKeywords   string          `json:"metaKeywords"`
	OGImage        string          `json:"ogImage"`
	FeaturedImage  string          `json:"featuredImage"`
	CanonicalURL   string          `json:"canonicalUrl"`
	StructuredData string          `json:"structuredData"`
	Robots         string          `json:"robots"`
	Status         string          `json:"status"`
	IsMainPage     bool            `json:"isMainPage"`
	Blocks         []BlockResponse `json:"blocks"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// PageSummary is a light entry for published-page listings.
type PageSummary struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	IsMainPage bool   `json:"isMainPage"`
}

// PageListResponse wraps a paginated page listing.
type PageListResponse struct {
	Items      []PageResponse `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// ToBlockResponse maps a block model.
func ToBlockResponse(b models.Block) BlockResponse {
	return BlockResponse{
		ID:         b.ID,
		PageID:     b.PageID,
		Type:       b.Type,
		Title:      b.Title,
		Content:    b.Content,
		OrderIndex: b.OrderIndex,
		Status:     b.Status,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

// ToPageResponse maps a page model with blocks.
func ToPageResponse(p models.Page) PageResponse {
	blocks := make([]BlockResponse, 0, len(p.Blocks))
	for _, b := range p.Blocks {
		blocks = append(blocks, ToBlockResponse(b))
	}
	return PageResponse{
		ID:             p.ID,
		Title:          p.Title,
		Slug:           p.Slug,
		Description:    p.Description,
		MetaTitle:      p.MetaTitle,
		MetaKeywords:   p.MetaKeywords,
		OGImage:        p.OGImage,
		FeaturedImage:  p.FeaturedImage,
		CanonicalURL:   p.CanonicalURL,
		StructuredData: p.StructuredData,
		Robots:         p.Robots,
		Status:         p.Status,
		IsMainPage:     p.IsMainPage,
		Blocks:         blocks,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ToPageSummary maps a page to its public summary.
func ToPageSummary(p models.Page) PageSummary {
	return PageSummary{ID: p.ID, Title: p.Title, Slug: p.Slug, IsMainPage: p.IsMainPage}
}
