package dto

import (
	"time"

	"github.com/vireo-cms/vireo-api/internal/models"
)

// BlogListRequest defines filters for public and admin blog listings.
type BlogListRequest struct {
	Page         int
	PageSize     int
	Search       string
	CategorySlug string
	Status       string
	Sort         string
}

// CreateBlogRequest is the admin payload for creating a blog post.
type CreateBlogRequest struct {
	Title         string `json:"title" validate:"required,min=1,max=255"`
	Content       string `json:"content" validate:"required"`
	Excerpt       string `json:"excerpt" validate:"max=512"`
	FeaturedImage string `json:"featuredImage" validate:"omitempty,max=512"`
	CategoryID    uint   `json:"categoryId" validate:"required,gt=0"`
	Status        string `json:"status" validate:"omitempty,oneof=draft published"`
}

// UpdateBlogRequest is the admin payload for updating a blog post.
type UpdateBlogRequest struct {
	Title         *string `json:"title" validate:"omitempty,min=1,max=255"`
	Content       *string `json:"content"`
	Excerpt       *string `json:"excerpt" validate:"omitempty,max=512"`
	FeaturedImage *string `json:"featuredImage" validate:"omitempty,max=512"`
	CategoryID    *uint   `json:"categoryId" validate:"omitempty,gt=0"`
	Status        *string `json:"status" validate:"omitempty,oneof=draft published"`
}

// CategoryRequest creates or updates a blog category.
type CategoryRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=128"`
	Slug   string `json:"slug" validate:"required,min=1,max=128"`
	Status string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// CategoryResponse serializes a blog category.
type CategoryResponse struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Status string `json:"status"`
}

// BlogResponse serializes a blog post.
type BlogResponse struct {
	ID            uint             `json:"id"`
	Title         string           `json:"title"`
	Slug          string           `json:"slug"`
	Content       string           `json:"content,omitempty"`
	Excerpt       string           `json:"excerpt"`
	FeaturedImage string           `json:"featuredImage"`
	Category      CategoryResponse `json:"category"`
	Status        string           `json:"status"`
	ViewCount     int64            `json:"viewCount"`
	PublishedAt   *time.Time       `json:"publishedAt"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// BlogListResponse wraps a paginated blog listing.
type BlogListResponse struct {
	Items      []BlogResponse `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// ToCategoryResponse maps a category model.
func ToCategoryResponse(c models.BlogCategory) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug, Status: c.Status}
}

// ToBlogResponse maps a blog model. Set includeContent false for listings.
func ToBlogResponse(b models.Blog, includeContent bool) BlogResponse {
	resp := BlogResponse{
		ID:            b.ID,
		Title:         b.Title,
		Slug:          b.Slug,
		Excerpt:       b.Excerpt,
		FeaturedImage: b.FeaturedImage,
		Category:      ToCategoryResponse(b.Category),
		Status:        b.Status,
		ViewCount:     b.ViewCount,
		PublishedAt:   b.PublishedAt,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	if includeContent {
		resp.Content = b.Content
	}
	return resp
}
