package models

import "time"

// BlogCategory groups blog posts.
type BlogCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Slug      string    `gorm:"size:128;uniqueIndex;not null" json:"slug"`
	Status    string    `gorm:"size:32;not null;default:active" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Blog is a published article belonging to a category.
type Blog struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	Title         string       `gorm:"size:255;not null" json:"title"`
	Slug          string       `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Content       string       `gorm:"type:text;not null" json:"content"`
	Excerpt       string       `gorm:"size:512" json:"excerpt"`
	FeaturedImage string       `gorm:"size:512" json:"featuredImage"`
	CategoryID    uint         `gorm:"index;not null" json:"categoryId"`
	Category      BlogCategory `json:"category"`
	Status        string       `gorm:"size:32;not null;default:draft;index" json:"status"`
	ViewCount     int64        `gorm:"not null;default:0" json:"viewCount"`
	PublishedAt   *time.Time   `gorm:"index" json:"publishedAt"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}
