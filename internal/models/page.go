package models

import "time"

// Page statuses shared by pages, blogs and forms.
const (
	ContentStatusDraft     = "draft"
	ContentStatusPublished = "published"
)

// Block statuses.
const (
	BlockStatusActive   = "active"
	BlockStatusInactive = "inactive"
)

// Page represents a CMS page composed of ordered content blocks.
type Page struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Slug           string    `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description    string    `gorm:"type:text" json:"description"`
	MetaTitle      string    `gorm:"size:255" json:"metaTitle"`
	MetaKeywords   string    `gorm:"size:512" json:"metaKeywords"`
	OGImage        string    `gorm:"size:512" json:"ogImage"`
	FeaturedImage  string    `gorm:"size:512" json:"featuredImage"`
	CanonicalURL   string    `gorm:"size:512" json:"canonicalUrl"`
	StructuredData string    `gorm:"type:text" json:"structuredData"`
	Robots         string    `gorm:"size:128" json:"robots"`
	Status         string    `gorm:"size:32;not null;default:draft;index" json:"status"`
	IsMainPage     bool      `gorm:"not null;default:false;index" json:"isMainPage"`
	AuthorID       uint      `gorm:"index" json:"authorId"`
	Blocks         []Block   `gorm:"constraint:OnDelete:CASCADE" json:"blocks"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Block is a single ordered content unit owned by a page.
type Block struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PageID     uint      `gorm:"index;not null" json:"pageId"`
	Type       string    `gorm:"size:64;not null" json:"type"`
	Title      string    `gorm:"size:255" json:"title"`
	Content    string    `gorm:"type:text" json:"content"`
	OrderIndex int       `gorm:"not null;default:0" json:"orderIndex"`
	Status     string    `gorm:"size:32;not null;default:active" json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
