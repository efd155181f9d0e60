package models

import (
	"time"

	"gorm.io/datatypes"
)

// Policy document kinds.
const (
	PolicyKindPrivacy = "privacy"
	PolicyKindTerms   = "terms"
	PolicyKindCookies = "cookies"
)

// SiteSetting holds the single row of site-wide configuration.
type SiteSetting struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	Title        string            `gorm:"size:255;not null" json:"title"`
	Description  string            `gorm:"type:text" json:"description"`
	PrimaryColor string            `gorm:"size:32" json:"primaryColor"`
	Logo         string            `gorm:"size:512" json:"logo"`
	Favicon      string            `gorm:"size:512" json:"favicon"`
	Extra        datatypes.JSONMap `gorm:"type:json" json:"extra"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// PolicyDocument stores one legal document per kind (privacy, terms, cookies).
type PolicyDocument struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Kind      string    `gorm:"size:32;uniqueIndex;not null" json:"kind"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FaqItem is a single ordered question/answer entry.
type FaqItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Question   string    `gorm:"size:512;not null" json:"question"`
	Answer     string    `gorm:"type:text;not null" json:"answer"`
	OrderIndex int       `gorm:"not null;default:0" json:"orderIndex"`
	Status     string    `gorm:"size:32;not null;default:active" json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
