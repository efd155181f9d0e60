package dto

import (
	"time"

	"gorm.io/datatypes"

	"github.com/vireo-cms/vireo-api/internal/models"
)

// UpdateSettingsRequest upserts the site settings singleton.
type UpdateSettingsRequest struct {
	Title        *string           `json:"title" validate:"omitempty,min=1,max=255"`
	Description  *string           `json:"description"`
	PrimaryColor *string           `json:"primaryColor" validate:"omitempty,max=32"`
	Logo         *string           `json:"logo" validate:"omitempty,max=512"`
	Favicon      *string           `json:"favicon" validate:"omitempty,max=512"`
	Extra        datatypes.JSONMap `json:"extra"`
}

// SettingsResponse serializes the site settings.
type SettingsResponse struct {
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	PrimaryColor string            `json:"primaryColor"`
	Logo         string            `json:"logo"`
	Favicon      string            `json:"favicon"`
	Extra        datatypes.JSONMap `json:"extra"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// UpdatePolicyRequest upserts a policy document by kind.
type UpdatePolicyRequest struct {
	Content string `json:"content" validate:"required"`
}

// PolicyResponse serializes a policy document.
type PolicyResponse struct {
	Kind      string    `json:"kind"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FaqRequest creates or updates an FAQ entry.
type FaqRequest struct {
	Question   string `json:"question" validate:"required,min=1,max=512"`
	Answer     string `json:"answer" validate:"required"`
	OrderIndex int    `json:"orderIndex" validate:"gte=0"`
	Status     string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// FaqResponse serializes an FAQ entry.
type FaqResponse struct {
	ID         uint   `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	OrderIndex int    `json:"orderIndex"`
	Status     string `json:"status"`
}

// SitemapEntry is one URL of the generated sitemap.
type SitemapEntry struct {
	Loc     string    `json:"loc"`
	LastMod time.Time `json:"lastmod"`
}

// ToSettingsResponse maps the settings model.
func ToSettingsResponse(s models.SiteSetting) SettingsResponse {
	return SettingsResponse{
		Title:        s.Title,
		Description:  s.Description,
		PrimaryColor: s.PrimaryColor,
		Logo:         s.Logo,
		Favicon:      s.Favicon,
		Extra:        s.Extra,
		UpdatedAt:    s.UpdatedAt,
	}
}

// ToPolicyResponse maps a policy document.
func ToPolicyResponse(p models.PolicyDocument) PolicyResponse {
	return PolicyResponse{Kind: p.Kind, Content: p.Content, UpdatedAt: p.UpdatedAt}
}

// ToFaqResponse maps an FAQ entry.
func ToFaqResponse(f models.FaqItem) FaqResponse {
	return FaqResponse{
		ID:         f.ID,
		Question:   f.Question,
		Answer:     f.Answer,
		OrderIndex: f.OrderIndex,
		Status:     f.Status,
	}
}
