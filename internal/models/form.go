package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission lifecycle statuses.
const (
	SubmissionStatusNew       = "new"
	SubmissionStatusProcessed = "processed"
	SubmissionStatusClosed    = "closed"
)

// Form represents a user-facing form definition with ordered fields.
type Form struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Title       string      `gorm:"size:255;not null" json:"title"`
	Slug        string      `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description string      `gorm:"type:text" json:"description"`
	Status      string      `gorm:"size:32;not null;default:draft;index" json:"status"`
	AuthorID    uint        `gorm:"index" json:"authorId"`
	Fields      []FormField `gorm:"constraint:OnDelete:CASCADE" json:"fields"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// FormField is an ordered input definition owned by a form. Question-type
// fields carry selectable options.
type FormField struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	FormID         uint              `gorm:"index;not null" json:"formId"`
	Type           string            `gorm:"size:64;not null" json:"type"`
	Label          string            `gorm:"size:255" json:"label"`
	Placeholder    string            `gorm:"size:255" json:"placeholder"`
	IsRequired     bool              `gorm:"not null;default:false" json:"isRequired"`
	OrderIndex     int               `gorm:"not null;default:0" json:"orderIndex"`
	Note           string            `gorm:"type:text" json:"note"`
	NextQuestionID *uint             `json:"nextQuestionId"`
	IsExpired      bool              `gorm:"not null;default:false" json:"isExpired"`
	Options        []FormFieldOption `gorm:"foreignKey:FieldID;constraint:OnDelete:CASCADE" json:"options"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// FormFieldOption is an ordered choice owned by a question field.
type FormFieldOption struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	FieldID        uint      `gorm:"index;not null" json:"fieldId"`
	Label          string    `gorm:"size:255" json:"label"`
	Value          string    `gorm:"size:255" json:"value"`
	Image          string    `gorm:"size:512" json:"image"`
	NextQuestionID *uint     `json:"nextQuestionId"`
	IsEnd          bool      `gorm:"not null;default:false" json:"isEnd"`
	OrderIndex     int       `gorm:"not null;default:0" json:"orderIndex"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FormSubmission stores one submitted payload. The data keys are defined by
// the form's fields, so the payload stays a JSON column.
type FormSubmission struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	FormID    uint              `gorm:"index;not null" json:"formId"`
	Form      Form              `json:"-"`
	Data      datatypes.JSONMap `gorm:"type:json" json:"data"`
	Status    string            `gorm:"size:32;not null;default:new;index" json:"status"`
	Notes     []SubmissionNote  `gorm:"constraint:OnDelete:CASCADE" json:"notes"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// SubmissionNote is an internal annotation attached to a submission.
type SubmissionNote struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	FormSubmissionID uint      `gorm:"index;not null" json:"submissionId"`
	Content          string    `gorm:"type:text;not null" json:"content"`
	CreatedAt        time.Time `json:"createdAt"`
}
