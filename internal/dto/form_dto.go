package dto

import (
	"time"

	"gorm.io/datatypes"

	"github.com/vireo-cms/vireo-api/internal/models"
)

// FieldOptionInput is an option entry in a form field payload.
type FieldOptionInput struct {
	ID             uint   `json:"id"`
	Label          string `json:"label" validate:"required,min=1,max=255"`
	Value          string `json:"value" validate:"max=255"`
	Image          string `json:"image" validate:"omitempty,max=512"`
	NextQuestionID *uint  `json:"nextQuestionId"`
	IsEnd          bool   `json:"isEnd"`
	OrderIndex     *int   `json:"orderIndex" validate:"omitempty,gte=0"`
}

// FormFieldInput is a field entry in a create/update form payload.
type FormFieldInput struct {
	ID             uint               `json:"id"`
	Type           string             `json:"type" validate:"required,min=1,max=64"`
	Label          string             `json:"label" validate:"required,min=1,max=255"`
	Placeholder    string             `json:"placeholder" validate:"max=255"`
	IsRequired     bool               `json:"isRequired"`
	OrderIndex     *int               `json:"orderIndex" validate:"omitempty,gte=0"`
	Note           string             `json:"note"`
	NextQuestionID *uint              `json:"nextQuestionId"`
	IsExpired      bool               `json:"isExpired"`
	Options        []FieldOptionInput `json:"options" validate:"omitempty,dive"`
}

// CreateFormRequest is the admin payload for creating a form.
type CreateFormRequest struct {
	Title       string           `json:"title" validate:"required,min=1,max=255"`
	Slug        string           `json:"slug" validate:"required,min=1,max=255"`
	Description string           `json:"description"`
	Status      string           `json:"status" validate:"omitempty,oneof=draft published"`
	Fields      []FormFieldInput `json:"fields" validate:"omitempty,dive"`
}

// UpdateFormRequest is the admin payload for updating a form. Fields, when
// present, fully replace the form's field collection (options included).
type UpdateFormRequest struct {
	Title       *string          `json:"title" validate:"omitempty,min=1,max=255"`
	Slug        *string          `json:"slug" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description"`
	Status      *string          `json:"status" validate:"omitempty,oneof=draft published"`
	Fields      []FormFieldInput `json:"fields" validate:"omitempty,dive"`
}

// SubmitFormRequest carries a public submission payload keyed either by
// field label or by the question_<id> convention.
type SubmitFormRequest struct {
	Data map[string]any `json:"data" validate:"required"`
}

// UpdateSubmissionStatusRequest changes a submission's workflow status.
type UpdateSubmissionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new processed closed"`
}

// AddSubmissionNoteRequest appends a note to a submission.
type AddSubmissionNoteRequest struct {
	Content string `json:"content" validate:"required,min=1,max=4000"`
}

// FieldOptionResponse serializes a form field option.
type FieldOptionResponse struct {
	ID             uint   `json:"id"`
	FieldID        uint   `json:"fieldId"`
	Label          string `json:"label"`
	Value          string `json:"value"`
	Image          string `json:"image"`
	NextQuestionID *uint  `json:"nextQuestionId"`
	IsEnd          bool   `json:"isEnd"`
	OrderIndex     int    `json:"orderIndex"`
}

// FormFieldResponse serializes a form field with ordered options.
type FormFieldResponse struct {
	ID             uint                  `json:"id"`
	FormID         uint                  `json:"formId"`
	Type           string                `json:"type"`
	Label          string                `json:"label"`
	Placeholder    string                `json:"placeholder"`
	IsRequired     bool                  `json:"isRequired"`
	OrderIndex     int                   `json:"orderIndex"`
	Note           string                `json:"note"`
	NextQuestionID *uint                 `json:"nextQuestionId"`
	IsExpired      bool                  `json:"isExpired"`
	Options        []FieldOptionResponse `json:"options"`
}

// FormResponse serializes a form with its ordered fields.
type FormResponse struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	Slug        string              `json:"slug"`
	Description string              `json:"description"`
	Status      string              `json:"status"`
	Fields      []FormFieldResponse `json:"fields"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// FormListItemResponse is a list entry with aggregate counts.
type FormListItemResponse struct {
	FormResponse
	FieldCount      int64 `json:"fieldCount"`
	SubmissionCount int64 `json:"submissionCount"`
}

// FormListResponse wraps a paginated form listing.
type FormListResponse struct {
	Items      []FormListItemResponse `json:"items"`
	Pagination PaginationMeta         `json:"pagination"`
}

// SubmissionNoteResponse serializes a submission note.
type SubmissionNoteResponse struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubmissionResponse serializes a form submission.
type SubmissionResponse struct {
	ID        uint                     `json:"id"`
	FormID    uint                     `json:"formId"`
	FormTitle string                   `json:"formTitle,omitempty"`
	Data      datatypes.JSONMap        `json:"data"`
	Status    string                   `json:"status"`
	Notes     []SubmissionNoteResponse `json:"notes"`
	CreatedAt time.Time                `json:"createdAt"`
}

// SubmissionListResponse wraps a paginated submission listing.
type SubmissionListResponse struct {
	Items      []SubmissionResponse `json:"items"`
	Pagination PaginationMeta       `json:"pagination"`
}

// ToFieldOptionResponse maps an option model.
func ToFieldOptionResponse(o models.FormFieldOption) FieldOptionResponse {
	return FieldOptionResponse{
		ID:             o.ID,
		FieldID:        o.FieldID,
		Label:          o.Label,
		Value:          o.Value,
		Image:          o.Image,
		NextQuestionID: o.NextQuestionID,
		IsEnd:          o.IsEnd,
		OrderIndex:     o.OrderIndex,
	}
}

// ToFormFieldResponse maps a field model with options.
func ToFormFieldResponse(f models.FormField) FormFieldResponse {
	options := make([]FieldOptionResponse, 0, len(f.Options))
	for _, o := range f.Options {
		options = append(options, ToFieldOptionResponse(o))
	}
	return FormFieldResponse{
		ID:             f.ID,
		FormID:         f.FormID,
		Type:           f.Type,
		Label:          f.Label,
		Placeholder:    f.Placeholder,
		IsRequired:     f.IsRequired,
		OrderIndex:     f.OrderIndex,
		Note:           f.Note,
		NextQuestionID: f.NextQuestionID,
		IsExpired:      f.IsExpired,
		Options:        options,
	}
}

// ToFormResponse maps a form model with fields and options.
func ToFormResponse(f models.Form) FormResponse {
	fields := make([]FormFieldResponse, 0, len(f.Fields))
	for _, field := range f.Fields {
		fields = append(fields, ToFormFieldResponse(field))
	}
	return FormResponse{
		ID:          f.ID,
		Title:       f.Title,
		Slug:        f.Slug,
		Description: f.Description,
		Status:      f.Status,
		Fields:      fields,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// ToSubmissionResponse maps a submission model with notes.
func ToSubmissionResponse(s models.FormSubmission) SubmissionResponse {
	notes := make([]SubmissionNoteResponse, 0, len(s.Notes))
	for _, n := range s.Notes {
		notes = append(notes, SubmissionNoteResponse{ID: n.ID, Content: n.Content, CreatedAt: n.CreatedAt})
	}
	resp := SubmissionResponse{
		ID:        s.ID,
		FormID:    s.FormID,
		Data:      s.Data,
		Status:    s.Status,
		Notes:     notes,
		CreatedAt: s.CreatedAt,
	}
	if s.Form.ID != 0 {
		resp.FormTitle = s.Form.Title
	}
	return resp
}
