package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vireo-cms/vireo-api/internal/dto"
	"github.com/vireo-cms/vireo-api/internal/models"
	"github.com/vireo-cms/vireo-api/internal/repository"
)

// Form service sentinels.
var (
	ErrFormNotFound          = errors.New("form not found")
	ErrSubmissionNotFound    = errors.New("submission not found")
	ErrNoteNotFound          = errors.New("submission note not found")
	ErrMissingRequiredFields = errors.New("missing required fields")
)

// MissingFieldsError lists the required fields absent from a submission.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// Unwrap lets errors.Is match the sentinel.
func (e *MissingFieldsError) Unwrap() error {
	return ErrMissingRequiredFields
}

// FileCleaner removes stored files referenced by submission payloads.
// MediaService satisfies it.
type FileCleaner interface {
	RemoveByURL(ctx context.Context, url string) error
}

// FormService manages forms, their field trees and submissions.
type FormService interface {
	List(ctx context.Context, page, pageSize int, status string) (dto.FormListResponse, error)
	ListPublished(ctx context.Context) ([]dto.FormResponse, error)
	GetByID(ctx context.Context, id uint) (dto.FormResponse, error)
	GetBySlug(ctx context.Context, slug string) (dto.FormResponse, error)
	Create(ctx context.Context, req dto.CreateFormRequest) (dto.FormResponse, error)
	Update(ctx context.Context, id uint, req dto.UpdateFormRequest) (dto.FormResponse, error)
	Delete(ctx context.Context, id uint) error

	Submit(ctx context.Context, formID uint, data map[string]any) (dto.SubmissionResponse, error)
	ListSubmissions(ctx context.Context, formID uint, page, pageSize int, status string) (dto.SubmissionListResponse, error)
	GetSubmission(ctx context.Context, formID, submissionID uint) (dto.SubmissionResponse, error)
	UpdateSubmissionStatus(ctx context.Context, formID, submissionID uint, status string) (dto.SubmissionResponse, error)
	DeleteSubmission(ctx context.Context, formID, submissionID uint) error
	AddSubmissionNote(ctx context.Context, formID, submissionID uint, content string) (dto.SubmissionResponse, error)
	DeleteSubmissionNote(ctx context.Context, formID, submissionID, noteID uint) error
}

type formService struct {
	repo        repository.FormRepository
	submissions repository.SubmissionRepository
	files       FileCleaner
	logger      zerolog.Logger
}

// NewFormService constructs the form service. files may be nil.
func NewFormService(
	repo repository.FormRepository,
	submissions repository.SubmissionRepository,
	files FileCleaner,
	logger zerolog.Logger,
) FormService {
	return &formService{
		repo:        repo,
		submissions: submissions,
		files:       files,
		logger:      logger.With().Str("component", "form_service").Logger(),
	}
}

func (s *formService) List(ctx context.Context, page, pageSize int, status string) (dto.FormListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	items, total, err := s.repo.List(ctx, repository.FormFilter{Page: page, PageSize: pageSize, Status: status})
	if err != nil {
		return dto.FormListResponse{}, fmt.Errorf("list forms: %w", err)
	}

	responses := make([]dto.FormListItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, dto.FormListItemResponse{
			FormResponse:    dto.ToFormResponse(item.Form),
			FieldCount:      item.FieldCount,
			SubmissionCount: item.SubmissionCount,
		})
	}
	return dto.FormListResponse{
		Items:      responses,
		Pagination: dto.NewPaginationMeta(page, pageSize, total),
	}, nil
}

func (s *formService) ListPublished(ctx context.Context) ([]dto.FormResponse, error) {
	forms, err := s.repo.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list published forms: %w", err)
	}
	responses := make([]dto.FormResponse, 0, len(forms))
	for _, form := range forms {
		responses = append(responses, dto.ToFormResponse(form))
	}
	return responses, nil
}

func (s *formService) GetByID(ctx context.Context, id uint) (dto.FormResponse, error) {
	form, err := s.findForm(ctx, id)
	if err != nil {
		return dto.FormResponse{}, err
	}
	return dto.ToFormResponse(*form), nil
}

func (s *formService) GetBySlug(ctx context.Context, slug string) (dto.FormResponse, error) {
	form, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FormResponse{}, ErrFormNotFound
		}
		return dto.FormResponse{}, fmt.Errorf("find form by slug: %w", err)
	}
	return dto.ToFormResponse(*form), nil
}

func (s *formService) Create(ctx context.Context, req dto.CreateFormRequest) (dto.FormResponse, error) {
	slug := strings.TrimSpace(req.Slug)
	taken, err := s.repo.SlugExists(ctx, slug, 0)
	if err != nil {
		return dto.FormResponse{}, fmt.Errorf("check slug: %w", err)
	}
	if taken {
		return dto.FormResponse{}, ErrSlugTaken
	}

	status := req.Status
	if status == "" {
		status = models.ContentStatusDraft
	}

	form := &models.Form{
		Title:       req.Title,
		Slug:        slug,
		Description: req.Description,
		Status:      status,
	}
	if err := s.repo.Create(ctx, form); err != nil {
		return dto.FormResponse{}, fmt.Errorf("create form: %w", err)
	}

	if len(req.Fields) > 0 {
		plan := buildFieldSyncPlan(form.ID, nil, req.Fields)
		if err := s.repo.SyncFields(ctx, form.ID, plan); err != nil {
			return dto.FormResponse{}, fmt.Errorf("create fields: %w", err)
		}
	}

	return s.GetByID(ctx, form.ID)
}

func (s *formService) Update(ctx context.Context, id uint, req dto.UpdateFormRequest) (dto.FormResponse, error) {
	form, err := s.findForm(ctx, id)
	if err != nil {
		return dto.FormResponse{}, err
	}

	if req.Slug != nil {
		slug := strings.TrimSpace(*req.Slug)
		if slug != form.Slug {
			taken, err := s.repo.SlugExists(ctx, slug, form.ID)
			if err != nil {
				return dto.FormResponse{}, fmt.Errorf("check slug: %w", err)
			}
			if taken {
				return dto.FormResponse{}, ErrSlugTaken
			}
			form.Slug = slug
		}
	}
	if req.Title != nil {
		form.Title = *req.Title
	}
	if req.Description != nil {
		form.Description = *req.Description
	}
	if req.Status != nil {
		form.Status = *req.Status
	}

	if err := s.repo.Update(ctx, form); err != nil {
		return dto.FormResponse{}, fmt.Errorf("update form: %w", err)
	}

	if req.Fields != nil {
		plan := buildFieldSyncPlan(form.ID, form.Fields, req.Fields)
		if err := s.repo.SyncFields(ctx, form.ID, plan); err != nil {
			return dto.FormResponse{}, fmt.Errorf("sync fields: %w", err)
		}
	}

	return s.GetByID(ctx, form.ID)
}

func (s *formService) Delete(ctx context.Context, id uint) error {
	if _, err := s.findForm(ctx, id); err != nil {
		return err
	}

	s.cleanupSubmissionFiles(ctx, id)

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete form: %w", err)
	}
	return nil
}

// cleanupSubmissionFiles removes uploaded files referenced by the form's
// submissions before the rows are deleted. Best-effort: failures are logged.
func (s *formService) cleanupSubmissionFiles(ctx context.Context, formID uint) {
	if s.files == nil {
		return
	}
	subs, _, err := s.submissions.List(ctx, repository.SubmissionFilter{FormID: formID})
	if err != nil {
		s.logger.Warn().Err(err).Uint("form_id", formID).Msg("failed to list submissions for file cleanup")
		return
	}
	for _, sub := range subs {
		s.removeSubmissionFiles(ctx, sub)
	}
}

func (s *formService) removeSubmissionFiles(ctx context.Context, sub models.FormSubmission) {
	if s.files == nil {
		return
	}
	for _, value := range sub.Data {
		url, ok := value.(string)
		if !ok || !strings.HasPrefix(url, "http") {
			continue
		}
		if err := s.files.RemoveByURL(ctx, url); err != nil {
			s.logger.Warn().Err(err).Uint("submission_id", sub.ID).Msg("failed to remove submission file")
		}
	}
}

func (s *formService) Submit(ctx context.Context, formID uint, data map[string]any) (dto.SubmissionResponse, error) {
	form, err := s.findForm(ctx, formID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	payload := make(datatypes.JSONMap, len(data))
	for k, v := range data {
		payload[k] = v
	}

	var missing []string
	for _, field := range form.Fields {
		key, value, found := lookupFieldValue(payload, field)
		if !found || isEmptyValue(value) {
			if field.IsRequired {
				missing = append(missing, field.Label)
			}
			continue
		}
		if len(field.Options) > 0 {
			payload[key] = resolveOptionLabel(field.Options, value)
		}
	}
	if len(missing) > 0 {
		return dto.SubmissionResponse{}, &MissingFieldsError{Fields: missing}
	}

	submission := &models.FormSubmission{
		FormID: form.ID,
		Data:   payload,
		Status: models.SubmissionStatusNew,
	}
	if err := s.submissions.Create(ctx, submission); err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("create submission: %w", err)
	}
	return dto.ToSubmissionResponse(*submission), nil
}

// lookupFieldValue finds a submitted value either under the field's label
// or under the question_<id> convention.
func lookupFieldValue(data datatypes.JSONMap, field models.FormField) (string, any, bool) {
	if value, ok := data[field.Label]; ok {
		return field.Label, value, true
	}
	key := fmt.Sprintf("question_%d", field.ID)
	if value, ok := data[key]; ok {
		return key, value, true
	}
	return "", nil, false
}

func isEmptyValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}

// resolveOptionLabel maps a submitted option reference (id, value or label)
// to the option's label, so stored payloads stay readable after options
// change.
func resolveOptionLabel(options []models.FormFieldOption, value any) any {
	str := fmt.Sprintf("%v", value)
	for _, opt := range options {
		if str == opt.Label || (opt.Value != "" && str == opt.Value) {
			return opt.Label
		}
		if id, err := strconv.ParseUint(str, 10, 64); err == nil && uint(id) == opt.ID {
			return opt.Label
		}
	}
	return value
}

func (s *formService) ListSubmissions(ctx context.Context, formID uint, page, pageSize int, status string) (dto.SubmissionListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if _, err := s.findForm(ctx, formID); err != nil {
		return dto.SubmissionListResponse{}, err
	}

	subs, total, err := s.submissions.List(ctx, repository.SubmissionFilter{
		Page:     page,
		PageSize: pageSize,
		FormID:   formID,
		Status:   status,
	})
	if err != nil {
		return dto.SubmissionListResponse{}, fmt.Errorf("list submissions: %w", err)
	}

	items := make([]dto.SubmissionResponse, 0, len(subs))
	for _, sub := range subs {
		items = append(items, dto.ToSubmissionResponse(sub))
	}
	return dto.SubmissionListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(page, pageSize, total),
	}, nil
}

func (s *formService) GetSubmission(ctx context.Context, formID, submissionID uint) (dto.SubmissionResponse, error) {
	sub, err := s.findSubmission(ctx, formID, submissionID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	return dto.ToSubmissionResponse(*sub), nil
}

func (s *formService) UpdateSubmissionStatus(ctx context.Context, formID, submissionID uint, status string) (dto.SubmissionResponse, error) {
	if _, err := s.findSubmission(ctx, formID, submissionID); err != nil {
		return dto.SubmissionResponse{}, err
	}
	if err := s.submissions.UpdateStatus(ctx, submissionID, status); err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("update submission status: %w", err)
	}
	return s.GetSubmission(ctx, formID, submissionID)
}

func (s *formService) DeleteSubmission(ctx context.Context, formID, submissionID uint) error {
	sub, err := s.findSubmission(ctx, formID, submissionID)
	if err != nil {
		return err
	}

	s.removeSubmissionFiles(ctx, *sub)

	if err := s.submissions.Delete(ctx, submissionID); err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	return nil
}

func (s *formService) AddSubmissionNote(ctx context.Context, formID, submissionID uint, content string) (dto.SubmissionResponse, error) {
	if _, err := s.findSubmission(ctx, formID, submissionID); err != nil {
		return dto.SubmissionResponse{}, err
	}
	note := &models.SubmissionNote{FormSubmissionID: submissionID, Content: content}
	if err := s.submissions.AddNote(ctx, note); err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("add submission note: %w", err)
	}
	return s.GetSubmission(ctx, formID, submissionID)
}

func (s *formService) DeleteSubmissionNote(ctx context.Context, formID, submissionID, noteID uint) error {
	if _, err := s.findSubmission(ctx, formID, submissionID); err != nil {
		return err
	}
	deleted, err := s.submissions.DeleteNote(ctx, submissionID, noteID)
	if err != nil {
		return fmt.Errorf("delete submission note: %w", err)
	}
	if deleted == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (s *formService) findForm(ctx context.Context, id uint) (*models.Form, error) {
	form, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("find form: %w", err)
	}
	return form, nil
}

func (s *formService) findSubmission(ctx context.Context, formID, submissionID uint) (*models.FormSubmission, error) {
	sub, err := s.submissions.FindByID(ctx, formID, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("find submission: %w", err)
	}
	return sub, nil
}
