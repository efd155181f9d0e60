package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/vireo-cms/vireo-api/internal/models"
)

// SubmissionFilter narrows submission list queries.
type SubmissionFilter struct {
	Page     int
	PageSize int
	FormID   uint
	Status   string
}

// StatusCount pairs a submission status with its count.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// SubmissionRepository persists form submissions and their notes.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.FormSubmission) error
	List(ctx context.Context, filter SubmissionFilter) ([]models.FormSubmission, int64, error)
	FindByID(ctx context.Context, formID, submissionID uint) (*models.FormSubmission, error)
	UpdateStatus(ctx context.Context, submissionID uint, status string) error
	Delete(ctx context.Context, submissionID uint) error

	AddNote(ctx context.Context, note *models.SubmissionNote) error
	DeleteNote(ctx context.Context, submissionID, noteID uint) (int64, error)

	Count(ctx context.Context) (int64, error)
	CountBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	ListRecent(ctx context.Context, offset, limit int) ([]models.FormSubmission, error)
	ListSince(ctx context.Context, since time.Time) ([]models.FormSubmission, error)
	DeleteAll(ctx context.Context) (int64, error)
	ResetStatusByForm(ctx context.Context, formID uint) (int64, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository constructs the submission repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.FormSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.FormSubmission, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.FormSubmission{})
	if filter.FormID != 0 {
		query = query.Where("form_id = ?", filter.FormID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var submissions []models.FormSubmission
	if err := query.Preload("Notes").Order("created_at DESC").Find(&submissions).Error; err != nil {
		return nil, 0, err
	}
	return submissions, total, nil
}

func (r *submissionRepository) FindByID(ctx context.Context, formID, submissionID uint) (*models.FormSubmission, error) {
	var submission models.FormSubmission
	query := r.db.WithContext(ctx).Preload("Notes")
	if formID != 0 {
		query = query.Where("form_id = ?", formID)
	}
	if err := query.First(&submission, submissionID).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) UpdateStatus(ctx context.Context, submissionID uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.FormSubmission{}).
		Where("id = ?", submissionID).
		Update("status", status).Error
}

func (r *submissionRepository) Delete(ctx context.Context, submissionID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("form_submission_id = ?", submissionID).
			Delete(&models.SubmissionNote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.FormSubmission{}, submissionID).Error
	})
}

func (r *submissionRepository) AddNote(ctx context.Context, note *models.SubmissionNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *submissionRepository) DeleteNote(ctx context.Context, submissionID, noteID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND form_submission_id = ?", noteID, submissionID).
		Delete(&models.SubmissionNote{})
	return result.RowsAffected, result.Error
}

func (r *submissionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.FormSubmission{}).Count(&count).Error
	return count, err
}

func (r *submissionRepository) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.FormSubmission{}).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *submissionRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.WithContext(ctx).
		Model(&models.FormSubmission{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	return counts, err
}

func (r *submissionRepository) ListRecent(ctx context.Context, offset, limit int) ([]models.FormSubmission, error) {
	var submissions []models.FormSubmission
	err := r.db.WithContext(ctx).
		Preload("Form").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepository) ListSince(ctx context.Context, since time.Time) ([]models.FormSubmission, error) {
	var submissions []models.FormSubmission
	err := r.db.WithContext(ctx).
		Select("id", "status", "created_at").
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepository) DeleteAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.FormSubmission{}).Count(&count).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&models.SubmissionNote{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&models.FormSubmission{}).Error
	})
	return count, err
}

func (r *submissionRepository) ResetStatusByForm(ctx context.Context, formID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.FormSubmission{}).
		Where("form_id = ? AND status <> ?", formID, models.SubmissionStatusNew).
		Update("status", models.SubmissionStatusNew)
	return result.RowsAffected, result.Error
}
