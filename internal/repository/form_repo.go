package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vireo-cms/vireo-api/internal/models"
)

// FormFilter narrows form list queries.
type FormFilter struct {
	Page     int
	PageSize int
	Status   string
}

// FormListItem carries a form together with its child counts.
type FormListItem struct {
	models.Form
	FieldCount      int64 `json:"fieldCount"`
	SubmissionCount int64 `json:"submissionCount"`
}

// OptionSync describes the option writes for one field. Options with a zero
// ID are inserted; the repository fills FieldID for freshly created fields.
type OptionSync struct {
	DeleteIDs []uint
	Options   []models.FormFieldOption
}

// FieldSync pairs a field write with its option sub-plan. A nil option plan
// leaves the field's existing options untouched.
type FieldSync struct {
	Field   models.FormField
	Options *OptionSync
}

// FieldSyncPlan describes the writes needed to replace a form's field tree.
type FieldSyncPlan struct {
	DeleteIDs []uint
	Fields    []FieldSync
}

// FormRepository persists forms, fields and options.
type FormRepository interface {
	List(ctx context.Context, filter FormFilter) ([]FormListItem, int64, error)
	ListPublished(ctx context.Context) ([]models.Form, error)
	FindByID(ctx context.Context, id uint) (*models.Form, error)
	FindBySlug(ctx context.Context, slug string) (*models.Form, error)
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
	Create(ctx context.Context, form *models.Form) error
	Update(ctx context.Context, form *models.Form) error
	Delete(ctx context.Context, id uint) error
	SyncFields(ctx context.Context, formID uint, plan FieldSyncPlan) error
}

type formRepository struct {
	db *gorm.DB
}

// NewFormRepository constructs the form repository.
func NewFormRepository(db *gorm.DB) FormRepository {
	return &formRepository{db: db}
}

func formPreloads(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("form_fields.order_index ASC")
		}).
		Preload("Fields.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("form_field_options.order_index ASC")
		})
}

func (r *formRepository) List(ctx context.Context, filter FormFilter) ([]FormListItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Form{})
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

	var forms []models.Form
	if err := query.Order("created_at DESC").Find(&forms).Error; err != nil {
		return nil, 0, err
	}

	items := make([]FormListItem, 0, len(forms))
	for _, form := range forms {
		item := FormListItem{Form: form}
		if err := r.db.WithContext(ctx).Model(&models.FormField{}).
			Where("form_id = ?", form.ID).Count(&item.FieldCount).Error; err != nil {
			return nil, 0, err
		}
		if err := r.db.WithContext(ctx).Model(&models.FormSubmission{}).
			Where("form_id = ?", form.ID).Count(&item.SubmissionCount).Error; err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, nil
}

func (r *formRepository) ListPublished(ctx context.Context) ([]models.Form, error) {
	var forms []models.Form
	err := r.db.WithContext(ctx).
		Select("id", "title", "slug", "description").
		Where("status = ?", models.ContentStatusPublished).
		Order("created_at DESC").
		Find(&forms).Error
	return forms, err
}

func (r *formRepository) FindByID(ctx context.Context, id uint) (*models.Form, error) {
	var form models.Form
	err := formPreloads(r.db.WithContext(ctx)).First(&form, id).Error
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *formRepository) FindBySlug(ctx context.Context, slug string) (*models.Form, error) {
	var form models.Form
	err := formPreloads(r.db.WithContext(ctx)).Where("slug = ?", slug).First(&form).Error
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *formRepository) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Form{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *formRepository) Create(ctx context.Context, form *models.Form) error {
	return r.db.WithContext(ctx).Create(form).Error
}

func (r *formRepository) Update(ctx context.Context, form *models.Form) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(form).Error
}

func (r *formRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var fieldIDs []uint
		if err := tx.Model(&models.FormField{}).
			Where("form_id = ?", id).
			Pluck("id", &fieldIDs).Error; err != nil {
			return err
		}
		if len(fieldIDs) > 0 {
			if err := tx.Where("field_id IN ?", fieldIDs).
				Delete(&models.FormFieldOption{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("form_id = ?", id).Delete(&models.FormField{}).Error; err != nil {
			return err
		}

		var submissionIDs []uint
		if err := tx.Model(&models.FormSubmission{}).
			Where("form_id = ?", id).
			Pluck("id", &submissionIDs).Error; err != nil {
			return err
		}
		if len(submissionIDs) > 0 {
			if err := tx.Where("form_submission_id IN ?", submissionIDs).
				Delete(&models.SubmissionNote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("form_id = ?", id).
				Delete(&models.FormSubmission{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Form{}, id).Error
	})
}

// SyncFields applies a two-level reconcile plan in one transaction: field
// deletions cascade to options, then each field is updated or inserted in
// request order, and its option sub-plan is applied once the field ID is
// known. Any failure rolls the whole plan back.
func (r *formRepository) SyncFields(ctx context.Context, formID uint, plan FieldSyncPlan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(plan.DeleteIDs) > 0 {
			if err := tx.Where("field_id IN ?", plan.DeleteIDs).
				Delete(&models.FormFieldOption{}).Error; err != nil {
				return err
			}
			if err := tx.Where("form_id = ? AND id IN ?", formID, plan.DeleteIDs).
				Delete(&models.FormField{}).Error; err != nil {
				return err
			}
		}

		for i := range plan.Fields {
			entry := &plan.Fields[i]
			field := &entry.Field
			field.FormID = formID

			if field.ID == 0 {
				if err := tx.Omit("Options").Create(field).Error; err != nil {
					return err
				}
			} else {
				if err := tx.Model(&models.FormField{}).
					Where("id = ? AND form_id = ?", field.ID, formID).
					Select("type", "label", "placeholder", "is_required", "order_index",
						"note", "next_question_id", "is_expired").
					Updates(field).Error; err != nil {
					return err
				}
			}

			if entry.Options == nil {
				continue
			}
			if err := syncOptions(tx, field.ID, entry.Options); err != nil {
				return err
			}
		}
		return nil
	})
}

func syncOptions(tx *gorm.DB, fieldID uint, plan *OptionSync) error {
	if len(plan.DeleteIDs) > 0 {
		if err := tx.Where("field_id = ? AND id IN ?", fieldID, plan.DeleteIDs).
			Delete(&models.FormFieldOption{}).Error; err != nil {
			return err
		}
	}

	for i := range plan.Options {
		option := &plan.Options[i]
		option.FieldID = fieldID
		if option.ID == 0 {
			if err := tx.Create(option).Error; err != nil {
				return err
			}
			continue
		}
		if err := tx.Model(&models.FormFieldOption{}).
			Where("id = ? AND field_id = ?", option.ID, fieldID).
			Select("label", "value", "image", "next_question_id", "is_end", "order_index").
			Updates(option).Error; err != nil {
			return err
		}
	}
	return nil
}
