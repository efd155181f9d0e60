package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vireo-cms/vireo-api/internal/models"
)

// FaqRepository persists FAQ entries.
type FaqRepository interface {
	ListActive(ctx context.Context) ([]models.FaqItem, error)
	ListAll(ctx context.Context) ([]models.FaqItem, error)
	FindByID(ctx context.Context, id uint) (*models.FaqItem, error)
	Create(ctx context.Context, item *models.FaqItem) error
	Update(ctx context.Context, item *models.FaqItem) error
	Delete(ctx context.Context, id uint) error
}

type faqRepository struct {
	db *gorm.DB
}

// NewFaqRepository constructs the FAQ repository.
func NewFaqRepository(db *gorm.DB) FaqRepository {
	return &faqRepository{db: db}
}

func (r *faqRepository) ListActive(ctx context.Context) ([]models.FaqItem, error) {
	var items []models.FaqItem
	err := r.db.WithContext(ctx).
		Where("status = ?", "active").
		Order("order_index ASC").
		Find(&items).Error
	return items, err
}

func (r *faqRepository) ListAll(ctx context.Context) ([]models.FaqItem, error) {
	var items []models.FaqItem
	err := r.db.WithContext(ctx).Order("order_index ASC").Find(&items).Error
	return items, err
}

func (r *faqRepository) FindByID(ctx context.Context, id uint) (*models.FaqItem, error) {
	var item models.FaqItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *faqRepository) Create(ctx context.Context, item *models.FaqItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *faqRepository) Update(ctx context.Context, item *models.FaqItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *faqRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.FaqItem{}, id).Error
}
