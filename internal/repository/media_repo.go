package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vireo-cms/vireo-api/internal/models"
)

// MediaFilter narrows media library queries.
type MediaFilter struct {
	Page     int
	PageSize int
	Type     string
	Search   string
}

// MediaRepository persists uploaded media metadata.
type MediaRepository interface {
	List(ctx context.Context, filter MediaFilter) ([]models.MediaItem, int64, error)
	FindByID(ctx context.Context, id uint) (*models.MediaItem, error)
	FindByFileID(ctx context.Context, fileID string) (*models.MediaItem, error)
	FindByURL(ctx context.Context, url string) (*models.MediaItem, error)
	Create(ctx context.Context, item *models.MediaItem) error
	Update(ctx context.Context, item *models.MediaItem) error
	Delete(ctx context.Context, id uint) error
	SetInUse(ctx context.Context, id uint, inUse bool) error
}

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository constructs the media repository.
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) List(ctx context.Context, filter MediaFilter) ([]models.MediaItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.MediaItem{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR original_name LIKE ?", like, like)
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

	var items []models.MediaItem
	if err := query.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *mediaRepository) FindByID(ctx context.Context, id uint) (*models.MediaItem, error) {
	var item models.MediaItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *mediaRepository) FindByFileID(ctx context.Context, fileID string) (*models.MediaItem, error) {
	var item models.MediaItem
	if err := r.db.WithContext(ctx).Where("file_id = ?", fileID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *mediaRepository) FindByURL(ctx context.Context, url string) (*models.MediaItem, error) {
	var item models.MediaItem
	if err := r.db.WithContext(ctx).Where("url = ?", url).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *mediaRepository) Create(ctx context.Context, item *models.MediaItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *mediaRepository) Update(ctx context.Context, item *models.MediaItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *mediaRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.MediaItem{}, id).Error
}

func (r *mediaRepository) SetInUse(ctx context.Context, id uint, inUse bool) error {
	return r.db.WithContext(ctx).
		Model(&models.MediaItem{}).
		Where("id = ?", id).
		Update("in_use", inUse).Error
}
