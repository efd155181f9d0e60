package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vireo-cms/vireo-api/internal/models"
)

// BlockFilter narrows standalone block queries.
type BlockFilter struct {
	Page     int
	PageSize int
	PageID   uint
	Type     string
	Status   string
}

// BlockRepository persists blocks outside the page reconcile path.
type BlockRepository interface {
	List(ctx context.Context, filter BlockFilter) ([]models.Block, int64, error)
	FindByID(ctx context.Context, id uint) (*models.Block, error)
	Create(ctx context.Context, block *models.Block) error
	Update(ctx context.Context, block *models.Block) error
	Delete(ctx context.Context, id uint) error
}

type blockRepository struct {
	db *gorm.DB
}

// NewBlockRepository constructs the block repository.
func NewBlockRepository(db *gorm.DB) BlockRepository {
	return &blockRepository{db: db}
}

func (r *blockRepository) List(ctx context.Context, filter BlockFilter) ([]models.Block, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Block{})
	if filter.PageID != 0 {
		query = query.Where("page_id = ?", filter.PageID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
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

	var blocks []models.Block
	if err := query.Order("page_id ASC, order_index ASC").Find(&blocks).Error; err != nil {
		return nil, 0, err
	}
	return blocks, total, nil
}

func (r *blockRepository) FindByID(ctx context.Context, id uint) (*models.Block, error) {
	var block models.Block
	if err := r.db.WithContext(ctx).First(&block, id).Error; err != nil {
		return nil, err
	}
	return &block, nil
}

func (r *blockRepository) Create(ctx context.Context, block *models.Block) error {
	return r.db.WithContext(ctx).Create(block).Error
}

func (r *blockRepository) Update(ctx context.Context, block *models.Block) error {
	return r.db.WithContext(ctx).Save(block).Error
}

func (r *blockRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Block{}, id).Error
}
