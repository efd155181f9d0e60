package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vireo-cms/vireo-api/internal/models"
)

// PageFilter narrows page list queries.
type PageFilter struct {
	Page     int
	PageSize int
	Status   string
}

// BlockSyncPlan describes the writes needed to replace a page's block set.
// Blocks with a zero ID are inserted, the rest are updated in place.
type BlockSyncPlan struct {
	DeleteIDs []uint
	Blocks    []models.Block
}

// PageRepository persists pages and their blocks.
type PageRepository interface {
	List(ctx context.Context, filter PageFilter) ([]models.Page, int64, error)
	ListPublished(ctx context.Context) ([]models.Page, error)
	FindByID(ctx context.Context, id uint) (*models.Page, error)
	FindBySlug(ctx context.Context, slug string) (*models.Page, error)
	FindMainPage(ctx context.Context) (*models.Page, error)
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
	Create(ctx context.Context, page *models.Page) error
	Update(ctx context.Context, page *models.Page) error
	Delete(ctx context.Context, id uint) error
	ClearMainPage(ctx context.Context, excludeID uint) error
	SyncBlocks(ctx context.Context, pageID uint, plan BlockSyncPlan) error

	CountByStatus(ctx context.Context, status string) (int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]models.Page, error)
}

type pageRepository struct {
	db *gorm.DB
}

// NewPageRepository constructs the page repository.
func NewPageRepository(db *gorm.DB) PageRepository {
	return &pageRepository{db: db}
}

func orderedBlocks(db *gorm.DB) *gorm.DB {
	return db.Order("blocks.order_index ASC")
}

func (r *pageRepository) List(ctx context.Context, filter PageFilter) ([]models.Page, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Page{})
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

	var pages []models.Page
	if err := query.Order("created_at DESC").Find(&pages).Error; err != nil {
		return nil, 0, err
	}
	return pages, total, nil
}

func (r *pageRepository) ListPublished(ctx context.Context) ([]models.Page, error) {
	var pages []models.Page
	err := r.db.WithContext(ctx).
		Select("id", "title", "slug", "is_main_page", "updated_at").
		Where("status = ?", models.ContentStatusPublished).
		Order("created_at ASC").
		Find(&pages).Error
	return pages, err
}

func (r *pageRepository) FindByID(ctx context.Context, id uint) (*models.Page, error) {
	var page models.Page
	err := r.db.WithContext(ctx).
		Preload("Blocks", orderedBlocks).
		First(&page, id).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) FindBySlug(ctx context.Context, slug string) (*models.Page, error) {
	var page models.Page
	err := r.db.WithContext(ctx).
		Preload("Blocks", orderedBlocks).
		Where("slug = ?", slug).
		First(&page).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) FindMainPage(ctx context.Context) (*models.Page, error) {
	var page models.Page
	err := r.db.WithContext(ctx).
		Preload("Blocks", orderedBlocks).
		Where("is_main_page = ? AND status = ?", true, models.ContentStatusPublished).
		First(&page).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Page{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *pageRepository) Create(ctx context.Context, page *models.Page) error {
	return r.db.WithContext(ctx).Create(page).Error
}

func (r *pageRepository) Update(ctx context.Context, page *models.Page) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(page).Error
}

func (r *pageRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("page_id = ?", id).Delete(&models.Block{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Page{}, id).Error
	})
}

func (r *pageRepository) ClearMainPage(ctx context.Context, excludeID uint) error {
	query := r.db.WithContext(ctx).Model(&models.Page{}).Where("is_main_page = ?", true)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	return query.Update("is_main_page", false).Error
}

// SyncBlocks applies a block reconcile plan inside a single transaction
// scoped to the page: deletions first, then updates and inserts in request
// order. Any failure rolls the whole plan back.
func (r *pageRepository) SyncBlocks(ctx context.Context, pageID uint, plan BlockSyncPlan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(plan.DeleteIDs) > 0 {
			if err := tx.Where("page_id = ? AND id IN ?", pageID, plan.DeleteIDs).
				Delete(&models.Block{}).Error; err != nil {
				return err
			}
		}

		for i := range plan.Blocks {
			block := &plan.Blocks[i]
			block.PageID = pageID
			if block.ID == 0 {
				if err := tx.Create(block).Error; err != nil {
					return err
				}
				continue
			}
			if err := tx.Model(&models.Block{}).
				Where("id = ? AND page_id = ?", block.ID, pageID).
				Select("type", "title", "content", "order_index", "status").
				Updates(block).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *pageRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Page{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *pageRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Page{}).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *pageRepository) ListRecent(ctx context.Context, limit int) ([]models.Page, error) {
	var pages []models.Page
	err := r.db.WithContext(ctx).
		Select("id", "title", "status", "created_at", "slug").
		Order("created_at DESC").
		Limit(limit).
		Find(&pages).Error
	return pages, err
}
