package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vireo-cms/vireo-api/internal/models"
)

// Blog sort orders accepted by BlogFilter.
const (
	BlogSortNewest  = "newest"
	BlogSortOldest  = "oldest"
	BlogSortPopular = "popular"
	BlogSortTitle   = "title"
)

// BlogFilter narrows blog list queries.
type BlogFilter struct {
	Page       int
	PageSize   int
	Search     string
	CategoryID uint
	Status     string
	Sort       string
}

// CategoryCount pairs a category with its blog count.
type CategoryCount struct {
	CategoryID   uint   `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Count        int64  `json:"count"`
}

// BlogRepository persists blog posts and categories.
type BlogRepository interface {
	List(ctx context.Context, filter BlogFilter) ([]models.Blog, int64, error)
	FindByID(ctx context.Context, id uint) (*models.Blog, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.Blog, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, blog *models.Blog) error
	Update(ctx context.Context, blog *models.Blog) error
	Delete(ctx context.Context, id uint) error
	IncrementViewCount(ctx context.Context, id uint) error

	FindCategoryByID(ctx context.Context, id uint) (*models.BlogCategory, error)
	FindActiveCategoryBySlug(ctx context.Context, slug string) (*models.BlogCategory, error)
	ListCategories(ctx context.Context) ([]models.BlogCategory, error)
	CreateCategory(ctx context.Context, category *models.BlogCategory) error
	UpdateCategory(ctx context.Context, category *models.BlogCategory) error
	DeleteCategory(ctx context.Context, id uint) error

	CountByStatus(ctx context.Context, status string) (int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]models.Blog, error)
	CountPerCategory(ctx context.Context) ([]CategoryCount, error)
}

type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository constructs the blog repository.
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) List(ctx context.Context, filter BlogFilter) ([]models.Blog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Blog{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR excerpt LIKE ?", like, like)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.Sort {
	case BlogSortOldest:
		query = query.Order("published_at ASC")
	case BlogSortPopular:
		query = query.Order("view_count DESC")
	case BlogSortTitle:
		query = query.Order("title ASC")
	default:
		query = query.Order("published_at DESC")
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var blogs []models.Blog
	if err := query.Preload("Category").Find(&blogs).Error; err != nil {
		return nil, 0, err
	}
	return blogs, total, nil
}

func (r *blogRepository) FindByID(ctx context.Context, id uint) (*models.Blog, error) {
	var blog models.Blog
	if err := r.db.WithContext(ctx).Preload("Category").First(&blog, id).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepository) FindPublishedBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	var blog models.Blog
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("slug = ? AND status = ?", slug, models.ContentStatusPublished).
		First(&blog).Error
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Blog{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

func (r *blogRepository) Create(ctx context.Context, blog *models.Blog) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(blog).Error
}

func (r *blogRepository) Update(ctx context.Context, blog *models.Blog) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(blog).Error
}

func (r *blogRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Blog{}, id).Error
}

func (r *blogRepository) IncrementViewCount(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Blog{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *blogRepository) FindCategoryByID(ctx context.Context, id uint) (*models.BlogCategory, error) {
	var category models.BlogCategory
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *blogRepository) FindActiveCategoryBySlug(ctx context.Context, slug string) (*models.BlogCategory, error) {
	var category models.BlogCategory
	err := r.db.WithContext(ctx).
		Where("slug = ? AND status = ?", slug, "active").
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *blogRepository) ListCategories(ctx context.Context) ([]models.BlogCategory, error) {
	var categories []models.BlogCategory
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *blogRepository) CreateCategory(ctx context.Context, category *models.BlogCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *blogRepository) UpdateCategory(ctx context.Context, category *models.BlogCategory) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *blogRepository) DeleteCategory(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.BlogCategory{}, id).Error
}

func (r *blogRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Blog{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *blogRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Blog{}).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *blogRepository) ListRecent(ctx context.Context, limit int) ([]models.Blog, error) {
	var blogs []models.Blog
	err := r.db.WithContext(ctx).
		Preload("Category").
		Order("created_at DESC").
		Limit(limit).
		Find(&blogs).Error
	return blogs, err
}

func (r *blogRepository) CountPerCategory(ctx context.Context) ([]CategoryCount, error) {
	var counts []CategoryCount
	err := r.db.WithContext(ctx).
		Model(&models.Blog{}).
		Select("blogs.category_id AS category_id, blog_categories.name AS category_name, COUNT(*) AS count").
		Joins("LEFT JOIN blog_categories ON blog_categories.id = blogs.category_id").
		Group("blogs.category_id, blog_categories.name").
		Scan(&counts).Error
	return counts, err
}
