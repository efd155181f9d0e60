package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/vireo-cms/vireo-api/internal/dto"
	"github.com/vireo-cms/vireo-api/internal/models"
	"github.com/vireo-cms/vireo-api/internal/repository"
)

// Blog service sentinels.
var (
	ErrBlogNotFound     = errors.New("blog not found")
	ErrCategoryNotFound = errors.New("blog category not found")
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// BlogService manages blog posts and categories.
type BlogService interface {
	ListPublic(ctx context.Context, req dto.BlogListRequest) (dto.BlogListResponse, error)
	ListAdmin(ctx context.Context, req dto.BlogListRequest) (dto.BlogListResponse, error)
	GetBySlug(ctx context.Context, slug string) (dto.BlogResponse, error)
	GetByID(ctx context.Context, id uint) (dto.BlogResponse, error)
	Create(ctx context.Context, req dto.CreateBlogRequest) (dto.BlogResponse, error)
	Update(ctx context.Context, id uint, req dto.UpdateBlogRequest) (dto.BlogResponse, error)
	Delete(ctx context.Context, id uint) error

	ListCategories(ctx context.Context) ([]dto.CategoryResponse, error)
	CreateCategory(ctx context.Context, req dto.CategoryRequest) (dto.CategoryResponse, error)
	UpdateCategory(ctx context.Context, id uint, req dto.CategoryRequest) (dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id uint) error
}

type blogService struct {
	repo      repository.BlogRepository
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewBlogService constructs the blog service.
func NewBlogService(repo repository.BlogRepository, logger zerolog.Logger) BlogService {
	return &blogService{
		repo:      repo,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "blog_service").Logger(),
		now:       time.Now,
	}
}

func (s *blogService) ListPublic(ctx context.Context, req dto.BlogListRequest) (dto.BlogListResponse, error) {
	req.Status = models.ContentStatusPublished
	return s.list(ctx, req, false)
}

func (s *blogService) ListAdmin(ctx context.Context, req dto.BlogListRequest) (dto.BlogListResponse, error) {
	return s.list(ctx, req, true)
}

func (s *blogService) list(ctx context.Context, req dto.BlogListRequest, includeContent bool) (dto.BlogListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 12
	}

	filter := repository.BlogFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
		Search:   req.Search,
		Status:   req.Status,
		Sort:     req.Sort,
	}
	if req.CategorySlug != "" {
		category, err := s.repo.FindActiveCategoryBySlug(ctx, req.CategorySlug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.BlogListResponse{
					Items:      []dto.BlogResponse{},
					Pagination: dto.NewPaginationMeta(req.Page, req.PageSize, 0),
				}, nil
			}
			return dto.BlogListResponse{}, fmt.Errorf("find category: %w", err)
		}
		filter.CategoryID = category.ID
	}

	blogs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.BlogListResponse{}, fmt.Errorf("list blogs: %w", err)
	}

	items := make([]dto.BlogResponse, 0, len(blogs))
	for _, b := range blogs {
		items = append(items, dto.ToBlogResponse(b, includeContent))
	}
	return dto.BlogListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(req.Page, req.PageSize, total),
	}, nil
}

func (s *blogService) GetBySlug(ctx context.Context, slug string) (dto.BlogResponse, error) {
	blog, err := s.repo.FindPublishedBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BlogResponse{}, ErrBlogNotFound
		}
		return dto.BlogResponse{}, fmt.Errorf("find blog by slug: %w", err)
	}

	if err := s.repo.IncrementViewCount(ctx, blog.ID); err != nil {
		s.logger.Warn().Err(err).Uint("blog_id", blog.ID).Msg("failed to increment view count")
	} else {
		blog.ViewCount++
	}

	return dto.ToBlogResponse(*blog, true), nil
}

func (s *blogService) GetByID(ctx context.Context, id uint) (dto.BlogResponse, error) {
	blog, err := s.findBlog(ctx, id)
	if err != nil {
		return dto.BlogResponse{}, err
	}
	return dto.ToBlogResponse(*blog, true), nil
}

func (s *blogService) Create(ctx context.Context, req dto.CreateBlogRequest) (dto.BlogResponse, error) {
	if _, err := s.repo.FindCategoryByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BlogResponse{}, ErrCategoryNotFound
		}
		return dto.BlogResponse{}, fmt.Errorf("find category: %w", err)
	}

	slug, err := s.uniqueSlug(ctx, req.Title)
	if err != nil {
		return dto.BlogResponse{}, err
	}

	status := req.Status
	if status == "" {
		status = models.ContentStatusDraft
	}

	blog := &models.Blog{
		Title:         req.Title,
		Slug:          slug,
		Content:       s.sanitizer.Sanitize(req.Content),
		Excerpt:       req.Excerpt,
		FeaturedImage: req.FeaturedImage,
		CategoryID:    req.CategoryID,
		Status:        status,
	}
	if status == models.ContentStatusPublished {
		now := s.now().UTC()
		blog.PublishedAt = &now
	}

	if err := s.repo.Create(ctx, blog); err != nil {
		return dto.BlogResponse{}, fmt.Errorf("create blog: %w", err)
	}
	return s.GetByID(ctx, blog.ID)
}

func (s *blogService) Update(ctx context.Context, id uint, req dto.UpdateBlogRequest) (dto.BlogResponse, error) {
	blog, err := s.findBlog(ctx, id)
	if err != nil {
		return dto.BlogResponse{}, err
	}

	if req.CategoryID != nil && *req.CategoryID != blog.CategoryID {
		if _, err := s.repo.FindCategoryByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.BlogResponse{}, ErrCategoryNotFound
			}
			return dto.BlogResponse{}, fmt.Errorf("find category: %w", err)
		}
		blog.CategoryID = *req.CategoryID
	}
	if req.Title != nil && *req.Title != blog.Title {
		blog.Title = *req.Title
		slug, err := s.uniqueSlug(ctx, *req.Title)
		if err != nil {
			return dto.BlogResponse{}, err
		}
		blog.Slug = slug
	}
	if req.Content != nil {
		blog.Content = s.sanitizer.Sanitize(*req.Content)
	}
	if req.Excerpt != nil {
		blog.Excerpt = *req.Excerpt
	}
	if req.FeaturedImage != nil {
		blog.FeaturedImage = *req.FeaturedImage
	}
	if req.Status != nil {
		if *req.Status == models.ContentStatusPublished && blog.PublishedAt == nil {
			now := s.now().UTC()
			blog.PublishedAt = &now
		}
		blog.Status = *req.Status
	}

	if err := s.repo.Update(ctx, blog); err != nil {
		return dto.BlogResponse{}, fmt.Errorf("update blog: %w", err)
	}
	return s.GetByID(ctx, blog.ID)
}

func (s *blogService) Delete(ctx context.Context, id uint) error {
	if _, err := s.findBlog(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	return nil
}

func (s *blogService) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	responses := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, dto.ToCategoryResponse(c))
	}
	return responses, nil
}

func (s *blogService) CreateCategory(ctx context.Context, req dto.CategoryRequest) (dto.CategoryResponse, error) {
	status := req.Status
	if status == "" {
		status = "active"
	}
	category := &models.BlogCategory{Name: req.Name, Slug: req.Slug, Status: status}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return dto.CategoryResponse{}, fmt.Errorf("create category: %w", err)
	}
	return dto.ToCategoryResponse(*category), nil
}

func (s *blogService) UpdateCategory(ctx context.Context, id uint, req dto.CategoryRequest) (dto.CategoryResponse, error) {
	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CategoryResponse{}, ErrCategoryNotFound
		}
		return dto.CategoryResponse{}, fmt.Errorf("find category: %w", err)
	}

	category.Name = req.Name
	category.Slug = req.Slug
	if req.Status != "" {
		category.Status = req.Status
	}
	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return dto.CategoryResponse{}, fmt.Errorf("update category: %w", err)
	}
	return dto.ToCategoryResponse(*category), nil
}

func (s *blogService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.repo.FindCategoryByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("find category: %w", err)
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (s *blogService) findBlog(ctx context.Context, id uint) (*models.Blog, error) {
	blog, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, fmt.Errorf("find blog: %w", err)
	}
	return blog, nil
}

// uniqueSlug derives a slug from the title, suffixing a timestamp when the
// plain slug is already taken.
func (s *blogService) uniqueSlug(ctx context.Context, title string) (string, error) {
	slug := slugify(title)
	taken, err := s.repo.SlugExists(ctx, slug)
	if err != nil {
		return "", fmt.Errorf("check slug: %w", err)
	}
	if taken {
		slug = fmt.Sprintf("%s-%d", slug, s.now().Unix())
	}
	return slug, nil
}

func slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugPattern.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "post"
	}
	return slug
}
