package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/vireo-cms/vireo-api/internal/dto"
	"github.com/vireo-cms/vireo-api/internal/events"
	"github.com/vireo-cms/vireo-api/internal/models"
	"github.com/vireo-cms/vireo-api/internal/repository"
)

// Page service sentinels.
var (
	ErrPageNotFound = errors.New("page not found")
	ErrSlugTaken    = errors.New("slug already in use")
)

const (
	cacheKeyPublishedPages = "pages:published"
	cacheKeyMainPage       = "pages:main"
	cacheKeyPageSlugPrefix = "pages:slug:"
)

// ActivityRecorder records content mutations for the activity log.
// AnalyticsService satisfies it.
type ActivityRecorder interface {
	TrackActivity(ctx context.Context, pageID *uint, pageName, action string) error
}

// PageService manages pages and their ordered blocks.
type PageService interface {
	List(ctx context.Context, page, pageSize int, status string) (dto.PageListResponse, error)
	ListPublished(ctx context.Context) ([]dto.PageSummary, error)
	GetByID(ctx context.Context, id uint) (dto.PageResponse, error)
	GetBySlug(ctx context.Context, slug string) (dto.PageResponse, error)
	GetMainPage(ctx context.Context) (dto.PageResponse, error)
	Create(ctx context.Context, req dto.CreatePageRequest) (dto.PageResponse, error)
	Update(ctx context.Context, id uint, req dto.UpdatePageRequest) (dto.PageResponse, error)
	Delete(ctx context.Context, id uint) error
}

type pageService struct {
	repo      repository.PageRepository
	activity  ActivityRecorder
	publisher *events.Publisher
	cache     *redis.Client
	cacheTTL  time.Duration
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewPageService constructs the page service. cache and publisher may be nil.
func NewPageService(
	repo repository.PageRepository,
	activity ActivityRecorder,
	publisher *events.Publisher,
	cache *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) PageService {
	return &pageService{
		repo:      repo,
		activity:  activity,
		publisher: publisher,
		cache:     cache,
		cacheTTL:  ttl,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "page_service").Logger(),
	}
}

func (s *pageService) List(ctx context.Context, page, pageSize int, status string) (dto.PageListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	pages, total, err := s.repo.List(ctx, repository.PageFilter{Page: page, PageSize: pageSize, Status: status})
	if err != nil {
		return dto.PageListResponse{}, fmt.Errorf("list pages: %w", err)
	}

	items := make([]dto.PageResponse, 0, len(pages))
	for _, p := range pages {
		items = append(items, dto.ToPageResponse(p))
	}
	return dto.PageListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(page, pageSize, total),
	}, nil
}

func (s *pageService) ListPublished(ctx context.Context) ([]dto.PageSummary, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKeyPublishedPages).Result()
		if err == nil {
			var summaries []dto.PageSummary
			if unmarshalErr := json.Unmarshal([]byte(cached), &summaries); unmarshalErr == nil {
				return summaries, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read published pages cache")
		}
	}

	pages, err := s.repo.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list published pages: %w", err)
	}
	summaries := make([]dto.PageSummary, 0, len(pages))
	for _, p := range pages {
		summaries = append(summaries, dto.ToPageSummary(p))
	}

	if s.cache != nil {
		if payload, err := json.Marshal(summaries); err == nil {
			if err := s.cache.Set(ctx, cacheKeyPublishedPages, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store published pages cache")
			}
		}
	}
	return summaries, nil
}

func (s *pageService) GetByID(ctx context.Context, id uint) (dto.PageResponse, error) {
	page, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PageResponse{}, ErrPageNotFound
		}
		return dto.PageResponse{}, fmt.Errorf("find page: %w", err)
	}
	return dto.ToPageResponse(*page), nil
}

func (s *pageService) GetBySlug(ctx context.Context, slug string) (dto.PageResponse, error) {
	cacheKey := cacheKeyPageSlugPrefix + slug
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var response dto.PageResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read page cache")
		}
	}

	page, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PageResponse{}, ErrPageNotFound
		}
		return dto.PageResponse{}, fmt.Errorf("find page by slug: %w", err)
	}
	response := dto.ToPageResponse(*page)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store page cache")
			}
		}
	}
	return response, nil
}

func (s *pageService) GetMainPage(ctx context.Context) (dto.PageResponse, error) {
	page, err := s.repo.FindMainPage(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PageResponse{}, ErrPageNotFound
		}
		return dto.PageResponse{}, fmt.Errorf("find main page: %w", err)
	}
	return dto.ToPageResponse(*page), nil
}

func (s *pageService) Create(ctx context.Context, req dto.CreatePageRequest) (dto.PageResponse, error) {
	slug := strings.TrimSpace(req.Slug)
	taken, err := s.repo.SlugExists(ctx, slug, 0)
	if err != nil {
		return dto.PageResponse{}, fmt.Errorf("check slug: %w", err)
	}
	if taken {
		return dto.PageResponse{}, ErrSlugTaken
	}

	status := req.Status
	if status == "" {
		status = models.ContentStatusDraft
	}

	page := &models.Page{
		Title:          req.Title,
		Slug:           slug,
		Description:    req.Description,
		MetaTitle:      req.MetaTitle,
		MetaKeywords:   req.MetaKeywords,
		OGImage:        req.OGImage,
		FeaturedImage:  req.FeaturedImage,
		CanonicalURL:   req.CanonicalURL,
		StructuredData: req.StructuredData,
		Robots:         req.Robots,
		Status:         status,
		IsMainPage:     req.IsMainPage,
	}
	// The previous holder loses the flag before the new page gains it, so
	// there is never more than one main page.
	if req.IsMainPage {
		if err := s.repo.ClearMainPage(ctx, 0); err != nil {
			return dto.PageResponse{}, fmt.Errorf("clear main page flag: %w", err)
		}
	}

	if err := s.repo.Create(ctx, page); err != nil {
		return dto.PageResponse{}, fmt.Errorf("create page: %w", err)
	}

	if len(req.Blocks) > 0 {
		plan := buildBlockSyncPlan(page.ID, nil, s.sanitizeBlocks(req.Blocks))
		if err := s.repo.SyncBlocks(ctx, page.ID, plan); err != nil {
			return dto.PageResponse{}, fmt.Errorf("create blocks: %w", err)
		}
	}

	s.recordActivity(ctx, page.ID, page.Title, models.ActivityActionCreated)
	s.invalidateCaches(ctx, page.Slug)

	return s.GetByID(ctx, page.ID)
}

func (s *pageService) Update(ctx context.Context, id uint, req dto.UpdatePageRequest) (dto.PageResponse, error) {
	page, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PageResponse{}, ErrPageNotFound
		}
		return dto.PageResponse{}, fmt.Errorf("find page: %w", err)
	}
	previousSlug := page.Slug

	if req.Slug != nil {
		slug := strings.TrimSpace(*req.Slug)
		if slug != page.Slug {
			taken, err := s.repo.SlugExists(ctx, slug, page.ID)
			if err != nil {
				return dto.PageResponse{}, fmt.Errorf("check slug: %w", err)
			}
			if taken {
				return dto.PageResponse{}, ErrSlugTaken
			}
			page.Slug = slug
		}
	}
	if req.Title != nil {
		page.Title = *req.Title
	}
	if req.Description != nil {
		page.Description = *req.Description
	}
	if req.MetaTitle != nil {
		page.MetaTitle = *req.MetaTitle
	}
	if req.MetaKeywords != nil {
		page.MetaKeywords = *req.MetaKeywords
	}
	if req.OGImage != nil {
		page.OGImage = *req.OGImage
	}
	if req.FeaturedImage != nil {
		page.FeaturedImage = *req.FeaturedImage
	}
	if req.CanonicalURL != nil {
		page.CanonicalURL = *req.CanonicalURL
	}
	if req.StructuredData != nil {
		page.StructuredData = *req.StructuredData
	}
	if req.Robots != nil {
		page.Robots = *req.Robots
	}
	if req.Status != nil {
		page.Status = *req.Status
	}
	if req.IsMainPage != nil {
		page.IsMainPage = *req.IsMainPage
	}

	if page.IsMainPage {
		if err := s.repo.ClearMainPage(ctx, page.ID); err != nil {
			return dto.PageResponse{}, fmt.Errorf("clear main page flag: %w", err)
		}
	}

	if err := s.repo.Update(ctx, page); err != nil {
		return dto.PageResponse{}, fmt.Errorf("update page: %w", err)
	}

	if req.Blocks != nil {
		plan := buildBlockSyncPlan(page.ID, page.Blocks, s.sanitizeBlocks(req.Blocks))
		if err := s.repo.SyncBlocks(ctx, page.ID, plan); err != nil {
			return dto.PageResponse{}, fmt.Errorf("sync blocks: %w", err)
		}
	}

	s.recordActivity(ctx, page.ID, page.Title, models.ActivityActionUpdated)
	s.invalidateCaches(ctx, previousSlug, page.Slug)

	return s.GetByID(ctx, page.ID)
}

func (s *pageService) Delete(ctx context.Context, id uint) error {
	page, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPageNotFound
		}
		return fmt.Errorf("find page: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete page: %w", err)
	}

	s.recordActivity(ctx, page.ID, page.Title, models.ActivityActionDeleted)
	s.invalidateCaches(ctx, page.Slug)
	return nil
}

func (s *pageService) sanitizeBlocks(inputs []dto.BlockInput) []dto.BlockInput {
	cleaned := make([]dto.BlockInput, len(inputs))
	for i, in := range inputs {
		in.Content = s.sanitizer.Sanitize(in.Content)
		cleaned[i] = in
	}
	return cleaned
}

func (s *pageService) recordActivity(ctx context.Context, pageID uint, pageName, action string) {
	if s.activity != nil {
		if err := s.activity.TrackActivity(ctx, &pageID, pageName, action); err != nil {
			s.logger.Warn().Err(err).Uint("page_id", pageID).Msg("failed to record page activity")
		}
	}
	s.publisher.Publish(events.ActivityEvent{
		Entity:     "page",
		EntityID:   pageID,
		EntityName: pageName,
		Action:     action,
		OccurredAt: time.Now().UTC(),
	})
}

func (s *pageService) invalidateCaches(ctx context.Context, slugs ...string) {
	if s.cache == nil {
		return
	}
	keys := []string{cacheKeyPublishedPages, cacheKeyMainPage}
	for _, slug := range slugs {
		if slug != "" {
			keys = append(keys, cacheKeyPageSlugPrefix+slug)
		}
	}
	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate page caches")
	}
}
