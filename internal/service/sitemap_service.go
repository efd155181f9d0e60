package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vireo-cms/vireo-api/internal/dto"
	"github.com/vireo-cms/vireo-api/internal/models"
	"github.com/vireo-cms/vireo-api/internal/repository"
)

// SitemapService lists the public URLs of published content.
type SitemapService interface {
	Entries(ctx context.Context) ([]dto.SitemapEntry, error)
}

type sitemapService struct {
	pages   repository.PageRepository
	blogs   repository.BlogRepository
	baseURL string
	logger  zerolog.Logger
}

// NewSitemapService constructs the sitemap service.
func NewSitemapService(pages repository.PageRepository, blogs repository.BlogRepository, baseURL string, logger zerolog.Logger) SitemapService {
	return &sitemapService{
		pages:   pages,
		blogs:   blogs,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.With().Str("component", "sitemap_service").Logger(),
	}
}

func (s *sitemapService) Entries(ctx context.Context) ([]dto.SitemapEntry, error) {
	pages, err := s.pages.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list published pages: %w", err)
	}
	blogs, _, err := s.blogs.List(ctx, repository.BlogFilter{Status: models.ContentStatusPublished})
	if err != nil {
		return nil, fmt.Errorf("list published blogs: %w", err)
	}

	entries := make([]dto.SitemapEntry, 0, len(pages)+len(blogs))
	for _, p := range pages {
		loc := s.baseURL + "/" + p.Slug
		if p.IsMainPage {
			loc = s.baseURL + "/"
		}
		entries = append(entries, dto.SitemapEntry{Loc: loc, LastMod: p.UpdatedAt})
	}
	for _, b := range blogs {
		entries = append(entries, dto.SitemapEntry{
			Loc:     s.baseURL + "/blog/" + b.Slug,
			LastMod: b.UpdatedAt,
		})
	}
	return entries, nil
}
