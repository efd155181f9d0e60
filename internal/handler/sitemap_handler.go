package handler

import (
	"encoding/xml"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vireo-cms/vireo-api/internal/service"
	"github.com/vireo-cms/vireo-api/internal/utils"
)

// SitemapHandler renders the sitemap for published content.
type SitemapHandler struct {
	service service.SitemapService
	logger  zerolog.Logger
}

// NewSitemapHandler constructs the sitemap handler.
func NewSitemapHandler(service service.SitemapService, logger zerolog.Logger) *SitemapHandler {
	return &SitemapHandler{
		service: service,
		logger:  logger.With().Str("component", "sitemap_handler").Logger(),
	}
}

// Register wires the sitemap route.
func (h *SitemapHandler) Register(router fiber.Router) {
	router.Get("/sitemap.xml", h.sitemap)
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

func (h *SitemapHandler) sitemap(c *fiber.Ctx) error {
	entries, err := h.service.Entries(withRequestContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build sitemap")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build sitemap")
	}

	urlSet := sitemapURLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, 0, len(entries)),
	}
	for _, entry := range entries {
		urlSet.URLs = append(urlSet.URLs, sitemapURL{
			Loc:     entry.Loc,
			LastMod: entry.LastMod.UTC().Format("2006-01-02"),
		})
	}

	body, err := xml.MarshalIndent(urlSet, "", "  ")
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to encode sitemap")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build sitemap")
	}

	c.Set(fiber.HeaderContentType, "application/xml; charset=utf-8")
	return c.SendString(xml.Header + string(body))
}
