package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vireo-cms/vireo-api/internal/dto"
	"github.com/vireo-cms/vireo-api/internal/service"
	"github.com/vireo-cms/vireo-api/internal/utils"
)

// AnalyticsHandler exposes dashboard statistics and tracking endpoints.
type AnalyticsHandler struct {
	service service.AnalyticsService
	logger  zerolog.Logger
}

// NewAnalyticsHandler constructs the analytics handler.
func NewAnalyticsHandler(service service.AnalyticsService, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger.With().Str("component", "analytics_handler").Logger(),
	}
}

// RegisterPublic wires the anonymous tracking route.
func (h *AnalyticsHandler) RegisterPublic(router fiber.Router) {
	router.Post("/track-view", h.trackView)
}

// RegisterAdmin wires the statistics and maintenance routes.
func (h *AnalyticsHandler) RegisterAdmin(router fiber.Router) {
	router.Get("/dashboard-stats", h.dashboardStats)
	router.Get("/activity-stats", h.activityStats)
	router.Get("/submission-stats", h.submissionStats)
	router.Get("/global-stats", h.globalStats)
	router.Post("/track-activity", h.trackActivity)
	router.Delete("/activities", h.resetActivities)
	router.Delete("/submissions", h.resetSubmissions)
	router.Delete("/forms/:id/submissions", h.resetFormSubmissions)
}

func (h *AnalyticsHandler) dashboardStats(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	stats, err := h.service.GetDashboardStats(withRequestContext(c), c.Query("period"), limit)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build dashboard stats")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch dashboard stats")
	}

	return utils.SendSuccess(c, "dashboard stats retrieved", stats)
}

func (h *AnalyticsHandler) activityStats(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	stats, err := h.service.GetPageActivityStats(withRequestContext(c), page, limit)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build activity stats")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch activity stats")
	}

	return utils.SendSuccess(c, "activity stats retrieved", stats)
}

func (h *AnalyticsHandler) submissionStats(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	stats, err := h.service.GetFormSubmissionStats(withRequestContext(c), page, limit)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build submission stats")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch submission stats")
	}

	return utils.SendSuccess(c, "submission stats retrieved", stats)
}

func (h *AnalyticsHandler) globalStats(c *fiber.Ctx) error {
	stats, err := h.service.GetGlobalStats(withRequestContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build global stats")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch global stats")
	}

	return utils.SendSuccess(c, "global stats retrieved", stats)
}

func (h *AnalyticsHandler) trackView(c *fiber.Ctx) error {
	var payload dto.TrackViewRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.TrackView(withRequestContext(c), payload.Path); err != nil {
		if errors.Is(err, service.ErrInvalidTrackPayload) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to track view")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to track view")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "view tracked", nil)
}

func (h *AnalyticsHandler) trackActivity(c *fiber.Ctx) error {
	var payload dto.TrackActivityRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.TrackActivity(withRequestContext(c), payload.PageID, payload.PageName, payload.Action); err != nil {
		if errors.Is(err, service.ErrInvalidTrackPayload) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to track activity")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to track activity")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "activity tracked", nil)
}

func (h *AnalyticsHandler) resetActivities(c *fiber.Ctx) error {
	removed, err := h.service.ResetActivities(withRequestContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to reset activities")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to reset activities")
	}

	return utils.SendSuccess(c, "activities reset", fiber.Map{"removed": removed})
}

func (h *AnalyticsHandler) resetSubmissions(c *fiber.Ctx) error {
	removed, err := h.service.ResetSubmissions(withRequestContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to reset submissions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to reset submissions")
	}

	return utils.SendSuccess(c, "submissions reset", fiber.Map{"removed": removed})
}

func (h *AnalyticsHandler) resetFormSubmissions(c *fiber.Ctx) error {
	formID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	reset, err := h.service.ResetFormSubmissions(withRequestContext(c), formID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to reset form submissions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to reset form submissions")
	}

	return utils.SendSuccess(c, "form submissions reset", fiber.Map{"reset": reset})
}
