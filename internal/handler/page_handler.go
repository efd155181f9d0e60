package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vireo-cms/vireo-api/internal/dto"
	"github.com/vireo-cms/vireo-api/internal/service"
	"github.com/vireo-cms/vireo-api/internal/utils"
)

// PageHandler exposes page management and public page delivery.
type PageHandler struct {
	service service.PageService
	logger  zerolog.Logger
}

// NewPageHandler constructs the page handler.
func NewPageHandler(service service.PageService, logger zerolog.Logger) *PageHandler {
	return &PageHandler{
		service: service,
		logger:  logger.With().Str("component", "page_handler").Logger(),
	}
}

// RegisterPublic wires readonly page routes.
func (h *PageHandler) RegisterPublic(router fiber.Router) {
	router.Get("", h.listPublished)
	router.Get("/main", h.getMain)
	router.Get("/:slug", h.getBySlug)
}

// RegisterAdmin wires admin page routes.
func (h *PageHandler) RegisterAdmin(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.getByID)
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *PageHandler) listPublished(c *fiber.Ctx) error {
	pages, err := h.service.ListPublished(withRequestContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list published pages")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list pages")
	}

	return utils.SendSuccess(c, "pages retrieved", pages)
}

func (h *PageHandler) getMain(c *fiber.Ctx) error {
	page, err := h.service.GetMainPage(withRequestContext(c))
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "main page not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to get main page")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch main page")
	}

	return utils.SendSuccess(c, "main page retrieved", page)
}

func (h *PageHandler) getBySlug(c *fiber.Ctx) error {
	page, err := h.service.GetBySlug(withRequestContext(c), c.Params("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "page not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to get page by slug")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch page")
	}

	return utils.SendSuccess(c, "page retrieved", page)
}

func (h *PageHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pageSize")
	}

	result, err := h.service.List(withRequestContext(c), page, pageSize, c.Query("status"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list pages")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list pages")
	}

	return utils.SendSuccess(c, "pages retrieved", result)
}

func (h *PageHandler) getByID(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	page, err := h.service.GetByID(withRequestContext(c), id)
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "page not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to get page")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch page")
	}

	return utils.SendSuccess(c, "page retrieved", page)
}

func (h *PageHandler) create(c *fiber.Ctx) error {
	var payload dto.CreatePageRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	page, err := h.service.Create(withRequestContext(c), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSlugTaken):
			return utils.SendError(c, fiber.StatusConflict, "slug already in use")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create page")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create page")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "page created", page)
}

func (h *PageHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.UpdatePageRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	page, err := h.service.Update(withRequestContext(c), id, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrPageNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "page not found")
		case errors.Is(err, service.ErrSlugTaken):
			return utils.SendError(c, fiber.StatusConflict, "slug already in use")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update page")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update page")
		}
	}

	return utils.SendSuccess(c, "page updated", page)
}

func (h *PageHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(withRequestContext(c), id); err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "page not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete page")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete page")
	}

	return utils.SendSuccess(c, "page deleted", nil)
}
