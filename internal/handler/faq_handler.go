package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vireo-cms/vireo-api/internal/dto"
	"github.com/vireo-cms/vireo-api/internal/service"
	"github.com/vireo-cms/vireo-api/internal/utils"
)

// FaqHandler exposes FAQ entries.
type FaqHandler struct {
	service service.FaqService
	logger  zerolog.Logger
}

// NewFaqHandler constructs the FAQ handler.
func NewFaqHandler(service service.FaqService, logger zerolog.Logger) *FaqHandler {
	return &FaqHandler{
		service: service,
		logger:  logger.With().Str("component", "faq_handler").Logger(),
	}
}

// RegisterPublic wires the public FAQ route.
func (h *FaqHandler) RegisterPublic(router fiber.Router) {
	router.Get("", h.listPublic)
}

// RegisterAdmin wires admin FAQ routes.
func (h *FaqHandler) RegisterAdmin(router fiber.Router) {
	router.Get("", h.listAll)
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *FaqHandler) listPublic(c *fiber.Ctx) error {
	items, err := h.service.ListPublic(withRequestContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list faq")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list faq")
	}

	return utils.SendSuccess(c, "faq retrieved", items)
}

func (h *FaqHandler) listAll(c *fiber.Ctx) error {
	items, err := h.service.ListAll(withRequestContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list faq")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list faq")
	}

	return utils.SendSuccess(c, "faq retrieved", items)
}

func (h *FaqHandler) create(c *fiber.Ctx) error {
	var payload dto.FaqRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	item, err := h.service.Create(withRequestContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create faq entry")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create faq entry")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "faq entry created", item)
}

func (h *FaqHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.FaqRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	item, err := h.service.Update(withRequestContext(c), id, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrFaqNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "faq entry not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update faq entry")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update faq entry")
		}
	}

	return utils.SendSuccess(c, "faq entry updated", item)
}

func (h *FaqHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(withRequestContext(c), id); err != nil {
		if errors.Is(err, service.ErrFaqNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "faq entry not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete faq entry")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete faq entry")
	}

	return utils.SendSuccess(c, "faq entry deleted", nil)
}
