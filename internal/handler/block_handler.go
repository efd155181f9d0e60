package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vireo-cms/vireo-api/internal/dto"
	"github.com/vireo-cms/vireo-api/internal/service"
	"github.com/vireo-cms/vireo-api/internal/utils"
)

// BlockHandler exposes standalone block management for admins.
type BlockHandler struct {
	service service.BlockService
	logger  zerolog.Logger
}

// NewBlockHandler constructs the block handler.
func NewBlockHandler(service service.BlockService, logger zerolog.Logger) *BlockHandler {
	return &BlockHandler{
		service: service,
		logger:  logger.With().Str("component", "block_handler").Logger(),
	}
}

// RegisterAdmin wires admin block routes.
func (h *BlockHandler) RegisterAdmin(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

type createBlockPayload struct {
	PageID uint `json:"pageId"`
	dto.BlockInput
}

func (h *BlockHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pageSize")
	}
	pageID, err := parseQueryInt(c, "pageId")
	if err != nil || pageID < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pageId")
	}

	blocks, meta, err := h.service.List(withRequestContext(c), page, pageSize, uint(pageID), c.Query("type"), c.Query("status"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list blocks")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list blocks")
	}

	return utils.SendSuccess(c, "blocks retrieved", fiber.Map{
		"items":      blocks,
		"pagination": meta,
	})
}

func (h *BlockHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	block, err := h.service.Get(withRequestContext(c), id)
	if err != nil {
		if errors.Is(err, service.ErrBlockNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "block not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to get block")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch block")
	}

	return utils.SendSuccess(c, "block retrieved", block)
}

func (h *BlockHandler) create(c *fiber.Ctx) error {
	var payload createBlockPayload
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	block, err := h.service.Create(withRequestContext(c), payload.PageID, payload.BlockInput)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrPageNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "page not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create block")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create block")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "block created", block)
}

func (h *BlockHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.BlockInput
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	block, err := h.service.Update(withRequestContext(c), id, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrBlockNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "block not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update block")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update block")
		}
	}

	return utils.SendSuccess(c, "block updated", block)
}

func (h *BlockHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(withRequestContext(c), id); err != nil {
		if errors.Is(err, service.ErrBlockNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "block not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete block")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete block")
	}

	return utils.SendSuccess(c, "block deleted", nil)
}
