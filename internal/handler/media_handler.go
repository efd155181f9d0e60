package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vireo-cms/vireo-api/internal/dto"
	"github.com/vireo-cms/vireo-api/internal/service"
	"github.com/vireo-cms/vireo-api/internal/utils"
)

// MediaHandler exposes the media library routes.
type MediaHandler struct {
	service service.MediaService
	logger  zerolog.Logger
}

// NewMediaHandler constructs the media handler.
func NewMediaHandler(service service.MediaService, logger zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		service: service,
		logger:  logger.With().Str("component", "media_handler").Logger(),
	}
}

// RegisterAdmin wires admin media routes.
func (h *MediaHandler) RegisterAdmin(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.upload)
	router.Put("/:id", h.updateMeta)
	router.Delete("/:id", h.delete)
}

func (h *MediaHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pageSize")
	}

	result, err := h.service.List(withRequestContext(c), page, pageSize, c.Query("type"), c.Query("search"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list media")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list media")
	}

	return utils.SendSuccess(c, "media retrieved", result)
}

func (h *MediaHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	item, err := h.service.Get(withRequestContext(c), id)
	if err != nil {
		if errors.Is(err, service.ErrMediaNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "media not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to get media")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch media")
	}

	return utils.SendSuccess(c, "media retrieved", item)
}

func (h *MediaHandler) upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	item, err := h.service.Upload(withRequestContext(c), file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUploadTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, service.ErrUploadTypeNotAllowed):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("upload failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "upload failed")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "upload successful", item)
}

func (h *MediaHandler) updateMeta(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.UpdateMediaRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	item, err := h.service.UpdateMeta(withRequestContext(c), id, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrMediaNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "media not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update media")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update media")
		}
	}

	return utils.SendSuccess(c, "media updated", item)
}

func (h *MediaHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(withRequestContext(c), id); err != nil {
		if errors.Is(err, service.ErrMediaNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "media not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete media")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete media")
	}

	return utils.SendSuccess(c, "media deleted", nil)
}
