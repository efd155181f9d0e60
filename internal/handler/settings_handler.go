package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vireo-cms/vireo-api/internal/dto"
	"github.com/vireo-cms/vireo-api/internal/service"
	"github.com/vireo-cms/vireo-api/internal/utils"
)

// SettingsHandler exposes site settings and policy documents.
type SettingsHandler struct {
	service service.SettingsService
	logger  zerolog.Logger
}

// NewSettingsHandler constructs the settings handler.
func NewSettingsHandler(service service.SettingsService, logger zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		logger:  logger.With().Str("component", "settings_handler").Logger(),
	}
}

// RegisterPublic wires readonly settings routes.
func (h *SettingsHandler) RegisterPublic(router fiber.Router) {
	router.Get("/settings", h.getSettings)
	router.Get("/policies/:kind", h.getPolicy)
}

// RegisterAdmin wires admin settings routes.
func (h *SettingsHandler) RegisterAdmin(router fiber.Router) {
	router.Get("/settings", h.getSettings)
	router.Put("/settings", h.updateSettings)
	router.Get("/policies/:kind", h.getPolicy)
	router.Put("/policies/:kind", h.updatePolicy)
}

func (h *SettingsHandler) getSettings(c *fiber.Ctx) error {
	settings, err := h.service.GetSettings(withRequestContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to get settings")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch settings")
	}

	return utils.SendSuccess(c, "settings retrieved", settings)
}

func (h *SettingsHandler) updateSettings(c *fiber.Ctx) error {
	var payload dto.UpdateSettingsRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	settings, err := h.service.UpdateSettings(withRequestContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to update settings")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update settings")
	}

	return utils.SendSuccess(c, "settings updated", settings)
}

func (h *SettingsHandler) getPolicy(c *fiber.Ctx) error {
	policy, err := h.service.GetPolicy(withRequestContext(c), c.Params("kind"))
	if err != nil {
		if errors.Is(err, service.ErrPolicyUnknownKind) {
			return utils.SendError(c, fiber.StatusNotFound, "unknown policy")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to get policy")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch policy")
	}

	return utils.SendSuccess(c, "policy retrieved", policy)
}

func (h *SettingsHandler) updatePolicy(c *fiber.Ctx) error {
	var payload dto.UpdatePolicyRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	policy, err := h.service.UpdatePolicy(withRequestContext(c), c.Params("kind"), payload.Content)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrPolicyUnknownKind):
			return utils.SendError(c, fiber.StatusNotFound, "unknown policy")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update policy")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update policy")
		}
	}

	return utils.SendSuccess(c, "policy updated", policy)
}
