package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vireo-cms/vireo-api/internal/dto"
	"github.com/vireo-cms/vireo-api/internal/service"
	"github.com/vireo-cms/vireo-api/internal/utils"
)

// FormHandler exposes form management, public submission and inbox routes.
type FormHandler struct {
	service service.FormService
	logger  zerolog.Logger
}

// NewFormHandler constructs the form handler.
func NewFormHandler(service service.FormService, logger zerolog.Logger) *FormHandler {
	return &FormHandler{
		service: service,
		logger:  logger.With().Str("component", "form_handler").Logger(),
	}
}

// RegisterPublic wires the public form routes.
func (h *FormHandler) RegisterPublic(router fiber.Router) {
	router.Get("", h.listPublished)
	router.Get("/:slug", h.getBySlug)
	router.Post("/:id/submissions", h.submit)
}

// RegisterAdmin wires the admin form routes.
func (h *FormHandler) RegisterAdmin(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.getByID)
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)

	router.Get("/:id/submissions", h.listSubmissions)
	router.Get("/:id/submissions/:submissionId", h.getSubmission)
	router.Patch("/:id/submissions/:submissionId/status", h.updateSubmissionStatus)
	router.Delete("/:id/submissions/:submissionId", h.deleteSubmission)
	router.Post("/:id/submissions/:submissionId/notes", h.addNote)
	router.Delete("/:id/submissions/:submissionId/notes/:noteId", h.deleteNote)
}

func (h *FormHandler) listPublished(c *fiber.Ctx) error {
	forms, err := h.service.ListPublished(withRequestContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list published forms")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list forms")
	}

	return utils.SendSuccess(c, "forms retrieved", forms)
}

func (h *FormHandler) getBySlug(c *fiber.Ctx) error {
	form, err := h.service.GetBySlug(withRequestContext(c), c.Params("slug"))
	if err != nil {
		if errors.Is(err, service.ErrFormNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "form not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to get form by slug")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch form")
	}

	return utils.SendSuccess(c, "form retrieved", form)
}

func (h *FormHandler) submit(c *fiber.Ctx) error {
	formID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SubmitFormRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	submission, err := h.service.Submit(withRequestContext(c), formID, payload.Data)
	if err != nil {
		var missing *service.MissingFieldsError
		switch {
		case errors.As(err, &missing):
			return utils.SendError(c, fiber.StatusBadRequest, "missing required fields: "+strings.Join(missing.Fields, ", "))
		case errors.Is(err, service.ErrFormNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "form not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to submit form")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to submit form")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission accepted", submission)
}

func (h *FormHandler) list(c *fiber.Ctx) error {
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
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list forms")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list forms")
	}

	return utils.SendSuccess(c, "forms retrieved", result)
}

func (h *FormHandler) getByID(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	form, err := h.service.GetByID(withRequestContext(c), id)
	if err != nil {
		if errors.Is(err, service.ErrFormNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "form not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to get form")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch form")
	}

	return utils.SendSuccess(c, "form retrieved", form)
}

func (h *FormHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateFormRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	form, err := h.service.Create(withRequestContext(c), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSlugTaken):
			return utils.SendError(c, fiber.StatusConflict, "slug already in use")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create form")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create form")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "form created", form)
}

func (h *FormHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.UpdateFormRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	form, err := h.service.Update(withRequestContext(c), id, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrFormNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "form not found")
		case errors.Is(err, service.ErrSlugTaken):
			return utils.SendError(c, fiber.StatusConflict, "slug already in use")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update form")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update form")
		}
	}

	return utils.SendSuccess(c, "form updated", form)
}

func (h *FormHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(withRequestContext(c), id); err != nil {
		if errors.Is(err, service.ErrFormNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "form not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete form")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete form")
	}

	return utils.SendSuccess(c, "form deleted", nil)
}

func (h *FormHandler) listSubmissions(c *fiber.Ctx) error {
	formID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pageSize")
	}

	result, err := h.service.ListSubmissions(withRequestContext(c), formID, page, pageSize, c.Query("status"))
	if err != nil {
		if errors.Is(err, service.ErrFormNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "form not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list submissions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list submissions")
	}

	return utils.SendSuccess(c, "submissions retrieved", result)
}

func (h *FormHandler) getSubmission(c *fiber.Ctx) error {
	formID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	submissionID, err := parseUintParam(c, "submissionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	submission, err := h.service.GetSubmission(withRequestContext(c), formID, submissionID)
	if err != nil {
		if errors.Is(err, service.ErrFormNotFound) || errors.Is(err, service.ErrSubmissionNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "submission not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to get submission")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch submission")
	}

	return utils.SendSuccess(c, "submission retrieved", submission)
}

func (h *FormHandler) updateSubmissionStatus(c *fiber.Ctx) error {
	formID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	submissionID, err := parseUintParam(c, "submissionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.UpdateSubmissionStatusRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	submission, err := h.service.UpdateSubmissionStatus(withRequestContext(c), formID, submissionID, payload.Status)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrFormNotFound), errors.Is(err, service.ErrSubmissionNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "submission not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update submission status")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update submission")
		}
	}

	return utils.SendSuccess(c, "submission updated", submission)
}

func (h *FormHandler) deleteSubmission(c *fiber.Ctx) error {
	formID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	submissionID, err := parseUintParam(c, "submissionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteSubmission(withRequestContext(c), formID, submissionID); err != nil {
		if errors.Is(err, service.ErrFormNotFound) || errors.Is(err, service.ErrSubmissionNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "submission not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete submission")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete submission")
	}

	return utils.SendSuccess(c, "submission deleted", nil)
}

func (h *FormHandler) addNote(c *fiber.Ctx) error {
	formID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	submissionID, err := parseUintParam(c, "submissionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AddSubmissionNoteRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	submission, err := h.service.AddSubmissionNote(withRequestContext(c), formID, submissionID, payload.Content)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrFormNotFound), errors.Is(err, service.ErrSubmissionNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "submission not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to add note")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to add note")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "note added", submission)
}

func (h *FormHandler) deleteNote(c *fiber.Ctx) error {
	formID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	submissionID, err := parseUintParam(c, "submissionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	noteID, err := parseUintParam(c, "noteId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteSubmissionNote(withRequestContext(c), formID, submissionID, noteID); err != nil {
		if errors.Is(err, service.ErrFormNotFound) || errors.Is(err, service.ErrSubmissionNotFound) || errors.Is(err, service.ErrNoteNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "note not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete note")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete note")
	}

	return utils.SendSuccess(c, "note deleted", nil)
}
