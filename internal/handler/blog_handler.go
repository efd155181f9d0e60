package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vireo-cms/vireo-api/internal/dto"
	"github.com/vireo-cms/vireo-api/internal/service"
	"github.com/vireo-cms/vireo-api/internal/utils"
)

// BlogHandler exposes blog posts and categories.
type BlogHandler struct {
	service service.BlogService
	logger  zerolog.Logger
}

// NewBlogHandler constructs the blog handler.
func NewBlogHandler(service service.BlogService, logger zerolog.Logger) *BlogHandler {
	return &BlogHandler{
		service: service,
		logger:  logger.With().Str("component", "blog_handler").Logger(),
	}
}

// RegisterPublic wires readonly blog routes. The categories route is
// registered before the slug catch-all on purpose.
func (h *BlogHandler) RegisterPublic(router fiber.Router) {
	router.Get("", h.listPublic)
	router.Get("/categories", h.listCategories)
	router.Get("/:slug", h.getBySlug)
}

// RegisterAdmin wires admin blog routes.
func (h *BlogHandler) RegisterAdmin(router fiber.Router) {
	router.Get("", h.listAdmin)
	router.Get("/categories", h.listCategories)
	router.Post("/categories", h.createCategory)
	router.Put("/categories/:id", h.updateCategory)
	router.Delete("/categories/:id", h.deleteCategory)
	router.Get("/:id", h.getByID)
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *BlogHandler) parseListRequest(c *fiber.Ctx) (dto.BlogListRequest, error) {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return dto.BlogListRequest{}, errors.New("invalid page")
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return dto.BlogListRequest{}, errors.New("invalid pageSize")
	}

	return dto.BlogListRequest{
		Page:         page,
		PageSize:     pageSize,
		Search:       c.Query("search"),
		CategorySlug: c.Query("category"),
		Status:       c.Query("status"),
		Sort:         c.Query("sort"),
	}, nil
}

func (h *BlogHandler) listPublic(c *fiber.Ctx) error {
	req, err := h.parseListRequest(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.ListPublic(withRequestContext(c), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list blogs")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list blogs")
	}

	return utils.SendSuccess(c, "blogs retrieved", result)
}

func (h *BlogHandler) listAdmin(c *fiber.Ctx) error {
	req, err := h.parseListRequest(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.ListAdmin(withRequestContext(c), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list blogs")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list blogs")
	}

	return utils.SendSuccess(c, "blogs retrieved", result)
}

func (h *BlogHandler) getBySlug(c *fiber.Ctx) error {
	blog, err := h.service.GetBySlug(withRequestContext(c), c.Params("slug"))
	if err != nil {
		if errors.Is(err, service.ErrBlogNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "blog not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to get blog by slug")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch blog")
	}

	return utils.SendSuccess(c, "blog retrieved", blog)
}

func (h *BlogHandler) getByID(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	blog, err := h.service.GetByID(withRequestContext(c), id)
	if err != nil {
		if errors.Is(err, service.ErrBlogNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "blog not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to get blog")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch blog")
	}

	return utils.SendSuccess(c, "blog retrieved", blog)
}

func (h *BlogHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateBlogRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	blog, err := h.service.Create(withRequestContext(c), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrCategoryNotFound):
			return utils.SendError(c, fiber.StatusBadRequest, "category not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create blog")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create blog")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "blog created", blog)
}

func (h *BlogHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.UpdateBlogRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	blog, err := h.service.Update(withRequestContext(c), id, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrBlogNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "blog not found")
		case errors.Is(err, service.ErrCategoryNotFound):
			return utils.SendError(c, fiber.StatusBadRequest, "category not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update blog")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update blog")
		}
	}

	return utils.SendSuccess(c, "blog updated", blog)
}

func (h *BlogHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(withRequestContext(c), id); err != nil {
		if errors.Is(err, service.ErrBlogNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "blog not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete blog")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete blog")
	}

	return utils.SendSuccess(c, "blog deleted", nil)
}

func (h *BlogHandler) listCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(withRequestContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list categories")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list categories")
	}

	return utils.SendSuccess(c, "categories retrieved", categories)
}

func (h *BlogHandler) createCategory(c *fiber.Ctx) error {
	var payload dto.CategoryRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	category, err := h.service.CreateCategory(withRequestContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create category")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create category")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "category created", category)
}

func (h *BlogHandler) updateCategory(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CategoryRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	category, err := h.service.UpdateCategory(withRequestContext(c), id, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrCategoryNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "category not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update category")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update category")
		}
	}

	return utils.SendSuccess(c, "category updated", category)
}

func (h *BlogHandler) deleteCategory(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteCategory(withRequestContext(c), id); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "category not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete category")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete category")
	}

	return utils.SendSuccess(c, "category deleted", nil)
}
