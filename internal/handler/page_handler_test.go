package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vireo-cms/vireo-api/internal/dto"
	"github.com/vireo-cms/vireo-api/internal/handler"
	"github.com/vireo-cms/vireo-api/internal/service"
)

type mockPageService struct {
	page       dto.PageResponse
	summaries  []dto.PageSummary
	lastCreate dto.CreatePageRequest
	lastUpdate dto.UpdatePageRequest
	err        error
}

func (m *mockPageService) List(context.Context, int, int, string) (dto.PageListResponse, error) {
	return dto.PageListResponse{}, m.err
}

func (m *mockPageService) ListPublished(context.Context) ([]dto.PageSummary, error) {
	return m.summaries, m.err
}

func (m *mockPageService) GetByID(context.Context, uint) (dto.PageResponse, error) {
	return m.page, m.err
}

func (m *mockPageService) GetBySlug(context.Context, string) (dto.PageResponse, error) {
	return m.page, m.err
}

func (m *mockPageService) GetMainPage(context.Context) (dto.PageResponse, error) {
	return m.page, m.err
}

func (m *mockPageService) Create(_ context.Context, req dto.CreatePageRequest) (dto.PageResponse, error) {
	m.lastCreate = req
	return m.page, m.err
}

func (m *mockPageService) Update(_ context.Context, _ uint, req dto.UpdatePageRequest) (dto.PageResponse, error) {
	m.lastUpdate = req
	return m.page, m.err
}

func (m *mockPageService) Delete(context.Context, uint) error {
	return m.err
}

func newPageApp(svc service.PageService) *fiber.App {
	app := fiber.New()
	h := handler.NewPageHandler(svc, zerolog.New(io.Discard))
	h.RegisterPublic(app.Group("/api/pages"))
	h.RegisterAdmin(app.Group("/api/admin/pages"))
	return app
}

func TestPageHandler_CreateReturnsCreated(t *testing.T) {
	svc := &mockPageService{page: dto.PageResponse{ID: 1, Title: "Home", Slug: "home"}}
	app := newPageApp(svc)

	payload := dto.CreatePageRequest{
		Title: "Home",
		Slug:  "home",
		Blocks: []dto.BlockInput{
			{Type: "hero", Title: "Hero"},
		},
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/pages", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, "home", svc.lastCreate.Slug)
	require.Len(t, svc.lastCreate.Blocks, 1)
}

func TestPageHandler_CreateDuplicateSlugConflicts(t *testing.T) {
	svc := &mockPageService{err: service.ErrSlugTaken}
	app := newPageApp(svc)

	body, err := json.Marshal(dto.CreatePageRequest{Title: "Home", Slug: "home"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/pages", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestPageHandler_GetBySlugNotFound(t *testing.T) {
	svc := &mockPageService{err: service.ErrPageNotFound}
	app := newPageApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/pages/missing", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPageHandler_UpdateOmittedBlocksStayNil(t *testing.T) {
	svc := &mockPageService{page: dto.PageResponse{ID: 3, Title: "About"}}
	app := newPageApp(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/pages/3", bytes.NewReader([]byte(`{"title":"About"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, svc.lastUpdate.Title)
	require.Equal(t, "About", *svc.lastUpdate.Title)
	require.Nil(t, svc.lastUpdate.Blocks, "omitted blocks must not trigger a sync")
}

func TestPageHandler_UpdateEmptyBlocksStayPresent(t *testing.T) {
	svc := &mockPageService{page: dto.PageResponse{ID: 3}}
	app := newPageApp(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/pages/3", bytes.NewReader([]byte(`{"blocks":[]}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, svc.lastUpdate.Blocks, "an explicit empty block list clears the page")
	require.Empty(t, svc.lastUpdate.Blocks)
}

func TestPageHandler_ListPublished(t *testing.T) {
	svc := &mockPageService{summaries: []dto.PageSummary{{ID: 1, Title: "Home", Slug: "home"}}}
	app := newPageApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/pages", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Success bool              `json:"success"`
		Data    []dto.PageSummary `json:"data"`
	}
	decodeResponse(t, resp, &payload)
	require.True(t, payload.Success)
	require.Len(t, payload.Data, 1)
	require.Equal(t, "home", payload.Data[0].Slug)
}
