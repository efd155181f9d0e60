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

type mockAnalyticsService struct {
	dashboard      dto.DashboardStatsResponse
	dashboardErr   error
	lastPeriod     string
	lastLimit      int
	trackedPath    string
	trackErr       error
	activityAction string
	removed        int64
}

func (m *mockAnalyticsService) GetDashboardStats(_ context.Context, period string, limit int) (dto.DashboardStatsResponse, error) {
	m.lastPeriod = period
	m.lastLimit = limit
	return m.dashboard, m.dashboardErr
}

func (m *mockAnalyticsService) GetPageActivityStats(context.Context, int, int) (dto.ActivityStatsResponse, error) {
	return dto.ActivityStatsResponse{}, nil
}

func (m *mockAnalyticsService) GetFormSubmissionStats(context.Context, int, int) (dto.SubmissionStatsResponse, error) {
	return dto.SubmissionStatsResponse{}, nil
}

func (m *mockAnalyticsService) GetGlobalStats(context.Context) (dto.GlobalStatsResponse, error) {
	return dto.GlobalStatsResponse{}, nil
}

func (m *mockAnalyticsService) TrackView(_ context.Context, path string) error {
	m.trackedPath = path
	return m.trackErr
}

func (m *mockAnalyticsService) TrackActivity(_ context.Context, _ *uint, _ string, action string) error {
	m.activityAction = action
	return m.trackErr
}

func (m *mockAnalyticsService) ResetActivities(context.Context) (int64, error) {
	return m.removed, nil
}

func (m *mockAnalyticsService) ResetSubmissions(context.Context) (int64, error) {
	return m.removed, nil
}

func (m *mockAnalyticsService) ResetFormSubmissions(context.Context, uint) (int64, error) {
	return m.removed, nil
}

func newAnalyticsApp(svc service.AnalyticsService) *fiber.App {
	app := fiber.New()
	h := handler.NewAnalyticsHandler(svc, zerolog.New(io.Discard))
	h.RegisterPublic(app.Group("/api/analytics"))
	h.RegisterAdmin(app.Group("/api/admin/analytics"))
	return app
}

func TestAnalyticsHandler_DashboardStats(t *testing.T) {
	svc := &mockAnalyticsService{dashboard: dto.DashboardStatsResponse{
		TotalViews: 42,
		Period:     "weekly",
	}}
	app := newAnalyticsApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics/dashboard-stats?period=weekly&limit=5", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Success bool                       `json:"success"`
		Data    dto.DashboardStatsResponse `json:"data"`
	}
	decodeResponse(t, resp, &payload)
	require.True(t, payload.Success)
	require.Equal(t, int64(42), payload.Data.TotalViews)
	require.Equal(t, "weekly", svc.lastPeriod)
	require.Equal(t, 5, svc.lastLimit)
}

func TestAnalyticsHandler_DashboardStatsRejectsBadLimit(t *testing.T) {
	app := newAnalyticsApp(&mockAnalyticsService{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics/dashboard-stats?limit=abc", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAnalyticsHandler_TrackView(t *testing.T) {
	svc := &mockAnalyticsService{}
	app := newAnalyticsApp(svc)

	body, err := json.Marshal(dto.TrackViewRequest{Path: "/blog/hello"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/analytics/track-view", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, "/blog/hello", svc.trackedPath)
}

func TestAnalyticsHandler_TrackViewRejectsInvalidPayload(t *testing.T) {
	svc := &mockAnalyticsService{trackErr: service.ErrInvalidTrackPayload}
	app := newAnalyticsApp(svc)

	body, err := json.Marshal(dto.TrackViewRequest{Path: ""})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/analytics/track-view", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAnalyticsHandler_ResetFormSubmissionsRejectsBadID(t *testing.T) {
	app := newAnalyticsApp(&mockAnalyticsService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/analytics/forms/abc/submissions", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(body, target))
}
