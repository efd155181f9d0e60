package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/vireo-cms/vireo-api/internal/dto"
	"github.com/vireo-cms/vireo-api/internal/handler"
)

type stubAnalyticsService struct {
	response dto.DashboardStatsResponse
}

func (s stubAnalyticsService) GetDashboardStats(context.Context, string, int) (dto.DashboardStatsResponse, error) {
	return s.response, nil
}

func (s stubAnalyticsService) GetPageActivityStats(context.Context, int, int) (dto.ActivityStatsResponse, error) {
	return dto.ActivityStatsResponse{}, nil
}

func (s stubAnalyticsService) GetFormSubmissionStats(context.Context, int, int) (dto.SubmissionStatsResponse, error) {
	return dto.SubmissionStatsResponse{}, nil
}

func (s stubAnalyticsService) GetGlobalStats(context.Context) (dto.GlobalStatsResponse, error) {
	return dto.GlobalStatsResponse{}, nil
}

func (s stubAnalyticsService) TrackView(context.Context, string) error { return nil }

func (s stubAnalyticsService) TrackActivity(context.Context, *uint, string, string) error {
	return nil
}

func (s stubAnalyticsService) ResetActivities(context.Context) (int64, error) { return 0, nil }

func (s stubAnalyticsService) ResetSubmissions(context.Context) (int64, error) { return 0, nil }

func (s stubAnalyticsService) ResetFormSubmissions(context.Context, uint) (int64, error) {
	return 0, nil
}

func TestDashboardStatsContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "dashboard_stats.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	hourly := make([]dto.HourCount, 24)
	for hour := range hourly {
		hourly[hour] = dto.HourCount{Hour: hour}
	}
	hourly[9].Views = 12

	response := dto.DashboardStatsResponse{
		TotalViews:          310,
		TodayViews:          14,
		CurrentPeriodViews:  50,
		PreviousPeriodViews: 40,
		GrowthPercentage:    25.0,
		AvgViewsPerPeriod:   25,
		UniqueVisitors:      120,
		TopPages: []dto.TopPage{
			{Path: "/", Views: 150},
			{Path: "/blog/hello", Views: 60},
		},
		PeriodTrend: []dto.TrendPoint{
			{Period: "2024-W23", Label: "Week 23", Views: 40},
			{Period: "2024-W24", Label: "Week 24", Views: 50},
		},
		HourlyDistribution: hourly,
		Period:             "weekly",
		PeriodLabel:        "Last 12 weeks",
	}

	app := fiber.New()
	h := handler.NewAnalyticsHandler(stubAnalyticsService{response: response}, zerolog.Nop())
	h.RegisterAdmin(app.Group("/api/admin/analytics"))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics/dashboard-stats?period=weekly", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}
