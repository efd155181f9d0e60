package integration_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vireo-cms/vireo-api/internal/config"
	"github.com/vireo-cms/vireo-api/internal/dto"
	"github.com/vireo-cms/vireo-api/internal/handler"
	"github.com/vireo-cms/vireo-api/internal/middleware"
	"github.com/vireo-cms/vireo-api/internal/models"
	"github.com/vireo-cms/vireo-api/internal/repository"
	"github.com/vireo-cms/vireo-api/internal/router"
	"github.com/vireo-cms/vireo-api/internal/service"
)

func setupCMSApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Page{}, &models.Block{},
		&models.Form{}, &models.FormField{}, &models.FormFieldOption{},
		&models.FormSubmission{}, &models.SubmissionNote{},
		&models.BlogCategory{}, &models.Blog{},
		&models.SiteSetting{}, &models.PolicyDocument{}, &models.FaqItem{},
		&models.PageView{}, &models.PageActivity{},
	))

	logger := zerolog.New(io.Discard)

	pageRepo := repository.NewPageRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	formRepo := repository.NewFormRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	faqRepo := repository.NewFaqRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	analyticsService := service.NewAnalyticsService(analyticsRepo, submissionRepo, pageRepo, blogRepo, nil, 0, logger)
	pageService := service.NewPageService(pageRepo, analyticsService, nil, nil, 0, logger)
	blockService := service.NewBlockService(blockRepo, pageRepo, logger)
	formService := service.NewFormService(formRepo, submissionRepo, nil, logger)
	blogService := service.NewBlogService(blogRepo, logger)
	settingsService := service.NewSettingsService(settingsRepo, logger)
	faqService := service.NewFaqService(faqRepo, logger)
	sitemapService := service.NewSitemapService(pageRepo, blogRepo, "https://vireo.test", logger)

	app := fiber.New()
	middleware.Register(app, middleware.Config{Logger: &logger})

	router.Register(app, config.Config{AppName: "Vireo Test", JWTSecret: "secret"}, router.Dependencies{
		PageHandler:      handler.NewPageHandler(pageService, logger),
		BlockHandler:     handler.NewBlockHandler(blockService, logger),
		FormHandler:      handler.NewFormHandler(formService, logger),
		BlogHandler:      handler.NewBlogHandler(blogService, logger),
		AnalyticsHandler: handler.NewAnalyticsHandler(analyticsService, logger),
		SettingsHandler:  handler.NewSettingsHandler(settingsService, logger),
		FaqHandler:       handler.NewFaqHandler(faqService, logger),
		SitemapHandler:   handler.NewSitemapHandler(sitemapService, logger),
		JWTMiddleware: func(c *fiber.Ctx) error {
			if strings.HasPrefix(c.Path(), "/api/admin") {
				c.Locals("user_id", uint(1))
				c.Locals("user_role", "admin")
			}
			return c.Next()
		},
	})

	return app, db
}

func decode[T any](t *testing.T, resp *http.Response, target *T) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, target))
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload any) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestPageLifecycleEndToEnd(t *testing.T) {
	app, _ := setupCMSApp(t)

	create := dto.CreatePageRequest{
		Title:      "Home",
		Slug:       "home",
		Status:     "published",
		IsMainPage: true,
		Blocks: []dto.BlockInput{
			{Type: "hero", Title: "Hero", Content: "<p>Welcome</p>"},
			{Type: "text", Title: "Intro", Content: "<p>About us</p>"},
		},
	}
	resp := doJSON(t, app, http.MethodPost, "/api/admin/pages", create)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		Data dto.PageResponse `json:"data"`
	}
	decode(t, resp, &created)
	require.Len(t, created.Data.Blocks, 2)
	heroID := created.Data.Blocks[0].ID
	pageID := strconv.Itoa(int(created.Data.ID))

	// Replace the block set: keep the hero with a new title, drop the intro,
	// add a fresh block.
	title := "Home"
	update := dto.UpdatePageRequest{
		Title: &title,
		Blocks: []dto.BlockInput{
			{ID: heroID, Type: "hero", Title: "Hero Updated"},
			{Type: "cta", Title: "Contact Us"},
		},
	}
	resp = doJSON(t, app, http.MethodPut, "/api/admin/pages/"+pageID, update)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated struct {
		Data dto.PageResponse `json:"data"`
	}
	decode(t, resp, &updated)
	require.Len(t, updated.Data.Blocks, 2)
	require.Equal(t, heroID, updated.Data.Blocks[0].ID)
	require.Equal(t, "Hero Updated", updated.Data.Blocks[0].Title)
	require.Equal(t, "Contact Us", updated.Data.Blocks[1].Title)

	// Public surface serves the published page by slug and as main page.
	resp = doJSON(t, app, http.MethodGet, "/api/pages/home", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/pages/main", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var main struct {
		Data dto.PageResponse `json:"data"`
	}
	decode(t, resp, &main)
	require.Equal(t, "home", main.Data.Slug)

	// Duplicate slug is rejected.
	resp = doJSON(t, app, http.MethodPost, "/api/admin/pages", dto.CreatePageRequest{Title: "Other", Slug: "home"})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestFormSubmissionEndToEnd(t *testing.T) {
	app, _ := setupCMSApp(t)

	create := dto.CreateFormRequest{
		Title:  "Contact",
		Slug:   "contact",
		Status: "published",
		Fields: []dto.FormFieldInput{
			{Type: "text", Label: "Name", IsRequired: true},
			{Type: "question", Label: "Topic", IsRequired: true, Options: []dto.FieldOptionInput{
				{Label: "Sales", Value: "sales"},
				{Label: "Support", Value: "support"},
			}},
		},
	}
	resp := doJSON(t, app, http.MethodPost, "/api/admin/forms", create)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		Data dto.FormResponse `json:"data"`
	}
	decode(t, resp, &created)
	formID := strconv.Itoa(int(created.Data.ID))

	// A submission missing required answers is rejected.
	resp = doJSON(t, app, http.MethodPost, "/api/forms/"+formID+"/submissions", dto.SubmitFormRequest{
		Data: map[string]any{"Name": "Alice"},
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// A complete submission is accepted; option values resolve to labels.
	resp = doJSON(t, app, http.MethodPost, "/api/forms/"+formID+"/submissions", dto.SubmitFormRequest{
		Data: map[string]any{"Name": "Alice", "Topic": "support"},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var submitted struct {
		Data dto.SubmissionResponse `json:"data"`
	}
	decode(t, resp, &submitted)
	require.Equal(t, "new", submitted.Data.Status)
	require.Equal(t, "Support", submitted.Data.Data["Topic"])

	// The admin inbox sees the submission and can work it.
	resp = doJSON(t, app, http.MethodGet, "/api/admin/forms/"+formID+"/submissions", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var inbox struct {
		Data dto.SubmissionListResponse `json:"data"`
	}
	decode(t, resp, &inbox)
	require.Len(t, inbox.Data.Items, 1)

	submissionID := strconv.Itoa(int(inbox.Data.Items[0].ID))
	resp = doJSON(t, app, http.MethodPatch, "/api/admin/forms/"+formID+"/submissions/"+submissionID+"/status", dto.UpdateSubmissionStatusRequest{Status: "processed"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/admin/forms/"+formID+"/submissions/"+submissionID+"/notes", dto.AddSubmissionNoteRequest{Content: "called back"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestAnalyticsDashboardEndToEnd(t *testing.T) {
	app, _ := setupCMSApp(t)

	for _, path := range []string{"/", "/", "/blog/hello"} {
		resp := doJSON(t, app, http.MethodPost, "/api/analytics/track-view", dto.TrackViewRequest{Path: path})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, app, http.MethodGet, "/api/admin/analytics/dashboard-stats?period=weekly", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var stats struct {
		Data dto.DashboardStatsResponse `json:"data"`
	}
	decode(t, resp, &stats)
	require.Equal(t, int64(3), stats.Data.TotalViews)
	require.Len(t, stats.Data.PeriodTrend, 12)
	require.Len(t, stats.Data.HourlyDistribution, 24)
	require.Equal(t, "/", stats.Data.TopPages[0].Path)
}

func TestSitemapListsPublishedContent(t *testing.T) {
	app, db := setupCMSApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/admin/pages", dto.CreatePageRequest{
		Title: "About", Slug: "about", Status: "published",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	draft := models.Page{Title: "Hidden", Slug: "hidden", Status: models.ContentStatusDraft}
	require.NoError(t, db.Create(&draft).Error)

	req := httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	res.Body.Close()

	xml := string(body)
	require.Contains(t, xml, "https://vireo.test/about")
	require.NotContains(t, xml, "hidden")
}
