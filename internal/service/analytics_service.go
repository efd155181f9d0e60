package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/vireo-cms/vireo-api/internal/dto"
	"github.com/vireo-cms/vireo-api/internal/models"
	"github.com/vireo-cms/vireo-api/internal/observability"
	"github.com/vireo-cms/vireo-api/internal/repository"
)

// Dashboard periods.
const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// ErrInvalidTrackPayload is returned when a tracking request misses
// required fields.
var ErrInvalidTrackPayload = errors.New("invalid tracking payload")

const activityTrendDays = 30

// AnalyticsService aggregates traffic, activity and submission statistics
// for the admin dashboard.
type AnalyticsService interface {
	GetDashboardStats(ctx context.Context, period string, limit int) (dto.DashboardStatsResponse, error)
	GetPageActivityStats(ctx context.Context, page, limit int) (dto.ActivityStatsResponse, error)
	GetFormSubmissionStats(ctx context.Context, page, limit int) (dto.SubmissionStatsResponse, error)
	GetGlobalStats(ctx context.Context) (dto.GlobalStatsResponse, error)
	TrackView(ctx context.Context, path string) error
	TrackActivity(ctx context.Context, pageID *uint, pageName, action string) error
	ResetActivities(ctx context.Context) (int64, error)
	ResetSubmissions(ctx context.Context) (int64, error)
	ResetFormSubmissions(ctx context.Context, formID uint) (int64, error)
}

type analyticsService struct {
	repo        repository.AnalyticsRepository
	submissions repository.SubmissionRepository
	pages       repository.PageRepository
	blogs       repository.BlogRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAnalyticsService constructs the analytics service.
func NewAnalyticsService(
	repo repository.AnalyticsRepository,
	submissions repository.SubmissionRepository,
	pages repository.PageRepository,
	blogs repository.BlogRepository,
	cache *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) AnalyticsService {
	return &analyticsService{
		repo:        repo,
		submissions: submissions,
		pages:       pages,
		blogs:       blogs,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "analytics_service").Logger(),
		now:         time.Now,
	}
}

func (s *analyticsService) GetDashboardStats(ctx context.Context, period string, limit int) (dto.DashboardStatsResponse, error) {
	period = normalizePeriod(period)
	if limit <= 0 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("analytics:dashboard:%s:%d", period, limit)
	tracer := otel.Tracer("github.com/vireo-cms/vireo-api/internal/service/analytics")
	ctx, span := tracer.Start(ctx, "analytics.dashboard")
	span.SetAttributes(
		attribute.String("analytics.period", period),
		attribute.String("analytics.cache_key", cacheKey),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		observability.AnalyticsLatency().Observe(time.Since(start).Seconds())
	}()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var response dto.DashboardStatsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				span.SetAttributes(attribute.Bool("analytics.cache_hit", true))
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
			span.RecordError(err)
		}
	}

	now := s.now()
	buckets := buildBuckets(now, period)
	windowStart := buckets[0].start

	totalViews, err := s.repo.CountViews(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count_views_failed")
		return dto.DashboardStatsResponse{}, fmt.Errorf("count views: %w", err)
	}

	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayViews, err := s.repo.CountViewsBetween(ctx, startOfToday, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count_today_failed")
		return dto.DashboardStatsResponse{}, fmt.Errorf("count today views: %w", err)
	}

	times, err := s.repo.ListViewTimesBetween(ctx, windowStart, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_view_times_failed")
		return dto.DashboardStatsResponse{}, fmt.Errorf("list view times: %w", err)
	}

	topPaths, err := s.repo.TopPaths(ctx, windowStart, now, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "top_paths_failed")
		return dto.DashboardStatsResponse{}, fmt.Errorf("top paths: %w", err)
	}

	response := s.buildDashboard(now, period, buckets, totalViews, todayViews, times, topPaths)
	span.SetAttributes(
		attribute.Int64("analytics.total_views", totalViews),
		attribute.Int("analytics.window_views", len(times)),
	)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
				span.RecordError(err)
			}
		}
	}

	return response, nil
}

type bucket struct {
	key   string
	label string
	start time.Time
}

func normalizePeriod(period string) string {
	switch strings.ToLower(period) {
	case PeriodMonthly:
		return PeriodMonthly
	case PeriodYearly:
		return PeriodYearly
	default:
		return PeriodWeekly
	}
}

func periodCount(period string) int {
	if period == PeriodYearly {
		return 5
	}
	return 12
}

// buildBuckets returns the trend buckets oldest to newest, each carrying
// the start of its window.
func buildBuckets(now time.Time, period string) []bucket {
	count := periodCount(period)
	buckets := make([]bucket, 0, count)
	switch period {
	case PeriodMonthly:
		for i := count - 1; i >= 0; i-- {
			start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
			buckets = append(buckets, bucket{
				key:   start.Format("2006-01"),
				label: start.Format("Jan 2006"),
				start: start,
			})
		}
	case PeriodYearly:
		for i := count - 1; i >= 0; i-- {
			start := time.Date(now.Year()-i, time.January, 1, 0, 0, 0, 0, now.Location())
			buckets = append(buckets, bucket{
				key:   start.Format("2006"),
				label: start.Format("2006"),
				start: start,
			})
		}
	default:
		for i := count - 1; i >= 0; i-- {
			t := now.AddDate(0, 0, -7*i)
			year, week := t.ISOWeek()
			buckets = append(buckets, bucket{
				key:   weekKey(year, week),
				label: weekLabel(year, week),
				start: startOfISOWeek(t),
			})
		}
	}
	return buckets
}

func weekKey(year, week int) string {
	return fmt.Sprintf("%d-W%02d", year, week)
}

// weekLabel back-computes an approximate date for an ISO week number.
func weekLabel(year, week int) string {
	approx := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, (week-1)*7)
	return approx.Format("Jan 2")
}

func startOfISOWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, -(weekday - 1))
}

func bucketKeyFor(t time.Time, period string) string {
	switch period {
	case PeriodMonthly:
		return t.Format("2006-01")
	case PeriodYearly:
		return t.Format("2006")
	default:
		year, week := t.ISOWeek()
		return weekKey(year, week)
	}
}

func periodLabel(period string) string {
	switch period {
	case PeriodMonthly:
		return "Last 12 months"
	case PeriodYearly:
		return "Last 5 years"
	default:
		return "Last 12 weeks"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *analyticsService) buildDashboard(
	now time.Time,
	period string,
	buckets []bucket,
	totalViews, todayViews int64,
	times []time.Time,
	topPaths []repository.PathCount,
) dto.DashboardStatsResponse {
	counts := make(map[string]int64, len(buckets))
	hourly := make([]int64, 24)
	minutes := make(map[int64]struct{}, len(times))
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for _, t := range times {
		local := t.In(now.Location())
		counts[bucketKeyFor(local, period)]++
		// Hourly distribution covers today's traffic only.
		if !local.Before(startOfToday) {
			hourly[local.Hour()]++
		}
		minutes[local.Truncate(time.Minute).Unix()] = struct{}{}
	}

	trend := make([]dto.TrendPoint, 0, len(buckets))
	for _, b := range buckets {
		trend = append(trend, dto.TrendPoint{Period: b.key, Label: b.label, Views: counts[b.key]})
	}

	current := trend[len(trend)-1].Views
	previous := trend[len(trend)-2].Views
	growth := 0.0
	if previous > 0 {
		growth = round2(float64(current-previous) / float64(previous) * 100)
	}

	hourDist := make([]dto.HourCount, 24)
	for h := range hourDist {
		hourDist[h] = dto.HourCount{Hour: h, Views: hourly[h]}
	}

	top := make([]dto.TopPage, 0, len(topPaths))
	for _, p := range topPaths {
		top = append(top, dto.TopPage{Path: p.Path, Views: p.Views})
	}

	return dto.DashboardStatsResponse{
		TotalViews:          totalViews,
		TodayViews:          todayViews,
		CurrentPeriodViews:  current,
		PreviousPeriodViews: previous,
		GrowthPercentage:    growth,
		AvgViewsPerPeriod:   int64(math.Round(float64(len(times)) / float64(len(buckets)))),
		UniqueVisitors:      int64(len(minutes)),
		TopPages:            top,
		PeriodTrend:         trend,
		HourlyDistribution:  hourDist,
		Period:              period,
		PeriodLabel:         periodLabel(period),
	}
}

func (s *analyticsService) GetPageActivityStats(ctx context.Context, page, limit int) (dto.ActivityStatsResponse, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	total, err := s.repo.CountActivities(ctx)
	if err != nil {
		return dto.ActivityStatsResponse{}, fmt.Errorf("count activities: %w", err)
	}

	actionCounts, err := s.repo.CountActivitiesByAction(ctx)
	if err != nil {
		return dto.ActivityStatsResponse{}, fmt.Errorf("count activities by action: %w", err)
	}
	byAction := map[string]int64{
		models.ActivityActionCreated: 0,
		models.ActivityActionUpdated: 0,
		models.ActivityActionDeleted: 0,
	}
	for _, ac := range actionCounts {
		byAction[ac.Action] = ac.Count
	}

	recent, err := s.repo.ListRecentActivities(ctx, (page-1)*limit, limit)
	if err != nil {
		return dto.ActivityStatsResponse{}, fmt.Errorf("list recent activities: %w", err)
	}
	entries := make([]dto.ActivityEntry, 0, len(recent))
	for _, a := range recent {
		entries = append(entries, dto.ActivityEntry{
			ID:        a.ID,
			PageID:    a.PageID,
			PageName:  a.PageName,
			Action:    a.Action,
			Timestamp: a.Timestamp,
		})
	}

	now := s.now()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(activityTrendDays - 1))
	activities, err := s.repo.ListActivitiesSince(ctx, since)
	if err != nil {
		return dto.ActivityStatsResponse{}, fmt.Errorf("list activity trend: %w", err)
	}

	type dayTally struct{ created, updated, deleted int64 }
	perDay := make(map[string]*dayTally, activityTrendDays)
	for _, a := range activities {
		key := a.Timestamp.In(now.Location()).Format("2006-01-02")
		tally, ok := perDay[key]
		if !ok {
			tally = &dayTally{}
			perDay[key] = tally
		}
		switch a.Action {
		case models.ActivityActionCreated:
			tally.created++
		case models.ActivityActionUpdated:
			tally.updated++
		case models.ActivityActionDeleted:
			tally.deleted++
		}
	}

	trend := make([]dto.ActivityDayPoint, 0, activityTrendDays)
	for i := 0; i < activityTrendDays; i++ {
		day := since.AddDate(0, 0, i)
		key := day.Format("2006-01-02")
		point := dto.ActivityDayPoint{Date: key}
		if tally, ok := perDay[key]; ok {
			point.Created = tally.created
			point.Updated = tally.updated
			point.Deleted = tally.deleted
		}
		trend = append(trend, point)
	}

	return dto.ActivityStatsResponse{
		Total:      total,
		ByAction:   byAction,
		Recent:     entries,
		DailyTrend: trend,
		Pagination: dto.NewPaginationMeta(page, limit, total),
	}, nil
}

func (s *analyticsService) GetFormSubmissionStats(ctx context.Context, page, limit int) (dto.SubmissionStatsResponse, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	total, err := s.submissions.Count(ctx)
	if err != nil {
		return dto.SubmissionStatsResponse{}, fmt.Errorf("count submissions: %w", err)
	}

	now := s.now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := s.submissions.CountBetween(ctx, startOfToday, now)
	if err != nil {
		return dto.SubmissionStatsResponse{}, fmt.Errorf("count today submissions: %w", err)
	}

	statusCounts, err := s.submissions.CountByStatus(ctx)
	if err != nil {
		return dto.SubmissionStatsResponse{}, fmt.Errorf("count submissions by status: %w", err)
	}
	byStatus := map[string]int64{
		models.SubmissionStatusNew:       0,
		models.SubmissionStatusProcessed: 0,
		models.SubmissionStatusClosed:    0,
	}
	for _, sc := range statusCounts {
		byStatus[sc.Status] = sc.Count
	}

	recent, err := s.submissions.ListRecent(ctx, (page-1)*limit, limit)
	if err != nil {
		return dto.SubmissionStatsResponse{}, fmt.Errorf("list recent submissions: %w", err)
	}
	entries := make([]dto.SubmissionResponse, 0, len(recent))
	for _, sub := range recent {
		entries = append(entries, dto.ToSubmissionResponse(sub))
	}

	since := startOfToday.AddDate(0, 0, -(activityTrendDays - 1))
	window, err := s.submissions.ListSince(ctx, since)
	if err != nil {
		return dto.SubmissionStatsResponse{}, fmt.Errorf("list submission trend: %w", err)
	}

	type dayTally struct{ newCount, processed, closed, total int64 }
	perDay := make(map[string]*dayTally, activityTrendDays)
	for _, sub := range window {
		key := sub.CreatedAt.In(now.Location()).Format("2006-01-02")
		tally, ok := perDay[key]
		if !ok {
			tally = &dayTally{}
			perDay[key] = tally
		}
		tally.total++
		switch sub.Status {
		case models.SubmissionStatusNew:
			tally.newCount++
		case models.SubmissionStatusProcessed:
			tally.processed++
		case models.SubmissionStatusClosed:
			tally.closed++
		}
	}

	trend := make([]dto.SubmissionDayPoint, 0, activityTrendDays)
	for i := 0; i < activityTrendDays; i++ {
		day := since.AddDate(0, 0, i)
		key := day.Format("2006-01-02")
		point := dto.SubmissionDayPoint{Date: key}
		if tally, ok := perDay[key]; ok {
			point.New = tally.newCount
			point.Processed = tally.processed
			point.Closed = tally.closed
			point.Total = tally.total
		}
		trend = append(trend, point)
	}

	return dto.SubmissionStatsResponse{
		Total:      total,
		Today:      today,
		ByStatus:   byStatus,
		Recent:     entries,
		DailyTrend: trend,
		Pagination: dto.NewPaginationMeta(page, limit, total),
	}, nil
}

func (s *analyticsService) GetGlobalStats(ctx context.Context) (dto.GlobalStatsResponse, error) {
	now := s.now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	pages, err := s.contentSetStats(ctx, now, startOfMonth,
		s.pages.CountByStatus, s.pages.CountCreatedBetween)
	if err != nil {
		return dto.GlobalStatsResponse{}, fmt.Errorf("page stats: %w", err)
	}
	blogs, err := s.contentSetStats(ctx, now, startOfMonth,
		s.blogs.CountByStatus, s.blogs.CountCreatedBetween)
	if err != nil {
		return dto.GlobalStatsResponse{}, fmt.Errorf("blog stats: %w", err)
	}

	growth := make([]dto.MonthCount, 0, 6)
	for i := 5; i >= 0; i-- {
		monthStart := startOfMonth.AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)
		if monthEnd.After(now) {
			monthEnd = now
		}
		pageCount, err := s.pages.CountCreatedBetween(ctx, monthStart, monthEnd)
		if err != nil {
			return dto.GlobalStatsResponse{}, fmt.Errorf("page growth: %w", err)
		}
		blogCount, err := s.blogs.CountCreatedBetween(ctx, monthStart, monthEnd)
		if err != nil {
			return dto.GlobalStatsResponse{}, fmt.Errorf("blog growth: %w", err)
		}
		growth = append(growth, dto.MonthCount{
			Month: monthStart.Format("2006-01"),
			Pages: pageCount,
			Blogs: blogCount,
		})
	}

	recentPages, err := s.pages.ListRecent(ctx, 5)
	if err != nil {
		return dto.GlobalStatsResponse{}, fmt.Errorf("recent pages: %w", err)
	}
	recentBlogs, err := s.blogs.ListRecent(ctx, 5)
	if err != nil {
		return dto.GlobalStatsResponse{}, fmt.Errorf("recent blogs: %w", err)
	}

	yearStart := startOfMonth.AddDate(0, -11, 0)
	pagesYear, err := s.pages.CountCreatedBetween(ctx, yearStart, now)
	if err != nil {
		return dto.GlobalStatsResponse{}, fmt.Errorf("yearly page count: %w", err)
	}
	blogsYear, err := s.blogs.CountCreatedBetween(ctx, yearStart, now)
	if err != nil {
		return dto.GlobalStatsResponse{}, fmt.Errorf("yearly blog count: %w", err)
	}

	categoryCounts, err := s.blogs.CountPerCategory(ctx)
	if err != nil {
		return dto.GlobalStatsResponse{}, fmt.Errorf("blogs per category: %w", err)
	}
	byCategory := make([]dto.CategoryBlogCount, 0, len(categoryCounts))
	for _, cc := range categoryCounts {
		byCategory = append(byCategory, dto.CategoryBlogCount{Category: cc.CategoryName, Count: cc.Count})
	}

	publishRate := 0.0
	if total := pages.Total + blogs.Total; total > 0 {
		publishRate = round2(float64(pages.Published+blogs.Published) / float64(total) * 100)
	}

	resp := dto.GlobalStatsResponse{
		Pages:              pages,
		Blogs:              blogs,
		MonthlyGrowth:      growth,
		RecentPages:        make([]dto.RecentContentEntry, 0, len(recentPages)),
		RecentBlogs:        make([]dto.RecentContentEntry, 0, len(recentBlogs)),
		AvgContentPerMonth: round2(float64(pagesYear+blogsYear) / 12),
		BlogsByCategory:    byCategory,
		PublishRate:        publishRate,
	}
	for _, p := range recentPages {
		resp.RecentPages = append(resp.RecentPages, dto.RecentContentEntry{
			ID: p.ID, Title: p.Title, Slug: p.Slug, Status: p.Status, CreatedAt: p.CreatedAt,
		})
	}
	for _, b := range recentBlogs {
		resp.RecentBlogs = append(resp.RecentBlogs, dto.RecentContentEntry{
			ID: b.ID, Title: b.Title, Slug: b.Slug, Status: b.Status, CreatedAt: b.CreatedAt,
		})
	}
	return resp, nil
}

func (s *analyticsService) contentSetStats(
	ctx context.Context,
	now, startOfMonth time.Time,
	countByStatus func(context.Context, string) (int64, error),
	countCreatedBetween func(context.Context, time.Time, time.Time) (int64, error),
) (dto.ContentSetStats, error) {
	total, err := countByStatus(ctx, "")
	if err != nil {
		return dto.ContentSetStats{}, err
	}
	published, err := countByStatus(ctx, models.ContentStatusPublished)
	if err != nil {
		return dto.ContentSetStats{}, err
	}
	draft, err := countByStatus(ctx, models.ContentStatusDraft)
	if err != nil {
		return dto.ContentSetStats{}, err
	}
	thisMonth, err := countCreatedBetween(ctx, startOfMonth, now)
	if err != nil {
		return dto.ContentSetStats{}, err
	}
	return dto.ContentSetStats{
		Total:     total,
		Published: published,
		Draft:     draft,
		ThisMonth: thisMonth,
	}, nil
}

func (s *analyticsService) TrackView(ctx context.Context, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("%w: path is required", ErrInvalidTrackPayload)
	}
	view := &models.PageView{Path: path, Timestamp: s.now().UTC()}
	if err := s.repo.CreateView(ctx, view); err != nil {
		return fmt.Errorf("create page view: %w", err)
	}
	observability.ViewsTracked().Inc()
	return nil
}

func (s *analyticsService) TrackActivity(ctx context.Context, pageID *uint, pageName, action string) error {
	pageName = strings.TrimSpace(pageName)
	if pageName == "" || action == "" {
		return fmt.Errorf("%w: pageName and action are required", ErrInvalidTrackPayload)
	}
	switch action {
	case models.ActivityActionCreated, models.ActivityActionUpdated, models.ActivityActionDeleted:
	default:
		return fmt.Errorf("%w: unsupported action %q", ErrInvalidTrackPayload, action)
	}
	activity := &models.PageActivity{
		PageID:    pageID,
		PageName:  pageName,
		Action:    action,
		Timestamp: s.now().UTC(),
	}
	if err := s.repo.CreateActivity(ctx, activity); err != nil {
		return fmt.Errorf("create page activity: %w", err)
	}
	return nil
}

func (s *analyticsService) ResetActivities(ctx context.Context) (int64, error) {
	deleted, err := s.repo.DeleteAllActivities(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete activities: %w", err)
	}
	s.logger.Info().Int64("deleted", deleted).Msg("activity log reset")
	return deleted, nil
}

func (s *analyticsService) ResetSubmissions(ctx context.Context) (int64, error) {
	deleted, err := s.submissions.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete submissions: %w", err)
	}
	s.logger.Info().Int64("deleted", deleted).Msg("submissions reset")
	return deleted, nil
}

func (s *analyticsService) ResetFormSubmissions(ctx context.Context, formID uint) (int64, error) {
	reset, err := s.submissions.ResetStatusByForm(ctx, formID)
	if err != nil {
		return 0, fmt.Errorf("reset submission statuses: %w", err)
	}
	return reset, nil
}
