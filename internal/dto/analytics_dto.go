package dto

import "time"

// TrackViewRequest records one public page view.
type TrackViewRequest struct {
	Path string `json:"path" validate:"required,min=1,max=512"`
}

// TrackActivityRequest records one content activity entry.
type TrackActivityRequest struct {
	PageID   *uint  `json:"pageId"`
	PageName string `json:"pageName" validate:"required,min=1,max=255"`
	Action   string `json:"action" validate:"required,oneof=created updated deleted"`
}

// TrendPoint is one bucket of the dashboard period trend.
type TrendPoint struct {
	Period string `json:"period"`
	Label  string `json:"label"`
	Views  int64  `json:"views"`
}

// HourCount is one entry of the 24-hour distribution.
type HourCount struct {
	Hour  int   `json:"hour"`
	Views int64 `json:"views"`
}

// TopPage is one entry of the most-viewed paths list.
type TopPage struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

// DashboardStatsResponse is the aggregated traffic dashboard payload.
type DashboardStatsResponse struct {
	TotalViews          int64        `json:"totalViews"`
	TodayViews          int64        `json:"todayViews"`
	CurrentPeriodViews  int64        `json:"currentPeriodViews"`
	PreviousPeriodViews int64        `json:"previousPeriodViews"`
	GrowthPercentage    float64      `json:"growthPercentage"`
	AvgViewsPerPeriod   int64        `json:"avgViewsPerPeriod"`
	UniqueVisitors      int64        `json:"uniqueVisitors"`
	TopPages            []TopPage    `json:"topPages"`
	PeriodTrend         []TrendPoint `json:"periodTrend"`
	HourlyDistribution  []HourCount  `json:"hourlyDistribution"`
	Period              string       `json:"period"`
	PeriodLabel         string       `json:"periodLabel"`
}

// ActivityEntry serializes a content activity row.
type ActivityEntry struct {
	ID        uint      `json:"id"`
	PageID    *uint     `json:"pageId"`
	PageName  string    `json:"pageName"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// ActivityDayPoint is one day of the 30-day activity trend.
type ActivityDayPoint struct {
	Date    string `json:"date"`
	Created int64  `json:"created"`
	Updated int64  `json:"updated"`
	Deleted int64  `json:"deleted"`
}

// ActivityStatsResponse summarises content activity.
type ActivityStatsResponse struct {
	Total      int64              `json:"total"`
	ByAction   map[string]int64   `json:"byAction"`
	Recent     []ActivityEntry    `json:"recent"`
	DailyTrend []ActivityDayPoint `json:"dailyTrend"`
	Pagination PaginationMeta     `json:"pagination"`
}

// SubmissionDayPoint is one day of the 30-day submission trend.
type SubmissionDayPoint struct {
	Date      string `json:"date"`
	New       int64  `json:"new"`
	Processed int64  `json:"processed"`
	Closed    int64  `json:"closed"`
	Total     int64  `json:"total"`
}

// SubmissionStatsResponse summarises form submissions.
type SubmissionStatsResponse struct {
	Total      int64                `json:"total"`
	Today      int64                `json:"today"`
	ByStatus   map[string]int64     `json:"byStatus"`
	Recent     []SubmissionResponse `json:"recent"`
	DailyTrend []SubmissionDayPoint `json:"dailyTrend"`
	Pagination PaginationMeta       `json:"pagination"`
}

// MonthCount is one month of a growth series.
type MonthCount struct {
	Month string `json:"month"`
	Pages int64  `json:"pages"`
	Blogs int64  `json:"blogs"`
}

// ContentSetStats summarises one content type for the global overview.
type ContentSetStats struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
	Draft     int64 `json:"draft"`
	ThisMonth int64 `json:"thisMonth"`
}

// CategoryBlogCount pairs a category with its blog count.
type CategoryBlogCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// RecentContentEntry is a light entry for recent pages/blogs.
type RecentContentEntry struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// GlobalStatsResponse is the site-wide content overview.
type GlobalStatsResponse struct {
	Pages              ContentSetStats      `json:"pages"`
	Blogs              ContentSetStats      `json:"blogs"`
	MonthlyGrowth      []MonthCount         `json:"monthlyGrowth"`
	RecentPages        []RecentContentEntry `json:"recentPages"`
	RecentBlogs        []RecentContentEntry `json:"recentBlogs"`
	AvgContentPerMonth float64              `json:"avgContentPerMonth"`
	BlogsByCategory    []CategoryBlogCount  `json:"blogsByCategory"`
	PublishRate        float64              `json:"publishRate"`
}
