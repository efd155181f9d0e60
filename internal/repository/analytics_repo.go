package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/vireo-cms/vireo-api/internal/models"
)

// PathCount pairs a tracked path with its view count.
type PathCount struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

// ActionCount pairs an activity action with its occurrence count.
type ActionCount struct {
	Action string `json:"action"`
	Count  int64  `json:"count"`
}

// AnalyticsRepository persists and queries the page view and activity logs.
type AnalyticsRepository interface {
	CreateView(ctx context.Context, view *models.PageView) error
	CountViews(ctx context.Context) (int64, error)
	CountViewsBetween(ctx context.Context, from, to time.Time) (int64, error)
	ListViewTimesBetween(ctx context.Context, from, to time.Time) ([]time.Time, error)
	TopPaths(ctx context.Context, from, to time.Time, limit int) ([]PathCount, error)

	CreateActivity(ctx context.Context, activity *models.PageActivity) error
	CountActivities(ctx context.Context) (int64, error)
	CountActivitiesByAction(ctx context.Context) ([]ActionCount, error)
	ListRecentActivities(ctx context.Context, offset, limit int) ([]models.PageActivity, error)
	ListActivitiesSince(ctx context.Context, since time.Time) ([]models.PageActivity, error)
	DeleteAllActivities(ctx context.Context) (int64, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository constructs the analytics repository.
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) CreateView(ctx context.Context, view *models.PageView) error {
	if view.Timestamp.IsZero() {
		view.Timestamp = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(view).Error
}

func (r *analyticsRepository) CountViews(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PageView{}).Count(&count).Error
	return count, err
}

func (r *analyticsRepository) CountViewsBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PageView{}).
		Where("timestamp >= ? AND timestamp <= ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *analyticsRepository) ListViewTimesBetween(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	var views []models.PageView
	err := r.db.WithContext(ctx).
		Select("timestamp").
		Where("timestamp >= ? AND timestamp <= ?", from, to).
		Order("timestamp ASC").
		Find(&views).Error
	if err != nil {
		return nil, err
	}

	times := make([]time.Time, 0, len(views))
	for _, view := range views {
		times = append(times, view.Timestamp)
	}
	return times, nil
}

func (r *analyticsRepository) TopPaths(ctx context.Context, from, to time.Time, limit int) ([]PathCount, error) {
	var counts []PathCount
	err := r.db.WithContext(ctx).
		Model(&models.PageView{}).
		Select("path, COUNT(*) AS views").
		Where("timestamp >= ? AND timestamp <= ?", from, to).
		Group("path").
		Order("views DESC").
		Limit(limit).
		Scan(&counts).Error
	return counts, err
}

func (r *analyticsRepository) CreateActivity(ctx context.Context, activity *models.PageActivity) error {
	if activity.Timestamp.IsZero() {
		activity.Timestamp = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *analyticsRepository) CountActivities(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PageActivity{}).Count(&count).Error
	return count, err
}

func (r *analyticsRepository) CountActivitiesByAction(ctx context.Context) ([]ActionCount, error) {
	var counts []ActionCount
	err := r.db.WithContext(ctx).
		Model(&models.PageActivity{}).
		Select("action, COUNT(*) AS count").
		Group("action").
		Scan(&counts).Error
	return counts, err
}

func (r *analyticsRepository) ListRecentActivities(ctx context.Context, offset, limit int) ([]models.PageActivity, error) {
	var activities []models.PageActivity
	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Offset(offset).
		Limit(limit).
		Find(&activities).Error
	return activities, err
}

func (r *analyticsRepository) ListActivitiesSince(ctx context.Context, since time.Time) ([]models.PageActivity, error) {
	var activities []models.PageActivity
	err := r.db.WithContext(ctx).
		Select("action", "timestamp").
		Where("timestamp >= ?", since).
		Order("timestamp ASC").
		Find(&activities).Error
	return activities, err
}

func (r *analyticsRepository) DeleteAllActivities(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.PageActivity{})
	return result.RowsAffected, result.Error
}
