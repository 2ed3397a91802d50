package apiclient

import (
	"context"

	"github.com/franfreezy/abdata/pkg/auth"
)

// DashboardStats are the backend's dashboard counters
type DashboardStats struct {
	TotalUploads    int64   `json:"total_uploads"`
	UploadsTrend    float64 `json:"uploads_trend"`
	LastWeekUploads int64   `json:"last_week_uploads"`
	ActiveUsers     int64   `json:"active_users"`
	UsersTrend      float64 `json:"users_trend"`
	TotalClicks     int64   `json:"total_clicks"`
	ClicksTrend     float64 `json:"clicks_trend"`
	TotalForms      int64   `json:"total_forms"`
	FormsTrend      float64 `json:"forms_trend"`
}

// Activity is one recent-activity feed entry
type Activity struct {
	ID        string `json:"id"`
	Type      string `json:"type"` // upload | process | report
	FileName  string `json:"fileName"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
}

// GetStats fetches the dashboard counters. Safe to repeat; the dashboard
// polls it on a fixed interval.
func (c *Client) GetStats(ctx context.Context) auth.Outcome[DashboardStats] {
	return getJSON[DashboardStats](c, ctx, "/api/stats/", "stats", "get")
}

// RecentActivities fetches the recent-activity feed. Safe to repeat.
func (c *Client) RecentActivities(ctx context.Context) auth.Outcome[[]Activity] {
	return getJSON[[]Activity](c, ctx, "/api/activities/recent", "stats", "activities")
}
