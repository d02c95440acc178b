package models

import "time"

// ActivityPoint is one chart point of user activity.
type ActivityPoint struct {
	Time        time.Time `json:"time"`
	ActiveUsers int       `json:"activeUsers"`
	PageViews   int       `json:"pageViews"`
}

// PerformancePoint is one chart point of load/response times in ms.
type PerformancePoint struct {
	Time         time.Time `json:"time"`
	LoadTime     int       `json:"loadTime"`
	ResponseTime int       `json:"responseTime"`
}

// ActivityStats is the real-data aggregation result for a window.
type ActivityStats struct {
	HourlyData  []ActivityPoint `json:"hourly_data"`
	TotalViews  int             `json:"total_views"`
	ActiveUsers int             `json:"active_users"`
}
