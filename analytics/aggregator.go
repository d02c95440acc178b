package analytics

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"terravista/api/models"
)

// DefaultStaleness is how long a generated series is served before it is
// rebuilt.
const DefaultStaleness = 5 * time.Minute

// Floors below which synthetic timing values are clamped.
const (
	minLoadTimeMs     = 200
	minResponseTimeMs = 20
)

// MetricsSource provides real aggregated samples from the backing store.
// The boolean reports whether the window actually contained samples; the
// synthetic fallback is selected purely on that flag, never inferred.
type MetricsSource interface {
	HourlyActivity(ctx context.Context, hours int) (*models.ActivityStats, bool, error)
	HourlyPerformance(ctx context.Context, hours int) ([]models.PerformancePoint, bool, error)
}

// Aggregator owns the analytics series cache: the last generated 24-hour
// series, its generation time, and the staleness policy. It is injected into
// request handlers and safe for concurrent use.
type Aggregator struct {
	mu           sync.Mutex
	source       MetricsSource
	staleAfter   time.Duration
	userActivity []models.ActivityPoint
	performance  []models.PerformancePoint
	lastUpdate   time.Time
	rng          *rand.Rand
}

// NewAggregator creates an aggregator over an optional real-data source.
// source may be nil, in which case only generated data is served.
func NewAggregator(source MetricsSource, staleAfter time.Duration) *Aggregator {
	return &Aggregator{
		source:     source,
		staleAfter: staleAfter,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Refresh regenerates the cached series unconditionally.
func (a *Aggregator) Refresh() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.regenerate()
	return a.lastUpdate
}

// UserActivity returns the user activity series for the requested range:
// 24 hourly points for 24h, one point per day for 7d/30d.
func (a *Aggregator) UserActivity(timeRange string) ([]models.ActivityPoint, time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ensureFresh()

	switch timeRange {
	case "7d":
		return a.dailyActivity(7), a.lastUpdate
	case "30d":
		return a.dailyActivity(30), a.lastUpdate
	default:
		return append([]models.ActivityPoint(nil), a.userActivity...), a.lastUpdate
	}
}

// Performance returns the load/response time series for the requested range.
func (a *Aggregator) Performance(timeRange string) ([]models.PerformancePoint, time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ensureFresh()

	switch timeRange {
	case "7d":
		return a.dailyPerformance(7), a.lastUpdate
	case "30d":
		return a.dailyPerformance(30), a.lastUpdate
	default:
		return append([]models.PerformancePoint(nil), a.performance...), a.lastUpdate
	}
}

// CombinedResult is the payload of the combined analytics endpoint.
type CombinedResult struct {
	UserActivity []models.ActivityPoint    `json:"userActivity"`
	Performance  []models.PerformancePoint `json:"performance"`
	TimeRange    string                    `json:"timeRange"`
	LastUpdate   time.Time                 `json:"lastUpdate"`
	DataSource   string                    `json:"dataSource"`
	TotalViews   int                       `json:"totalViews,omitempty"`
	ActiveUsers  int                       `json:"activeUsers,omitempty"`
}

// Combined returns activity and performance in one result. The real
// aggregation path is used when the backing store has samples in the
// window; otherwise the generated series is served. The two paths are
// deliberately separate: no blending, no estimation.
func (a *Aggregator) Combined(ctx context.Context, timeRange string) *CombinedResult {
	hours := 24
	switch timeRange {
	case "7d":
		hours = 7 * 24
	case "30d":
		hours = 30 * 24
	}

	if a.source != nil {
		stats, activityOK, err := a.source.HourlyActivity(ctx, hours)
		if err != nil {
			log.Printf("Metrics store error, falling back to generated data: %v", err)
		} else if activityOK {
			perf, perfOK, perfErr := a.source.HourlyPerformance(ctx, hours)
			if perfErr != nil {
				log.Printf("Metrics store error, falling back to generated data: %v", perfErr)
			} else if perfOK {
				return &CombinedResult{
					UserActivity: stats.HourlyData,
					Performance:  perf,
					TimeRange:    timeRange,
					LastUpdate:   time.Now(),
					DataSource:   "database",
					TotalViews:   stats.TotalViews,
					ActiveUsers:  stats.ActiveUsers,
				}
			}
		}
	}

	activity, _ := a.UserActivity(timeRange)
	performance, lastUpdate := a.Performance(timeRange)
	return &CombinedResult{
		UserActivity: activity,
		Performance:  performance,
		TimeRange:    timeRange,
		LastUpdate:   lastUpdate,
		DataSource:   "generated",
	}
}

// ensureFresh regenerates the cached series when absent or stale.
// Callers must hold the mutex.
func (a *Aggregator) ensureFresh() {
	if a.lastUpdate.IsZero() || len(a.userActivity) == 0 ||
		time.Since(a.lastUpdate) > a.staleAfter {
		a.regenerate()
	}
}

// regenerate builds a fresh 24-hour series. Callers must hold the mutex.
func (a *Aggregator) regenerate() {
	a.userActivity = a.generateActivity(24)
	a.performance = a.generatePerformance(24)
	a.lastUpdate = time.Now()
}

// generateActivity builds plausible hourly user counts from fixed
// time-of-day bands.
func (a *Aggregator) generateActivity(hours int) []models.ActivityPoint {
	points := make([]models.ActivityPoint, 0, hours)
	now := time.Now()

	for i := 0; i < hours; i++ {
		t := now.Add(-time.Duration(hours-i-1) * time.Hour).Truncate(time.Hour)

		var base int
		switch hour := t.Hour(); {
		case hour >= 9 && hour <= 17: // work hours
			base = 40 + a.randBetween(-10, 15)
		case hour >= 18 && hour <= 22: // evening
			base = 25 + a.randBetween(-8, 12)
		case hour >= 6 && hour <= 8: // morning
			base = 15 + a.randBetween(-5, 10)
		default: // night
			base = 8 + a.randBetween(-3, 7)
		}

		active := base
		if active < 1 {
			active = 1
		}

		points = append(points, models.ActivityPoint{
			Time:        t,
			ActiveUsers: active,
			PageViews:   a.pageViewsFor(active),
		})
	}
	return points
}

// generatePerformance builds plausible hourly timings, worse under the
// daytime load bands, clamped to physical floors.
func (a *Aggregator) generatePerformance(hours int) []models.PerformancePoint {
	points := make([]models.PerformancePoint, 0, hours)
	now := time.Now()

	for i := 0; i < hours; i++ {
		t := now.Add(-time.Duration(hours-i-1) * time.Hour).Truncate(time.Hour)

		var load, response int
		switch hour := t.Hour(); {
		case hour >= 9 && hour <= 17:
			load = 1200 + a.randBetween(-300, 800)
			response = 120 + a.randBetween(-40, 150)
		case hour >= 18 && hour <= 22:
			load = 900 + a.randBetween(-200, 600)
			response = 90 + a.randBetween(-30, 120)
		default:
			load = 600 + a.randBetween(-100, 400)
			response = 60 + a.randBetween(-20, 80)
		}

		if load < minLoadTimeMs {
			load = minLoadTimeMs
		}
		if response < minResponseTimeMs {
			response = minResponseTimeMs
		}

		points = append(points, models.PerformancePoint{
			Time:         t,
			LoadTime:     load,
			ResponseTime: response,
		})
	}
	return points
}

// dailyActivity rolls the range up to one point per day at a fixed
// representative hour. Callers must hold the mutex.
func (a *Aggregator) dailyActivity(days int) []models.ActivityPoint {
	points := make([]models.ActivityPoint, 0, days)
	now := time.Now()

	for i := 0; i < days; i++ {
		day := now.AddDate(0, 0, -(days - i - 1))
		t := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, day.Location())

		users := a.randBetween(200, 800)
		points = append(points, models.ActivityPoint{
			Time:        t,
			ActiveUsers: users,
			PageViews:   a.pageViewsFor(users),
		})
	}
	return points
}

// dailyPerformance rolls the range up to one averaged point per day.
// Callers must hold the mutex.
func (a *Aggregator) dailyPerformance(days int) []models.PerformancePoint {
	points := make([]models.PerformancePoint, 0, days)
	now := time.Now()

	for i := 0; i < days; i++ {
		day := now.AddDate(0, 0, -(days - i - 1))
		t := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, day.Location())

		points = append(points, models.PerformancePoint{
			Time:         t,
			LoadTime:     a.randBetween(800, 1500),
			ResponseTime: a.randBetween(60, 150),
		})
	}
	return points
}

// pageViewsFor derives page views as active users times a multiplier in
// [2, 5). Callers must hold the mutex.
func (a *Aggregator) pageViewsFor(activeUsers int) int {
	return int(float64(activeUsers) * (2 + a.rng.Float64()*3))
}

// randBetween returns a uniform integer in [lo, hi]. Callers must hold the
// mutex.
func (a *Aggregator) randBetween(lo, hi int) int {
	return lo + a.rng.Intn(hi-lo+1)
}
