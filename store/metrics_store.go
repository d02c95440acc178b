package store

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"terravista/api/database"
	"terravista/api/models"
)

// MetricsStore records page view samples in ClickHouse and serves the real
// aggregation path of the analytics endpoints. Active-user counts come from
// the session document store.
type MetricsStore struct {
	DB       *database.ClickHouseClient
	Sessions *SessionStore
}

func NewMetricsStore(chClient *database.ClickHouseClient, sessions *SessionStore) *MetricsStore {
	return &MetricsStore{
		DB:       chClient,
		Sessions: sessions,
	}
}

// InsertPageViews batch-inserts page view samples.
func (s *MetricsStore) InsertPageViews(ctx context.Context, views []models.PageView) error {
	if len(views) == 0 {
		return nil
	}

	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO page_views (
			view_id, session_id, user_id, page_url, referrer, timestamp,
			load_time_ms, device_type, browser
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}

	for _, view := range views {
		err := batch.Append(
			view.ViewID,
			view.SessionID,
			view.UserID,
			view.PageURL,
			view.Referrer,
			view.Timestamp,
			view.LoadTimeMs,
			view.DeviceType,
			view.Browser,
		)
		if err != nil {
			log.Printf("Error appending page view to batch (ViewID: %s): %v", view.ViewID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}
	return nil
}

// HourlyActivity aggregates page views into per-hour unique-user and view
// counts over the last N hours. The boolean reports whether any samples
// existed in the window.
func (s *MetricsStore) HourlyActivity(ctx context.Context, hours int) (*models.ActivityStats, bool, error) {
	start := time.Now().Add(-time.Duration(hours) * time.Hour)

	query := `
		SELECT toStartOfHour(timestamp) AS time_bucket,
		       uniq(user_id) AS unique_users,
		       count() AS page_views
		FROM page_views
		WHERE timestamp >= ?
		GROUP BY time_bucket
		ORDER BY time_bucket ASC
	`
	rows, err := s.DB.Conn.Query(ctx, query, start)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query hourly activity: %w", err)
	}
	defer rows.Close()

	var points []models.ActivityPoint
	totalViews := 0
	for rows.Next() {
		var (
			timeBucket  time.Time
			uniqueUsers uint64
			pageViews   uint64
		)
		if err := rows.Scan(&timeBucket, &uniqueUsers, &pageViews); err != nil {
			log.Printf("Error scanning hourly activity row: %v", err)
			continue
		}
		points = append(points, models.ActivityPoint{
			Time:        timeBucket,
			ActiveUsers: int(uniqueUsers),
			PageViews:   int(pageViews),
		})
		totalViews += int(pageViews)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("row error during hourly activity query: %w", err)
	}

	if len(points) == 0 {
		return nil, false, nil
	}

	activeSessions, err := s.Sessions.CountActiveSessions(ctx)
	if err != nil {
		log.Printf("Error counting active sessions: %v", err)
		activeSessions = 0
	}

	return &models.ActivityStats{
		HourlyData:  points,
		TotalViews:  totalViews,
		ActiveUsers: activeSessions,
	}, true, nil
}

// HourlyPerformance aggregates page view load times into per-hour averages.
// Response times are derived from load times with a 20ms floor, matching
// how samples are recorded.
func (s *MetricsStore) HourlyPerformance(ctx context.Context, hours int) ([]models.PerformancePoint, bool, error) {
	start := time.Now().Add(-time.Duration(hours) * time.Hour)

	query := `
		SELECT toStartOfHour(timestamp) AS time_bucket,
		       avg(load_time_ms) AS avg_load,
		       avg(greatest(20, intDiv(load_time_ms, 10) + load_time_ms % 100)) AS avg_response
		FROM page_views
		WHERE timestamp >= ?
		GROUP BY time_bucket
		ORDER BY time_bucket ASC
	`
	rows, err := s.DB.Conn.Query(ctx, query, start)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query hourly performance: %w", err)
	}
	defer rows.Close()

	var points []models.PerformancePoint
	for rows.Next() {
		var (
			timeBucket  time.Time
			avgLoad     float64
			avgResponse float64
		)
		if err := rows.Scan(&timeBucket, &avgLoad, &avgResponse); err != nil {
			log.Printf("Error scanning hourly performance row: %v", err)
			continue
		}
		if math.IsNaN(avgLoad) {
			avgLoad = 0
		}
		if math.IsNaN(avgResponse) {
			avgResponse = 0
		}
		points = append(points, models.PerformancePoint{
			Time:         timeBucket,
			LoadTime:     int(avgLoad),
			ResponseTime: int(avgResponse),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("row error during hourly performance query: %w", err)
	}

	return points, len(points) > 0, nil
}
