package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"terravista/api/analytics"
	"terravista/api/utils"
)

type AnalyticsHandlers struct {
	Aggregator *analytics.Aggregator
}

func NewAnalyticsHandlers(aggregator *analytics.Aggregator) *AnalyticsHandlers {
	return &AnalyticsHandlers{Aggregator: aggregator}
}

func chartRange(c *gin.Context) (string, bool) {
	timeRange := c.DefaultQuery("range", "24h")
	if !utils.IsValidRange(timeRange) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "range must be one of 24h, 7d, 30d"})
		return "", false
	}
	return timeRange, true
}

// GetUserActivity handles GET /api/analytics/user-activity.
func (h *AnalyticsHandlers) GetUserActivity(c *gin.Context) {
	timeRange, ok := chartRange(c)
	if !ok {
		return
	}

	data, lastUpdate := h.Aggregator.UserActivity(timeRange)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       data,
		"timeRange":  timeRange,
		"lastUpdate": lastUpdate,
	})
}

// GetPerformance handles GET /api/analytics/performance.
func (h *AnalyticsHandlers) GetPerformance(c *gin.Context) {
	timeRange, ok := chartRange(c)
	if !ok {
		return
	}

	data, lastUpdate := h.Aggregator.Performance(timeRange)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       data,
		"timeRange":  timeRange,
		"lastUpdate": lastUpdate,
	})
}

// GetCombined handles GET /api/analytics/combined. This is the only
// endpoint that consults the real metrics store before falling back to the
// generated series.
func (h *AnalyticsHandlers) GetCombined(c *gin.Context) {
	timeRange, ok := chartRange(c)
	if !ok {
		return
	}

	result := h.Aggregator.Combined(c.Request.Context(), timeRange)
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"userActivity": result.UserActivity,
		"performance":  result.Performance,
		"timeRange":    result.TimeRange,
		"lastUpdate":   result.LastUpdate,
		"dataSource":   result.DataSource,
		"totalViews":   result.TotalViews,
		"activeUsers":  result.ActiveUsers,
	})
}

// Refresh handles POST /api/analytics/refresh. It always regenerates the
// cached series, regardless of age.
func (h *AnalyticsHandlers) Refresh(c *gin.Context) {
	lastUpdate := h.Aggregator.Refresh()
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Analytics data refreshed successfully",
		"lastUpdate": lastUpdate,
	})
}
