package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mssola/user_agent"

	"terravista/api/models"
	"terravista/api/store"
)

// Paths never tracked: static assets and the analytics/tracking endpoints
// themselves.
var skipPrefixes = []string{
	"/static/",
	"/favicon.ico",
	"/api/analytics/",
	"/api/track/",
}

// Tracking records session activity and page view samples for authenticated
// requests. It must run after AuthRequired so the claims are available.
// Tracking failures never fail the request.
func Tracking(sessions *store.SessionStore, metrics *store.MetricsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if shouldSkipTracking(c.Request.URL.Path) {
			return
		}

		sessionID := c.GetString(CtxSessionID)
		if sessionID == "" {
			return
		}
		userID := fmt.Sprintf("%d", c.GetInt(CtxUserID))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := sessions.TouchSession(ctx, sessionID); err != nil {
			log.Printf("Tracking: failed to update session %s: %v", sessionID, err)
		}

		_, err := sessions.LogActivity(ctx, sessionID, userID, "page_request", c.Request.URL.Path, "", map[string]interface{}{
			"method":   c.Request.Method,
			"query":    c.Request.URL.RawQuery,
			"referrer": c.Request.Referer(),
		})
		if err != nil {
			log.Printf("Tracking: failed to log activity for session %s: %v", sessionID, err)
		}

		if c.Request.Method == http.MethodGet {
			trackPageView(ctx, metrics, c, sessionID, userID, time.Since(start))
		}
	}
}

func trackPageView(ctx context.Context, metrics *store.MetricsStore, c *gin.Context, sessionID, userID string, duration time.Duration) {
	rawUA := c.Request.UserAgent()
	ua := user_agent.New(rawUA)
	browserName, browserVersion := ua.Browser()

	view := models.PageView{
		ViewID:     uuid.New().String(),
		SessionID:  sessionID,
		UserID:     userID,
		PageURL:    c.Request.URL.Path,
		Referrer:   c.Request.Referer(),
		Timestamp:  time.Now(),
		LoadTimeMs: duration.Milliseconds(),
		DeviceType: deviceTypeFor(rawUA, ua),
		Browser:    strings.TrimSpace(browserName + " " + browserVersion),
	}

	if err := metrics.InsertPageViews(ctx, []models.PageView{view}); err != nil {
		log.Printf("Tracking: failed to record page view: %v", err)
	}
}

// deviceTypeFor classifies the client as tablet, mobile, or desktop.
// Tablets identify as iPad, carry an explicit "Tablet" token, or report
// Android without the "Mobile" marker.
func deviceTypeFor(rawUA string, ua *user_agent.UserAgent) string {
	lower := strings.ToLower(rawUA)
	switch {
	case strings.Contains(lower, "ipad"),
		strings.Contains(lower, "tablet"),
		strings.Contains(lower, "android") && !strings.Contains(lower, "mobile"):
		return "tablet"
	case ua.Mobile():
		return "mobile"
	default:
		return "desktop"
	}
}

func shouldSkipTracking(path string) bool {
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
