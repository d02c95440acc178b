package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"terravista/api/middleware"
	"terravista/api/models"
	"terravista/api/store"
)

// TrackHandlers receives interaction events reported by the frontend.
type TrackHandlers struct {
	SessionStore *store.SessionStore
}

func NewTrackHandlers(sessionStore *store.SessionStore) *TrackHandlers {
	return &TrackHandlers{SessionStore: sessionStore}
}

// TrackInteraction handles POST /api/track/interaction.
func (h *TrackHandlers) TrackInteraction(c *gin.Context) {
	var req models.InteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	sessionID := c.GetString(middleware.CtxSessionID)
	if sessionID == "" {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	userID := fmt.Sprintf("%d", c.GetInt(middleware.CtxUserID))

	pageURL := c.Request.Referer()
	if pageURL == "" {
		pageURL = c.Request.URL.Path
	}

	_, err := h.SessionStore.LogActivity(c.Request.Context(), sessionID, userID, req.Type, pageURL, req.Element, req.Metadata)
	if err != nil {
		log.Printf("Error logging interaction for session %s: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record interaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ActiveSessions handles GET /api/track/sessions, listing the sessions
// currently marked active.
func (h *TrackHandlers) ActiveSessions(c *gin.Context) {
	sessions, err := h.SessionStore.ActiveSessions(c.Request.Context())
	if err != nil {
		log.Printf("Error listing active sessions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list active sessions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(sessions), "sessions": sessions})
}

// TrackPageTime handles POST /api/track/page-time, recording the time a
// user spent on a page as an activity record.
func (h *TrackHandlers) TrackPageTime(c *gin.Context) {
	var req models.PageTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	sessionID := c.GetString(middleware.CtxSessionID)
	if sessionID == "" {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	userID := fmt.Sprintf("%d", c.GetInt(middleware.CtxUserID))

	_, err := h.SessionStore.LogActivity(c.Request.Context(), sessionID, userID, "page_time", req.PageURL, "", map[string]interface{}{
		"time_spent_seconds": req.TimeSpent,
	})
	if err != nil {
		log.Printf("Error logging page time for session %s: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record page time"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
