package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"terravista/api/middleware"
	"terravista/api/store"
)

type SettingsHandlers struct {
	SessionStore *store.SessionStore
}

func NewSettingsHandlers(sessionStore *store.SessionStore) *SettingsHandlers {
	return &SettingsHandlers{SessionStore: sessionStore}
}

// GetSettings handles GET /api/settings.
func (h *SettingsHandlers) GetSettings(c *gin.Context) {
	userID := fmt.Sprintf("%d", c.GetInt(middleware.CtxUserID))

	settings, err := h.SessionStore.GetSettings(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Error loading settings for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// PutSettings handles PUT /api/settings.
func (h *SettingsHandlers) PutSettings(c *gin.Context) {
	var values map[string]interface{}
	if err := c.ShouldBindJSON(&values); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	userID := fmt.Sprintf("%d", c.GetInt(middleware.CtxUserID))
	if err := h.SessionStore.SaveSettings(c.Request.Context(), userID, values); err != nil {
		log.Printf("Error saving settings for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Settings saved"})
}
