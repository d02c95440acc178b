package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

// SearchHandlers proxies the geocoding lookup service.
type SearchHandlers struct {
	BaseURL string
	Client  *http.Client
}

func NewSearchHandlers() *SearchHandlers {
	baseURL := os.Getenv("NOMINATIM_BASE_URL")
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	return &SearchHandlers{
		BaseURL: baseURL,
		Client:  &http.Client{},
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// SearchLocation handles GET /api/search_location?query=.
func (h *SearchHandlers) SearchLocation(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter is missing"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	reqURL := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", h.BaseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build geocoding request"})
		return
	}
	req.Header.Set("User-Agent", "TerraVista/1.0 (map portal)")

	resp, err := h.Client.Do(req)
	if err != nil {
		log.Printf("Error fetching location from geocoding service: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to connect to geocoding service"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Geocoding service returned status %d", resp.StatusCode)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to connect to geocoding service"})
		return
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		log.Printf("Error parsing geocoding response: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse geocoding response"})
		return
	}

	if len(results) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lat":          results[0].Lat,
		"lon":          results[0].Lon,
		"display_name": results[0].DisplayName,
	})
}
