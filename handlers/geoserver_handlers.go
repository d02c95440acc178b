package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"terravista/api/geoserver"
)

type GeoServerHandlers struct {
	Client *geoserver.Client
}

func NewGeoServerHandlers(client *geoserver.Client) *GeoServerHandlers {
	return &GeoServerHandlers{Client: client}
}

// GetWorkspaces handles GET /api/geoserver/workspaces.
func (h *GeoServerHandlers) GetWorkspaces(c *gin.Context) {
	names, err := h.Client.Workspaces(c.Request.Context())
	if err != nil {
		log.Printf("Error fetching workspaces from GeoServer: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch workspaces from GeoServer"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"workspaces": names})
}

// GetWorkspaceLayers handles GET /api/geoserver/workspaces/:workspace/layers.
func (h *GeoServerHandlers) GetWorkspaceLayers(c *gin.Context) {
	workspace := c.Param("workspace")

	layers, err := h.Client.ListLayers(c.Request.Context(), workspace)
	if err != nil {
		log.Printf("Error fetching layers for workspace %q: %v", workspace, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch layers from GeoServer"})
		return
	}
	c.JSON(http.StatusOK, layers)
}

// GetLayerBounds handles GET /api/geoserver/layer_bounds/:layerRef where
// layerRef is workspace:layer.
func (h *GeoServerHandlers) GetLayerBounds(c *gin.Context) {
	layerRef := c.Param("layerRef")
	parts := strings.SplitN(layerRef, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Layer reference must be workspace:layer"})
		return
	}

	bounds, err := h.Client.LayerBounds(c.Request.Context(), parts[0], parts[1])
	if err != nil {
		if errors.Is(err, geoserver.ErrBoundsNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lat/lon bounding box not found for this layer or is incomplete."})
			return
		}
		log.Printf("Error fetching bounds for %s: %v", layerRef, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bounds from GeoServer"})
		return
	}
	c.JSON(http.StatusOK, bounds)
}

// GetFeatureInfo handles GET /api/geoserver/feature_info/:workspace/:layer.
func (h *GeoServerHandlers) GetFeatureInfo(c *gin.Context) {
	params := geoserver.FeatureInfoParams{
		BBox:   c.Query("bbox"),
		Width:  c.Query("width"),
		Height: c.Query("height"),
		X:      c.Query("x"),
		Y:      c.Query("y"),
	}
	if params.BBox == "" || params.Width == "" || params.Height == "" || params.X == "" || params.Y == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required parameters"})
		return
	}

	workspace := c.Param("workspace")
	layer := c.Param("layer")

	data, rawBody, err := h.Client.FeatureInfo(c.Request.Context(), workspace, layer, params)
	if err != nil {
		log.Printf("Error getting feature info for %s:%s: %v", workspace, layer, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get feature info"})
		return
	}
	if rawBody != "" {
		c.JSON(http.StatusOK, gin.H{"error": "Non-JSON response from GeoServer", "response": rawBody})
		return
	}

	c.Data(http.StatusOK, "application/json", data)
}
