package main

import (
	"github.com/gin-gonic/gin"

	"terravista/api/handlers"
	"terravista/api/middleware"
	"terravista/api/store"
)

// routeHandlers groups the handler sets newRouter wires up.
type routeHandlers struct {
	auth      *handlers.AuthHandlers
	geo       *handlers.GeoServerHandlers
	analytics *handlers.AnalyticsHandlers
	export    *handlers.ExportHandlers
	search    *handlers.SearchHandlers
	track     *handlers.TrackHandlers
	settings  *handlers.SettingsHandlers
}

// newRouter registers the API surface. Layer discovery, layer bounds, and
// the chart endpoints stay open so the map and dashboard render before
// login; everything touching user state requires a valid token.
func newRouter(h routeHandlers, sessions *store.SessionStore, metrics *store.MetricsStore) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")
	{
		// Authentication endpoints (no authentication required)
		api.POST("/signup", h.auth.Signup)
		api.POST("/login", h.auth.Login)
		api.POST("/logout", h.auth.Logout)

		analyticsGroup := api.Group("/analytics")
		{
			analyticsGroup.GET("/user-activity", h.analytics.GetUserActivity)
			analyticsGroup.GET("/performance", h.analytics.GetPerformance)
			analyticsGroup.GET("/combined", h.analytics.GetCombined)
		}

		// Layer discovery and bounds carry no user state and back the
		// public map view, so they are open as well.
		api.GET("/geoserver/workspaces/:workspace/layers", h.geo.GetWorkspaceLayers)
		api.GET("/geoserver/layer_bounds/:layerRef", h.geo.GetLayerBounds)

		// Protected routes (require a valid JWT token)
		protected := api.Group("/")
		protected.Use(middleware.AuthRequired())
		protected.Use(middleware.Tracking(sessions, metrics))
		{
			protected.GET("/profile", h.auth.Profile)
			protected.GET("/settings", h.settings.GetSettings)
			protected.PUT("/settings", h.settings.PutSettings)

			protected.GET("/geoserver/workspaces", h.geo.GetWorkspaces)
			protected.GET("/geoserver/feature_info/:workspace/:layer", h.geo.GetFeatureInfo)

			protected.GET("/search_location", h.search.SearchLocation)
			protected.POST("/export_pdf", h.export.ExportPDF)
			protected.POST("/analytics/refresh", h.analytics.Refresh)

			trackGroup := protected.Group("/track")
			{
				trackGroup.POST("/interaction", h.track.TrackInteraction)
				trackGroup.POST("/page-time", h.track.TrackPageTime)
				trackGroup.GET("/sessions", h.track.ActiveSessions)
			}
		}
	}

	return r
}
