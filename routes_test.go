package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terravista/api/analytics"
	"terravista/api/export"
	"terravista/api/geoserver"
	"terravista/api/handlers"
)

func testRouter(gsBaseURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	gs := geoserver.NewClient(gsBaseURL, "admin", "geoserver")

	return newRouter(routeHandlers{
		auth:      handlers.NewAuthHandlers(nil, nil),
		geo:       handlers.NewGeoServerHandlers(gs),
		analytics: handlers.NewAnalyticsHandlers(analytics.NewAggregator(nil, analytics.DefaultStaleness)),
		export:    handlers.NewExportHandlers(export.NewExporter(gs)),
		search:    handlers.NewSearchHandlers(),
		track:     handlers.NewTrackHandlers(nil),
		settings:  handlers.NewSettingsHandlers(nil),
	}, nil, nil)
}

// Layer discovery and bounds back the public map view and must be reachable
// without a token.
func TestLayerDiscoveryRoutesAreOpen(t *testing.T) {
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/rest/workspaces/demo/layers.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"layers":{"layer":[{"name":"roads","href":"%s/rest/layers/demo:roads.json"}]}}`, srv.URL)
	})
	mux.HandleFunc("/rest/layers/demo:roads.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"layer":{"resource":{"@class":"featureType"}}}`)
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	r := testRouter(srv.URL)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/geoserver/workspaces/demo/layers", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"vector_layers":["roads"]`)
}

func TestLayerBoundsRouteIsOpen(t *testing.T) {
	r := testRouter("http://127.0.0.1:1")

	// A malformed reference reaches the handler and gets its 400, not a 401.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/geoserver/layer_bounds/no-colon", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r := testRouter("http://127.0.0.1:1")

	paths := []string{
		"/api/geoserver/workspaces",
		"/api/geoserver/feature_info/demo/roads?bbox=1,2,3,4&width=256&height=256&x=1&y=1",
		"/api/profile",
		"/api/settings",
		"/api/search_location?query=Madrid",
		"/api/track/sessions",
	}
	for _, path := range paths {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestChartRoutesAreOpen(t *testing.T) {
	r := testRouter("http://127.0.0.1:1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/analytics/combined", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
