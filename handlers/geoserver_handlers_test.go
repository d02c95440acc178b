package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terravista/api/geoserver"
)

func geoRouter(baseURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewGeoServerHandlers(geoserver.NewClient(baseURL, "admin", "geoserver"))

	r := gin.New()
	r.GET("/api/geoserver/workspaces", h.GetWorkspaces)
	r.GET("/api/geoserver/workspaces/:workspace/layers", h.GetWorkspaceLayers)
	r.GET("/api/geoserver/layer_bounds/:layerRef", h.GetLayerBounds)
	r.GET("/api/geoserver/feature_info/:workspace/:layer", h.GetFeatureInfo)
	return r
}

func TestGetWorkspaceLayers(t *testing.T) {
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/rest/workspaces/demo/layers.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"layers":{"layer":[
			{"name":"elevation","href":"%s/rest/layers/demo:elevation.json"},
			{"name":"roads","href":"%s/rest/layers/demo:roads.json"}
		]}}`, srv.URL, srv.URL)
	})
	mux.HandleFunc("/rest/layers/demo:elevation.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"layer":{"resource":{"@class":"coverage"}}}`)
	})
	mux.HandleFunc("/rest/layers/demo:roads.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"layer":{"resource":{"@class":"featureType"}}}`)
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/geoserver/workspaces/demo/layers", nil)
	geoRouter(srv.URL).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Workspace    string   `json:"workspace"`
		RasterLayers []string `json:"raster_layers"`
		VectorLayers []string `json:"vector_layers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "demo", body.Workspace)
	assert.Equal(t, []string{"elevation"}, body.RasterLayers)
	assert.Equal(t, []string{"roads"}, body.VectorLayers)
}

func TestGetWorkspaces_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/geoserver/workspaces", nil)
	geoRouter(srv.URL).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetLayerBounds_BadReference(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/geoserver/layer_bounds/no-colon-here", nil)
	geoRouter("http://127.0.0.1:1").ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetLayerBounds_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/rest/layers/demo:bare.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"layer":{"resource":{"@class":"featureType","href":"%s/rest/featuretypes/bare.json"}}}`, srv.URL)
	})
	mux.HandleFunc("/rest/featuretypes/bare.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"featureType":{}}`)
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/geoserver/layer_bounds/demo:bare", nil)
	geoRouter(srv.URL).ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "bounding box not found")
}

func TestGetLayerBounds_OK(t *testing.T) {
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/rest/layers/demo:parcels.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"layer":{"resource":{"@class":"featureType","href":"%s/rest/featuretypes/parcels.json"}}}`, srv.URL)
	})
	mux.HandleFunc("/rest/featuretypes/parcels.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"featureType":{"latLonBoundingBox":{"minx":-3.5,"miny":40.1,"maxx":-3.2,"maxy":40.6}}}`)
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/geoserver/layer_bounds/demo:parcels", nil)
	geoRouter(srv.URL).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Bounds [2][2]float64 `json:"bounds"`
		CRS    string        `json:"crs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, [2][2]float64{{40.1, -3.5}, {40.6, -3.2}}, body.Bounds)
	assert.Equal(t, "EPSG:4326", body.CRS)
}

func TestGetFeatureInfo_MissingParams(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/geoserver/feature_info/demo/roads?bbox=1,2,3,4&width=256", nil)
	geoRouter("http://127.0.0.1:1").ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetFeatureInfo_JSONPassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GetFeatureInfo", r.URL.Query().Get("REQUEST"))
		fmt.Fprint(w, `{"type":"FeatureCollection","features":[]}`)
	}))
	defer srv.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/geoserver/feature_info/demo/roads?bbox=1,2,3,4&width=256&height=256&x=10&y=10", nil)
	geoRouter(srv.URL).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"type":"FeatureCollection","features":[]}`, w.Body.String())
}

func TestGetFeatureInfo_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<ServiceExceptionReport>bad layer</ServiceExceptionReport>`)
	}))
	defer srv.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/geoserver/feature_info/demo/roads?bbox=1,2,3,4&width=256&height=256&x=10&y=10", nil)
	geoRouter(srv.URL).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Non-JSON response from GeoServer", body["error"])
	assert.Contains(t, body["response"], "ServiceExceptionReport")
}
