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
)

func searchRouter(baseURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &SearchHandlers{BaseURL: baseURL, Client: &http.Client{}}

	r := gin.New()
	r.GET("/api/search_location", h.SearchLocation)
	return r
}

func TestSearchLocation_MissingQuery(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/search_location", nil)
	searchRouter("http://127.0.0.1:1").ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchLocation_Found(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Madrid", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		fmt.Fprint(w, `[{"lat":"40.4168","lon":"-3.7038","display_name":"Madrid, Spain"}]`)
	}))
	defer srv.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/search_location?query=Madrid", nil)
	searchRouter(srv.URL).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "40.4168", body["lat"])
	assert.Equal(t, "-3.7038", body["lon"])
	assert.Equal(t, "Madrid, Spain", body["display_name"])
}

func TestSearchLocation_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/search_location?query=nowhere-at-all", nil)
	searchRouter(srv.URL).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchLocation_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/search_location?query=Madrid", nil)
	searchRouter(srv.URL).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
