package geoserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boundsServer wires a layer document to a resource document so the two
// stage lookup can be exercised end to end.
func boundsServer(t *testing.T, resourceJSON string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/rest/layers/demo:parcels.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"layer":{"name":"parcels","resource":{"@class":"featureType","href":"%s/rest/featuretypes/parcels.json"}}}`, srv.URL)
	})
	mux.HandleFunc("/rest/featuretypes/parcels.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, resourceJSON)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLayerBounds_LatLonBox(t *testing.T) {
	srv := boundsServer(t, `{"featureType":{
		"latLonBoundingBox":{"minx":-3.5,"miny":40.1,"maxx":-3.2,"maxy":40.6},
		"nativeBoundingBox":{"minx":100,"miny":200,"maxx":300,"maxy":400}
	}}`)
	client := NewClient(srv.URL, "admin", "geoserver")

	bounds, err := client.LayerBounds(context.Background(), "demo", "parcels")
	require.NoError(t, err)

	assert.Equal(t, [2][2]float64{{40.1, -3.5}, {40.6, -3.2}}, bounds.Bounds)
	assert.Equal(t, "EPSG:4326", bounds.CRS)

	// South-west corner stays south-west of the north-east one.
	assert.LessOrEqual(t, bounds.Bounds[0][0], bounds.Bounds[1][0])
	assert.LessOrEqual(t, bounds.Bounds[0][1], bounds.Bounds[1][1])
}

func TestLayerBounds_NativeFallback(t *testing.T) {
	srv := boundsServer(t, `{"featureType":{
		"latLonBoundingBox":{"miny":40.1,"maxx":-3.2,"maxy":40.6},
		"nativeBoundingBox":{"minx":-3.6,"miny":40.0,"maxx":-3.1,"maxy":40.7}
	}}`)
	client := NewClient(srv.URL, "admin", "geoserver")

	bounds, err := client.LayerBounds(context.Background(), "demo", "parcels")
	require.NoError(t, err)
	assert.Equal(t, [2][2]float64{{40.0, -3.6}, {40.7, -3.1}}, bounds.Bounds)
}

func TestLayerBounds_CoverageResource(t *testing.T) {
	srv := boundsServer(t, `{"coverage":{
		"latLonBoundingBox":{"minx":10,"miny":20,"maxx":30,"maxy":40}
	}}`)
	client := NewClient(srv.URL, "admin", "geoserver")

	bounds, err := client.LayerBounds(context.Background(), "demo", "parcels")
	require.NoError(t, err)
	assert.Equal(t, [2][2]float64{{20, 10}, {40, 30}}, bounds.Bounds)
}

func TestLayerBounds_NotFound(t *testing.T) {
	tests := []struct {
		name     string
		resource string
	}{
		{"no boxes at all", `{"featureType":{}}`},
		{"both incomplete", `{"featureType":{
			"latLonBoundingBox":{"miny":1,"maxx":2,"maxy":3},
			"nativeBoundingBox":{"miny":1,"maxx":2,"maxy":3}
		}}`},
		{"unrecognized resource", `{"wmsLayer":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := boundsServer(t, tt.resource)
			client := NewClient(srv.URL, "admin", "geoserver")

			_, err := client.LayerBounds(context.Background(), "demo", "parcels")
			assert.ErrorIs(t, err, ErrBoundsNotFound)
		})
	}
}

func TestLayerBounds_TransportErrorIsNotNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "admin", "geoserver")
	_, err := client.LayerBounds(context.Background(), "demo", "parcels")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBoundsNotFound)
}
