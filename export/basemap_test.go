package export

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngTile(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, tileSize, tileSize))))
	return buf.Bytes()
}

func TestFlatGridBasemap_Dimensions(t *testing.T) {
	img, err := flatGridBasemap(context.Background(), 0, 0, 10, 640, 480)
	require.NoError(t, err)

	bounds := img.Bounds()
	assert.Equal(t, 640, bounds.Dx())
	assert.Equal(t, 480, bounds.Dy())
}

func TestBasemap_UsesTilesWhenAvailable(t *testing.T) {
	tile := pngTile(t)
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "image/png")
		w.Write(tile)
	}))
	defer srv.Close()

	c := &Composer{http: &http.Client{}, tileURL: srv.URL}
	img := c.Basemap(context.Background(), 40.4, -3.7, 12, 512, 512)

	assert.Equal(t, 512, img.Bounds().Dx())
	assert.Equal(t, 512, img.Bounds().Dy())
	assert.Greater(t, requests, 0)
}

func TestBasemap_FallsBackToGridOnTileFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	c := &Composer{http: &http.Client{}, tileURL: srv.URL}
	img := c.Basemap(context.Background(), 40.4, -3.7, 12, 400, 300)

	require.NotNil(t, img)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestTileForPoint(t *testing.T) {
	tests := []struct {
		name  string
		lat   float64
		lon   float64
		zoom  int
		wantX int
		wantY int
	}{
		{"origin zoom 0", 0, 0, 0, 0, 0},
		{"origin zoom 1", 0, 0, 1, 1, 1},
		{"west edge clamps", 0, -180, 2, 0, 2},
		{"far north clamps", 89.9, 0, 2, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tileForPoint(tt.lat, tt.lon, tt.zoom)
			assert.Equal(t, tt.wantX, x)
			assert.Equal(t, tt.wantY, y)
		})
	}
}
