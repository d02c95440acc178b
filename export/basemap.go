package export

import (
	"context"
	"fmt"
	"image"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/fogleman/gg"
)

// maxBasemapZoom caps the tile zoom level requested for exports.
const maxBasemapZoom = 16

const tileSize = 256

// BasemapSource produces a background image for the export, or an error
// when it cannot. Sources are tried in order; first success wins.
type BasemapSource func(ctx context.Context, lat, lon float64, zoom, width, height int) (image.Image, error)

// Basemap renders the export background by walking the configured sources.
// The final grid source cannot fail, so a background is always produced.
func (c *Composer) Basemap(ctx context.Context, lat, lon float64, zoom, width, height int) image.Image {
	sources := []BasemapSource{
		c.tiledBasemap,
		flatGridBasemap,
	}

	for _, source := range sources {
		img, err := source(ctx, lat, lon, zoom, width, height)
		if err == nil {
			return img
		}
		c.logf("Basemap source failed, trying next: %v", err)
	}

	// Unreachable: flatGridBasemap never errors.
	img, _ := flatGridBasemap(ctx, lat, lon, zoom, width, height)
	return img
}

// tiledBasemap stitches OSM tiles around the center point at a capped zoom
// level. Any tile failure fails the whole source.
func (c *Composer) tiledBasemap(ctx context.Context, lat, lon float64, zoom, width, height int) (image.Image, error) {
	if zoom > maxBasemapZoom {
		zoom = maxBasemapZoom
	}
	if zoom < 0 {
		zoom = 0
	}

	n := 1 << uint(zoom)
	tileX, tileY := tileForPoint(lat, lon, zoom)

	cols := width/tileSize + 2
	rows := height/tileSize + 2

	dc := gg.NewContext(width, height)
	dc.SetRGB255(221, 221, 221)
	dc.Clear()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for dy := -rows / 2; dy <= rows/2; dy++ {
		for dx := -cols / 2; dx <= cols/2; dx++ {
			tx := ((tileX+dx)%n + n) % n
			ty := tileY + dy
			if ty < 0 || ty >= n {
				continue
			}

			tile, err := c.fetchTile(ctx, zoom, tx, ty)
			if err != nil {
				return nil, fmt.Errorf("tile %d/%d/%d: %w", zoom, tx, ty, err)
			}

			px := width/2 - tileSize/2 + dx*tileSize
			py := height/2 - tileSize/2 + dy*tileSize
			dc.DrawImage(tile, px, py)
		}
	}

	return dc.Image(), nil
}

func (c *Composer) fetchTile(ctx context.Context, zoom, x, y int) (image.Image, error) {
	url := fmt.Sprintf("%s/%d/%d/%d.png", c.tileURL, zoom, x, y)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "TerraVista/1.0 (map export)")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("tile server returned status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tile: %w", err)
	}
	return img, nil
}

// flatGridBasemap draws a plain grid background. It never fails and anchors
// the fallback chain.
func flatGridBasemap(_ context.Context, _, _ float64, _, width, height int) (image.Image, error) {
	dc := gg.NewContext(width, height)
	dc.SetRGB255(240, 240, 238)
	dc.Clear()

	dc.SetRGB255(214, 214, 210)
	dc.SetLineWidth(1)
	for x := 0; x <= width; x += 50 {
		dc.DrawLine(float64(x), 0, float64(x), float64(height))
	}
	for y := 0; y <= height; y += 50 {
		dc.DrawLine(0, float64(y), float64(width), float64(y))
	}
	dc.Stroke()

	return dc.Image(), nil
}

// tileForPoint maps a lat/lon onto slippy-map tile coordinates.
func tileForPoint(lat, lon float64, zoom int) (int, int) {
	n := float64(int(1) << uint(zoom))
	latRad := lat * math.Pi / 180

	x := int((lon + 180) / 360 * n)
	y := int((1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2 * n)

	max := int(n) - 1
	if x < 0 {
		x = 0
	} else if x > max {
		x = max
	}
	if y < 0 {
		y = 0
	} else if y > max {
		y = max
	}
	return x, y
}
