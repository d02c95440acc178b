package export

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // tile servers may serve JPEG
	"log"
	"net/http"
	"os"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"terravista/api/geoserver"
	"terravista/api/models"
)

// Composed export image dimensions in pixels.
const (
	mapImageWidth  = 900
	mapImageHeight = 600
)

// Composer builds the composed map image for a PDF export: basemap, WMS
// overlay of the active layers, and fixed annotations.
type Composer struct {
	gs      *geoserver.Client
	http    *http.Client
	tileURL string
}

func NewComposer(gs *geoserver.Client) *Composer {
	tileURL := os.Getenv("BASEMAP_TILE_URL")
	if tileURL == "" {
		tileURL = "https://tile.openstreetmap.org"
	}
	return &Composer{
		gs:      gs,
		http:    &http.Client{},
		tileURL: tileURL,
	}
}

func (c *Composer) logf(format string, args ...interface{}) {
	log.Printf(format, args...)
}

// ComposeMapImage renders the full export image. Every stage degrades
// rather than failing: a missing overlay leaves the basemap untouched and
// the grid fallback guarantees a base image.
func (c *Composer) ComposeMapImage(ctx context.Context, req *models.ExportRequest) image.Image {
	base := c.Basemap(ctx, req.Center.Lat, req.Center.Lon, req.Zoom, mapImageWidth, mapImageHeight)

	dc := gg.NewContextForImage(base)

	if len(req.ActiveLayers) > 0 {
		overlay, err := c.layerOverlay(ctx, req)
		if err != nil {
			c.logf("Layer overlay could not be rendered, keeping base image: %v", err)
		} else {
			dc.DrawImage(overlay, 0, 0)
		}
	}

	c.annotate(dc, req.Zoom)
	return dc.Image()
}

// layerOverlay renders all active layers in one combined GetMap call.
func (c *Composer) layerOverlay(ctx context.Context, req *models.ExportRequest) (image.Image, error) {
	layers := make([]string, 0, len(req.ActiveLayers))
	for _, l := range req.ActiveLayers {
		layers = append(layers, fmt.Sprintf("%s:%s", l.Workspace, l.Name))
	}

	return c.gs.MapImage(ctx, geoserver.MapParams{
		Layers: layers,
		MinLon: req.Viewport.MinLon,
		MinLat: req.Viewport.MinLat,
		MaxLon: req.Viewport.MaxLon,
		MaxLat: req.Viewport.MaxLat,
		Width:  mapImageWidth,
		Height: mapImageHeight,
	})
}

// annotate draws the north indicator and zoom label onto the composed image.
func (c *Composer) annotate(dc *gg.Context, zoom int) {
	w := float64(dc.Width())

	// North arrow, top right.
	cx, cy := w-40.0, 40.0
	dc.SetRGBA(1, 1, 1, 0.85)
	dc.DrawCircle(cx, cy, 22)
	dc.Fill()
	dc.SetRGB255(40, 40, 40)
	dc.MoveTo(cx, cy-14)
	dc.LineTo(cx-8, cy+10)
	dc.LineTo(cx+8, cy+10)
	dc.ClosePath()
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)
	dc.DrawStringAnchored("N", cx, cy+18, 0.5, 0.5)

	// Zoom label, bottom left.
	label := fmt.Sprintf("Zoom: %d", zoom)
	dc.SetRGBA(1, 1, 1, 0.85)
	dc.DrawRectangle(10, float64(dc.Height())-30, 80, 20)
	dc.Fill()
	dc.SetRGB255(40, 40, 40)
	dc.DrawString(label, 16, float64(dc.Height())-16)
}
