package geoserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/url"
	"strings"
	"time"

	"terravista/api/utils"
)

// FeatureInfoParams are the raw query parameters of a GetFeatureInfo probe.
// All fields are required.
type FeatureInfoParams struct {
	BBox   string
	Width  string
	Height string
	X      string
	Y      string
}

// FeatureInfo proxies a WMS GetFeatureInfo request for one layer. When the
// upstream body is valid JSON it is returned as-is; otherwise the second
// return value carries a snippet of the raw body.
func (c *Client) FeatureInfo(ctx context.Context, workspace, layer string, p FeatureInfoParams) (json.RawMessage, string, error) {
	layerID := fmt.Sprintf("%s:%s", workspace, layer)

	params := url.Values{}
	params.Set("REQUEST", "GetFeatureInfo")
	params.Set("SERVICE", "WMS")
	params.Set("SRS", "EPSG:4326")
	params.Set("VERSION", "1.1.1")
	params.Set("FORMAT", "image/png")
	params.Set("BBOX", p.BBox)
	params.Set("HEIGHT", p.Height)
	params.Set("WIDTH", p.Width)
	params.Set("LAYERS", layerID)
	params.Set("QUERY_LAYERS", layerID)
	params.Set("INFO_FORMAT", "application/json")
	params.Set("X", p.X)
	params.Set("Y", p.Y)
	params.Set("FEATURE_COUNT", "1")

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	reqURL := fmt.Sprintf("%s/%s/wms?%s", c.BaseURL, workspace, params.Encode())
	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get feature info for %s: %w", layerID, err)
	}

	if !json.Valid(body) {
		return nil, utils.Truncate(string(body), 500), nil
	}
	return json.RawMessage(body), "", nil
}

// MapParams describe one combined GetMap render of the active layers over a
// geographic extent.
type MapParams struct {
	Layers []string // fully qualified workspace:name identifiers
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
	Width  int
	Height int
}

// MapImage renders the requested layers into a single transparent PNG via
// one combined WMS GetMap call.
func (c *Client) MapImage(ctx context.Context, p MapParams) (image.Image, error) {
	if len(p.Layers) == 0 {
		return nil, fmt.Errorf("no layers requested")
	}

	params := url.Values{}
	params.Set("SERVICE", "WMS")
	params.Set("VERSION", "1.1.1")
	params.Set("REQUEST", "GetMap")
	params.Set("SRS", "EPSG:4326")
	params.Set("LAYERS", strings.Join(p.Layers, ","))
	params.Set("BBOX", fmt.Sprintf("%f,%f,%f,%f", p.MinLon, p.MinLat, p.MaxLon, p.MaxLat))
	params.Set("WIDTH", fmt.Sprintf("%d", p.Width))
	params.Set("HEIGHT", fmt.Sprintf("%d", p.Height))
	params.Set("FORMAT", "image/png")
	params.Set("TRANSPARENT", "TRUE")

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	reqURL := fmt.Sprintf("%s/wms?%s", c.BaseURL, params.Encode())
	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("GetMap request failed: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to decode GetMap response as PNG: %w", err)
	}
	return img, nil
}
