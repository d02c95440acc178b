package geoserver

import (
	"context"
	"errors"
	"fmt"

	"terravista/api/models"
)

// ErrBoundsNotFound is the business result for a layer with no usable
// bounding box. It is distinct from transport failures, which wrap the
// underlying error instead.
var ErrBoundsNotFound = errors.New("lat/lon bounding box not found for this layer or is incomplete")

// LayerBounds resolves the geographic extent of a layer. It follows the
// layer's resource link, prefers the pre-projected lat/lon box and falls
// back to the native box when the lat/lon one is absent or missing minx.
// The result is in the two-corner [[minLat,minLon],[maxLat,maxLon]] form
// with the CRS fixed at EPSG:4326.
func (c *Client) LayerBounds(ctx context.Context, workspace, layer string) (*models.LayerBounds, error) {
	fullID := fmt.Sprintf("%s:%s", workspace, layer)
	url := fmt.Sprintf("%s/rest/layers/%s.json", c.BaseURL, fullID)

	var detail layerDetail
	if err := c.getJSON(ctx, url, &detail); err != nil {
		return nil, fmt.Errorf("failed to fetch layer %s: %w", fullID, err)
	}

	resourceHref := detail.Layer.Resource.Href
	if resourceHref == "" {
		return nil, ErrBoundsNotFound
	}

	var resource resourceDetail
	if err := c.getJSON(ctx, resourceHref, &resource); err != nil {
		return nil, fmt.Errorf("failed to fetch resource for %s: %w", fullID, err)
	}

	var body *resourceBody
	switch {
	case resource.Coverage != nil:
		body = resource.Coverage
	case resource.FeatureType != nil:
		body = resource.FeatureType
	default:
		return nil, ErrBoundsNotFound
	}

	box := body.LatLonBoundingBox
	if box == nil || box.MinX == nil {
		box = body.NativeBoundingBox
	}

	if box == nil || box.MinX == nil || box.MinY == nil || box.MaxX == nil || box.MaxY == nil {
		return nil, ErrBoundsNotFound
	}

	// GeoServer boxes are [minx, miny, maxx, maxy]; web mapping clients
	// expect south-west and north-east [lat, lon] corners.
	return &models.LayerBounds{
		Bounds: [2][2]float64{
			{*box.MinY, *box.MinX},
			{*box.MaxY, *box.MaxX},
		},
		CRS: "EPSG:4326",
	}, nil
}
