package geoserver

import (
	"context"
	"fmt"
	"log"
	"strings"

	"terravista/api/models"
)

// ListLayers fetches the workspace's layer summary and classifies each layer
// as raster or vector by fetching its detail document and inspecting the
// resource class. Layers whose detail fetch fails or whose class cannot be
// determined are dropped from both lists.
//
// This is an N+1 call sequence: one summary fetch plus one detail fetch per
// layer, issued sequentially.
func (c *Client) ListLayers(ctx context.Context, workspace string) (*models.WorkspaceLayers, error) {
	var summary struct {
		Layers layerSummary `json:"layers"`
	}

	url := fmt.Sprintf("%s/rest/workspaces/%s/layers.json", c.BaseURL, workspace)
	if err := c.getJSON(ctx, url, &summary); err != nil {
		return nil, fmt.Errorf("failed to fetch layer summary for workspace %q: %w", workspace, err)
	}

	result := &models.WorkspaceLayers{
		Workspace:    workspace,
		RasterLayers: []string{},
		VectorLayers: []string{},
	}

	log.Printf("Processing %d layers for workspace %s", len(summary.Layers.Layer), workspace)

	for _, entry := range summary.Layers.Layer {
		if entry.Name == "" || entry.Href == "" {
			log.Printf("Layer entry missing name or href in workspace %s, skipping", workspace)
			continue
		}

		desc := c.describeLayer(ctx, workspace, entry)
		switch desc.Kind {
		case models.LayerKindRaster:
			result.RasterLayers = append(result.RasterLayers, desc.Name)
		case models.LayerKindVector:
			result.VectorLayers = append(result.VectorLayers, desc.Name)
		default:
			log.Printf("Could not determine type for layer %q in workspace %q, skipping", desc.Name, workspace)
		}
	}

	return result, nil
}

// describeLayer fetches a layer's detail document and builds its descriptor.
// Failures are non-fatal and yield an unknown kind.
func (c *Client) describeLayer(ctx context.Context, workspace string, entry ref) models.LayerDescriptor {
	desc := models.LayerDescriptor{
		Workspace: workspace,
		Name:      entry.Name,
		Kind:      models.LayerKindUnknown,
	}

	var detail layerDetail
	if err := c.getJSON(ctx, entry.Href, &detail); err != nil {
		log.Printf("Failed to fetch detailed layer info for %q at %q: %v", entry.Name, entry.Href, err)
		return desc
	}

	desc.ResourceClass = detail.Layer.Resource.Class
	if desc.ResourceClass == "" {
		log.Printf("Could not find resource class for layer %q at %q", entry.Name, entry.Href)
		return desc
	}

	desc.Kind = KindFromResourceClass(desc.ResourceClass)
	return desc
}

// KindFromResourceClass maps a GeoServer resource class onto a layer kind:
// coverages are rasters, feature types are vectors.
func KindFromResourceClass(class string) models.LayerKind {
	lower := strings.ToLower(class)
	switch {
	case strings.Contains(lower, "coverage"):
		return models.LayerKindRaster
	case strings.Contains(lower, "feature"):
		return models.LayerKindVector
	default:
		return models.LayerKindUnknown
	}
}
