package geoserver

import (
	"context"
	"fmt"
	"regexp"
	"time"
)

var (
	strokeColorRe = regexp.MustCompile(`(?i)name="stroke"[^>]*>\s*(#[0-9a-f]{6})`)
	fillColorRe   = regexp.MustCompile(`(?i)name="fill"[^>]*>\s*(#[0-9a-f]{6})`)
)

// LayerStyleColor resolves the rendered color of a vector layer by fetching
// its default style's SLD body and matching stroke/fill declarations, stroke
// preferred. Returns an empty string when no style or no declared color is
// found; callers fall back to their own defaults.
func (c *Client) LayerStyleColor(ctx context.Context, workspace, layer string) (string, error) {
	fullID := fmt.Sprintf("%s:%s", workspace, layer)
	url := fmt.Sprintf("%s/rest/layers/%s.json", c.BaseURL, fullID)

	var detail layerDetail
	if err := c.getJSON(ctx, url, &detail); err != nil {
		return "", fmt.Errorf("failed to fetch layer %s for style lookup: %w", fullID, err)
	}

	styleName := detail.Layer.DefaultStyle.Name
	if styleName == "" {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	sldURL := fmt.Sprintf("%s/rest/styles/%s.sld", c.BaseURL, styleName)
	body, err := c.get(ctx, sldURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch SLD for style %q: %w", styleName, err)
	}

	if m := strokeColorRe.FindSubmatch(body); m != nil {
		return string(m[1]), nil
	}
	if m := fillColorRe.FindSubmatch(body); m != nil {
		return string(m[1]), nil
	}
	return "", nil
}
