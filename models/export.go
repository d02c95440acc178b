package models

// ActiveLayer is one entry of the request-scoped layer selection used to
// build the export image and its legend.
type ActiveLayer struct {
	Name      string  `json:"name" binding:"required"`
	Workspace string  `json:"workspace" binding:"required"`
	Type      string  `json:"type"`
	Opacity   float64 `json:"opacity"`
}

// Viewport is the geographic extent of the requested export.
type Viewport struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

type CenterPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ExportRequest is the body of POST /api/export_pdf.
type ExportRequest struct {
	Viewport     Viewport      `json:"viewport" binding:"required"`
	Center       CenterPoint   `json:"center"`
	Zoom         int           `json:"zoom"`
	ActiveLayers []ActiveLayer `json:"active_layers"`
	Scale        string        `json:"scale"`
	Address      string        `json:"address"`
	Timestamp    string        `json:"timestamp"`
}
