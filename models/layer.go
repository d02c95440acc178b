package models

// LayerKind is the detected kind of a GeoServer layer.
type LayerKind string

const (
	LayerKindRaster  LayerKind = "raster"
	LayerKindVector  LayerKind = "vector"
	LayerKindUnknown LayerKind = "unknown"
)

// LayerDescriptor identifies a layer within a workspace together with the
// resource class reported by its detail document.
type LayerDescriptor struct {
	Workspace     string    `json:"workspace"`
	Name          string    `json:"name"`
	ResourceClass string    `json:"resource_class"`
	Kind          LayerKind `json:"kind"`
}

// WorkspaceLayers is the classified layer listing for one workspace.
type WorkspaceLayers struct {
	Workspace    string   `json:"workspace"`
	RasterLayers []string `json:"raster_layers"`
	VectorLayers []string `json:"vector_layers"`
}

// LayerBounds is a layer extent in the two-corner form web mapping clients
// expect: [[minLat, minLon], [maxLat, maxLon]].
type LayerBounds struct {
	Bounds [2][2]float64 `json:"bounds"`
	CRS    string        `json:"crs"`
}
