package geoserver

import "encoding/json"

// ref is a name/href pair as it appears in GeoServer listing documents.
type ref struct {
	Name string `json:"name"`
	Href string `json:"href"`
}

// refList tolerates GeoServer's habit of collapsing a single-entry list to a
// bare object, and of reporting an empty list as "".
type refList []ref

func (l *refList) UnmarshalJSON(data []byte) error {
	var many []ref
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}

	var one ref
	if err := json.Unmarshal(data, &one); err == nil {
		*l = refList{one}
		return nil
	}

	// Anything else (empty string, null) means no entries.
	*l = nil
	return nil
}

// layerSummary is the body of a workspace layer listing. An empty workspace
// is reported as "" instead of an object.
type layerSummary struct {
	Layer refList `json:"layer"`
}

func (s *layerSummary) UnmarshalJSON(data []byte) error {
	type plain layerSummary
	var p plain
	if err := json.Unmarshal(data, &p); err == nil {
		*s = layerSummary(p)
		return nil
	}
	*s = layerSummary{}
	return nil
}

// workspaceSummary is the body of the workspace listing, with the same
// empty-as-"" quirk.
type workspaceSummary struct {
	Workspace refList `json:"workspace"`
}

func (s *workspaceSummary) UnmarshalJSON(data []byte) error {
	type plain workspaceSummary
	var p plain
	if err := json.Unmarshal(data, &p); err == nil {
		*s = workspaceSummary(p)
		return nil
	}
	*s = workspaceSummary{}
	return nil
}

// layerDetail is the per-layer definition document.
type layerDetail struct {
	Layer struct {
		Name     string `json:"name"`
		Resource struct {
			Class string `json:"@class"`
			Name  string `json:"name"`
			Href  string `json:"href"`
		} `json:"resource"`
		DefaultStyle struct {
			Name string `json:"name"`
			Href string `json:"href"`
		} `json:"defaultStyle"`
	} `json:"layer"`
}

// boundingBox is a four-edge extent from a resource document. Edges are
// pointers so an absent field is distinguishable from zero.
type boundingBox struct {
	MinX *float64        `json:"minx"`
	MinY *float64        `json:"miny"`
	MaxX *float64        `json:"maxx"`
	MaxY *float64        `json:"maxy"`
	CRS  json.RawMessage `json:"crs"`
}

// resourceBody holds the bounding box fields shared by coverage and
// featureType resource documents.
type resourceBody struct {
	LatLonBoundingBox *boundingBox `json:"latLonBoundingBox"`
	NativeBoundingBox *boundingBox `json:"nativeBoundingBox"`
}

// resourceDetail is a full resource document; exactly one of Coverage or
// FeatureType is present depending on the layer kind.
type resourceDetail struct {
	Coverage    *resourceBody `json:"coverage"`
	FeatureType *resourceBody `json:"featureType"`
}
