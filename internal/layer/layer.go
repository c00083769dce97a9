// Package layer materializes decoded geometries plus their attribute
// rows into an in-memory spatial layer and serializes it as a GeoJSON
// feature collection.
package layer

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/tdewolff/minify/v2"
	mjson "github.com/tdewolff/minify/v2/json"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/mastools/geocsv/internal/geometry"
)

// Feature is one imported row: its decoded geometry (nil for an
// empty-geometry placeholder), kind, out-of-band SRID and the
// remaining field strings unchanged.
type Feature struct {
	Geom  geom.T
	Kind  geometry.Kind
	SRID  int
	Attrs []string
}

// Layer is an ordered collection of features sharing one declared
// geometry kind and one attribute schema.
type Layer struct {
	Name     string
	Kind     geometry.Kind
	Fields   []string
	Features []Feature
}

// New creates an empty layer with the given attribute schema.
func New(name string, kind geometry.Kind, fields []string) *Layer {
	return &Layer{Name: name, Kind: kind, Fields: fields}
}

// Append adds one feature to the layer.
func (l *Layer) Append(f Feature) {
	l.Features = append(l.Features, f)
}

// Count returns the number of features in the layer.
func (l *Layer) Count() int {
	return len(l.Features)
}

// GeoJSON feature collection shape for export.
type featureCollection struct {
	Type     string        `json:"type"`
	Name     string        `json:"name,omitempty"`
	Features []featureJSON `json:"features"`
}

type featureJSON struct {
	Type       string          `json:"type"`
	Geometry   json.RawMessage `json:"geometry"`
	Properties map[string]any  `json:"properties"`
}

var nullGeometry = json.RawMessage("null")

// WriteGeoJSON serializes the layer as a GeoJSON FeatureCollection.
// With compact set the output is minified, otherwise it is indented.
func (l *Layer) WriteGeoJSON(w io.Writer, compact bool) error {
	fc := featureCollection{
		Type:     "FeatureCollection",
		Name:     l.Name,
		Features: make([]featureJSON, 0, len(l.Features)),
	}

	for _, f := range l.Features {
		raw := nullGeometry
		if f.Geom != nil {
			data, err := geojson.Marshal(f.Geom)
			if err != nil {
				return err
			}
			raw = data
		}

		props := make(map[string]any, len(l.Fields))
		for i, name := range l.Fields {
			if i < len(f.Attrs) {
				props[name] = f.Attrs[i]
			} else {
				props[name] = nil
			}
		}

		fc.Features = append(fc.Features, featureJSON{
			Type:       "Feature",
			Geometry:   raw,
			Properties: props,
		})
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if compact {
		m := minify.New()
		m.AddFunc("application/json", mjson.Minify)
		return m.Minify("application/json", w, bytes.NewReader(data))
	}

	_, err = w.Write(data)
	return err
}
