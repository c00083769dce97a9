package decode

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/twpayne/go-geom"

	"github.com/mastools/geocsv/internal/geometry"
)

// geojsonObject is the subset of a GeoJSON document the decoder reads.
// Coordinates stay raw until the type is known, their nesting depth
// differs per geometry type.
type geojsonObject struct {
	Type        string            `json:"type"`
	Coordinates json.RawMessage   `json:"coordinates"`
	Geometries  []json.RawMessage `json:"geometries"`
	Geometry    json.RawMessage   `json:"geometry"`
}

func decodeGeoJSON(value string) (*Result, error) {
	return decodeGeoJSONBytes([]byte(value))
}

func decodeGeoJSONBytes(data []byte) (*Result, error) {
	var obj geojsonObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}

	// A Feature wraps its geometry one level down.
	if obj.Type == "Feature" {
		if obj.Geometry == nil {
			return nil, errors.New("feature has no geometry")
		}
		inner := obj.Geometry
		obj = geojsonObject{}
		if err := json.Unmarshal(inner, &obj); err != nil {
			return nil, err
		}
	}

	switch strings.ToLower(obj.Type) {
	case "point":
		var coords []float64
		if err := json.Unmarshal(obj.Coordinates, &coords); err != nil {
			return nil, err
		}
		if len(coords) < 2 {
			return nil, errors.New("point needs at least two coordinate components")
		}
		return &Result{Geom: geometry.NewPoint(coords[0], coords[1])}, nil

	case "multipoint":
		var tuples [][]float64
		if err := json.Unmarshal(obj.Coordinates, &tuples); err != nil {
			return nil, err
		}
		flat := flatPoints(tuples)
		if len(flat) == 0 {
			return nil, errors.New("no valid points")
		}
		return &Result{Geom: geom.NewMultiPointFlat(geom.XY, flat)}, nil

	case "linestring":
		var tuples [][]float64
		if err := json.Unmarshal(obj.Coordinates, &tuples); err != nil {
			return nil, err
		}
		line := lineFromTuples(tuples)
		if line == nil {
			return nil, errors.New("linestring needs at least two points")
		}
		return &Result{Geom: line}, nil

	case "multilinestring":
		var lines [][][]float64
		if err := json.Unmarshal(obj.Coordinates, &lines); err != nil {
			return nil, err
		}
		g := multiLineFromTuples(lines)
		if g == nil {
			return nil, errors.New("no valid linestrings")
		}
		return &Result{Geom: g}, nil

	case "polygon":
		var rings [][][]float64
		if err := json.Unmarshal(obj.Coordinates, &rings); err != nil {
			return nil, err
		}
		g := polygonFromRings(rings)
		if g == nil {
			return nil, errors.New("no valid rings")
		}
		return &Result{Geom: g}, nil

	case "multipolygon":
		var polys [][][][]float64
		if err := json.Unmarshal(obj.Coordinates, &polys); err != nil {
			return nil, err
		}
		g := multiPolygonFromRings(polys)
		if g == nil {
			return nil, errors.New("no valid polygons")
		}
		return &Result{Geom: g}, nil

	case "geometrycollection":
		var members []geom.T
		for _, raw := range obj.Geometries {
			sub, err := decodeGeoJSONBytes(raw)
			if err != nil {
				continue
			}
			members = append(members, sub.Geom)
		}
		if len(members) == 0 {
			return nil, errors.New("no decodable collection members")
		}
		combined, err := geometry.Union(members)
		if err != nil {
			return nil, err
		}
		return &Result{Geom: combined}, nil
	}

	return nil, fmt.Errorf("unsupported geometry type %q", obj.Type)
}

// flatPoints keeps the x/y of every tuple with at least two components,
// silently dropping short tuples. Extra components are truncated.
func flatPoints(tuples [][]float64) []float64 {
	flat := make([]float64, 0, len(tuples)*2)
	for _, t := range tuples {
		if len(t) >= 2 {
			flat = append(flat, t[0], t[1])
		}
	}
	return flat
}

// lineFromTuples builds a LineString when at least two points survive
// filtering, nil otherwise.
func lineFromTuples(tuples [][]float64) geom.T {
	flat := flatPoints(tuples)
	if len(flat) < 4 {
		return nil
	}
	return geom.NewLineStringFlat(geom.XY, flat)
}

// multiLineFromTuples keeps every member line with at least two
// surviving points; nil when none survive.
func multiLineFromTuples(lines [][][]float64) geom.T {
	var flat []float64
	var ends []int
	for _, line := range lines {
		lf := flatPoints(line)
		if len(lf) < 4 {
			continue
		}
		flat = append(flat, lf...)
		ends = append(ends, len(flat))
	}
	if len(ends) == 0 {
		return nil
	}
	return geom.NewMultiLineStringFlat(geom.XY, flat, ends)
}

// polygonFromRings keeps every ring with at least three surviving
// points, first survivor is the exterior; nil when none survive.
// Unclosed source rings pass through unclosed.
func polygonFromRings(rings [][][]float64) geom.T {
	var flat []float64
	var ends []int
	for _, ring := range rings {
		rf := flatPoints(ring)
		if len(rf) < 6 {
			continue
		}
		flat = append(flat, rf...)
		ends = append(ends, len(flat))
	}
	if len(ends) == 0 {
		return nil
	}
	return geom.NewPolygonFlat(geom.XY, flat, ends)
}

// multiPolygonFromRings applies the polygon ring rule one nesting level
// deeper; polygons left with no rings are dropped.
func multiPolygonFromRings(polys [][][][]float64) geom.T {
	var flat []float64
	var endss [][]int
	for _, rings := range polys {
		var ends []int
		for _, ring := range rings {
			rf := flatPoints(ring)
			if len(rf) < 6 {
				continue
			}
			flat = append(flat, rf...)
			ends = append(ends, len(flat))
		}
		if len(ends) > 0 {
			endss = append(endss, ends)
		}
	}
	if len(endss) == 0 {
		return nil
	}
	return geom.NewMultiPolygonFlat(geom.XY, flat, endss)
}
