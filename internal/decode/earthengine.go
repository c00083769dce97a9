package decode

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/twpayne/go-geom"

	"github.com/mastools/geocsv/internal/geometry"
)

// eePattern matches ee.Geometry.<Kind>([...]) constructor calls,
// dot-all so the bracketed argument may span lines.
var eePattern = regexp.MustCompile(`(?s)^ee\.Geometry\.(\w+)\s*\(\s*(\[.+\])\s*\)`)

// eeObjectPattern extracts a flat brace-delimited object for the
// GeoJSON fallback path.
var eeObjectPattern = regexp.MustCompile(`\{[^}]+\}`)

// decodeEarthEngine parses the Earth Engine scripting notation,
// e.g. ee.Geometry.Point([1, 2]) or
// ee.Geometry.Polygon([[[0,0],[1,0],[1,1],[0,0]]]).
func decodeEarthEngine(value string) (*Result, error) {
	m := eePattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		// Some exports embed a GeoJSON-like object instead of the
		// constructor call.
		if strings.Contains(value, "{") && strings.Contains(value, "coordinates") {
			if obj := eeObjectPattern.FindString(value); obj != "" {
				return decodeGeoJSONBytes([]byte(obj))
			}
		}
		return nil, errors.New("unrecognized ee.Geometry expression")
	}

	kind := strings.ToLower(m[1])
	arg := m[2]

	switch kind {
	case "point":
		var coords []float64
		if err := json.Unmarshal([]byte(arg), &coords); err != nil {
			return nil, err
		}
		if len(coords) < 2 {
			return nil, errors.New("point needs at least two coordinate components")
		}
		return &Result{Geom: geometry.NewPoint(coords[0], coords[1])}, nil

	case "multipoint":
		var tuples [][]float64
		if err := json.Unmarshal([]byte(arg), &tuples); err != nil {
			return nil, err
		}
		flat := flatPoints(tuples)
		if len(flat) == 0 {
			return nil, errors.New("no valid points")
		}
		return &Result{Geom: geom.NewMultiPointFlat(geom.XY, flat)}, nil

	case "linestring":
		var tuples [][]float64
		if err := json.Unmarshal([]byte(arg), &tuples); err != nil {
			return nil, err
		}
		line := lineFromTuples(tuples)
		if line == nil {
			return nil, errors.New("linestring needs at least two points")
		}
		return &Result{Geom: line}, nil

	case "linearring":
		var tuples [][]float64
		if err := json.Unmarshal([]byte(arg), &tuples); err != nil {
			return nil, err
		}
		flat := flatPoints(tuples)
		if len(flat) < 6 {
			return nil, errors.New("linearring needs at least three points")
		}
		return &Result{Geom: geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})}, nil

	case "polygon":
		// The notation allows both a single bare ring and a list of
		// rings; probe the deeper nesting first.
		var rings [][][]float64
		if err := json.Unmarshal([]byte(arg), &rings); err == nil {
			g := polygonFromRings(rings)
			if g == nil {
				return nil, errors.New("no valid rings")
			}
			return &Result{Geom: g}, nil
		}
		var ring [][]float64
		if err := json.Unmarshal([]byte(arg), &ring); err != nil {
			return nil, err
		}
		flat := flatPoints(ring)
		if len(flat) < 6 {
			return nil, errors.New("polygon ring needs at least three points")
		}
		return &Result{Geom: geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})}, nil

	case "multipolygon":
		var polys [][][][]float64
		if err := json.Unmarshal([]byte(arg), &polys); err != nil {
			return nil, err
		}
		g := multiPolygonFromRings(polys)
		if g == nil {
			return nil, errors.New("no valid polygons")
		}
		return &Result{Geom: g}, nil

	case "rectangle", "bbox":
		var bounds []float64
		if err := json.Unmarshal([]byte(arg), &bounds); err != nil {
			return nil, err
		}
		if len(bounds) < 4 {
			return nil, errors.New("rectangle needs [west, south, east, north]")
		}
		west, south, east, north := bounds[0], bounds[1], bounds[2], bounds[3]
		flat := []float64{
			west, south,
			east, south,
			east, north,
			west, north,
			west, south,
		}
		return &Result{Geom: geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})}, nil
	}

	return nil, fmt.Errorf("unsupported ee.Geometry kind %q", m[1])
}
