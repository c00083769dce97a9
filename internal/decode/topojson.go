package decode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/twpayne/go-geom"

	"github.com/mastools/geocsv/internal/geometry"
)

// topoDocument is the top level of a TopoJSON document. Objects stays
// raw so the first entry can be selected in document order, Go maps
// would lose it.
type topoDocument struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
	Objects     json.RawMessage `json:"objects"`
	Arcs        [][][]float64   `json:"arcs"`
}

// topoObject is one geometry object inside the objects map. Arcs stays
// raw because its nesting depth depends on the geometry type.
type topoObject struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
	Arcs        json.RawMessage `json:"arcs"`
	Geometries  []topoObject    `json:"geometries"`
}

// decodeTopoJSON resolves the first object of a TopoJSON document
// against its arc table. A document that already carries top-level
// type and coordinates is a resolved geometry and goes through the
// GeoJSON decoder unchanged.
func decodeTopoJSON(value string) (*Result, error) {
	var doc topoDocument
	if err := json.Unmarshal([]byte(value), &doc); err != nil {
		return nil, err
	}

	if doc.Type != "" && doc.Coordinates != nil {
		return decodeGeoJSONBytes([]byte(value))
	}

	if len(doc.Objects) == 0 {
		return nil, errors.New("no objects")
	}
	first, err := firstTopoObject(doc.Objects)
	if err != nil {
		return nil, err
	}

	return resolveTopoObject(first, doc.Arcs)
}

// firstTopoObject decodes the first entry of the objects map in
// document order using the token stream.
func firstTopoObject(raw json.RawMessage) (*topoObject, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("objects is not a map")
	}

	tok, err = dec.Token()
	if err != nil {
		return nil, err
	}
	if _, ok := tok.(string); !ok {
		return nil, errors.New("empty objects map")
	}

	var obj topoObject
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

func resolveTopoObject(obj *topoObject, arcs [][][]float64) (*Result, error) {
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
		var refs []int
		if err := json.Unmarshal(obj.Arcs, &refs); err != nil {
			return nil, err
		}
		tuples, err := resolveArcLine(refs, arcs)
		if err != nil {
			return nil, err
		}
		line := lineFromTuples(tuples)
		if line == nil {
			return nil, errors.New("linestring needs at least two points")
		}
		return &Result{Geom: line}, nil

	case "multilinestring":
		var refss [][]int
		if err := json.Unmarshal(obj.Arcs, &refss); err != nil {
			return nil, err
		}
		lines, err := resolveArcLines(refss, arcs)
		if err != nil {
			return nil, err
		}
		g := multiLineFromTuples(lines)
		if g == nil {
			return nil, errors.New("no valid linestrings")
		}
		return &Result{Geom: g}, nil

	case "polygon":
		var refss [][]int
		if err := json.Unmarshal(obj.Arcs, &refss); err != nil {
			return nil, err
		}
		rings, err := resolveArcLines(refss, arcs)
		if err != nil {
			return nil, err
		}
		g := polygonFromRings(rings)
		if g == nil {
			return nil, errors.New("no valid rings")
		}
		return &Result{Geom: g}, nil

	case "multipolygon":
		var refsss [][][]int
		if err := json.Unmarshal(obj.Arcs, &refsss); err != nil {
			return nil, err
		}
		polys := make([][][][]float64, 0, len(refsss))
		for _, refss := range refsss {
			rings, err := resolveArcLines(refss, arcs)
			if err != nil {
				return nil, err
			}
			polys = append(polys, rings)
		}
		g := multiPolygonFromRings(polys)
		if g == nil {
			return nil, errors.New("no valid polygons")
		}
		return &Result{Geom: g}, nil

	case "geometrycollection":
		var members []geom.T
		for i := range obj.Geometries {
			sub, err := resolveTopoObject(&obj.Geometries[i], arcs)
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

// resolveArcLines resolves one ring/line per reference group.
func resolveArcLines(refss [][]int, arcs [][][]float64) ([][][]float64, error) {
	out := make([][][]float64, 0, len(refss))
	for _, refs := range refss {
		line, err := resolveArcLine(refs, arcs)
		if err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, nil
}

// resolveArcLine concatenates the referenced arcs into one absolute
// coordinate sequence. A non-negative reference selects the arc
// forward; a negative reference r selects arc ^r and reverses its
// decoded points. Duplicate junction points between consecutive arcs
// are dropped.
func resolveArcLine(refs []int, arcs [][][]float64) ([][]float64, error) {
	var out [][]float64
	for _, ref := range refs {
		idx := ref
		if ref < 0 {
			idx = ^ref
		}
		if idx < 0 || idx >= len(arcs) {
			return nil, fmt.Errorf("arc index %d out of range", ref)
		}

		decoded := decodeArc(arcs[idx])
		if ref < 0 {
			for i, j := 0, len(decoded)-1; i < j; i, j = i+1, j-1 {
				decoded[i], decoded[j] = decoded[j], decoded[i]
			}
		}

		if len(out) > 0 && len(decoded) > 0 {
			last, next := out[len(out)-1], decoded[0]
			if last[0] == next[0] && last[1] == next[1] {
				decoded = decoded[1:]
			}
		}
		out = append(out, decoded...)
	}
	return out, nil
}

// decodeArc materializes a delta-encoded arc into absolute points via
// a running prefix sum starting at (0,0).
func decodeArc(arc [][]float64) [][]float64 {
	decoded := make([][]float64, 0, len(arc))
	x, y := 0.0, 0.0
	for _, delta := range arc {
		if len(delta) < 2 {
			continue
		}
		x += delta[0]
		y += delta[1]
		decoded = append(decoded, []float64{x, y})
	}
	return decoded
}
