package geometry

import "github.com/twpayne/go-geom"

// NewPoint builds a 2D point.
func NewPoint(x, y float64) *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{x, y})
}

// Force2D rebuilds a geometry on the XY layout, truncating any Z/M
// components to the first two ordinates of every vertex and dropping
// any embedded SRID. Geometries decoded from library codecs (WKT, WKB)
// may carry higher layouts; everything downstream works in plain 2D.
func Force2D(g geom.T) geom.T {
	if g == nil {
		return nil
	}

	switch t := g.(type) {
	case *geom.Point:
		return geom.NewPointFlat(geom.XY, flat2(t.FlatCoords(), t.Stride()))
	case *geom.LineString:
		return geom.NewLineStringFlat(geom.XY, flat2(t.FlatCoords(), t.Stride()))
	case *geom.Polygon:
		return geom.NewPolygonFlat(geom.XY, flat2(t.FlatCoords(), t.Stride()), ends2(t.Ends(), t.Stride()))
	case *geom.MultiPoint:
		return geom.NewMultiPointFlat(geom.XY, flat2(t.FlatCoords(), t.Stride()))
	case *geom.MultiLineString:
		return geom.NewMultiLineStringFlat(geom.XY, flat2(t.FlatCoords(), t.Stride()), ends2(t.Ends(), t.Stride()))
	case *geom.MultiPolygon:
		return geom.NewMultiPolygonFlat(geom.XY, flat2(t.FlatCoords(), t.Stride()), endss2(t.Endss(), t.Stride()))
	case *geom.GeometryCollection:
		gc := geom.NewGeometryCollection()
		for _, sub := range t.Geoms() {
			gc.MustPush(Force2D(sub))
		}
		return gc
	}

	return g
}

// IsEmpty reports whether a geometry holds no coordinates at all.
// Decoders treat empty results as failures, never as values.
func IsEmpty(g geom.T) bool {
	if g == nil {
		return true
	}
	if gc, ok := g.(*geom.GeometryCollection); ok {
		for _, sub := range gc.Geoms() {
			if !IsEmpty(sub) {
				return false
			}
		}
		return true
	}
	return len(g.FlatCoords()) == 0
}

func flat2(coords []float64, stride int) []float64 {
	if stride == 2 {
		out := make([]float64, len(coords))
		copy(out, coords)
		return out
	}
	out := make([]float64, 0, len(coords)/stride*2)
	for i := 0; i+1 < len(coords); i += stride {
		out = append(out, coords[i], coords[i+1])
	}
	return out
}

func ends2(ends []int, stride int) []int {
	out := make([]int, len(ends))
	for i, e := range ends {
		out[i] = e / stride * 2
	}
	return out
}

func endss2(endss [][]int, stride int) [][]int {
	out := make([][]int, len(endss))
	for i, ends := range endss {
		out[i] = ends2(ends, stride)
	}
	return out
}
