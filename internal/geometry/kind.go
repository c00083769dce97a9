// Package geometry defines the canonical geometry vocabulary shared by
// the decoders and the output layer: the geometry kind tag set, 2D
// coercion and the combine (union) operation.
package geometry

import "github.com/twpayne/go-geom"

// Kind tags a decoded geometry with its canonical shape class.
type Kind string

// Canonical geometry kinds.
const (
	KindPoint              Kind = "Point"
	KindLineString         Kind = "LineString"
	KindPolygon            Kind = "Polygon"
	KindMultiPoint         Kind = "MultiPoint"
	KindMultiLineString    Kind = "MultiLineString"
	KindMultiPolygon       Kind = "MultiPolygon"
	KindGeometryCollection Kind = "GeometryCollection"
	KindUnknown            Kind = "Unknown"
)

// KindOf returns the canonical kind tag for a geometry value.
func KindOf(g geom.T) Kind {
	switch g.(type) {
	case *geom.Point:
		return KindPoint
	case *geom.LineString:
		return KindLineString
	case *geom.Polygon:
		return KindPolygon
	case *geom.MultiPoint:
		return KindMultiPoint
	case *geom.MultiLineString:
		return KindMultiLineString
	case *geom.MultiPolygon:
		return KindMultiPolygon
	case *geom.GeometryCollection:
		return KindGeometryCollection
	}
	return KindUnknown
}
