package geometry

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func point(x, y float64) *geom.Point {
	return NewPoint(x, y)
}

func square(x, y, size float64) *geom.Polygon {
	return geom.NewPolygonFlat(geom.XY, []float64{
		x, y, x + size, y, x + size, y + size, x, y + size, x, y,
	}, []int{10})
}

func TestUnionPointsOrderIndependent(t *testing.T) {
	ab, err := Union([]geom.T{point(1, 2), point(3, 4)})
	require.NoError(t, err)
	ba, err := Union([]geom.T{point(3, 4), point(1, 2)})
	require.NoError(t, err)

	require.Equal(t, KindMultiPoint, KindOf(ab))
	require.Equal(t, ab, ba)
	require.Equal(t, []float64{1, 2, 3, 4}, ab.FlatCoords())
}

func TestUnionDedupesPoints(t *testing.T) {
	g, err := Union([]geom.T{point(1, 2), point(1, 2)})
	require.NoError(t, err)
	require.Equal(t, KindPoint, KindOf(g))
	require.Equal(t, []float64{1, 2}, g.FlatCoords())
}

func TestUnionLines(t *testing.T) {
	a := geom.NewLineStringFlat(geom.XY, []float64{0, 0, 1, 1})
	b := geom.NewLineStringFlat(geom.XY, []float64{5, 5, 6, 6})

	ab, err := Union([]geom.T{a, b})
	require.NoError(t, err)
	ba, err := Union([]geom.T{b, a})
	require.NoError(t, err)

	require.Equal(t, KindMultiLineString, KindOf(ab))
	require.Equal(t, ab, ba)
}

func TestUnionSingleLinePassesThrough(t *testing.T) {
	a := geom.NewLineStringFlat(geom.XY, []float64{0, 0, 1, 1})
	g, err := Union([]geom.T{a})
	require.NoError(t, err)
	require.Equal(t, KindLineString, KindOf(g))
	require.Equal(t, []float64{0, 0, 1, 1}, g.FlatCoords())
}

func TestUnionDisjointPolygons(t *testing.T) {
	g, err := Union([]geom.T{square(0, 0, 1), square(10, 10, 1)})
	require.NoError(t, err)
	require.Equal(t, KindMultiPolygon, KindOf(g))
}

func TestUnionOverlappingPolygons(t *testing.T) {
	g, err := Union([]geom.T{square(0, 0, 2), square(1, 1, 2)})
	require.NoError(t, err)
	require.Equal(t, KindPolygon, KindOf(g))

	bounds := g.Bounds()
	require.Equal(t, 0.0, bounds.Min(0))
	require.Equal(t, 0.0, bounds.Min(1))
	require.Equal(t, 3.0, bounds.Max(0))
	require.Equal(t, 3.0, bounds.Max(1))
}

func TestUnionMixedDimensions(t *testing.T) {
	g, err := Union([]geom.T{point(0, 0), geom.NewLineStringFlat(geom.XY, []float64{1, 1, 2, 2})})
	require.NoError(t, err)
	require.Equal(t, KindGeometryCollection, KindOf(g))
	require.Len(t, g.(*geom.GeometryCollection).Geoms(), 2)
}

func TestUnionFlattensNestedCollections(t *testing.T) {
	inner := geom.NewGeometryCollection().MustPush(point(1, 2), point(3, 4))
	g, err := Union([]geom.T{inner, point(5, 6)})
	require.NoError(t, err)
	require.Equal(t, KindMultiPoint, KindOf(g))
	require.Equal(t, []float64{1, 2, 3, 4, 5, 6}, g.FlatCoords())
}

func TestUnionNothing(t *testing.T) {
	_, err := Union(nil)
	require.ErrorIs(t, err, ErrNothingToCombine)

	_, err = Union([]geom.T{nil})
	require.ErrorIs(t, err, ErrNothingToCombine)
}
