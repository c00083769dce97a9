package decode

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/mastools/geocsv/internal/format"
	"github.com/mastools/geocsv/internal/geometry"
)

func TestEarthEnginePoint(t *testing.T) {
	res, err := Decode("ee.Geometry.Point([1, 2])", format.EarthEngine)
	require.NoError(t, err)
	requirePoint12(t, res)

	// Embedded newlines are fine.
	res, err = Decode("ee.Geometry.Point(\n  [1, 2]\n)", format.EarthEngine)
	require.NoError(t, err)
	requirePoint12(t, res)
}

func TestEarthEngineLineKinds(t *testing.T) {
	res, err := Decode("ee.Geometry.LineString([[0,0],[1,1],[2,0]])", format.EarthEngine)
	require.NoError(t, err)
	require.Equal(t, geometry.KindLineString, res.Kind)

	res, err = Decode("ee.Geometry.MultiPoint([[1,2],[3,4]])", format.EarthEngine)
	require.NoError(t, err)
	require.Equal(t, geometry.KindMultiPoint, res.Kind)

	// LinearRing becomes a single-ring polygon.
	res, err = Decode("ee.Geometry.LinearRing([[0,0],[4,0],[4,4],[0,0]])", format.EarthEngine)
	require.NoError(t, err)
	require.Equal(t, geometry.KindPolygon, res.Kind)
}

func TestEarthEnginePolygonNesting(t *testing.T) {
	// Single bare ring.
	res, err := Decode("ee.Geometry.Polygon([[0,0],[4,0],[4,4],[0,0]])", format.EarthEngine)
	require.NoError(t, err)
	require.Equal(t, geometry.KindPolygon, res.Kind)
	require.Equal(t, []float64{0, 0, 4, 0, 4, 4, 0, 0}, res.Geom.FlatCoords())

	// Ring list.
	res, err = Decode("ee.Geometry.Polygon([[[0,0],[4,0],[4,4],[0,0]],[[1,1],[2,1],[2,2],[1,1]]])", format.EarthEngine)
	require.NoError(t, err)
	require.Equal(t, geometry.KindPolygon, res.Kind)
	require.Len(t, res.Geom.(*geom.Polygon).Ends(), 2)

	res, err = Decode("ee.Geometry.MultiPolygon([[[[0,0],[1,0],[1,1],[0,0]]],[[[5,5],[6,5],[6,6],[5,5]]]])", format.EarthEngine)
	require.NoError(t, err)
	require.Equal(t, geometry.KindMultiPolygon, res.Kind)
}

func TestEarthEngineRectangle(t *testing.T) {
	res, err := Decode("ee.Geometry.Rectangle([0, 0, 2, 3])", format.EarthEngine)
	require.NoError(t, err)
	require.Equal(t, geometry.KindPolygon, res.Kind)
	// Closed ring SW, SE, NE, NW, SW.
	require.Equal(t, []float64{0, 0, 2, 0, 2, 3, 0, 3, 0, 0}, res.Geom.FlatCoords())

	res, err = Decode("ee.Geometry.BBox([0, 0, 2, 3])", format.EarthEngine)
	require.NoError(t, err)
	require.Equal(t, geometry.KindPolygon, res.Kind)

	_, err = Decode("ee.Geometry.Rectangle([0, 0, 2])", format.EarthEngine)
	require.Error(t, err)
}

func TestEarthEngineGeoJSONFallback(t *testing.T) {
	res, err := Decode(`ee.Geometry({"type":"Point","coordinates":[1,2]})`, format.EarthEngine)
	require.NoError(t, err)
	requirePoint12(t, res)
}

func TestEarthEngineFailures(t *testing.T) {
	for _, value := range []string{
		"ee.Geometry.Circle([1,2,3])",
		"ee.Geometry.Point([1])",
		"ee.Geometry.Point()",
		"ee.Geometry.Point([1,2",
		"ee.Image([1,2])",
	} {
		_, err := Decode(value, format.EarthEngine)
		require.Error(t, err, "value %q", value)
	}
}
