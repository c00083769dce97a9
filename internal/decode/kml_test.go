package decode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mastools/geocsv/internal/format"
	"github.com/mastools/geocsv/internal/geometry"
)

func TestKMLPoint(t *testing.T) {
	res, err := Decode("<Point><coordinates>1,2,100</coordinates></Point>", format.KML)
	require.NoError(t, err)
	requirePoint12(t, res)

	// A Point parent keeps only the first coordinate even when more
	// were supplied.
	res, err = Decode("<Point><coordinates>1,2 3,4</coordinates></Point>", format.KML)
	require.NoError(t, err)
	requirePoint12(t, res)
}

func TestKMLLineString(t *testing.T) {
	res, err := Decode("<LineString><coordinates>0,0 1,1 2,0</coordinates></LineString>", format.KML)
	require.NoError(t, err)
	require.Equal(t, geometry.KindLineString, res.Kind)
	require.Equal(t, []float64{0, 0, 1, 1, 2, 0}, res.Geom.FlatCoords())
}

func TestKMLPolygon(t *testing.T) {
	value := `<Polygon><outerBoundaryIs><LinearRing>
		<coordinates>0,0 4,0 4,4 0,0</coordinates>
	</LinearRing></outerBoundaryIs></Polygon>`
	res, err := Decode(value, format.KML)
	require.NoError(t, err)
	require.Equal(t, geometry.KindPolygon, res.Kind)
	require.Equal(t, []float64{0, 0, 4, 0, 4, 4, 0, 0}, res.Geom.FlatCoords())
}

func TestKMLPlacemarkWrapped(t *testing.T) {
	value := `<Placemark><name>route</name><LineString>
		<coordinates>-1,0 0,1 1,0</coordinates>
	</LineString></Placemark>`
	res, err := Decode(value, format.KML)
	require.NoError(t, err)
	require.Equal(t, geometry.KindLineString, res.Kind)
}

func TestKMLTupleFiltering(t *testing.T) {
	// Tuples with fewer than two numeric fields are skipped.
	res, err := Decode("<LineString><coordinates>0,0 junk 1 1,1</coordinates></LineString>", format.KML)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 1, 1}, res.Geom.FlatCoords())
}

func TestKMLFallbackKinds(t *testing.T) {
	// Unrecognized parent tag, single coordinate: Point.
	res, err := Decode("<Foo><coordinates>1,2</coordinates></Foo>", format.KML)
	require.NoError(t, err)
	requirePoint12(t, res)

	// Closed ring without a geometry parent: Polygon.
	res, err = Decode("<Foo><coordinates>0,0 2,0 2,2 0,0</coordinates></Foo>", format.KML)
	require.NoError(t, err)
	require.Equal(t, geometry.KindPolygon, res.Kind)

	// Open two-point run: LineString.
	res, err = Decode("<Foo><coordinates>0,0 2,2</coordinates></Foo>", format.KML)
	require.NoError(t, err)
	require.Equal(t, geometry.KindLineString, res.Kind)
}

func TestKMLFailures(t *testing.T) {
	for _, value := range []string{
		"<Point></Point>",
		"<Point><coordinates>   </coordinates></Point>",
		"<Point><coordinates>abc,def</coordinates></Point>",
		"<Point><coordinates>1,2",
	} {
		_, err := Decode(value, format.KML)
		require.Error(t, err, "value %q", value)
	}
}
