package decode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mastools/geocsv/internal/format"
	"github.com/mastools/geocsv/internal/geometry"
)

func TestTopoJSONResolvedDelegation(t *testing.T) {
	// A document already carrying type and coordinates is plain
	// GeoJSON and bypasses arc resolution.
	res, err := Decode(`{"type":"Point","coordinates":[1,2]}`, format.TopoJSON)
	require.NoError(t, err)
	requirePoint12(t, res)
}

func TestTopoJSONPointObjects(t *testing.T) {
	res, err := Decode(`{"type":"Topology","objects":{"p":{"type":"Point","coordinates":[1,2]}},"arcs":[]}`, format.TopoJSON)
	require.NoError(t, err)
	requirePoint12(t, res)

	res, err = Decode(`{"type":"Topology","objects":{"p":{"type":"MultiPoint","coordinates":[[1,2],[3],[3,4]]}},"arcs":[]}`, format.TopoJSON)
	require.NoError(t, err)
	require.Equal(t, geometry.KindMultiPoint, res.Kind)
	require.Equal(t, []float64{1, 2, 3, 4}, res.Geom.FlatCoords())
}

func TestTopoJSONFirstObjectInDocumentOrder(t *testing.T) {
	value := `{"type":"Topology","objects":{
		"second-alphabetically": {"type":"Point","coordinates":[1,2]},
		"first-alphabetically": {"type":"Point","coordinates":[9,9]}
	},"arcs":[]}`
	res, err := Decode(value, format.TopoJSON)
	require.NoError(t, err)
	requirePoint12(t, res)
}

func TestTopoJSONLineStringArcConcatenation(t *testing.T) {
	// Arc 0 decodes to (0,0),(1,1); arc 1 to (1,1),(2,1). The shared
	// junction point collapses to a single occurrence.
	value := `{"type":"Topology",
		"objects":{"l":{"type":"LineString","arcs":[0,1]}},
		"arcs":[[[0,0],[1,1]],[[1,1],[1,0]]]}`
	res, err := Decode(value, format.TopoJSON)
	require.NoError(t, err)
	require.Equal(t, geometry.KindLineString, res.Kind)
	require.Equal(t, []float64{0, 0, 1, 1, 2, 1}, res.Geom.FlatCoords())
}

func TestTopoJSONNegativeArcReference(t *testing.T) {
	// Reference -2 selects arc ^-2 == 1 and reverses its decoded
	// points, so no junction is dropped here.
	value := `{"type":"Topology",
		"objects":{"l":{"type":"LineString","arcs":[0,-2]}},
		"arcs":[[[0,0],[1,1]],[[1,1],[1,0]]]}`
	res, err := Decode(value, format.TopoJSON)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 1, 1, 2, 1, 1, 1}, res.Geom.FlatCoords())
}

func TestTopoJSONReversedJunction(t *testing.T) {
	// Arc 1 reversed starts at (2,1); preceded by an arc ending at
	// (2,1) the junction collapses.
	value := `{"type":"Topology",
		"objects":{"l":{"type":"LineString","arcs":[0,-2]}},
		"arcs":[[[0,0],[2,1]],[[1,1],[1,0]]]}`
	res, err := Decode(value, format.TopoJSON)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 2, 1, 1, 1}, res.Geom.FlatCoords())
}

func TestTopoJSONPolygon(t *testing.T) {
	// One square ring built from a single closed arc.
	value := `{"type":"Topology",
		"objects":{"p":{"type":"Polygon","arcs":[[0]]}},
		"arcs":[[[0,0],[4,0],[0,4],[-4,0],[0,-4]]]}`
	res, err := Decode(value, format.TopoJSON)
	require.NoError(t, err)
	require.Equal(t, geometry.KindPolygon, res.Kind)
	require.Equal(t, []float64{0, 0, 4, 0, 4, 4, 0, 4, 0, 0}, res.Geom.FlatCoords())
}

func TestTopoJSONMultiLineString(t *testing.T) {
	value := `{"type":"Topology",
		"objects":{"m":{"type":"MultiLineString","arcs":[[0],[1]]}},
		"arcs":[[[0,0],[1,1]],[[5,5],[1,0]]]}`
	res, err := Decode(value, format.TopoJSON)
	require.NoError(t, err)
	require.Equal(t, geometry.KindMultiLineString, res.Kind)
	require.Equal(t, []float64{0, 0, 1, 1, 5, 5, 6, 5}, res.Geom.FlatCoords())
}

func TestTopoJSONMultiPolygon(t *testing.T) {
	value := `{"type":"Topology",
		"objects":{"m":{"type":"MultiPolygon","arcs":[[[0]],[[1]]]}},
		"arcs":[
			[[0,0],[1,0],[0,1],[-1,0],[0,-1]],
			[[5,5],[1,0],[0,1],[-1,0],[0,-1]]]}`
	res, err := Decode(value, format.TopoJSON)
	require.NoError(t, err)
	require.Equal(t, geometry.KindMultiPolygon, res.Kind)
}

func TestTopoJSONGeometryCollectionUnion(t *testing.T) {
	value := `{"type":"Topology",
		"objects":{"gc":{"type":"GeometryCollection","geometries":[
			{"type":"Point","coordinates":[1,2]},
			{"type":"Point","coordinates":[3,4]}]}},
		"arcs":[]}`
	res, err := Decode(value, format.TopoJSON)
	require.NoError(t, err)
	require.Equal(t, geometry.KindMultiPoint, res.Kind)
	require.Equal(t, []float64{1, 2, 3, 4}, res.Geom.FlatCoords())
}

func TestTopoJSONFailures(t *testing.T) {
	for name, value := range map[string]string{
		"out of range arc":          `{"type":"Topology","objects":{"l":{"type":"LineString","arcs":[5]}},"arcs":[[[0,0],[1,1]]]}`,
		"out of range negative arc": `{"type":"Topology","objects":{"l":{"type":"LineString","arcs":[-3]}},"arcs":[[[0,0],[1,1]]]}`,
		"no objects":                `{"type":"Topology","arcs":[]}`,
		"empty objects":             `{"objects":{},"arcs":[]}`,
		"objects not a map":         `{"objects":[1,2],"arcs":[]}`,
		"unsupported type":          `{"objects":{"x":{"type":"Blob"}},"arcs":[]}`,
		"broken json":               `{"objects":`,
	} {
		_, err := Decode(value, format.TopoJSON)
		require.Error(t, err, "case %s", name)
	}
}
