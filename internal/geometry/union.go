package geometry

import (
	"errors"
	"math"
	"sort"

	"github.com/ctessum/polyclip-go"
	"github.com/twpayne/go-geom"
)

// ErrNothingToCombine is returned when Union receives no non-empty input.
var ErrNothingToCombine = errors.New("no geometries to combine")

// Union combines several geometries into a single composite value.
// Polygonal inputs are merged with a boolean union, point and line
// inputs are merged into canonical multi-part geometries, and mixed
// dimensions yield a GeometryCollection of the per-dimension results.
// The result is deterministic and independent of input order.
func Union(gs []geom.T) (geom.T, error) {
	var (
		points []geom.Coord
		lines  [][]geom.Coord
		shells polyclip.Polygon
	)

	var gather func(g geom.T)
	gather = func(g geom.T) {
		switch t := g.(type) {
		case *geom.Point:
			points = append(points, t.Coords())
		case *geom.MultiPoint:
			points = append(points, t.Coords()...)
		case *geom.LineString:
			lines = append(lines, t.Coords())
		case *geom.MultiLineString:
			lines = append(lines, t.Coords()...)
		case *geom.Polygon:
			shells = unionPolygon(shells, toClip(t.Coords()))
		case *geom.MultiPolygon:
			for _, rings := range t.Coords() {
				shells = unionPolygon(shells, toClip(rings))
			}
		case *geom.GeometryCollection:
			for _, sub := range t.Geoms() {
				gather(sub)
			}
		}
	}
	for _, g := range gs {
		if g != nil {
			gather(g)
		}
	}

	var parts []geom.T
	if g := mergePoints(points); g != nil {
		parts = append(parts, g)
	}
	if g := mergeLines(lines); g != nil {
		parts = append(parts, g)
	}
	if g := rebuildPolygons(shells); g != nil {
		parts = append(parts, g)
	}

	switch len(parts) {
	case 0:
		return nil, ErrNothingToCombine
	case 1:
		return parts[0], nil
	}
	return geom.NewGeometryCollection().MustPush(parts...), nil
}

// mergePoints dedupes and canonically orders points, returning a Point
// or MultiPoint, or nil when there are none.
func mergePoints(points []geom.Coord) geom.T {
	if len(points) == 0 {
		return nil
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i][0] != points[j][0] {
			return points[i][0] < points[j][0]
		}
		return points[i][1] < points[j][1]
	})

	flat := make([]float64, 0, len(points)*2)
	for i, p := range points {
		if i > 0 && p[0] == points[i-1][0] && p[1] == points[i-1][1] {
			continue
		}
		flat = append(flat, p[0], p[1])
	}

	if len(flat) == 2 {
		return geom.NewPointFlat(geom.XY, flat)
	}
	return geom.NewMultiPointFlat(geom.XY, flat)
}

// mergeLines canonically orders lines, returning a LineString or
// MultiLineString, or nil when there are none. Lines are not noded
// against each other; their union is the set of input paths.
func mergeLines(lines [][]geom.Coord) geom.T {
	if len(lines) == 0 {
		return nil
	}

	sort.Slice(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k][0] != b[k][0] {
				return a[k][0] < b[k][0]
			}
			if a[k][1] != b[k][1] {
				return a[k][1] < b[k][1]
			}
		}
		return len(a) < len(b)
	})

	if len(lines) == 1 {
		return geom.NewLineStringFlat(geom.XY, flatten(lines[0]))
	}

	var flat []float64
	ends := make([]int, 0, len(lines))
	for _, line := range lines {
		flat = append(flat, flatten(line)...)
		ends = append(ends, len(flat))
	}
	return geom.NewMultiLineStringFlat(geom.XY, flat, ends)
}

// unionPolygon folds one polygon's rings into the accumulated union.
func unionPolygon(acc, p polyclip.Polygon) polyclip.Polygon {
	if len(p) == 0 {
		return acc
	}
	if len(acc) == 0 {
		return p
	}
	return acc.Construct(polyclip.UNION, p)
}

// rebuildPolygons nests the union result's contours back into polygons
// with holes: a contour strictly inside an odd number of other contours
// is a hole of its innermost enclosing shell.
func rebuildPolygons(contours polyclip.Polygon) geom.T {
	if len(contours) == 0 {
		return nil
	}

	depth := make([]int, len(contours))
	parent := make([]int, len(contours))
	for i := range contours {
		parent[i] = -1
		best := math.Inf(1)
		for j := range contours {
			if i == j || len(contours[i]) == 0 {
				continue
			}
			if !contourContains(contours[j], contours[i][0]) {
				continue
			}
			depth[i]++
			if a := math.Abs(contourArea(contours[j])); a < best {
				best = a
				parent[i] = j
			}
		}
	}

	type polygon struct{ rings [][]polyclip.Point }
	byShell := make(map[int]*polygon)
	var shellOrder []int
	for i := range contours {
		if depth[i]%2 == 0 {
			byShell[i] = &polygon{rings: [][]polyclip.Point{contours[i]}}
			shellOrder = append(shellOrder, i)
		}
	}
	for i := range contours {
		if depth[i]%2 == 1 {
			if shell, ok := byShell[parent[i]]; ok {
				shell.rings = append(shell.rings, contours[i])
			}
		}
	}

	sort.Ints(shellOrder)
	polys := make([][][]polyclip.Point, 0, len(shellOrder))
	for _, i := range shellOrder {
		polys = append(polys, byShell[i].rings)
	}

	if len(polys) == 1 {
		flat, ends := flattenRings(polys[0])
		return geom.NewPolygonFlat(geom.XY, flat, ends)
	}

	var flat []float64
	endss := make([][]int, 0, len(polys))
	for _, rings := range polys {
		pf, ends := flattenRings(rings)
		base := len(flat)
		flat = append(flat, pf...)
		for i := range ends {
			ends[i] += base
		}
		endss = append(endss, ends)
	}
	return geom.NewMultiPolygonFlat(geom.XY, flat, endss)
}

// toClip converts polygon rings to a polyclip polygon, closing rings
// is not required by the clipper.
func toClip(rings [][]geom.Coord) polyclip.Polygon {
	p := make(polyclip.Polygon, 0, len(rings))
	for _, ring := range rings {
		c := make(polyclip.Contour, 0, len(ring))
		for _, pt := range ring {
			c = append(c, polyclip.Point{X: pt[0], Y: pt[1]})
		}
		p = append(p, c)
	}
	return p
}

// contourContains reports whether pt lies strictly inside the contour,
// by even-odd ray casting.
func contourContains(c polyclip.Contour, pt polyclip.Point) bool {
	inside := false
	n := len(c)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := c[i], c[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y) + a.X
			if pt.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

func contourArea(c polyclip.Contour) float64 {
	var sum float64
	n := len(c)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		sum += (c[j].X + c[i].X) * (c[j].Y - c[i].Y)
	}
	return sum / 2
}

func flatten(coords []geom.Coord) []float64 {
	flat := make([]float64, 0, len(coords)*2)
	for _, c := range coords {
		flat = append(flat, c[0], c[1])
	}
	return flat
}

func flattenRings(rings [][]polyclip.Point) ([]float64, []int) {
	var flat []float64
	ends := make([]int, 0, len(rings))
	for _, ring := range rings {
		for _, pt := range ring {
			flat = append(flat, pt.X, pt.Y)
		}
		// The clipper returns open contours; geom polygons expect
		// closed rings, so repeat the first vertex.
		if len(ring) > 0 && (ring[0] != ring[len(ring)-1]) {
			flat = append(flat, ring[0].X, ring[0].Y)
		}
		ends = append(ends, len(flat))
	}
	return flat, ends
}
