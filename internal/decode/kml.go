package decode

import (
	"encoding/xml"
	"errors"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"

	"github.com/mastools/geocsv/internal/geometry"
)

// kmlNode is a generic XML tree node. KML fragments arrive with
// arbitrary nesting (Placemark, MultiGeometry, gx extensions), so the
// decoder walks the tree instead of binding a fixed schema.
type kmlNode struct {
	XMLName  xml.Name
	Children []kmlNode `xml:",any"`
	Text     string    `xml:",chardata"`
}

// decodeKML extracts the first <coordinates> element from a KML
// fragment or document and derives the geometry kind from its parent
// element, falling back on the point count when the parent is not a
// recognized geometry tag.
func decodeKML(value string) (*Result, error) {
	lower := strings.ToLower(value)
	if !strings.HasPrefix(value, "<?xml") && !strings.HasPrefix(lower, "<kml") {
		// Bare fragments need a root carrying the gx namespace.
		value = `<root xmlns:gx="http://www.google.com/kml/ext/2.2">` + value + `</root>`
	}

	var root kmlNode
	if err := xml.Unmarshal([]byte(value), &root); err != nil {
		return nil, err
	}

	coordsElem, parent := findCoordinates(&root, nil)
	if coordsElem == nil || strings.TrimSpace(coordsElem.Text) == "" {
		return nil, errors.New("no coordinates element")
	}

	flat := parseKMLCoordinates(coordsElem.Text)
	n := len(flat) / 2
	if n == 0 {
		return nil, errors.New("no valid coordinate tuples")
	}

	parentTag := ""
	if parent != nil {
		parentTag = strings.ToLower(parent.XMLName.Local)
	}

	switch {
	case strings.Contains(parentTag, "point"):
		return &Result{Geom: geometry.NewPoint(flat[0], flat[1])}, nil
	case strings.Contains(parentTag, "linestring") && n >= 2:
		return &Result{Geom: geom.NewLineStringFlat(geom.XY, flat)}, nil
	case (strings.Contains(parentTag, "polygon") || strings.Contains(parentTag, "linearring")) && n >= 3:
		return &Result{Geom: geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})}, nil
	case n == 1:
		return &Result{Geom: geometry.NewPoint(flat[0], flat[1])}, nil
	case n >= 3 && flat[0] == flat[len(flat)-2] && flat[1] == flat[len(flat)-1]:
		// Closed ring without a recognizable parent tag.
		return &Result{Geom: geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})}, nil
	case n >= 2:
		return &Result{Geom: geom.NewLineStringFlat(geom.XY, flat)}, nil
	}

	return nil, errors.New("could not determine geometry kind")
}

// findCoordinates returns the first descendant named coordinates
// (namespace-stripped, depth-first) and its parent element.
func findCoordinates(n, parent *kmlNode) (*kmlNode, *kmlNode) {
	if strings.ToLower(n.XMLName.Local) == "coordinates" {
		return n, parent
	}
	for i := range n.Children {
		if found, par := findCoordinates(&n.Children[i], n); found != nil {
			return found, par
		}
	}
	return nil, nil
}

// parseKMLCoordinates splits whitespace-separated lon,lat[,alt] tuples
// into flat x/y pairs, skipping tuples with fewer than two numeric
// fields. Altitude is discarded.
func parseKMLCoordinates(text string) []float64 {
	var flat []float64
	for _, tuple := range strings.Fields(text) {
		parts := strings.Split(tuple, ",")
		if len(parts) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(parts[0], 64)
		lat, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		flat = append(flat, lon, lat)
	}
	return flat
}
