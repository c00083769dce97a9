// Package format classifies raw geometry strings into one of the
// supported encoding formats.
package format

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Format identifies a geometry string encoding.
type Format string

// Supported geometry formats.
const (
	WKT         Format = "WKT"
	WKB         Format = "WKB"
	EWKT        Format = "EWKT"
	EWKB        Format = "EWKB"
	GeoJSON     Format = "GeoJSON"
	KML         Format = "KML"
	EarthEngine Format = "Earth Engine"
	TopoJSON    Format = "TopoJSON"
	XY          Format = "X-Y Coordinates"
	Unknown     Format = "Unknown"
)

// All returns every importable format, in presentation order.
func All() []Format {
	return []Format{WKT, WKB, EWKT, EWKB, GeoJSON, KML, EarthEngine, TopoJSON, XY}
}

// Parse resolves a user-supplied format name (config file or flag value)
// to a Format. Matching is case-insensitive and accepts a few common
// spellings; unrecognized names map to Unknown.
func Parse(name string) Format {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "wkt":
		return WKT
	case "wkb":
		return WKB
	case "ewkt":
		return EWKT
	case "ewkb":
		return EWKB
	case "geojson", "json":
		return GeoJSON
	case "kml":
		return KML
	case "earth engine", "earthengine", "ee":
		return EarthEngine
	case "topojson":
		return TopoJSON
	case "xy", "x-y", "x-y coordinates":
		return XY
	case "auto", "":
		return Unknown
	}
	return Unknown
}

// wktKeywords is the closed set of WKT geometry type keywords. A sample
// only counts as WKT when one of these is followed by end-of-string,
// a space, "(", "Z" or "M" (so "POINTER(...)" is not WKT).
var wktKeywords = []string{
	"POINT", "LINESTRING", "POLYGON", "MULTIPOINT",
	"MULTILINESTRING", "MULTIPOLYGON", "GEOMETRYCOLLECTION",
	"CIRCULARSTRING", "COMPOUNDCURVE", "CURVEPOLYGON",
	"MULTICURVE", "MULTISURFACE", "TRIANGLE", "TIN",
	"POLYHEDRALSURFACE",
}

// kmlElements are the element names whose presence marks a KML fragment.
var kmlElements = []string{
	"<point", "<linestring", "<polygon", "<multigeometry",
	"<linearring", "<coordinates",
}

// ewkbSRIDFlag is the bit set in the WKB geometry type word when an
// SRID follows it (PostGIS extended WKB).
const ewkbSRIDFlag = 0x20000000

// Detect classifies a sample geometry string. It never fails:
// unrecognized or empty input yields Unknown. Detection order matters,
// textual prefixes are the strongest signals and the loose hex test
// runs last so it cannot shadow them.
func Detect(sample string) Format {
	sample = strings.TrimSpace(sample)
	if sample == "" {
		return Unknown
	}

	upper := strings.ToUpper(sample)
	if strings.HasPrefix(upper, "SRID=") {
		return EWKT
	}

	for _, kw := range wktKeywords {
		if !strings.HasPrefix(upper, kw) {
			continue
		}
		rest := upper[len(kw):]
		if rest == "" || rest[0] == ' ' || rest[0] == '(' || rest[0] == 'Z' || rest[0] == 'M' {
			return WKT
		}
	}

	if strings.HasPrefix(sample, "{") {
		var doc map[string]json.RawMessage
		if err := json.Unmarshal([]byte(sample), &doc); err == nil {
			_, hasType := doc["type"]
			_, hasCoords := doc["coordinates"]
			_, hasGeoms := doc["geometries"]
			if hasType && (hasCoords || hasGeoms) {
				return GeoJSON
			}
			_, hasArcs := doc["arcs"]
			_, hasObjects := doc["objects"]
			if hasArcs || hasObjects {
				return TopoJSON
			}
		}
		// Not a recognizable JSON geometry, keep probing.
	}

	lower := strings.ToLower(sample)
	if strings.HasPrefix(sample, "<") || strings.Contains(lower, "<coordinates") {
		for _, elem := range kmlElements {
			if strings.Contains(lower, elem) {
				return KML
			}
		}
	}

	if strings.HasPrefix(sample, "ee.Geometry") {
		return EarthEngine
	}

	if isHex(sample) {
		return detectWKB(sample)
	}

	return Unknown
}

// detectWKB distinguishes plain WKB from extended WKB by reading the
// byte-order marker and testing the SRID flag bit in the geometry type
// word. Strings too short to carry a type word classify as WKB.
func detectWKB(sample string) Format {
	if len(sample) < 10 {
		return WKB
	}

	typeWord, err := strconv.ParseUint(sample[2:10], 16, 32)
	if err != nil {
		return WKB
	}
	if strings.ToLower(sample[0:2]) == "01" {
		// Little-endian, swap the type word bytes.
		typeWord = (typeWord&0xff)<<24 | (typeWord&0xff00)<<8 |
			(typeWord&0xff0000)>>8 | (typeWord&0xff000000)>>24
	}
	if typeWord&ewkbSRIDFlag != 0 {
		return EWKB
	}

	return WKB
}

// isHex reports whether s is a plausible hex-encoded byte string:
// even length, at least one byte, hex digits only.
func isHex(s string) bool {
	if len(s) < 2 || len(s)%2 != 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
