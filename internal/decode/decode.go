// Package decode turns raw geometry strings into canonical geometry
// values. One sub-decoder per supported format, selected through a
// dispatch table keyed on the detected format tag. Decoders are pure
// and stateless; malformed input is reported as a *DecodeError, never
// as a panic across the package boundary.
package decode

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"

	"github.com/mastools/geocsv/internal/format"
	"github.com/mastools/geocsv/internal/geometry"
)

// Result is the outcome of a successful decode: the canonical 2D
// geometry, its kind tag and the spatial reference id when the source
// notation embedded one (EWKT/EWKB), zero otherwise.
type Result struct {
	Geom geom.T
	Kind geometry.Kind
	SRID int
}

// DecodeError reports a failed decode along with the format that was
// attempted. The cause string is a diagnostic for logging, not for
// control flow.
type DecodeError struct {
	Format format.Format
	Cause  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s decode failed: %v", e.Format, e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

func failed(f format.Format, cause error) error {
	var de *DecodeError
	if errors.As(cause, &de) {
		return cause
	}
	return &DecodeError{Format: f, Cause: cause}
}

func failedf(f format.Format, msg string, args ...any) error {
	return &DecodeError{Format: f, Cause: fmt.Errorf(msg, args...)}
}

var decoders = map[format.Format]func(string) (*Result, error){
	format.WKT:         decodeWKT,
	format.EWKT:        decodeEWKT,
	format.WKB:         decodeWKB,
	format.EWKB:        decodeEWKB,
	format.GeoJSON:     decodeGeoJSON,
	format.KML:         decodeKML,
	format.EarthEngine: decodeEarthEngine,
	format.TopoJSON:    decodeTopoJSON,
}

// Decode parses a geometry value string according to the given format.
// The value is trimmed first; empty input and any structural failure
// yield a *DecodeError. Coordinate-pair input has no value string and
// goes through DecodeXY instead.
func Decode(value string, f format.Format) (res *Result, err error) {
	if f == format.XY {
		return nil, failedf(f, "coordinate pair mode carries no value string, use DecodeXY")
	}

	dec, ok := decoders[f]
	if !ok {
		return nil, failedf(f, "unsupported format")
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return nil, failedf(f, "empty value")
	}

	// Sub-decoders operate on arbitrary untrusted input; normalize any
	// escaped panic into a regular decode failure.
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, failedf(f, "panic: %v", r)
		}
	}()

	res, err = dec(value)
	if err != nil {
		return nil, failed(f, err)
	}
	if res.Geom == nil || geometry.IsEmpty(res.Geom) {
		return nil, failedf(f, "decoded geometry is empty")
	}
	res.Kind = geometry.KindOf(res.Geom)
	return res, nil
}

// DecodeXY builds a Point from the raw x and y column strings. Both
// must be present and parse as finite numbers; no range validation is
// applied so planar (non-geographic) coordinates pass through.
func DecodeXY(xField, yField string) (*Result, error) {
	x, err := parseOrdinate("x", xField)
	if err != nil {
		return nil, failed(format.XY, err)
	}
	y, err := parseOrdinate("y", yField)
	if err != nil {
		return nil, failed(format.XY, err)
	}
	return &Result{Geom: geometry.NewPoint(x, y), Kind: geometry.KindPoint}, nil
}

func parseOrdinate(name, field string) (float64, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return 0, fmt.Errorf("missing %s value", name)
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", name, field)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite %s value %q", name, field)
	}
	return v, nil
}

// InferKind returns the kind of the first sample that decodes
// successfully under the given format, or Unknown when none does.
// Callers use it to pre-declare a uniform output kind for a dataset.
func InferKind(samples []string, f format.Format) geometry.Kind {
	if f == format.XY {
		return geometry.KindPoint
	}
	for _, sample := range samples {
		if strings.TrimSpace(sample) == "" {
			continue
		}
		if res, err := Decode(sample, f); err == nil {
			return res.Kind
		}
	}
	return geometry.KindUnknown
}
