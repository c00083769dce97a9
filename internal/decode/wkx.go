package decode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom/encoding/ewkbhex"
	"github.com/twpayne/go-geom/encoding/wkt"

	"github.com/mastools/geocsv/internal/geometry"
)

const sridPrefix = "SRID="

// decodeWKT delegates well-known text parsing to the go-geom reader;
// the grammar includes recursive collection and curve types, so no
// manual tokenizing here.
func decodeWKT(value string) (*Result, error) {
	g, err := wkt.Unmarshal(value)
	if err != nil {
		return nil, err
	}
	if g == nil || geometry.IsEmpty(g) {
		return nil, errors.New("null or empty geometry")
	}
	return &Result{Geom: geometry.Force2D(g)}, nil
}

// decodeEWKT splits the SRID=<digits>; prefix off an extended WKT
// string, decodes the remainder as plain WKT and reports the SRID
// out-of-band.
func decodeEWKT(value string) (*Result, error) {
	if len(value) < len(sridPrefix) || !strings.EqualFold(value[:len(sridPrefix)], sridPrefix) {
		return nil, errors.New("missing SRID= prefix")
	}
	semi := strings.Index(value, ";")
	if semi < 0 {
		return nil, errors.New("missing ; after SRID declaration")
	}
	srid, err := strconv.Atoi(value[len(sridPrefix):semi])
	if err != nil {
		return nil, fmt.Errorf("invalid SRID %q", value[len(sridPrefix):semi])
	}

	res, err := decodeWKT(strings.TrimSpace(value[semi+1:]))
	if err != nil {
		return nil, err
	}
	res.SRID = srid
	return res, nil
}

// decodeWKB parses a hex-encoded well-known binary string. The
// extended-WKB reader is used for both plain and extended input, it
// recognizes the SRID flag bit itself and accepts unflagged WKB as-is.
func decodeWKB(value string) (*Result, error) {
	g, err := ewkbhex.Decode(value)
	if err != nil {
		return nil, err
	}
	if g == nil || geometry.IsEmpty(g) {
		return nil, errors.New("null or empty geometry")
	}
	return &Result{Geom: geometry.Force2D(g), SRID: g.SRID()}, nil
}

// decodeEWKB shares the byte-level handling of decodeWKB; the embedded
// SRID ends up in the result and the geometry value itself is rebuilt
// without reference-system state.
func decodeEWKB(value string) (*Result, error) {
	return decodeWKB(value)
}
