// Package importer orchestrates a whole-table import: format
// detection from samples, kind inference, concurrent per-row decoding
// and materialization into a layer. Per-row decode failures never
// abort the batch; the configured policy decides whether the row is
// skipped or kept as an empty-geometry placeholder.
package importer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mastools/geocsv/internal/csvsource"
	"github.com/mastools/geocsv/internal/decode"
	"github.com/mastools/geocsv/internal/format"
	"github.com/mastools/geocsv/internal/geometry"
	"github.com/mastools/geocsv/internal/layer"
)

// Policy selects what happens to a row whose geometry fails to decode.
type Policy string

// Failure policies.
const (
	PolicySkip        Policy = "skip"        // drop the row
	PolicyPlaceholder Policy = "placeholder" // keep the row with a null geometry
)

// Options configure one import run.
type Options struct {
	LayerName  string
	Format     format.Format // Unknown means detect from samples
	GeomColumn int           // geometry column index; ignored in XY mode
	XColumn    int           // x column index, XY mode only
	YColumn    int           // y column index, XY mode only
	OnError    Policy
	Workers    int // decoding goroutines, NumCPU when zero
	SampleSize int // rows scanned for detection and kind inference
}

// Stats summarizes an import run.
type Stats struct {
	Total    int
	Imported int
	Failed   int
	Skipped  int
	Format   format.Format
	Kind     geometry.Kind
	SRID     int // first embedded SRID seen, 0 when none
}

type rowResult struct {
	res *decode.Result
	err error
}

// Run imports a table into a new layer.
func Run(table *csvsource.Table, opts Options) (*layer.Layer, *Stats, error) {
	if opts.SampleSize <= 0 {
		opts.SampleSize = 10
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.OnError == "" {
		opts.OnError = PolicySkip
	}

	f := opts.Format
	xyMode := f == format.XY

	if !xyMode {
		if opts.GeomColumn < 0 || opts.GeomColumn >= len(table.Header) {
			return nil, nil, fmt.Errorf("geometry column %d out of range", opts.GeomColumn)
		}
		samples := table.Samples(opts.GeomColumn, opts.SampleSize)
		if f == format.Unknown || f == "" {
			f = detectFromSamples(samples)
			if f == format.Unknown {
				return nil, nil, errors.New("could not detect geometry format from samples")
			}
			log.Info().Str("format", string(f)).Msg("Detected geometry format")
		}
		kind := decode.InferKind(samples, f)
		if kind == geometry.KindUnknown {
			return nil, nil, fmt.Errorf("no sample decodes as %s", f)
		}
		return runRows(table, opts, f, kind)
	}

	if opts.XColumn < 0 || opts.XColumn >= len(table.Header) ||
		opts.YColumn < 0 || opts.YColumn >= len(table.Header) {
		return nil, nil, errors.New("x/y columns out of range")
	}
	return runRows(table, opts, f, geometry.KindPoint)
}

// detectFromSamples returns the classification of the first sample
// that detects as something other than Unknown.
func detectFromSamples(samples []string) format.Format {
	for _, s := range samples {
		if f := format.Detect(s); f != format.Unknown {
			return f
		}
	}
	return format.Unknown
}

func runRows(table *csvsource.Table, opts Options, f format.Format, kind geometry.Kind) (*layer.Layer, *Stats, error) {
	xyMode := f == format.XY

	results := make([]rowResult, len(table.Rows))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				row := table.Rows[i]
				if xyMode {
					results[i].res, results[i].err = decode.DecodeXY(
						field(row, opts.XColumn), field(row, opts.YColumn))
				} else {
					results[i].res, results[i].err = decode.Decode(
						field(row, opts.GeomColumn), f)
				}
			}
		}()
	}
	for i := range table.Rows {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	fields, attrCols := attributeColumns(table.Header, opts, xyMode)
	out := layer.New(opts.LayerName, kind, fields)
	stats := &Stats{Total: len(table.Rows), Format: f, Kind: kind}

	for i, r := range results {
		attrs := pick(table.Rows[i], attrCols)

		if r.err != nil {
			stats.Failed++
			log.Warn().Int("row", i+1).Err(r.err).Msg("Row geometry not imported")
			if opts.OnError == PolicySkip {
				stats.Skipped++
				continue
			}
			out.Append(layer.Feature{Kind: geometry.KindUnknown, Attrs: attrs})
			continue
		}

		if stats.SRID == 0 && r.res.SRID != 0 {
			stats.SRID = r.res.SRID
		}
		out.Append(layer.Feature{
			Geom:  r.res.Geom,
			Kind:  r.res.Kind,
			SRID:  r.res.SRID,
			Attrs: attrs,
		})
		stats.Imported++
	}

	log.Info().
		Str("layer", opts.LayerName).
		Int("total", stats.Total).
		Int("imported", stats.Imported).
		Int("failed", stats.Failed).
		Msg("Import finished")

	return out, stats, nil
}

// attributeColumns returns the non-geometry field names and their
// source column indexes.
func attributeColumns(header []string, opts Options, xyMode bool) ([]string, []int) {
	skip := map[int]bool{}
	if xyMode {
		skip[opts.XColumn] = true
		skip[opts.YColumn] = true
	} else {
		skip[opts.GeomColumn] = true
	}

	var names []string
	var cols []int
	for i, h := range header {
		if skip[i] {
			continue
		}
		names = append(names, h)
		cols = append(cols, i)
	}
	return names, cols
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func pick(row []string, cols []int) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = field(row, c)
	}
	return out
}
