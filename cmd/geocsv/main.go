package main

import (
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"github.com/mastools/geocsv/internal/config"
	"github.com/mastools/geocsv/internal/csvsource"
	"github.com/mastools/geocsv/internal/format"
	"github.com/mastools/geocsv/internal/importer"
	"github.com/mastools/geocsv/internal/logger"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE" description:"Path to a YAML import profile; flags override its values"`

	Input  string `short:"i" long:"in" description:"Input delimited text file. Reads from stdin if empty"`
	Output string `short:"o" long:"out" description:"Output GeoJSON file. Writes to stdout if empty"`

	Delimiter string `short:"d" long:"delimiter" description:"Field delimiter: comma, semicolon, tab, pipe, space or a literal character"`
	Encoding  string `short:"e" long:"encoding" description:"Input text encoding (IANA charset name)"`
	NoHeader  bool   `long:"no-header" description:"Treat the first row as data, not field names"`

	Format     string `short:"f" long:"format" description:"Geometry format (WKT, WKB, EWKT, EWKB, GeoJSON, KML, EE, TopoJSON, XY); auto-detected if empty"`
	GeomColumn string `short:"g" long:"geometry-column" description:"Geometry column name or zero-based index"`
	XColumn    string `short:"x" long:"x-column" description:"X/longitude column for coordinate-pair mode"`
	YColumn    string `short:"y" long:"y-column" description:"Y/latitude column for coordinate-pair mode"`

	OnError   string `long:"on-error" choice:"skip" choice:"placeholder" description:"What to do with rows whose geometry fails to decode" default:"skip"`
	Workers   int    `short:"p" long:"concurrency" env:"CONCURRENCY" description:"Concurrent row decoders"`
	Minify    bool   `short:"m" long:"minify" description:"Minify the GeoJSON output"`
	LayerName string `short:"n" long:"name" description:"Output layer name" default:"imported"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	minify := opts.Minify
	if opts.ConfigFile != "" {
		profile, err := config.Load(opts.ConfigFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load import profile")
		}
		applyProfile(&opts, profile)
		minify = minify || profile.Minify
	}

	delim, err := csvsource.Delimiter(opts.Delimiter)
	if err != nil {
		log.Fatal().Err(err).Msg("Bad delimiter")
	}

	table, err := readTable(&opts, delim)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read input")
	}
	log.Info().
		Int("rows", len(table.Rows)).
		Int("columns", len(table.Header)).
		Msg("Input loaded")

	importOpts, err := buildImportOptions(&opts, table)
	if err != nil {
		log.Fatal().Err(err).Msg("Bad column mapping")
	}

	result, stats, err := importer.Run(table, importOpts)
	if err != nil {
		log.Fatal().Err(err).Msg("Import failed")
	}
	if stats.SRID != 0 {
		log.Info().Int("srid", stats.SRID).Msg("Source declared a spatial reference id")
	}

	out := io.Writer(os.Stdout)
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create output file")
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	if err := result.WriteGeoJSON(out, minify); err != nil {
		log.Fatal().Err(err).Msg("Failed to write GeoJSON")
	}
}

// applyProfile fills options left empty on the command line from the
// profile file.
func applyProfile(opts *Options, p *config.Profile) {
	if opts.Input == "" {
		opts.Input = p.Input
	}
	if opts.Output == "" {
		opts.Output = p.Output
	}
	if opts.Delimiter == "" {
		opts.Delimiter = p.Delimiter
	}
	if opts.Encoding == "" {
		opts.Encoding = p.Encoding
	}
	if p.NoHeader {
		opts.NoHeader = true
	}
	if opts.Format == "" {
		opts.Format = p.Format
	}
	if opts.GeomColumn == "" {
		opts.GeomColumn = p.GeometryColumn
	}
	if opts.XColumn == "" {
		opts.XColumn = p.XColumn
	}
	if opts.YColumn == "" {
		opts.YColumn = p.YColumn
	}
	if p.OnError != "" {
		opts.OnError = p.OnError
	}
	if opts.Workers == 0 {
		opts.Workers = p.Workers
	}
	if opts.LayerName == "imported" && p.LayerName != "" {
		opts.LayerName = p.LayerName
	}
}

func readTable(opts *Options, delim rune) (*csvsource.Table, error) {
	readOpts := csvsource.Options{
		Delimiter: delim,
		Encoding:  opts.Encoding,
		HasHeader: !opts.NoHeader,
	}
	if opts.Input != "" {
		return csvsource.Open(opts.Input, readOpts)
	}
	return csvsource.Read(os.Stdin, readOpts)
}

func buildImportOptions(opts *Options, table *csvsource.Table) (importer.Options, error) {
	importOpts := importer.Options{
		LayerName:  opts.LayerName,
		Format:     format.Parse(opts.Format),
		GeomColumn: -1,
		XColumn:    -1,
		YColumn:    -1,
		OnError:    importer.Policy(opts.OnError),
		Workers:    opts.Workers,
	}

	// Explicit x/y columns switch to coordinate-pair mode.
	if opts.XColumn != "" || opts.YColumn != "" {
		importOpts.Format = format.XY
	}

	var err error
	if importOpts.Format == format.XY {
		if importOpts.XColumn, err = table.ResolveColumn(opts.XColumn); err != nil {
			return importOpts, err
		}
		importOpts.YColumn, err = table.ResolveColumn(opts.YColumn)
		return importOpts, err
	}

	name := opts.GeomColumn
	if name == "" {
		name = guessGeometryColumn(table)
	}
	importOpts.GeomColumn, err = table.ResolveColumn(name)
	return importOpts, err
}

// guessGeometryColumn looks for a conventionally named geometry column.
func guessGeometryColumn(table *csvsource.Table) string {
	for _, name := range []string{"geometry", "geom", "wkt", "wkb", "geojson", "shape"} {
		if table.ColumnIndex(name) >= 0 {
			log.Info().Str("column", name).Msg("Using geometry column")
			return name
		}
	}
	return ""
}
