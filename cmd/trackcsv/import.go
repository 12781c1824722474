package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/trackcsv/internal/bundle"
	"github.com/banshee-data/trackcsv/internal/config"
	"github.com/banshee-data/trackcsv/internal/csvimport"
	"github.com/banshee-data/trackcsv/internal/db"
	"github.com/banshee-data/trackcsv/internal/fsutil"
	"github.com/banshee-data/trackcsv/internal/model"
	"github.com/banshee-data/trackcsv/internal/monitoring"
	"github.com/banshee-data/trackcsv/internal/render"
)

// columnFlags are the per-role column selectors, keyed by flag name.
var columnFlags = []struct {
	flag string
	role csvimport.Role
}{
	{"x", csvimport.RoleX},
	{"y", csvimport.RoleY},
	{"z", csvimport.RoleZ},
	{"frame", csvimport.RoleFrame},
	{"track", csvimport.RoleTrack},
	{"id", csvimport.RoleID},
	{"quality", csvimport.RoleQuality},
	{"name", csvimport.RoleName},
	{"radiusCol", csvimport.RoleRadius},
}

type importFlags struct {
	fs *flag.FlagSet

	configPath    string
	columns       map[string]*string
	radius        float64
	frameBase     int
	frameInterval float64
	spaceUnit     string
	timeUnit      string
	originX       float64
	originY       float64
	originZ       float64
	noTracks      bool
	skipFirstLine bool
	imageName     string
	logLevel      string
	quiet         bool
	progress      bool
}

func newImportFlags(name string, format csvimport.Format, stderr io.Writer) *importFlags {
	f := &importFlags{fs: flag.NewFlagSet(name, flag.ContinueOnError), columns: map[string]*string{}}
	fs := f.fs
	fs.SetOutput(stderr)
	fs.StringVar(&f.configPath, "config", "", "JSON import configuration file")
	if format == csvimport.FormatPoints {
		for _, c := range columnFlags {
			f.columns[c.flag] = fs.String(c.flag, "", fmt.Sprintf("Column for %s: header name or 0-based index", c.role))
		}
		fs.Float64Var(&f.radius, "radius", 0, "Spot radius when no radius column is mapped")
		fs.IntVar(&f.frameBase, "frame-base", 0, "Index of the first frame in the file (0 or 1)")
		fs.Float64Var(&f.originX, "origin-x", 0, "Added to every x value")
		fs.Float64Var(&f.originY, "origin-y", 0, "Added to every y value")
		fs.Float64Var(&f.originZ, "origin-z", 0, "Added to every z value")
		fs.BoolVar(&f.noTracks, "no-tracks", false, "Do not build tracks even if a track column is mapped")
	} else {
		fs.BoolVar(&f.skipFirstLine, "skip-first-line", false, "Treat the first record as a header")
	}
	fs.Float64Var(&f.frameInterval, "frame-interval", 0, "Time between frames")
	fs.StringVar(&f.spaceUnit, "space-unit", "", "Space unit of the coordinates")
	fs.StringVar(&f.timeUnit, "time-unit", "", "Time unit of the frame interval")
	fs.StringVar(&f.imageName, "image", "", "Name of the image the tracks belong to")
	fs.StringVar(&f.logLevel, "log", "ops", "Log streams to stderr: none, ops, diag or trace")
	fs.BoolVar(&f.quiet, "q", false, "Do not print the import log")
	fs.BoolVar(&f.progress, "progress", false, "Print progress percentages to stderr")
	return f
}

// importConfig merges the config file with the flags that were given on the
// command line.
func (f *importFlags) importConfig(format csvimport.Format) (*config.ImportConfig, error) {
	cfg := &config.ImportConfig{}
	if f.configPath != "" {
		var err error
		if cfg, err = config.LoadImportConfig(f.configPath); err != nil {
			return nil, err
		}
	}
	cfg.Format = string(format)

	set := map[string]bool{}
	f.fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	explicit := false
	for _, c := range columnFlags {
		if !set[c.flag] {
			continue
		}
		if cfg.Columns == nil {
			cfg.Columns = map[string]string{}
		}
		cfg.Columns[c.role.String()] = *f.columns[c.flag]
		explicit = true
	}
	if explicit && !set["radius"] && !set["radiusCol"] {
		return nil, usagef("-radius or -radiusCol is required when columns are given")
	}

	if set["radius"] {
		cfg.Radius = &f.radius
	}
	if set["frame-base"] {
		cfg.FrameIndexBase = &f.frameBase
	}
	if set["frame-interval"] {
		cfg.FrameInterval = &f.frameInterval
	}
	if set["space-unit"] {
		cfg.SpaceUnit = &f.spaceUnit
	}
	if set["time-unit"] {
		cfg.TimeUnit = &f.timeUnit
	}
	if set["origin-x"] {
		cfg.OriginX = &f.originX
	}
	if set["origin-y"] {
		cfg.OriginY = &f.originY
	}
	if set["origin-z"] {
		cfg.OriginZ = &f.originZ
	}
	if set["no-tracks"] {
		tracks := !f.noTracks
		cfg.ImportTracks = &tracks
	}
	if set["skip-first-line"] {
		cfg.SkipFirstLine = &f.skipFirstLine
	}
	if set["image"] {
		cfg.ImageName = &f.imageName
	}

	if err := cfg.Validate(); err != nil {
		return nil, usagef("%v", err)
	}
	return cfg, nil
}

func setLogLevel(level string, stderr io.Writer) error {
	var w csvimport.LogWriters
	switch strings.ToLower(level) {
	case "none":
	case "ops":
		w.Ops = stderr
	case "diag":
		w.Ops, w.Diag = stderr, stderr
	case "trace":
		w.Ops, w.Diag, w.Trace = stderr, stderr, stderr
	default:
		return usagef("unknown log level %q", level)
	}
	csvimport.SetLogWriters(w)
	return nil
}

func handleImport(args []string, format csvimport.Format, stdout, stderr io.Writer) error {
	f := newImportFlags(string(format), format, stderr)
	if err := parseFlags(f.fs, args); err != nil {
		return err
	}
	if f.fs.NArg() != 2 {
		return usagef("expected <input.csv> <output>, got %d arguments", f.fs.NArg())
	}
	input, output := f.fs.Arg(0), f.fs.Arg(1)
	if err := setLogLevel(f.logLevel, stderr); err != nil {
		return err
	}

	cfg, err := f.importConfig(format)
	if err != nil {
		return err
	}
	for _, w := range cfg.Warnings() {
		fmt.Fprintf(stderr, "WARNING: %s\n", w)
	}
	writer, err := writerFor(output)
	if err != nil {
		return err
	}
	opts, err := cfg.ToOptions(input)
	if err != nil {
		return err
	}
	var sinks []monitoring.Sink
	if !f.quiet {
		sinks = append(sinks, monitoring.LogfSink{})
	}
	if f.progress {
		sinks = append(sinks, &monitoring.ProgressWriter{W: stderr})
	}
	opts.Sink = monitoring.Tee(sinks...)

	res, err := csvimport.New(opts).ExportTo(output, writer)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: %d spots, %d tracks, %d edges -> %s (run %s)\n",
		input, res.Graph.Spots.NSpots(false), len(res.Graph.Tracks), len(res.Graph.Edges), output, res.Settings.RunID)
	return nil
}

func isDatabase(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

func writerFor(path string) (csvimport.ProjectWriter, error) {
	switch {
	case isDatabase(path):
		return db.Writer{}, nil
	case strings.EqualFold(filepath.Ext(path), bundle.Ext):
		return bundle.Writer{}, nil
	case render.Supported(path):
		return render.Writer{}, nil
	}
	return nil, usagef("cannot write %s: unknown output extension", path)
}

func readProject(path, runID string) (*model.Project, error) {
	switch {
	case isDatabase(path):
		return db.ReadProject(path, runID)
	case strings.EqualFold(filepath.Ext(path), bundle.Ext):
		if runID != "" {
			return nil, usagef("-run applies to project databases only")
		}
		return bundle.ReadFile(fsutil.OSFileSystem{}, path)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return nil, usagef("cannot read %s: unknown project extension", path)
}
