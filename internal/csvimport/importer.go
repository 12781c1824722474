package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/trackcsv/internal/fsutil"
	"github.com/banshee-data/trackcsv/internal/model"
	"github.com/banshee-data/trackcsv/internal/monitoring"
	"github.com/banshee-data/trackcsv/internal/timeutil"
	"github.com/banshee-data/trackcsv/internal/version"
)

// Format selects the file flavour and row decoder.
type Format string

const (
	FormatPoints Format = "points"
	FormatROI    Format = "roi"
)

// ParseFormat accepts "points" or "roi"; "" means points.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatPoints:
		return FormatPoints, nil
	case FormatROI:
		return FormatROI, nil
	}
	return "", fmt.Errorf("unknown format %q (want %q or %q)", s, FormatPoints, FormatROI)
}

// DefaultRadius is used when neither a radius nor a radius column is set.
const DefaultRadius = 1.0

// Options configures one import run.
type Options struct {
	Path   string
	Format Format

	// Mapping is used as given; nil means guess from the header.
	Mapping *ColumnMapping

	Radius         float64
	Calibration    model.Calibration
	Origin         model.Origin
	FrameIndexBase int
	ImportTracks   bool
	// SkipFirstLine treats the first polygon record as a header.
	SkipFirstLine bool
	ImageName     string

	Sink  monitoring.Sink
	FS    fsutil.FileSystem
	Clock timeutil.Clock
}

// DefaultOptions returns options for a point import of path with tracks
// enabled and the default radius and calibration.
func DefaultOptions(path string) Options {
	return Options{
		Path:         path,
		Format:       FormatPoints,
		Radius:       DefaultRadius,
		Calibration:  model.DefaultCalibration(),
		ImportTracks: true,
	}
}

func (o Options) withDefaults() Options {
	if o.Format == "" {
		o.Format = FormatPoints
	}
	if o.Radius <= 0 {
		o.Radius = DefaultRadius
	}
	def := model.DefaultCalibration()
	if o.Calibration.FrameInterval <= 0 {
		o.Calibration.FrameInterval = def.FrameInterval
	}
	if o.Calibration.SpaceUnit == "" {
		o.Calibration.SpaceUnit = def.SpaceUnit
	}
	if o.Calibration.TimeUnit == "" {
		o.Calibration.TimeUnit = def.TimeUnit
	}
	if o.Sink == nil {
		o.Sink = monitoring.Nop{}
	}
	if o.FS == nil {
		o.FS = fsutil.OSFileSystem{}
	}
	if o.Clock == nil {
		o.Clock = timeutil.RealClock{}
	}
	return o
}

// ProjectWriter persists or displays a finished project.
type ProjectWriter interface {
	WriteProject(path string, p *model.Project) error
}

// Result is a successful import.
type Result struct {
	Graph    *model.Graph
	Settings *model.Settings
	Metadata Metadata
	Log      string
	Records  int
	Skipped  []*RowError
	// Mapping is nil for polygon imports.
	Mapping *ColumnMapping
}

// Project bundles the result for a ProjectWriter.
func (r *Result) Project() *model.Project {
	return &model.Project{
		Graph:    r.Graph,
		Settings: r.Settings,
		Metadata: r.Metadata,
		Log:      r.Log,
	}
}

// Importer runs imports and exports for one set of options. It is not safe
// for concurrent use; use one Importer per goroutine.
type Importer struct {
	opts   Options
	errMsg string
}

// New returns an Importer for opts.
func New(opts Options) *Importer {
	return &Importer{opts: opts.withDefaults()}
}

// ErrorMessage returns the message of the last fatal error, or "" if the
// last call succeeded.
func (im *Importer) ErrorMessage() string { return im.errMsg }

// Import reads the source file into a trajectory graph.
func (im *Importer) Import() (*Result, error) {
	im.errMsg = ""
	res, err := im.run(fmt.Sprintf("Imported from CSV file %s", im.opts.Path))
	if err != nil {
		return nil, im.fail(err)
	}
	return res, nil
}

// ExportTo imports the source file and hands the project to w for target.
func (im *Importer) ExportTo(target string, w ProjectWriter) (*Result, error) {
	im.errMsg = ""
	res, err := im.run(fmt.Sprintf("Exported from CSV file %s to %s", im.opts.Path, target))
	if err != nil {
		return nil, im.fail(err)
	}
	if err := w.WriteProject(target, res.Project()); err != nil {
		return nil, im.fail(fmt.Errorf("write project %s: %w", target, err))
	}
	Opsf("exported %s to %s", im.opts.Path, target)
	return res, nil
}

func (im *Importer) fail(err error) error {
	im.errMsg = err.Error()
	Opsf("%s: %v", im.opts.Path, err)
	return err
}

func (im *Importer) run(title string) (*Result, error) {
	o := im.opts
	lg := newRunLog(o.Sink)
	now := o.Clock.Now()
	lg.logf("%s", title)
	lg.logf("On the %s", timeutil.DateStamp(now))
	lg.logf("With trackcsv version %s", version.Version)

	md, err := ParseMetadataFile(o.FS, o.Path)
	if err != nil {
		return nil, err
	}
	if len(md) > 0 {
		lg.logf("Metadata:")
		lg.block(md.String())
	}

	var (
		dec     RowDecoder
		mapping *ColumnMapping
	)
	switch o.Format {
	case FormatPoints:
		h, err := im.readHeader()
		if err != nil {
			return nil, err
		}
		m := o.Mapping
		if m == nil {
			m = guessForImport(h.Names(), lg)
		}
		cols, err := m.Resolve(h, lg.warn)
		if err != nil {
			return nil, err
		}
		mapping = m
		dec = NewPointDecoder(cols, PointParams{
			Radius:         o.Radius,
			Origin:         o.Origin,
			FrameIndexBase: o.FrameIndexBase,
			FrameInterval:  o.Calibration.FrameInterval,
			ImportTracks:   o.ImportTracks,
		})
	case FormatROI:
		dec = NewPolygonDecoder(o.SkipFirstLine, o.Calibration.FrameInterval)
	default:
		return nil, fmt.Errorf("unknown format %q", o.Format)
	}

	nLines, err := countFileLines(o.FS, o.Path)
	if err != nil {
		return nil, err
	}

	lg.logf("Parsing records.")
	asm := NewAssembler()
	records, skipped, err := scanRows(o.FS, o.Path, dec, asm, nLines, lg)
	if err != nil {
		return nil, err
	}
	lg.logf("Parsing done. Iterated over %d records.", records)
	if len(skipped) > 0 {
		lg.logf("Skipped %d malformed rows.", len(skipped))
	}
	Diagf("%s: %d records, %d skipped", o.Path, records, len(skipped))

	spots := asm.Spots()
	graph := model.NewGraph(spots, o.Calibration.SpaceUnit, o.Calibration.TimeUnit)

	tracksImported := false
	if pd, ok := dec.(*PointDecoder); ok && pd.HasTracks() {
		tracksImported = true
		lg.logf("Importing tracks.")
		tr := AssembleTracks(asm.TrackGroups())
		for _, c := range tr.Conflicts {
			lg.warnf("Track %d has more than one spot in frame %d; keeping file order.", c.TrackID, c.Frame)
		}
		for _, e := range tr.Edges {
			if err := graph.AddEdge(e); err != nil {
				return nil, err
			}
		}
		for _, t := range tr.Tracks {
			graph.AddTrack(t)
		}
		lg.logf(" Done.")
		lg.logf("Found %d tracks.", len(graph.Tracks))
	}

	lg.logf("Found %d spots.", spots.NSpots(false))
	counts := make([]float64, 0)
	for _, f := range spots.Frames() {
		n := spots.NSpotsInFrame(f, false)
		counts = append(counts, float64(n))
		lg.logf("- frame %4d, n spots = %d", f, n)
	}
	logSummary(lg, counts, graph.EdgeWeights())

	cal := o.Calibration
	settings := &model.Settings{
		RunID:           uuid.NewString(),
		SourcePath:      o.Path,
		ImageName:       o.ImageName,
		Format:          string(o.Format),
		Calibration:     cal,
		Origin:          o.Origin,
		Radius:          o.Radius,
		FrameIndexBase:  o.FrameIndexBase,
		TracksImported:  tracksImported,
		InitialView:     model.InitialViewSpotFilter,
		ImporterVersion: version.Version,
		CreatedAt:       now,
	}
	if mapping != nil {
		settings.Columns = mapping.Describe()
	}
	if len(graph.Tracks) > 0 {
		settings.InitialView = model.InitialViewConfigureViews
	}

	return &Result{
		Graph:    graph,
		Settings: settings,
		Metadata: md,
		Log:      lg.String(),
		Records:  records,
		Skipped:  skipped,
		Mapping:  mapping,
	}, nil
}

func (im *Importer) readHeader() (*Header, error) {
	f, err := openScan(im.opts.FS, im.opts.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	h, err := ReadHeader(f, PointDialect)
	if err != nil {
		if errors.Is(err, ErrMissingHeader) {
			return nil, fmt.Errorf("%s: %w", im.opts.Path, err)
		}
		return nil, fileError(im.opts.Path, err)
	}
	return h, nil
}

// scanRows streams every data record through dec into asm. Row-local
// failures are logged and collected; read failures other than malformed
// CSV abort the scan.
func scanRows(fsys fsutil.FileSystem, path string, dec RowDecoder, asm *Assembler, nLines int, lg *runLog) (int, []*RowError, error) {
	f, err := openScan(fsys, path)
	if err != nil {
		return 0, nil, err
	}
	defer f.Close()

	d := dec.Dialect()
	cr := d.newReader(f)
	if d.Header {
		if _, err := cr.Read(); err != nil && !errors.Is(err, io.EOF) {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return 0, nil, fileError(path, err)
			}
		}
	}

	every := nLines / 100
	if every < 1 {
		every = 1
	}
	var (
		records int
		skipped []*RowError
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		records++
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return records, skipped, fileError(path, err)
			}
			re := &RowError{Line: pe.StartLine, Err: pe.Err}
			skipped = append(skipped, re)
			lg.warnf("Could not parse line %d: %v. Skipping.", re.Line, re.Err)
			continue
		}
		line, _ := cr.FieldPos(0)
		dd, err := dec.Decode(rec)
		if err != nil {
			re := &RowError{Line: line, Err: err}
			skipped = append(skipped, re)
			lg.warnf("Could not parse line %d: %v. Skipping.", line, err)
			Diagf("%s: skipped line %d: %v", path, line, err)
			continue
		}
		Tracef("line %d: frame %d at (%g, %g, %g)", line, dd.Spot.Frame,
			dd.Spot.Position.X, dd.Spot.Position.Y, dd.Spot.Position.Z)
		asm.Add(dd)
		if records%every == 0 && nLines > 0 {
			lg.progress(float64(records) / float64(nLines))
		}
	}
	lg.progress(1)
	lg.progress(0)
	return records, skipped, nil
}

func logSummary(lg *runLog, counts, weights []float64) {
	if len(counts) > 0 {
		lg.logf("Spots per frame: mean %.2f over %d frames.", stat.Mean(counts, nil), len(counts))
	}
	switch {
	case len(weights) > 1:
		mean, std := stat.MeanStdDev(weights, nil)
		lg.logf("Edge squared distance: mean %.4g, std %.4g.", mean, std)
	case len(weights) == 1:
		lg.logf("Edge squared distance: mean %.4g.", weights[0])
	}
}

// guessForImport guesses a mapping for an unattended import. A Z column is
// only used when a header name matched it; other roles left without a match
// keep their fallback column with a warning.
func guessForImport(names []string, lg *runLog) *ColumnMapping {
	g, fallback := guessMapping(names)
	for _, r := range fallback {
		if r == RoleZ {
			g.Set(RoleZ, Unused())
			lg.logf("No Z column found, importing 2D positions.")
			continue
		}
		lg.warnf("No column name matches %s, using column %s.", r, g.Get(r))
	}
	lg.logf("Guessed column mapping: %s", &g)
	return &g
}
