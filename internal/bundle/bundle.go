// Package bundle reads and writes projects as zstd-compressed JSON files.
package bundle

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/banshee-data/trackcsv/internal/fsutil"
	"github.com/banshee-data/trackcsv/internal/model"
)

// Ext is the file extension of a project bundle.
const Ext = ".tmz"

const (
	formatName    = "trackcsv-project"
	formatVersion = 1
)

// ErrUnsupportedFormat is returned for data that is not a version we read.
var ErrUnsupportedFormat = errors.New("unsupported bundle format")

type file struct {
	Format    string            `json:"format"`
	Version   int               `json:"version"`
	Settings  *model.Settings   `json:"settings"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Log       string            `json:"log"`
	SpaceUnit string            `json:"space_unit"`
	TimeUnit  string            `json:"time_unit"`
	Spots     []spot            `json:"spots"`
	Tracks    []track           `json:"tracks,omitempty"`
	Edges     []edge            `json:"edges,omitempty"`
}

type spot struct {
	ID       int            `json:"id"`
	Forced   bool           `json:"forced,omitempty"`
	Frame    int            `json:"frame"`
	T        float64        `json:"t"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Z        float64        `json:"z"`
	Radius   float64        `json:"radius"`
	Quality  float64        `json:"quality"`
	Name     string         `json:"name,omitempty"`
	Visible  bool           `json:"visible"`
	Vertices []model.Vertex `json:"vertices,omitempty"`
}

// Tracks and edges refer to spots by their index in file.Spots, since
// forced IDs need not be unique.
type track struct {
	ID    int   `json:"id"`
	Spots []int `json:"spots"`
}

type edge struct {
	Source  int     `json:"source"`
	Target  int     `json:"target"`
	Weight  float64 `json:"weight"`
	TrackID int     `json:"track_id"`
}

// Write encodes p to w.
func Write(w io.Writer, p *model.Project) error {
	if p == nil || p.Graph == nil || p.Settings == nil {
		return errors.New("write bundle: graph and settings are required")
	}
	f, err := flatten(p)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("failed to create compressor: %w", err)
	}
	if err := json.NewEncoder(enc).Encode(f); err != nil {
		enc.Close()
		return fmt.Errorf("encode bundle: %w", err)
	}
	return enc.Close()
}

func flatten(p *model.Project) (*file, error) {
	g := p.Graph
	all := g.Spots.All()
	f := &file{
		Format:    formatName,
		Version:   formatVersion,
		Settings:  p.Settings,
		Metadata:  p.Metadata,
		Log:       p.Log,
		SpaceUnit: g.SpaceUnit,
		TimeUnit:  g.TimeUnit,
		Spots:     make([]spot, len(all)),
	}
	index := make(map[*model.Spot]int, len(all))
	for i, s := range all {
		index[s] = i
		d := spot{
			ID:      s.ID,
			Forced:  s.Identity.IsForced(),
			Frame:   s.Frame,
			T:       s.Time,
			X:       s.Position.X,
			Y:       s.Position.Y,
			Z:       s.Position.Z,
			Radius:  s.Radius,
			Quality: s.Quality,
			Name:    s.Name,
			Visible: s.Visible,
		}
		if s.Polygon != nil {
			d.Vertices = s.Polygon.Vertices
		}
		f.Spots[i] = d
	}
	for _, t := range g.Tracks {
		dt := track{ID: t.ID, Spots: make([]int, len(t.Spots))}
		for i, s := range t.Spots {
			idx, ok := index[s]
			if !ok {
				return nil, fmt.Errorf("track %d: %w", t.ID, model.ErrUnknownSpot)
			}
			dt.Spots[i] = idx
		}
		f.Tracks = append(f.Tracks, dt)
	}
	for i, e := range g.Edges {
		src, ok1 := index[e.Source]
		dst, ok2 := index[e.Target]
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("edge %d: %w", i, model.ErrUnknownSpot)
		}
		f.Edges = append(f.Edges, edge{Source: src, Target: dst, Weight: e.Weight, TrackID: e.TrackID})
	}
	return f, nil
}

// Read decodes a project written by Write.
func Read(r io.Reader) (*model.Project, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create decompressor: %w", err)
	}
	defer dec.Close()

	var f file
	if err := json.NewDecoder(dec).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	if f.Format != formatName || f.Version != formatVersion {
		return nil, fmt.Errorf("%q version %d: %w", f.Format, f.Version, ErrUnsupportedFormat)
	}
	if f.Settings == nil {
		return nil, errors.New("decode bundle: missing settings")
	}
	return f.rebuild()
}

func (f *file) rebuild() (*model.Project, error) {
	spots := make([]*model.Spot, len(f.Spots))
	for i, d := range f.Spots {
		var s *model.Spot
		if d.Forced {
			s = model.NewSpotWithID(d.ID)
			s.SetPosition(d.X, d.Y, d.Z)
			s.Radius = d.Radius
			s.Quality = d.Quality
			s.Name = d.Name
		} else {
			s = model.NewSpot(d.X, d.Y, d.Z, d.Radius, d.Quality, d.Name)
			s.ID = d.ID
		}
		s.Frame = d.Frame
		s.Time = d.T
		s.Visible = d.Visible
		if len(d.Vertices) > 0 {
			s.Polygon = &model.Polygon{Vertices: d.Vertices}
		}
		spots[i] = s
	}

	sc := model.NewSpotCollection()
	for _, s := range spots {
		sc.Add(s)
	}
	g := model.NewGraph(sc, f.SpaceUnit, f.TimeUnit)

	at := func(i int) (*model.Spot, error) {
		if i < 0 || i >= len(spots) {
			return nil, fmt.Errorf("spot index %d: %w", i, model.ErrUnknownSpot)
		}
		return spots[i], nil
	}
	for _, dt := range f.Tracks {
		t := model.Track{ID: dt.ID, Spots: make([]*model.Spot, len(dt.Spots))}
		for i, idx := range dt.Spots {
			s, err := at(idx)
			if err != nil {
				return nil, fmt.Errorf("track %d: %w", dt.ID, err)
			}
			t.Spots[i] = s
		}
		g.AddTrack(t)
	}
	for i, de := range f.Edges {
		src, err := at(de.Source)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		dst, err := at(de.Target)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		if err := g.AddEdge(model.Edge{Source: src, Target: dst, Weight: de.Weight, TrackID: de.TrackID}); err != nil {
			return nil, err
		}
	}
	return &model.Project{Graph: g, Settings: f.Settings, Metadata: f.Metadata, Log: f.Log}, nil
}

// WriteFile writes p to path on fsys.
func WriteFile(fsys fsutil.FileSystem, path string, p *model.Project) error {
	out, err := fsys.Create(path)
	if err != nil {
		return err
	}
	if err := Write(out, p); err != nil {
		out.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return out.Close()
}

// ReadFile reads a bundle from path on fsys.
func ReadFile(fsys fsutil.FileSystem, path string) (*model.Project, error) {
	in, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	p, err := Read(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Writer saves projects as bundle files. A nil FS writes to the OS.
type Writer struct {
	FS fsutil.FileSystem
}

// WriteProject implements csvimport.ProjectWriter.
func (w Writer) WriteProject(path string, p *model.Project) error {
	fsys := w.FS
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	return WriteFile(fsys, path, p)
}
