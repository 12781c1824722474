package csvimport

import (
	"fmt"
	"strings"

	"github.com/banshee-data/trackcsv/internal/model"
)

// PointParams are the fixed inputs of point decoding.
type PointParams struct {
	Radius         float64
	Origin         model.Origin
	FrameIndexBase int
	FrameInterval  float64
	ImportTracks   bool
}

// PointDecoder decodes rows of a point table through a resolved mapping.
type PointDecoder struct {
	cols   Resolved
	params PointParams
}

// NewPointDecoder returns a decoder for the given columns.
func NewPointDecoder(cols Resolved, params PointParams) *PointDecoder {
	return &PointDecoder{cols: cols, params: params}
}

func (d *PointDecoder) Dialect() Dialect { return PointDialect }

// HasTracks reports whether decoded rows carry a track identifier.
func (d *PointDecoder) HasTracks() bool {
	_, ok := d.cols.Index(RoleTrack)
	return ok && d.params.ImportTracks
}

func (d *PointDecoder) Decode(rec []string) (Decoded, error) {
	xi, _ := d.cols.Index(RoleX)
	yi, _ := d.cols.Index(RoleY)
	fi, _ := d.cols.Index(RoleFrame)

	x, err := parseFloat(rec, xi, RoleX)
	if err != nil {
		return Decoded{}, err
	}
	y, err := parseFloat(rec, yi, RoleY)
	if err != nil {
		return Decoded{}, err
	}
	z := 0.0
	if zi, ok := d.cols.Index(RoleZ); ok {
		if z, err = parseFloat(rec, zi, RoleZ); err != nil {
			return Decoded{}, err
		}
	}
	x += d.params.Origin.X
	y += d.params.Origin.Y
	z += d.params.Origin.Z

	raw, err := parseInt(rec, fi, RoleFrame)
	if err != nil {
		return Decoded{}, err
	}
	frame := raw - d.params.FrameIndexBase
	if frame < 0 {
		return Decoded{}, fmt.Errorf("frame %d with index base %d: %w", raw, d.params.FrameIndexBase, ErrNegativeFrame)
	}

	quality := model.DefaultQuality
	if qi, ok := d.cols.Index(RoleQuality); ok {
		if quality, err = parseFloat(rec, qi, RoleQuality); err != nil {
			return Decoded{}, err
		}
	}
	radius := d.params.Radius
	if ri, ok := d.cols.Index(RoleRadius); ok {
		if radius, err = parseFloat(rec, ri, RoleRadius); err != nil {
			return Decoded{}, err
		}
	}
	var name string
	if ni, ok := d.cols.Index(RoleName); ok && ni < len(rec) {
		name = strings.TrimSpace(rec[ni])
	}

	var s *model.Spot
	if ii, ok := d.cols.Index(RoleID); ok {
		id, err := parseInt(rec, ii, RoleID)
		if err != nil {
			return Decoded{}, err
		}
		s = model.NewSpotWithID(id)
		s.SetPosition(x, y, z)
		s.Radius = radius
		s.Quality = quality
		s.Name = name
	} else {
		s = model.NewSpot(x, y, z, radius, quality, name)
	}
	s.SetFrame(frame, d.params.FrameInterval)
	s.Visible = true

	out := Decoded{Spot: s}
	if ti, ok := d.cols.Index(RoleTrack); ok && d.params.ImportTracks {
		tid, err := parseInt(rec, ti, RoleTrack)
		if err != nil {
			return Decoded{}, err
		}
		out.TrackID = tid
		out.HasTrack = true
	}
	return out, nil
}
