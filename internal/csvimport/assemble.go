package csvimport

import (
	"sort"

	"github.com/banshee-data/trackcsv/internal/model"
)

// Assembler accumulates decoded rows into the frame index and per-track
// lists in decode order.
type Assembler struct {
	spots  *model.SpotCollection
	tracks map[int][]*model.Spot
}

// NewAssembler returns an empty assembler.
func NewAssembler() *Assembler {
	return &Assembler{
		spots:  model.NewSpotCollection(),
		tracks: make(map[int][]*model.Spot),
	}
}

// Add files d's spot under its frame and, when present, its track.
func (a *Assembler) Add(d Decoded) {
	a.spots.Add(d.Spot)
	if d.HasTrack {
		a.tracks[d.TrackID] = append(a.tracks[d.TrackID], d.Spot)
	}
}

// Spots returns the frame-indexed collection.
func (a *Assembler) Spots() *model.SpotCollection { return a.spots }

// TrackGroups returns the per-track spot lists in decode order.
func (a *Assembler) TrackGroups() map[int][]*model.Spot { return a.tracks }

// FrameConflict records two consecutive spots of one track on one frame.
type FrameConflict struct {
	TrackID int
	Frame   int
}

// TrackResult is the output of AssembleTracks.
type TrackResult struct {
	Tracks    []model.Track
	Edges     []model.Edge
	Conflicts []FrameConflict
}

// AssembleTracks sorts each group by frame and links consecutive spots.
// The sort is stable, so spots sharing a frame keep decode order and are
// still linked; each such pair is reported as a conflict. Tracks come out
// in ascending track ID order.
func AssembleTracks(groups map[int][]*model.Spot) TrackResult {
	ids := make([]int, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var res TrackResult
	for _, id := range ids {
		spots := append([]*model.Spot(nil), groups[id]...)
		sort.SliceStable(spots, func(i, j int) bool { return spots[i].Frame < spots[j].Frame })
		res.Tracks = append(res.Tracks, model.Track{ID: id, Spots: spots})

		for i := 1; i < len(spots); i++ {
			src, dst := spots[i-1], spots[i]
			if src.Frame == dst.Frame {
				res.Conflicts = append(res.Conflicts, FrameConflict{TrackID: id, Frame: src.Frame})
			}
			res.Edges = append(res.Edges, model.Edge{
				Source:  src,
				Target:  dst,
				Weight:  src.SquareDistanceTo(dst),
				TrackID: id,
			})
		}
	}
	return res
}
