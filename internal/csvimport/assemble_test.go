package csvimport

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/trackcsv/internal/model"
)

func spotAt(frame int, x, y, z float64) *model.Spot {
	s := model.NewSpot(x, y, z, 1, 1, "")
	s.SetFrame(frame, 1)
	return s
}

func sameSpots(t *testing.T, what string, got, want []*model.Spot) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: got %d spots, want %d", what, len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s[%d] = %v, want %v", what, i, got[i], want[i])
		}
	}
}

func TestAssembleTracks_SortsByFrame(t *testing.T) {
	p2 := spotAt(2, 3, 0, 0)
	p0 := spotAt(0, 0, 0, 0)
	p1 := spotAt(1, 1, 2, 2)

	res := AssembleTracks(map[int][]*model.Spot{5: {p2, p0, p1}})
	if len(res.Tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(res.Tracks))
	}
	sameSpots(t, "track", res.Tracks[0].Spots, []*model.Spot{p0, p1, p2})

	if len(res.Edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(res.Edges))
	}
	if e := res.Edges[0]; e.Source != p0 || e.Target != p1 || e.Weight != 9 {
		t.Errorf("edge 0 = %v -> %v (%v), want p0 -> p1 (9)", e.Source, e.Target, e.Weight)
	}
	if e := res.Edges[1]; e.Source != p1 || e.Target != p2 || e.Weight != 12 {
		t.Errorf("edge 1 = %v -> %v (%v), want p1 -> p2 (12)", e.Source, e.Target, e.Weight)
	}
	if len(res.Conflicts) != 0 {
		t.Errorf("conflicts = %v, want none", res.Conflicts)
	}
}

func TestAssembleTracks_EdgeCountAndDirection(t *testing.T) {
	for n := 1; n <= 6; n++ {
		group := make([]*model.Spot, 0, n)
		for f := n - 1; f >= 0; f-- {
			group = append(group, spotAt(f, float64(f), float64(f*f), 0))
		}
		res := AssembleTracks(map[int][]*model.Spot{1: group})
		if len(res.Edges) != n-1 {
			t.Fatalf("n=%d: got %d edges, want %d", n, len(res.Edges), n-1)
		}
		for _, e := range res.Edges {
			if e.Source.Frame >= e.Target.Frame {
				t.Errorf("n=%d: edge frames %d -> %d, want increasing", n, e.Source.Frame, e.Target.Frame)
			}
			if want := e.Source.SquareDistanceTo(e.Target); e.Weight != want {
				t.Errorf("n=%d: edge weight %v, want %v", n, e.Weight, want)
			}
		}
	}
}

func TestAssembleTracks_SameFrameKeepsInputOrder(t *testing.T) {
	a := spotAt(1, 0, 0, 0)
	b := spotAt(1, 5, 0, 0)
	c := spotAt(0, 9, 9, 0)

	res := AssembleTracks(map[int][]*model.Spot{3: {a, b, c}})
	sameSpots(t, "track", res.Tracks[0].Spots, []*model.Spot{c, a, b})
	if len(res.Edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(res.Edges))
	}
	if e := res.Edges[1]; e.Source != a || e.Target != b {
		t.Errorf("edge 1 = %v -> %v, want a -> b", e.Source, e.Target)
	}
	if diff := cmp.Diff([]FrameConflict{{TrackID: 3, Frame: 1}}, res.Conflicts); diff != "" {
		t.Errorf("conflicts (-want +got):\n%s", diff)
	}
}

func TestAssembleTracks_OrderedByTrackID(t *testing.T) {
	res := AssembleTracks(map[int][]*model.Spot{
		9: {spotAt(0, 0, 0, 0)},
		2: {spotAt(0, 0, 0, 0), spotAt(1, 1, 0, 0)},
		4: {spotAt(0, 0, 0, 0)},
	})
	ids := make([]int, 0, len(res.Tracks))
	for _, tr := range res.Tracks {
		ids = append(ids, tr.ID)
	}
	if diff := cmp.Diff([]int{2, 4, 9}, ids); diff != "" {
		t.Errorf("track IDs (-want +got):\n%s", diff)
	}
	if len(res.Edges) != 1 || res.Edges[0].TrackID != 2 {
		t.Errorf("edges = %v, want one edge on track 2", res.Edges)
	}
}

func TestAssembler_BucketsAndTracks(t *testing.T) {
	a := NewAssembler()
	a.Add(Decoded{Spot: spotAt(0, 0, 0, 0), TrackID: 1, HasTrack: true})
	a.Add(Decoded{Spot: spotAt(0, 1, 0, 0)})
	a.Add(Decoded{Spot: spotAt(3, 1, 0, 0), TrackID: 1, HasTrack: true})

	if n := a.Spots().NSpotsInFrame(0, false); n != 2 {
		t.Errorf("frame 0 spots = %d, want 2", n)
	}
	if n := a.Spots().NSpotsInFrame(3, false); n != 1 {
		t.Errorf("frame 3 spots = %d, want 1", n)
	}
	groups := a.TrackGroups()
	if len(groups) != 1 || len(groups[1]) != 2 {
		t.Errorf("track groups = %v, want track 1 with 2 spots", groups)
	}
}
