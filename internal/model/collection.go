package model

import (
	"sort"
)

// SpotCollection indexes spots by frame. Each spot lives in exactly one
// frame bucket, the one matching its Frame at insertion time.
type SpotCollection struct {
	frames  map[int][]*Spot
	members map[*Spot]struct{}
	byID    map[int]*Spot
	nextID  int
}

// NewSpotCollection returns an empty collection.
func NewSpotCollection() *SpotCollection {
	return &SpotCollection{
		frames:  make(map[int][]*Spot),
		members: make(map[*Spot]struct{}),
		byID:    make(map[int]*Spot),
	}
}

// Add inserts s into its frame bucket. Auto-identity spots without an ID
// are numbered in insertion order; adding the same spot twice is a no-op.
func (sc *SpotCollection) Add(s *Spot) {
	if _, ok := sc.members[s]; ok {
		return
	}
	if !s.Identity.IsForced() && s.ID < 0 {
		s.ID = sc.nextID
	}
	if s.ID >= sc.nextID {
		sc.nextID = s.ID + 1
	}
	sc.frames[s.Frame] = append(sc.frames[s.Frame], s)
	sc.members[s] = struct{}{}
	sc.byID[s.ID] = s
}

// Contains reports whether s was added to this collection.
func (sc *SpotCollection) Contains(s *Spot) bool {
	_, ok := sc.members[s]
	return ok
}

// ByID looks a spot up by identifier. With duplicated forced IDs the most
// recently added spot wins.
func (sc *SpotCollection) ByID(id int) (*Spot, bool) {
	s, ok := sc.byID[id]
	return s, ok
}

// Frames returns the populated frame indices in ascending order.
func (sc *SpotCollection) Frames() []int {
	frames := make([]int, 0, len(sc.frames))
	for f := range sc.frames {
		frames = append(frames, f)
	}
	sort.Ints(frames)
	return frames
}

// InFrame returns the spots of one frame ordered by ID.
func (sc *SpotCollection) InFrame(frame int) []*Spot {
	bucket := sc.frames[frame]
	out := make([]*Spot, len(bucket))
	copy(out, bucket)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// All returns every spot, ordered by frame then ID.
func (sc *SpotCollection) All() []*Spot {
	out := make([]*Spot, 0, len(sc.members))
	for _, f := range sc.Frames() {
		out = append(out, sc.InFrame(f)...)
	}
	return out
}

// SetVisible sets the visibility flag on every spot.
func (sc *SpotCollection) SetVisible(visible bool) {
	for s := range sc.members {
		s.Visible = visible
	}
}

// NSpots counts all spots, or only visible ones.
func (sc *SpotCollection) NSpots(visibleOnly bool) int {
	if !visibleOnly {
		return len(sc.members)
	}
	n := 0
	for s := range sc.members {
		if s.Visible {
			n++
		}
	}
	return n
}

// NSpotsInFrame counts the spots of one frame, or only visible ones.
func (sc *SpotCollection) NSpotsInFrame(frame int, visibleOnly bool) int {
	bucket := sc.frames[frame]
	if !visibleOnly {
		return len(bucket)
	}
	n := 0
	for _, s := range bucket {
		if s.Visible {
			n++
		}
	}
	return n
}
