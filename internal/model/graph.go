package model

import (
	"errors"
	"fmt"
)

// ErrUnknownSpot is returned when an edge endpoint is not part of the
// graph's spot collection.
var ErrUnknownSpot = errors.New("edge endpoint not in spot collection")

// Edge links two spots of one track, directed from the earlier frame to
// the later one. Weight is the squared distance between the endpoints.
type Edge struct {
	Source  *Spot
	Target  *Spot
	Weight  float64
	TrackID int
}

// Track is a chain of spots sharing one external track identifier,
// ordered by frame.
type Track struct {
	ID    int
	Spots []*Spot
}

// Graph is the trajectory graph: the spot collection plus the edges derived
// from all tracks, tagged with physical units.
type Graph struct {
	Spots     *SpotCollection
	Edges     []Edge
	Tracks    []Track
	SpaceUnit string
	TimeUnit  string
}

// NewGraph wraps spots in a graph with no edges.
func NewGraph(spots *SpotCollection, spaceUnit, timeUnit string) *Graph {
	if spots == nil {
		spots = NewSpotCollection()
	}
	return &Graph{
		Spots:     spots,
		SpaceUnit: spaceUnit,
		TimeUnit:  timeUnit,
	}
}

// AddEdge appends e after checking both endpoints belong to the graph.
func (g *Graph) AddEdge(e Edge) error {
	if e.Source == nil || e.Target == nil {
		return fmt.Errorf("track %d: nil endpoint: %w", e.TrackID, ErrUnknownSpot)
	}
	if !g.Spots.Contains(e.Source) {
		return fmt.Errorf("track %d: source %s: %w", e.TrackID, e.Source, ErrUnknownSpot)
	}
	if !g.Spots.Contains(e.Target) {
		return fmt.Errorf("track %d: target %s: %w", e.TrackID, e.Target, ErrUnknownSpot)
	}
	g.Edges = append(g.Edges, e)
	return nil
}

// AddTrack records a track chain. Edges are added separately.
func (g *Graph) AddTrack(t Track) {
	g.Tracks = append(g.Tracks, t)
}

// EdgeWeights returns the edge weights in insertion order.
func (g *Graph) EdgeWeights() []float64 {
	w := make([]float64, len(g.Edges))
	for i, e := range g.Edges {
		w[i] = e.Weight
	}
	return w
}

// FrameCounts returns the per-frame spot counts, keyed by frame.
func (g *Graph) FrameCounts() map[int]int {
	counts := make(map[int]int)
	for _, f := range g.Spots.Frames() {
		counts[f] = g.Spots.NSpotsInFrame(f, false)
	}
	return counts
}
