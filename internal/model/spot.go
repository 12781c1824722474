package model

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultQuality is assigned to spots whose source carries no quality value.
const DefaultQuality = 1.0

// unassignedID marks an auto-identity spot that has not been added to a
// SpotCollection yet.
const unassignedID = -1

// Identity records how a spot obtained its identifier: forced from an
// external ID column, or assigned by the collection when the spot is added.
type Identity struct {
	id     int
	forced bool
}

// Forced returns an identity that pins the spot to id.
func Forced(id int) Identity { return Identity{id: id, forced: true} }

// Auto returns an identity whose value is assigned by the SpotCollection.
func Auto() Identity { return Identity{} }

// IsForced reports whether the identifier was supplied externally.
func (i Identity) IsForced() bool { return i.forced }

// ForcedID returns the externally supplied identifier, if any.
func (i Identity) ForcedID() (int, bool) { return i.id, i.forced }

func (i Identity) String() string {
	if i.forced {
		return fmt.Sprintf("forced(%d)", i.id)
	}
	return "auto"
}

// Spot is one observation at one frame. Position, radius and time are in
// physical units.
type Spot struct {
	ID       int
	Identity Identity

	Position r3.Vec
	Radius   float64
	Quality  float64

	// Frame is the zero-based frame index; Time is Frame × frame interval.
	Frame int
	Time  float64

	Name    string
	Polygon *Polygon
	Visible bool
}

// NewSpot creates an auto-identity spot. Its ID is assigned when it is
// added to a SpotCollection.
func NewSpot(x, y, z, radius, quality float64, name string) *Spot {
	return &Spot{
		ID:       unassignedID,
		Identity: Auto(),
		Position: r3.Vec{X: x, Y: y, Z: z},
		Radius:   radius,
		Quality:  quality,
		Name:     name,
	}
}

// NewSpotWithID creates a spot pinned to an external identifier. All other
// attributes are left at their zero value for the caller to set.
func NewSpotWithID(id int) *Spot {
	return &Spot{
		ID:       id,
		Identity: Forced(id),
	}
}

// SetPosition sets the spot centre.
func (s *Spot) SetPosition(x, y, z float64) {
	s.Position = r3.Vec{X: x, Y: y, Z: z}
}

// SetFrame sets the frame index and the derived time.
func (s *Spot) SetFrame(frame int, frameInterval float64) {
	s.Frame = frame
	s.Time = float64(frame) * frameInterval
}

// SquareDistanceTo returns the squared Euclidean distance between the two
// spot centres.
func (s *Spot) SquareDistanceTo(o *Spot) float64 {
	return r3.Norm2(r3.Sub(s.Position, o.Position))
}

func (s *Spot) String() string {
	if s.Name != "" {
		return fmt.Sprintf("%s (ID=%d)", s.Name, s.ID)
	}
	return fmt.Sprintf("ID%d", s.ID)
}
