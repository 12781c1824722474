package csvimport

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/trackcsv/internal/model"
)

func resolvedFor(t *testing.T, header []string, set func(m *ColumnMapping)) Resolved {
	t.Helper()
	h, err := NewHeader(header)
	require.NoError(t, err)
	m := GuessMapping(h.Names())
	if set != nil {
		set(&m)
	}
	res, err := m.Resolve(h, nil)
	require.NoError(t, err)
	return res
}

func TestPointDecoder_RoundTripWithOrigin(t *testing.T) {
	cols := resolvedFor(t, []string{"x", "y", "z", "frame"}, nil)
	d := NewPointDecoder(cols, PointParams{
		Radius:         2.5,
		Origin:         model.Origin{X: 10, Y: -5, Z: 0.5},
		FrameInterval:  0.5,
		FrameIndexBase: 0,
	})

	rows := [][]float64{{1, 2, 3, 0}, {-4.25, 0, 1e-3, 7}, {100, 200, 300, 12}}
	for _, r := range rows {
		rec := make([]string, len(r))
		for i, v := range r {
			rec[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		got, err := d.Decode(rec)
		require.NoError(t, err)
		s := got.Spot
		assert.Equal(t, r[0]+10, s.Position.X)
		assert.Equal(t, r[1]-5, s.Position.Y)
		assert.Equal(t, r[2]+0.5, s.Position.Z)
		assert.Equal(t, int(r[3]), s.Frame)
		assert.Equal(t, r[3]*0.5, s.Time)
		assert.Equal(t, 2.5, s.Radius)
		assert.Equal(t, model.DefaultQuality, s.Quality)
		assert.True(t, s.Visible)
		assert.False(t, s.Identity.IsForced())
		assert.False(t, got.HasTrack)
	}
}

func TestPointDecoder_ForcedIDAndOptionalColumns(t *testing.T) {
	cols := resolvedFor(t, []string{"id", "name", "x", "y", "frame", "quality", "radius", "track"}, nil)
	d := NewPointDecoder(cols, PointParams{Radius: 1, FrameIndexBase: 1, FrameInterval: 2, ImportTracks: true})

	got, err := d.Decode([]string{"17", " cell-a ", "1", "2", "3", "0.25", "4", "9"})
	require.NoError(t, err)
	s := got.Spot
	id, forced := s.Identity.ForcedID()
	assert.True(t, forced)
	assert.Equal(t, 17, id)
	assert.Equal(t, 17, s.ID)
	assert.Equal(t, "cell-a", s.Name)
	assert.Equal(t, 2, s.Frame)
	assert.Equal(t, 4.0, s.Time)
	assert.Equal(t, 0.25, s.Quality)
	assert.Equal(t, 4.0, s.Radius)
	assert.True(t, got.HasTrack)
	assert.Equal(t, 9, got.TrackID)
}

func TestPointDecoder_TracksDisabled(t *testing.T) {
	cols := resolvedFor(t, []string{"x", "y", "frame", "track"}, nil)
	d := NewPointDecoder(cols, PointParams{Radius: 1, FrameInterval: 1})
	assert.False(t, d.HasTracks())

	got, err := d.Decode([]string{"1", "1", "0", "not-a-number"})
	require.NoError(t, err)
	assert.False(t, got.HasTrack)
}

func TestPointDecoder_RowErrors(t *testing.T) {
	cols := resolvedFor(t, []string{"x", "y", "z", "frame", "q"}, nil)
	d := NewPointDecoder(cols, PointParams{Radius: 1, FrameIndexBase: 1, FrameInterval: 1})

	tests := []struct {
		name string
		rec  []string
		want error
	}{
		{"malformed x", []string{"bad", "row", "data"}, strconv.ErrSyntax},
		{"short row", []string{"1", "2"}, ErrMissingValue},
		{"blank frame", []string{"1", "2", "3", " ", "1"}, ErrMissingValue},
		{"fractional frame", []string{"1", "2", "3", "1.5", "1"}, strconv.ErrSyntax},
		{"frame below base", []string{"1", "2", "3", "0", "1"}, ErrNegativeFrame},
		{"malformed quality", []string{"1", "2", "3", "1", "high"}, strconv.ErrSyntax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Decode(tt.rec)
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode(%v) err = %v, want %v", tt.rec, err, tt.want)
			}
		})
	}
}

func TestPolygonDecoder_PairFieldsWithTrailingEmpty(t *testing.T) {
	d := NewPolygonDecoder(false, 1)
	cr := d.Dialect().newReader(strings.NewReader("label1;3;0,0;10,0;10,10;\n"))
	rec, err := cr.Read()
	require.NoError(t, err)

	got, err := d.Decode(rec)
	require.NoError(t, err)
	s := got.Spot
	require.NotNil(t, s.Polygon)
	assert.Len(t, s.Polygon.Vertices, 3)
	assert.Equal(t, "label1", s.Name)
	assert.Equal(t, 3, s.Frame)
	assert.Equal(t, model.DefaultQuality, s.Quality)
	assert.False(t, s.Identity.IsForced())
	assert.InDelta(t, 20.0/3, s.Position.X, 1e-9)
	assert.InDelta(t, 10.0/3, s.Position.Y, 1e-9)
}

func TestPolygonDecoder_SingleCoordinateFields(t *testing.T) {
	d := NewPolygonDecoder(false, 0.5)
	got, err := d.Decode([]string{"sq", "2", "0", "0", "10", "0", "10", "10", "0", "10", "", ""})
	require.NoError(t, err)
	assert.Len(t, got.Spot.Polygon.Vertices, 4)
	assert.InDelta(t, 5.0, got.Spot.Position.X, 1e-9)
	assert.InDelta(t, 5.0, got.Spot.Position.Y, 1e-9)
	assert.Equal(t, 1.0, got.Spot.Time)
}

func TestPolygonDecoder_Errors(t *testing.T) {
	d := NewPolygonDecoder(false, 1)
	tests := []struct {
		name string
		rec  []string
		want error
	}{
		{"two vertices", []string{"a", "0", "0,0", "1,1"}, ErrInsufficientVertices},
		{"odd coordinate dropped", []string{"a", "0", "0", "0", "1", "1", "2"}, ErrInsufficientVertices},
		{"no frame", []string{"a"}, ErrMissingFrame},
		{"blank frame", []string{"a", ""}, ErrMissingFrame},
		{"bad frame", []string{"a", "x", "0,0", "1,0", "1,1"}, strconv.ErrSyntax},
		{"bad vertex", []string{"a", "0", "0,0", "1,zero", "1,1"}, strconv.ErrSyntax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Decode(tt.rec)
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode(%v) err = %v, want %v", tt.rec, err, tt.want)
			}
		})
	}
}

func TestPolygonDecoder_Dialect(t *testing.T) {
	assert.False(t, NewPolygonDecoder(false, 1).Dialect().Header)
	assert.True(t, NewPolygonDecoder(true, 1).Dialect().Header)
	assert.Equal(t, ';', NewPolygonDecoder(true, 1).Dialect().Comma)
}
