package bundle

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/trackcsv/internal/csvimport"
	"github.com/banshee-data/trackcsv/internal/fsutil"
	"github.com/banshee-data/trackcsv/internal/model"
	"github.com/banshee-data/trackcsv/internal/testutil"
)

func importTwoTracks(t *testing.T) *csvimport.Result {
	t.Helper()
	path := testutil.WriteFile(t, "tracks.csv", testutil.TwoTrackCSV...)
	res, err := csvimport.New(csvimport.DefaultOptions(path)).Import()
	require.NoError(t, err)
	return res
}

func TestWriteRead_RoundTrip(t *testing.T) {
	res := importTwoTracks(t)
	want := res.Project()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, want))
	got, err := Read(&buf)
	require.NoError(t, err)

	if diff := cmp.Diff(want.Settings, got.Settings); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, want.Log, got.Log)
	assert.Equal(t, map[string]string{"instrument": "microscope A", "operator": "jdoe"}, got.Metadata)
	assert.Equal(t, want.Graph.FrameCounts(), got.Graph.FrameCounts())
	assert.Equal(t, want.Graph.EdgeWeights(), got.Graph.EdgeWeights())
	require.Len(t, got.Graph.Tracks, 2)
	assert.Equal(t, 7, got.Graph.Tracks[0].ID)
	assert.Equal(t, 8, got.Graph.Tracks[1].ID)

	// Edges point at spots of the rebuilt collection.
	for _, e := range got.Graph.Edges {
		assert.True(t, got.Graph.Spots.Contains(e.Source))
		assert.True(t, got.Graph.Spots.Contains(e.Target))
	}
	assert.Same(t, got.Graph.Tracks[0].Spots[0], got.Graph.Edges[0].Source)
}

func TestWriteRead_PolygonsAndForcedIDs(t *testing.T) {
	sc := model.NewSpotCollection()
	poly, err := model.NewPolygon([]float64{0, 4, 0}, []float64{0, 0, 3})
	require.NoError(t, err)
	roi := model.NewPolygonSpot(poly, 1)
	roi.SetFrame(3, 2)
	sc.Add(roi)
	forced := model.NewSpotWithID(42)
	forced.SetPosition(1, 2, 3)
	forced.Name = "kept"
	sc.Add(forced)

	p := &model.Project{
		Graph:    model.NewGraph(sc, "um", "s"),
		Settings: &model.Settings{RunID: "r", Format: "roi"},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, p))
	got, err := Read(&buf)
	require.NoError(t, err)

	s, ok := got.Graph.Spots.ByID(42)
	require.True(t, ok)
	id, isForced := s.Identity.ForcedID()
	assert.True(t, isForced)
	assert.Equal(t, 42, id)
	assert.Equal(t, "kept", s.Name)

	cells := got.Graph.Spots.InFrame(3)
	require.Len(t, cells, 1)
	assert.Equal(t, 6.0, cells[0].Time)
	require.NotNil(t, cells[0].Polygon)
	assert.Equal(t, poly.Vertices, cells[0].Polygon.Vertices)
	assert.False(t, cells[0].Identity.IsForced())
}

func TestRead_Errors(t *testing.T) {
	t.Run("not zstd", func(t *testing.T) {
		_, err := Read(bytes.NewReader([]byte("plain text")))
		assert.Error(t, err)
	})

	t.Run("wrong format", func(t *testing.T) {
		var buf bytes.Buffer
		enc, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		require.NoError(t, json.NewEncoder(enc).Encode(map[string]any{"format": "other", "version": 1}))
		require.NoError(t, enc.Close())

		_, err = Read(&buf)
		assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	})

	t.Run("dangling edge", func(t *testing.T) {
		var buf bytes.Buffer
		enc, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		f := file{
			Format: formatName, Version: formatVersion,
			Settings: &model.Settings{RunID: "r"},
			Spots:    []spot{{ID: 0}},
			Edges:    []edge{{Source: 0, Target: 5}},
		}
		require.NoError(t, json.NewEncoder(enc).Encode(f))
		require.NoError(t, enc.Close())

		_, err = Read(&buf)
		assert.True(t, errors.Is(err, model.ErrUnknownSpot))
	})
}

func TestWrite_Invalid(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, nil))
	assert.Error(t, Write(&buf, &model.Project{Settings: &model.Settings{}}))
}

func TestWriter_ExportTo(t *testing.T) {
	path := testutil.WriteFile(t, "tracks.csv", testutil.TwoTrackCSV...)
	mem := fsutil.NewMemoryFileSystem()

	im := csvimport.New(csvimport.DefaultOptions(path))
	res, err := im.ExportTo("/out/tracks"+Ext, Writer{FS: mem})
	require.NoError(t, err)
	assert.Empty(t, im.ErrorMessage())
	assert.Equal(t, []string{"/out/tracks.tmz"}, mem.Names())

	got, err := ReadFile(mem, "/out/tracks.tmz")
	require.NoError(t, err)
	assert.Equal(t, res.Settings.RunID, got.Settings.RunID)
	assert.Contains(t, got.Log, "Exported from CSV file "+path+" to /out/tracks.tmz")
	assert.Equal(t, 4, got.Graph.Spots.NSpots(true))

	_, err = ReadFile(mem, "/out/missing.tmz")
	assert.Error(t, err)
}
