package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/banshee-data/trackcsv/internal/model"
)

func openTestDB(t *testing.T) *ProjectDB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "projects.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// testProject builds a two-track graph with one forced-ID spot and one
// polygon spot.
func testProject(runID string, created time.Time) *model.Project {
	spots := model.NewSpotCollection()
	mk := func(frame int, x, y float64) *model.Spot {
		s := model.NewSpot(x, y, 0, 1.5, 0.8, "")
		s.SetFrame(frame, 0.5)
		s.Visible = true
		spots.Add(s)
		return s
	}
	a0 := mk(0, 0, 0)
	a1 := mk(1, 3, 4)
	b0 := model.NewSpotWithID(500)
	b0.SetPosition(10, 10, 1)
	b0.Radius = 2
	b0.Quality = 1
	b0.Name = "forced"
	b0.SetFrame(0, 0.5)
	b0.Visible = true
	spots.Add(b0)

	poly, _ := model.NewPolygon([]float64{0, 4, 0}, []float64{0, 0, 3})
	roi := model.NewPolygonSpot(poly, 1)
	roi.Name = "cell"
	roi.SetFrame(2, 0.5)
	spots.Add(roi)

	g := model.NewGraph(spots, "um", "s")
	g.AddTrack(model.Track{ID: 1, Spots: []*model.Spot{a0, a1}})
	g.AddTrack(model.Track{ID: 2, Spots: []*model.Spot{b0}})
	_ = g.AddEdge(model.Edge{Source: a0, Target: a1, Weight: a0.SquareDistanceTo(a1), TrackID: 1})

	return &model.Project{
		Graph: g,
		Settings: &model.Settings{
			RunID:      runID,
			SourcePath: "/data/tracks.csv",
			ImageName:  "cells.tif",
			Format:     "points",
			Calibration: model.Calibration{
				SpaceUnit: "um", TimeUnit: "s", FrameInterval: 0.5,
				PixelWidth: 0.2, PixelHeight: 0.2, VoxelDepth: 1,
			},
			Origin:          model.Origin{X: 1, Y: 2},
			Radius:          1.5,
			FrameIndexBase:  1,
			Columns:         map[string]string{"X": `"x"`, "FRAME": "#3"},
			TracksImported:  true,
			InitialView:     model.InitialViewConfigureViews,
			ImporterVersion: "test",
			CreatedAt:       created,
		},
		Metadata: map[string]string{"unit": "um"},
		Log:      "Imported from CSV file /data/tracks.csv\n",
	}
}
