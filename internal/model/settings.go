package model

import "time"

// Initial view hints stored with a project, telling a display
// collaborator where to start.
const (
	InitialViewConfigureViews = "ConfigureViews"
	InitialViewSpotFilter     = "SpotFilter"
)

// Calibration is supplied by the image/calibration collaborator.
type Calibration struct {
	SpaceUnit     string  `json:"space_unit"`
	TimeUnit      string  `json:"time_unit"`
	FrameInterval float64 `json:"frame_interval"`
	PixelWidth    float64 `json:"pixel_width"`
	PixelHeight   float64 `json:"pixel_height"`
	VoxelDepth    float64 `json:"voxel_depth"`
}

// DefaultCalibration is used when no image calibration is available.
func DefaultCalibration() Calibration {
	return Calibration{
		SpaceUnit:     "pixel",
		TimeUnit:      "frame",
		FrameInterval: 1,
		PixelWidth:    1,
		PixelHeight:   1,
		VoxelDepth:    1,
	}
}

// Origin shifts imported coordinates into a target image's frame.
type Origin struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Settings describes how a graph was produced.
type Settings struct {
	RunID           string            `json:"run_id"`
	SourcePath      string            `json:"source_path"`
	ImageName       string            `json:"image_name,omitempty"`
	Format          string            `json:"format"`
	Calibration     Calibration       `json:"calibration"`
	Origin          Origin            `json:"origin"`
	Radius          float64           `json:"radius"`
	FrameIndexBase  int               `json:"frame_index_base"`
	Columns         map[string]string `json:"columns,omitempty"`
	TracksImported  bool              `json:"tracks_imported"`
	InitialView     string            `json:"initial_view"`
	ImporterVersion string            `json:"importer_version"`
	CreatedAt       time.Time         `json:"created_at"`
}

// Project is the finished bundle handed to a persistence collaborator.
type Project struct {
	Graph    *Graph
	Settings *Settings
	Metadata map[string]string
	Log      string
}
