// Package config loads import settings from JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/banshee-data/trackcsv/internal/csvimport"
	"github.com/banshee-data/trackcsv/internal/model"
	"github.com/banshee-data/trackcsv/internal/units"
)

// ImportConfig is the on-disk form of one import's settings. Omitted fields
// fall back to the Get* defaults, so partial files are safe.
type ImportConfig struct {
	Format string `json:"format,omitempty"` // "points" or "roi"

	// Columns maps role names ("X", "FRAME", ...) to a header name or a
	// 0-based index written as a string. Empty means guess.
	Columns map[string]string `json:"columns,omitempty"`

	Radius         *float64 `json:"radius,omitempty"`
	FrameIndexBase *int     `json:"frame_index_base,omitempty"`
	FrameInterval  *float64 `json:"frame_interval,omitempty"`
	SpaceUnit      *string  `json:"space_unit,omitempty"`
	TimeUnit       *string  `json:"time_unit,omitempty"`
	PixelWidth     *float64 `json:"pixel_width,omitempty"`
	PixelHeight    *float64 `json:"pixel_height,omitempty"`
	VoxelDepth     *float64 `json:"voxel_depth,omitempty"`

	OriginX *float64 `json:"origin_x,omitempty"`
	OriginY *float64 `json:"origin_y,omitempty"`
	OriginZ *float64 `json:"origin_z,omitempty"`

	ImportTracks  *bool   `json:"import_tracks,omitempty"`
	SkipFirstLine *bool   `json:"skip_first_line,omitempty"`
	ImageName     *string `json:"image_name,omitempty"`
}

const maxFileSize = 1 * 1024 * 1024 // 1MB

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// LoadImportConfig loads and validates an ImportConfig from a .json file.
func LoadImportConfig(path string) (*ImportConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &ImportConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *ImportConfig) Validate() error {
	if _, err := csvimport.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.Radius != nil && *c.Radius <= 0 {
		return fmt.Errorf("radius must be positive, got %g", *c.Radius)
	}
	if c.FrameIndexBase != nil && *c.FrameIndexBase != 0 && *c.FrameIndexBase != 1 {
		return fmt.Errorf("frame_index_base must be 0 or 1, got %d", *c.FrameIndexBase)
	}
	if c.FrameInterval != nil && *c.FrameInterval <= 0 {
		return fmt.Errorf("frame_interval must be positive, got %g", *c.FrameInterval)
	}
	for role := range c.Columns {
		if _, err := csvimport.ParseRole(role); err != nil {
			return fmt.Errorf("columns: %w", err)
		}
	}
	return nil
}

// Warnings lists non-fatal oddities such as unknown unit names.
func (c *ImportConfig) Warnings() []string {
	var out []string
	if c.SpaceUnit != nil && !units.IsValidSpace(*c.SpaceUnit) {
		out = append(out, fmt.Sprintf("unknown space unit %q (known: %s)", *c.SpaceUnit, units.GetValidSpaceUnitsString()))
	}
	if c.TimeUnit != nil && !units.IsValidTime(*c.TimeUnit) {
		out = append(out, fmt.Sprintf("unknown time unit %q (known: %s)", *c.TimeUnit, units.GetValidTimeUnitsString()))
	}
	return out
}

// GetRadius returns the default spot radius.
func (c *ImportConfig) GetRadius() float64 {
	if c.Radius == nil {
		return csvimport.DefaultRadius
	}
	return *c.Radius
}

// GetFrameIndexBase returns 0 or 1.
func (c *ImportConfig) GetFrameIndexBase() int {
	if c.FrameIndexBase == nil {
		return 0
	}
	return *c.FrameIndexBase
}

// GetImportTracks defaults to true.
func (c *ImportConfig) GetImportTracks() bool {
	if c.ImportTracks == nil {
		return true
	}
	return *c.ImportTracks
}

// GetSkipFirstLine defaults to false.
func (c *ImportConfig) GetSkipFirstLine() bool {
	return c.SkipFirstLine != nil && *c.SkipFirstLine
}

// GetCalibration fills unset values from model.DefaultCalibration and
// normalises unit spellings.
func (c *ImportConfig) GetCalibration() model.Calibration {
	cal := model.DefaultCalibration()
	if c.SpaceUnit != nil {
		cal.SpaceUnit = units.NormalizeSpace(*c.SpaceUnit)
	}
	if c.TimeUnit != nil {
		cal.TimeUnit = units.NormalizeTime(*c.TimeUnit)
	}
	if c.FrameInterval != nil {
		cal.FrameInterval = *c.FrameInterval
	}
	if c.PixelWidth != nil {
		cal.PixelWidth = *c.PixelWidth
	}
	if c.PixelHeight != nil {
		cal.PixelHeight = *c.PixelHeight
	}
	if c.VoxelDepth != nil {
		cal.VoxelDepth = *c.VoxelDepth
	}
	return cal
}

// GetOrigin returns the coordinate shift, zero when unset.
func (c *ImportConfig) GetOrigin() model.Origin {
	var o model.Origin
	if c.OriginX != nil {
		o.X = *c.OriginX
	}
	if c.OriginY != nil {
		o.Y = *c.OriginY
	}
	if c.OriginZ != nil {
		o.Z = *c.OriginZ
	}
	return o
}

// Mapping builds the explicit column mapping, or nil to guess.
func (c *ImportConfig) Mapping() (*csvimport.ColumnMapping, error) {
	if len(c.Columns) == 0 {
		return nil, nil
	}
	roles := make([]string, 0, len(c.Columns))
	for r := range c.Columns {
		roles = append(roles, r)
	}
	sort.Strings(roles)

	var m csvimport.ColumnMapping
	for _, r := range roles {
		role, err := csvimport.ParseRole(r)
		if err != nil {
			return nil, fmt.Errorf("columns: %w", err)
		}
		m.Set(role, csvimport.ParseColumn(c.Columns[r]))
	}
	return &m, nil
}

// ToOptions converts the configuration into importer options for path.
// Sink, FS and Clock are left for the caller to set.
func (c *ImportConfig) ToOptions(path string) (csvimport.Options, error) {
	format, err := csvimport.ParseFormat(c.Format)
	if err != nil {
		return csvimport.Options{}, err
	}
	m, err := c.Mapping()
	if err != nil {
		return csvimport.Options{}, err
	}
	o := csvimport.DefaultOptions(path)
	o.Format = format
	o.Mapping = m
	o.Radius = c.GetRadius()
	o.Calibration = c.GetCalibration()
	o.Origin = c.GetOrigin()
	o.FrameIndexBase = c.GetFrameIndexBase()
	o.ImportTracks = c.GetImportTracks()
	o.SkipFirstLine = c.GetSkipFirstLine()
	if c.ImageName != nil {
		o.ImageName = *c.ImageName
	}
	return o, nil
}
