package csvimport

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/banshee-data/trackcsv/internal/model"
)

// PolygonDecoder decodes outline rows: label, frame, then vertex
// coordinates alternating x and y. A vertex field may also hold an "x,y"
// pair. Identifiers are always auto-assigned.
type PolygonDecoder struct {
	skipHeader    bool
	frameInterval float64
}

// NewPolygonDecoder returns a decoder for the semicolon dialect.
func NewPolygonDecoder(skipHeader bool, frameInterval float64) *PolygonDecoder {
	return &PolygonDecoder{skipHeader: skipHeader, frameInterval: frameInterval}
}

func (d *PolygonDecoder) Dialect() Dialect {
	dl := PolygonDialect
	dl.Header = d.skipHeader
	return dl
}

func (d *PolygonDecoder) Decode(rec []string) (Decoded, error) {
	if len(rec) < 2 {
		return Decoded{}, ErrMissingFrame
	}
	label := strings.TrimSpace(rec[0])
	fs := strings.TrimSpace(rec[1])
	if fs == "" {
		return Decoded{}, ErrMissingFrame
	}
	frame, err := strconv.Atoi(fs)
	if err != nil {
		return Decoded{}, fmt.Errorf("FRAME: malformed integer %q: %w", fs, err)
	}
	if frame < 0 {
		return Decoded{}, fmt.Errorf("frame %d: %w", frame, ErrNegativeFrame)
	}

	var coords []float64
	for _, f := range rec[2:] {
		for _, c := range strings.Split(f, ",") {
			c = strings.TrimSpace(c)
			if c == "" {
				continue
			}
			v, err := strconv.ParseFloat(c, 64)
			if err != nil {
				return Decoded{}, fmt.Errorf("vertex: malformed number %q: %w", c, err)
			}
			coords = append(coords, v)
		}
	}
	n := len(coords) / 2
	if n < model.MinPolygonVertices {
		return Decoded{}, fmt.Errorf("spot ROI has %d vertices, at least %d is required: %w",
			n, model.MinPolygonVertices, ErrInsufficientVertices)
	}
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = coords[2*i]
		ys[i] = coords[2*i+1]
	}
	poly, err := model.NewPolygon(xs, ys)
	if err != nil {
		return Decoded{}, err
	}
	s := model.NewPolygonSpot(poly, model.DefaultQuality)
	s.Name = label
	s.SetFrame(frame, d.frameInterval)
	s.Visible = true
	return Decoded{Spot: s}, nil
}
