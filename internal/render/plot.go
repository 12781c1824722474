package render

import (
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/trackcsv/internal/model"
	"github.com/banshee-data/trackcsv/internal/units"
)

const (
	plotWidth  = 8 * vg.Inch
	plotHeight = 8 * vg.Inch
)

// NewPlot draws every spot, polygon outlines and one coloured line per
// track. Spots that belong to no track are drawn grey.
func NewPlot(g *model.Graph, title string) (*plot.Plot, error) {
	if g == nil {
		return nil, fmt.Errorf("render plot: nil graph")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = units.AxisLabel("X", g.SpaceUnit)
	p.Y.Label.Text = units.AxisLabel("Y", g.SpaceUnit)
	// Image coordinates grow downwards.
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}

	onTrack := make(map[*model.Spot]bool)
	for _, t := range g.Tracks {
		for _, s := range t.Spots {
			onTrack[s] = true
		}
	}

	var loose plotter.XYs
	for _, s := range g.Spots.All() {
		if s.Polygon != nil {
			outline := make(plotter.XYs, len(s.Polygon.Vertices))
			for i, v := range s.Polygon.Vertices {
				outline[i] = plotter.XY{X: v.X, Y: v.Y}
			}
			poly, err := plotter.NewPolygon(outline)
			if err != nil {
				return nil, fmt.Errorf("outline of %s: %w", s, err)
			}
			poly.Color = nil
			poly.LineStyle.Color = color.Gray{Y: 160}
			poly.LineStyle.Width = vg.Points(0.5)
			p.Add(poly)
		}
		if !onTrack[s] {
			loose = append(loose, plotter.XY{X: s.Position.X, Y: s.Position.Y})
		}
	}
	if len(loose) > 0 {
		sc, err := plotter.NewScatter(loose)
		if err != nil {
			return nil, fmt.Errorf("spot scatter: %w", err)
		}
		sc.GlyphStyle.Color = color.Gray{Y: 128}
		sc.GlyphStyle.Radius = vg.Points(1.5)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
	}

	colors := palette(len(g.Tracks))
	for i, t := range g.Tracks {
		pts := make(plotter.XYs, len(t.Spots))
		for j, s := range t.Spots {
			pts[j] = plotter.XY{X: s.Position.X, Y: s.Position.Y}
		}
		if len(pts) > 1 {
			ln, err := plotter.NewLine(pts)
			if err != nil {
				return nil, fmt.Errorf("track %d: %w", t.ID, err)
			}
			ln.Color = colors[i]
			ln.Width = vg.Points(1)
			p.Add(ln)
			p.Legend.Add("track "+strconv.Itoa(t.ID), ln)
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", t.ID, err)
		}
		sc.GlyphStyle.Color = colors[i]
		sc.GlyphStyle.Radius = vg.Points(2)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// WritePlot renders g in the given format ("png", "svg", "pdf") to w.
func WritePlot(w io.Writer, g *model.Graph, title, format string) error {
	p, err := NewPlot(g, title)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(plotWidth, plotHeight, format)
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	return nil
}

// WritePNG renders g as a PNG image to w.
func WritePNG(w io.Writer, g *model.Graph, title string) error {
	return WritePlot(w, g, title, "png")
}

// formatFor maps an output path to a render format.
func formatFor(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "html", "htm":
		return "html", nil
	case "png", "svg", "pdf":
		return ext, nil
	}
	return "", fmt.Errorf("unsupported render extension %q (want .html, .png, .svg or .pdf)", filepath.Ext(path))
}
