package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/trackcsv/internal/model"
	"github.com/banshee-data/trackcsv/internal/units"
)

var viridis = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// WriteHTML renders g as a page with three charts: every spot coloured by
// frame, track paths, and the spot count per frame.
func WriteHTML(w io.Writer, g *model.Graph, title string) error {
	if g == nil {
		return fmt.Errorf("render html: nil graph")
	}
	if title == "" {
		title = "Imported tracks"
	}

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(spotScatter(g, title), trackLines(g), frameBar(g))
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

func spotScatter(g *model.Graph, title string) *charts.Scatter {
	spots := g.Spots.All()
	data := make([]opts.ScatterData, 0, len(spots))
	maxFrame := 0
	for _, s := range spots {
		if s.Frame > maxFrame {
			maxFrame = s.Frame
		}
		data = append(data, opts.ScatterData{
			Name:  s.String(),
			Value: []interface{}{s.Position.X, s.Position.Y, s.Frame},
		})
	}
	if maxFrame == 0 {
		maxFrame = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Theme: "dark", Width: "900px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("spots=%d frames=%d", len(spots), len(g.Spots.Frames()))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: units.AxisLabel("X", g.SpaceUnit), NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: units.AxisLabel("Y", g.SpaceUnit), NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxFrame),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	scatter.AddSeries("spots", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}))
	return scatter
}

func trackLines(g *model.Graph) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: "900px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: "Tracks", Subtitle: fmt.Sprintf("tracks=%d edges=%d", len(g.Tracks), len(g.Edges))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: units.AxisLabel("X", g.SpaceUnit), NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: units.AxisLabel("Y", g.SpaceUnit), NameLocation: "middle", NameGap: 30}),
	)
	colors := palette(len(g.Tracks))
	for i, t := range g.Tracks {
		data := make([]opts.LineData, 0, len(t.Spots))
		for _, s := range t.Spots {
			data = append(data, opts.LineData{Value: []interface{}{s.Position.X, s.Position.Y}})
		}
		line.AddSeries("track "+strconv.Itoa(t.ID), data,
			charts.WithLineStyleOpts(opts.LineStyle{Color: hexColor(colors[i]), Width: 1.5}),
		)
	}
	return line
}

func frameBar(g *model.Graph) *charts.Bar {
	frames := g.Spots.Frames()
	x := make([]string, len(frames))
	y := make([]opts.BarData, len(frames))
	for i, f := range frames {
		x[i] = strconv.Itoa(f)
		y[i] = opts.BarData{Value: g.Spots.NSpotsInFrame(f, false)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Spots per frame"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Frame"}),
	)
	bar.SetXAxis(x).AddSeries("spots", y)
	return bar
}
