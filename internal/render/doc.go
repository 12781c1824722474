// Package render draws imported trajectory graphs: an interactive HTML
// page (go-echarts) and static plots (gonum/plot) in PNG, SVG or PDF.
package render
