package main

import (
	"fmt"
	"image/color"
	"maps"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// writeHistogram renders shot counts as a bar chart PNG, one bar per
// observed basis state in increasing binary order.
func writeHistogram(path string, counts map[string]int, shots int) error {
	labels := slices.Sorted(maps.Keys(counts))
	values := make(plotter.Values, len(labels))
	for i, label := range labels {
		values[i] = float64(counts[label])
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%d shots", shots)
	p.X.Label.Text = "basis state"
	p.Y.Label.Text = "counts"

	bars, err := plotter.NewBarChart(values, vg.Points(28))
	if err != nil {
		return err
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = color.RGBA{R: 0x7a, G: 0xa2, B: 0xf7, A: 0xff}
	p.Add(bars)
	p.NominalX(labels...)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
