package main

import (
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/wildstyl3r/pbegap/internal/solver"
)

// writePlot renders the symmetrized potential and salt densities as two
// stacked panels sharing the coordinate axis.
func writePlot(outputPath, modelName string, makeDir bool, fields solver.Fields) error {
	potential := plot.New()
	potential.X.Label.Text = "z-distance [nm]"
	potential.Y.Label.Text = "potential [mV]"
	phiLine, err := plotter.NewLine(xyPoints(fields.Z, fields.Phi))
	if err != nil {
		return err
	}
	potential.Add(phiLine)

	density := plot.New()
	density.X.Label.Text = "z-distance [nm]"
	density.Y.Label.Text = "c [nm^-3]"
	catLine, err := plotter.NewLine(xyPoints(fields.Z, fields.DensCat))
	if err != nil {
		return err
	}
	catLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	anLine, err := plotter.NewLine(xyPoints(fields.Z, fields.DensAn))
	if err != nil {
		return err
	}
	density.Add(catLine, anLine)
	density.Legend.Add("+", catLine)
	density.Legend.Add("-", anLine)

	img := vgimg.New(6*vg.Inch, 6*vg.Inch)
	dc := draw.New(img)
	canvases := plot.Align([][]*plot.Plot{{potential}, {density}}, draw.Tiles{Rows: 2, Cols: 1}, dc)
	potential.Draw(canvases[0][0])
	density.Draw(canvases[1][0])

	name := filepath.Join(outputPath, modelName+"_profiles.png")
	if makeDir {
		name = filepath.Join(outputPath, modelName, "profiles.png")
	}
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	defer file.Close()
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(file); err != nil {
		return err
	}
	return nil
}

func xyPoints(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts
}
