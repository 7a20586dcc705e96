/*
 * profile.go, part of goMMFF.
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 * Copyright 2024 The goMMFF Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package chemplot

import (
	"fmt"
	"image/color"

	"github.com/rmera/gommff/confsearch"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Size of the saved figures.
const (
	Width  = 4 * vg.Inch
	Height = 3 * vg.Inch
)

func basicProfilePlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "Dihedral (deg)"
	p.Y.Label.Text = "Energy (kcal/mol)"
	//Constant x axis
	p.X.Min = -180
	p.X.Max = 180
	p.Add(plotter.NewGrid())
	return p
}

// TorsionProfile plots the energy profile in points, and saves it to filename.
// The format is determined by the extension of filename (png, svg, pdf, eps...).
// The points which indexes are in tag (if any) are highlighted.
func TorsionProfile(points []confsearch.ScanPoint, tag []int, title, filename string) error {
	if len(points) == 0 {
		return fmt.Errorf("chemplot: no points to plot")
	}
	p := basicProfilePlot(title)
	pts := make(plotter.XYs, 0, len(points))
	tagged := make(plotter.XYs, 0, len(tag))
	for i, v := range points {
		pts = append(pts, plotter.XY{X: v.Angle, Y: v.Energy})
		if isInInt(tag, i) {
			tagged = append(tagged, plotter.XY{X: v.Angle, Y: v.Energy})
		}
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	l.LineStyle.Width = vg.Points(1)
	l.LineStyle.Color = color.RGBA{B: 200, A: 255}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(2)
	s.GlyphStyle.Color = color.RGBA{B: 200, A: 255}
	p.Add(l, s)
	if len(tagged) > 0 {
		t, err := plotter.NewScatter(tagged)
		if err != nil {
			return err
		}
		t.GlyphStyle.Shape = draw.PyramidGlyph{}
		t.GlyphStyle.Radius = vg.Points(4)
		t.GlyphStyle.Color = color.RGBA{R: 255, A: 255}
		p.Add(t)
	}
	return p.Save(Width, Height, filename)
}

// EnsembleEnergies plots the relative energies of a conformer ensemble
// as a bar chart, and saves it to filename.
func EnsembleEnergies(E *confsearch.Ensemble, title, filename string) error {
	if E == nil || E.Len() == 0 {
		return fmt.Errorf("chemplot: empty ensemble")
	}
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "Conformer"
	p.Y.Label.Text = "Relative energy (kcal/mol)"
	b, err := plotter.NewBarChart(plotter.Values(E.RelativeEnergies()), vg.Points(10))
	if err != nil {
		return err
	}
	b.Color = color.RGBA{G: 150, B: 150, A: 255}
	b.LineStyle.Width = vg.Length(0)
	p.Add(b)
	return p.Save(Width, Height, filename)
}
