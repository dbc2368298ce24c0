/*
Copyright © 2024 the Radish authors.
This file is part of Radish.

Radish is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Radish is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Radish.  If not, see <http://www.gnu.org/licenses/>.
*/

package radishutil

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"github.com/spatialmodel/radish"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// sweepGrid is a plotter.GridXYZ with one column per gate and one row
// per ray. Missing values are NaN.
type sweepGrid struct {
	data    *sparse.DenseArray
	ranges  []float32
	azimuth []float32
	fill    *float32
}

func (g sweepGrid) Dims() (c, r int) { return len(g.ranges), len(g.azimuth) }

func (g sweepGrid) Z(c, r int) float64 {
	v := g.data.Get(r, c)
	if g.fill != nil && v == float64(*g.fill) {
		return math.NaN()
	}
	return v
}

func (g sweepGrid) X(c int) float64 { return float64(g.ranges[c]) }
func (g sweepGrid) Y(r int) float64 { return float64(g.azimuth[r]) }

// minMax returns the range of the values in g, skipping missing values.
func (g sweepGrid) minMax() (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	cols, rows := g.Dims()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := g.Z(c, r)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			min = math.Min(min, v)
			max = math.Max(max, v)
			ok = true
		}
	}
	return
}

// Plot saves a heat map of the named moment of s, with range on the
// horizontal axis and azimuth on the vertical axis, to file. The image
// format is chosen from the file extension. Fill values and NaN values
// are left blank.
func Plot(s *radish.Sweep, momentName, file string) error {
	m, ok := s.Moment(momentName)
	if !ok {
		return fmt.Errorf("radishutil: plot: sweep has no moment %s", momentName)
	}
	g := sweepGrid{
		data:    m.DenseArray(),
		ranges:  s.Coordinates.Range,
		azimuth: s.Coordinates.Azimuth,
		fill:    m.FillValue,
	}
	if c, r := g.Dims(); c == 0 || r == 0 {
		return fmt.Errorf("radishutil: plot: moment %s is empty", momentName)
	}
	min, max, ok := g.minMax()
	if !ok {
		return fmt.Errorf("radishutil: plot: moment %s has no valid values", momentName)
	}
	if max == min {
		max = min + 1
	}

	cm := moreland.ExtendedBlackBody()
	cm.SetMin(min)
	cm.SetMax(max)
	h := plotter.NewHeatMap(g, cm.Palette(255))
	h.Min, h.Max = min, max

	p, err := plot.New()
	if err != nil {
		return err
	}
	p.Title.Text = fmt.Sprintf("%s (%s), fixed angle %g°", momentName, m.Units, s.Metadata.FixedAngle)
	p.X.Label.Text = "Range (m)"
	p.Y.Label.Text = "Azimuth (degrees)"
	p.Add(h)

	if err := p.Save(6*vg.Inch, 5*vg.Inch, file); err != nil {
		return fmt.Errorf("radishutil: plot: %v", err)
	}
	return nil
}
