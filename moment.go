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

package radish

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"github.com/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MomentState records whether a moment holds stored values or
// physical values.
type MomentState int

const (
	// Raw moments hold values as stored in the file, possibly packed.
	Raw MomentState = iota
	// Physical moments have had their scale factor and offset applied.
	Physical
)

func (s MomentState) String() string {
	if s == Physical {
		return "physical"
	}
	return "raw"
}

// MarshalText renders the state by name.
func (s MomentState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText parses a state written by MarshalText.
func (s *MomentState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "raw":
		*s = Raw
	case "physical":
		*s = Physical
	default:
		return fmt.Errorf("radish: unknown moment state %q", b)
	}
	return nil
}

// Moment holds one radar variable, such as reflectivity, over the rays
// and gates of a sweep.
type Moment struct {
	Name         string  `json:"name"`
	StandardName *string `json:"standard_name,omitempty"`
	LongName     *string `json:"long_name,omitempty"`
	Units        string  `json:"units"`

	// Data holds Rays × Gates values in row-major order. NewMoment
	// checks that the lengths agree; code that builds a Moment directly
	// must keep them consistent.
	Data  []float32 `json:"data"`
	Rays  int       `json:"rays"`
	Gates int       `json:"gates"`

	FillValue   *float32 `json:"fill_value,omitempty"`
	ScaleFactor *float32 `json:"scale_factor,omitempty"`
	AddOffset   *float32 `json:"add_offset,omitempty"`
	ValidMin    *float32 `json:"valid_min,omitempty"`
	ValidMax    *float32 `json:"valid_max,omitempty"`

	// Coordinates is the CF coordinates attribute, if any.
	Coordinates *string `json:"coordinates,omitempty"`

	Attributes map[string]string `json:"attributes,omitempty"`

	State MomentState `json:"state"`
}

// NewMoment returns a raw moment holding data, which must contain
// rays × gates values.
func NewMoment(name, units string, rays, gates int, data []float32) (*Moment, error) {
	if rays < 0 || gates < 0 || len(data) != rays*gates {
		return nil, &Error{Kind: KindConversion, Name: name,
			Err: fmt.Errorf("%d values cannot be shaped as %d rays × %d gates", len(data), rays, gates)}
	}
	return &Moment{
		Name:       name,
		Units:      units,
		Data:       data,
		Rays:       rays,
		Gates:      gates,
		Attributes: make(map[string]string),
	}, nil
}

// Shape returns the number of rays and gates.
func (m *Moment) Shape() (rays, gates int) { return m.Rays, m.Gates }

// At returns the value at the given ray and gate.
func (m *Moment) At(ray, gate int) float32 { return m.Data[ray*m.Gates+gate] }

// Ray returns the values along ray i. The returned slice shares
// storage with m.
func (m *Moment) Ray(i int) []float32 { return m.Data[i*m.Gates : (i+1)*m.Gates] }

// ApplyScaleOffset converts stored values to physical values as
// v*ScaleFactor + AddOffset. Values equal to FillValue are left
// unchanged, as are all values unless both ScaleFactor and AddOffset
// are set. Afterwards the scale factor and offset are cleared and
// the moment is Physical, so calling it again has no effect. Valid
// bounds are converted along with the data and swapped when the scale
// factor is negative.
func (m *Moment) ApplyScaleOffset() {
	if m.State == Physical || m.ScaleFactor == nil || m.AddOffset == nil {
		return
	}
	scale, offset := *m.ScaleFactor, *m.AddOffset
	for i, v := range m.Data {
		if m.FillValue != nil && v == *m.FillValue {
			continue
		}
		m.Data[i] = float32(v*scale) + offset
	}
	lo, hi := scaleBound(m.ValidMin, scale, offset), scaleBound(m.ValidMax, scale, offset)
	if scale < 0 {
		lo, hi = hi, lo
	}
	m.ValidMin, m.ValidMax = lo, hi
	m.ScaleFactor, m.AddOffset = nil, nil
	m.State = Physical
}

func scaleBound(b *float32, scale, offset float32) *float32 {
	if b == nil {
		return nil
	}
	v := float32(*b*scale) + offset
	return &v
}

// MaskInvalid replaces values equal to FillValue, and values outside
// [ValidMin, ValidMax] when both bounds are set, with sentinel.
func (m *Moment) MaskInvalid(sentinel float32) {
	bounded := m.ValidMin != nil && m.ValidMax != nil
	for i, v := range m.Data {
		switch {
		case m.FillValue != nil && v == *m.FillValue:
			m.Data[i] = sentinel
		case bounded && (v < *m.ValidMin || v > *m.ValidMax):
			m.Data[i] = sentinel
		}
	}
}

// Clone returns a deep copy of m.
func (m *Moment) Clone() *Moment {
	o := *m
	o.Data = append([]float32(nil), m.Data...)
	o.StandardName = cloneString(m.StandardName)
	o.LongName = cloneString(m.LongName)
	o.Coordinates = cloneString(m.Coordinates)
	o.FillValue = cloneFloat32(m.FillValue)
	o.ScaleFactor = cloneFloat32(m.ScaleFactor)
	o.AddOffset = cloneFloat32(m.AddOffset)
	o.ValidMin = cloneFloat32(m.ValidMin)
	o.ValidMax = cloneFloat32(m.ValidMax)
	o.Attributes = make(map[string]string, len(m.Attributes))
	for k, v := range m.Attributes {
		o.Attributes[k] = v
	}
	return &o
}

// MomentStats summarizes the valid values of a moment.
type MomentStats struct {
	Count          int
	Min, Max, Mean float64
	// StdDev is the sample standard deviation, or 0 for fewer than two
	// values.
	StdDev float64
}

// Stats returns summary statistics of the values that are neither
// NaN nor equal to the fill value.
func (m *Moment) Stats() MomentStats {
	vals := make([]float64, 0, len(m.Data))
	for _, v := range m.Data {
		if math.IsNaN(float64(v)) || (m.FillValue != nil && v == *m.FillValue) {
			continue
		}
		vals = append(vals, float64(v))
	}
	if len(vals) == 0 {
		return MomentStats{}
	}
	st := MomentStats{
		Count: len(vals),
		Min:   floats.Min(vals),
		Max:   floats.Max(vals),
	}
	if len(vals) < 2 {
		st.Mean = vals[0]
		return st
	}
	st.Mean, st.StdDev = stat.MeanStdDev(vals, nil)
	return st
}

// DenseArray returns a copy of the data as a rays × gates array.
func (m *Moment) DenseArray() *sparse.DenseArray {
	a := sparse.ZerosDense(m.Rays, m.Gates)
	for i, v := range m.Data {
		a.Elements[i] = float64(v)
	}
	return a
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneFloat32(f *float32) *float32 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
