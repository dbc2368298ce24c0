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

// Package radartest writes small synthetic CF/Radial version 1 files for
// use in tests.
package radartest

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/ctessum/cdf"
)

// Moment describes a ray × gate field variable.
type Moment struct {
	Name, Units            string
	StandardName, LongName string
	Coordinates            string

	// Short stores the values as 16-bit integers instead of floats.
	Short bool

	FillValue, ScaleFactor, AddOffset *float64
	ValidMin, ValidMax                *float64

	// Value returns the stored value for a ray, counted from the start
	// of the file, and a gate. If nil, RawValue is used.
	Value func(ray, gate int) float64
}

// RawValue is the default stored value of a moment cell.
func RawValue(ray, gate int) float64 {
	return float64((ray*7 + gate) % 100)
}

func (m Moment) value(ray, gate int) float64 {
	if m.Value == nil {
		return RawValue(ray, gate)
	}
	return m.Value(ray, gate)
}

// Options describes the contents of a synthetic file. Empty strings
// and nil pointers cause the corresponding attribute or variable to
// be left out of the file.
type Options struct {
	InstrumentName, Institution, SiteName string
	PlatformType                          string
	// PlatformTypeVariable writes platform_type as a variable rather
	// than a global attribute.
	PlatformTypeVariable bool

	Start, End time.Time

	Latitude, Longitude, Altitude float64
	AltitudeAGL                   *float64
	VolumeNumber                  *int32
	Frequency                     []float64

	// RaysPerSweep gives the number of rays in each sweep.
	RaysPerSweep []int
	Gates        int
	GateSpacing  float64
	FixedAngles  []float64
	SweepModes   []string
	FollowModes  []string
	PRTModes     []string

	// PRT, when positive, is written as the per-ray pulse repetition time.
	PRT              float64
	NyquistVelocity  float64
	UnambiguousRange float64

	// Calibration values keyed by variable name, such as
	// "r_calib_pulse_width".
	Calibration     map[string]float64
	CalibrationTime string

	Moments []Moment

	// Omit names variables and global attributes that are not written.
	Omit []string

	// StartRayIndex and EndRayIndex override the computed sweep
	// boundaries when not nil.
	StartRayIndex, EndRayIndex []int32
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Default returns options for a two-sweep file with four rays per
// sweep, five gates and one packed reflectivity moment.
func Default() Options {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return Options{
		InstrumentName: "KTST",
		Institution:    "Radish test suite",
		Start:          start,
		End:            start.Add(5 * time.Minute),
		Latitude:       40.5,
		Longitude:      -105.25,
		Altitude:       1600,
		RaysPerSweep:   []int{4, 4},
		Gates:          5,
		GateSpacing:    250,
		FixedAngles:    []float64{0.5, 1.5},
		SweepModes:     []string{"azimuth_surveillance", "azimuth_surveillance"},
		Moments: []Moment{
			{
				Name:         "DBZH",
				Units:        "dBZ",
				StandardName: "equivalent_reflectivity_factor",
				LongName:     "Equivalent reflectivity factor H",
				FillValue:    Float(-9999),
				ScaleFactor:  Float(0.5),
				AddOffset:    Float(-10),
			},
		},
	}
}

// NumRays returns the total number of rays in the file.
func (o Options) NumRays() int {
	n := 0
	for _, r := range o.RaysPerSweep {
		n += r
	}
	return n
}

// SweepStart returns the index of the first ray of sweep i.
func (o Options) SweepStart(i int) int {
	n := 0
	for _, r := range o.RaysPerSweep[:i] {
		n += r
	}
	return n
}

const stringLength = 32

type variable struct {
	name  string
	dims  []string
	data  interface{}
	attrs []attribute
}

type attribute struct {
	name string
	val  interface{}
}

// Write writes a CF/Radial version 1 file described by o to path.
func Write(path string, o Options) error {
	omit := make(map[string]bool)
	for _, n := range o.Omit {
		omit[n] = true
	}
	nSweeps := len(o.RaysPerSweep)
	nRays := o.NumRays()
	if nSweeps == 0 || nRays == 0 || o.Gates <= 0 {
		return fmt.Errorf("radartest: file must have at least one sweep, ray and gate")
	}

	dims := []string{"time", "range", "sweep", "string_length"}
	lengths := []int{nRays, o.Gates, nSweeps, stringLength}
	if len(o.Frequency) > 0 {
		dims = append(dims, "frequency")
		lengths = append(lengths, len(o.Frequency))
	}
	if len(o.Calibration) > 0 || o.CalibrationTime != "" {
		dims = append(dims, "r_calib")
		lengths = append(lengths, 1)
	}

	var globals []attribute
	addGlobal := func(name string, val interface{}) {
		if !omit[name] {
			globals = append(globals, attribute{name, val})
		}
	}
	addGlobal("Conventions", "CF/Radial")
	if o.InstrumentName != "" {
		addGlobal("instrument_name", o.InstrumentName)
	}
	if o.Institution != "" {
		addGlobal("institution", o.Institution)
	}
	if o.SiteName != "" {
		addGlobal("site_name", o.SiteName)
	}
	if o.PlatformType != "" && !o.PlatformTypeVariable {
		addGlobal("platform_type", o.PlatformType)
	}
	if !o.Start.IsZero() {
		addGlobal("time_coverage_start", o.Start.UTC().Format(time.RFC3339))
	}
	if !o.End.IsZero() {
		addGlobal("time_coverage_end", o.End.UTC().Format(time.RFC3339))
	}

	var vars []variable
	add := func(v variable) {
		if !omit[v.name] {
			vars = append(vars, v)
		}
	}
	add(variable{name: "latitude", data: []float64{o.Latitude}})
	add(variable{name: "longitude", data: []float64{o.Longitude}})
	add(variable{name: "altitude", data: []float64{o.Altitude}})
	if o.AltitudeAGL != nil {
		add(variable{name: "altitude_agl", data: []float64{*o.AltitudeAGL}})
	}
	if o.VolumeNumber != nil {
		add(variable{name: "volume_number", data: []int32{*o.VolumeNumber}})
	}
	if len(o.Frequency) > 0 {
		add(variable{name: "frequency", dims: []string{"frequency"}, data: toFloat32(o.Frequency)})
	}
	if o.PlatformType != "" && o.PlatformTypeVariable {
		add(variable{name: "platform_type", dims: []string{"string_length"}, data: chars([]string{o.PlatformType})})
	}

	sweepNumber := make([]int32, nSweeps)
	startIdx := make([]int32, nSweeps)
	endIdx := make([]int32, nSweeps)
	for i := range o.RaysPerSweep {
		sweepNumber[i] = int32(i)
		startIdx[i] = int32(o.SweepStart(i))
		endIdx[i] = startIdx[i] + int32(o.RaysPerSweep[i]) - 1
	}
	if o.StartRayIndex != nil {
		startIdx = o.StartRayIndex
	}
	if o.EndRayIndex != nil {
		endIdx = o.EndRayIndex
	}
	sweepDim := []string{"sweep"}
	add(variable{name: "sweep_number", dims: sweepDim, data: sweepNumber})
	add(variable{name: "fixed_angle", dims: sweepDim, data: o.FixedAngles,
		attrs: []attribute{{"units", "degrees"}}})
	add(variable{name: "sweep_start_ray_index", dims: sweepDim, data: startIdx})
	add(variable{name: "sweep_end_ray_index", dims: sweepDim, data: endIdx})
	textDims := []string{"sweep", "string_length"}
	add(variable{name: "sweep_mode", dims: textDims, data: chars(o.SweepModes)})
	if o.FollowModes != nil {
		add(variable{name: "follow_mode", dims: textDims, data: chars(o.FollowModes)})
	}
	if o.PRTModes != nil {
		add(variable{name: "prt_mode", dims: textDims, data: chars(o.PRTModes)})
	}

	t := make([]float64, nRays)
	az := make([]float32, nRays)
	el := make([]float32, nRays)
	for s, n := range o.RaysPerSweep {
		first := o.SweepStart(s)
		for r := 0; r < n; r++ {
			i := first + r
			t[i] = float64(i) * 0.5
			az[i] = float32(r) * 360 / float32(n)
			el[i] = float32(o.FixedAngles[s])
		}
	}
	rng := make([]float32, o.Gates)
	for g := range rng {
		rng[g] = float32(float64(g)*o.GateSpacing + o.GateSpacing/2)
	}
	timeDim := []string{"time"}
	add(variable{name: "time", dims: timeDim, data: t,
		attrs: []attribute{{"units", "seconds since " + o.Start.UTC().Format(time.RFC3339)}}})
	add(variable{name: "range", dims: []string{"range"}, data: rng,
		attrs: []attribute{{"units", "meters"}}})
	add(variable{name: "azimuth", dims: timeDim, data: az,
		attrs: []attribute{{"units", "degrees"}}})
	add(variable{name: "elevation", dims: timeDim, data: el,
		attrs: []attribute{{"units", "degrees"}}})
	if o.PRT > 0 {
		add(variable{name: "prt", dims: timeDim, data: constant(nRays, o.PRT)})
	}
	if o.NyquistVelocity > 0 {
		add(variable{name: "nyquist_velocity", dims: timeDim, data: constant(nRays, o.NyquistVelocity)})
	}
	if o.UnambiguousRange > 0 {
		add(variable{name: "unambiguous_range", dims: timeDim, data: constant(nRays, o.UnambiguousRange)})
	}

	calNames := make([]string, 0, len(o.Calibration))
	for name := range o.Calibration {
		calNames = append(calNames, name)
	}
	sort.Strings(calNames)
	for _, name := range calNames {
		add(variable{name: name, dims: []string{"r_calib"}, data: []float32{float32(o.Calibration[name])}})
	}
	if o.CalibrationTime != "" {
		add(variable{name: "r_calib_time", dims: []string{"r_calib", "string_length"}, data: chars([]string{o.CalibrationTime})})
	}

	for _, m := range o.Moments {
		add(momentVariable(m, nRays, o.Gates))
	}

	return write(path, dims, lengths, globals, vars)
}

func momentVariable(m Moment, nRays, nGates int) variable {
	v := variable{name: m.Name, dims: []string{"time", "range"}}
	if m.Short {
		d := make([]int16, nRays*nGates)
		for r := 0; r < nRays; r++ {
			for g := 0; g < nGates; g++ {
				d[r*nGates+g] = int16(m.value(r, g))
			}
		}
		v.data = d
	} else {
		d := make([]float32, nRays*nGates)
		for r := 0; r < nRays; r++ {
			for g := 0; g < nGates; g++ {
				d[r*nGates+g] = float32(m.value(r, g))
			}
		}
		v.data = d
	}
	text := func(name, val string) {
		if val != "" {
			v.attrs = append(v.attrs, attribute{name, val})
		}
	}
	text("units", m.Units)
	text("standard_name", m.StandardName)
	text("long_name", m.LongName)
	text("coordinates", m.Coordinates)
	num := func(name string, val *float64, packed bool) {
		if val == nil {
			return
		}
		if packed && m.Short {
			v.attrs = append(v.attrs, attribute{name, []int16{int16(*val)}})
			return
		}
		v.attrs = append(v.attrs, attribute{name, []float32{float32(*val)}})
	}
	num("_FillValue", m.FillValue, true)
	num("scale_factor", m.ScaleFactor, false)
	num("add_offset", m.AddOffset, false)
	num("valid_min", m.ValidMin, false)
	num("valid_max", m.ValidMax, false)
	return v
}

func write(path string, dims []string, lengths []int, globals []attribute, vars []variable) error {
	h := cdf.NewHeader(dims, lengths)
	for _, a := range globals {
		h.AddAttribute("", a.name, a.val)
	}
	for _, v := range vars {
		h.AddVariable(v.name, v.dims, v.data)
		for _, a := range v.attrs {
			h.AddAttribute(v.name, a.name, a.val)
		}
	}
	h.Define()

	w, err := os.Create(path)
	if err != nil {
		return err
	}
	defer w.Close()
	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("radartest: creating %s: %v", path, err)
	}
	for _, v := range vars {
		// The writer reports io.EOF once it reaches the end of a
		// variable, which is where a whole-variable write finishes.
		if _, err := f.Writer(v.name, nil, nil).Write(v.data); err != nil && err != io.EOF {
			return fmt.Errorf("radartest: writing variable %s: %v", v.name, err)
		}
	}
	if err := cdf.UpdateNumRecs(w); err != nil {
		return err
	}
	return w.Close()
}

// chars packs strings into fixed-width character rows. The result is a
// string so that the variable is stored as NC_CHAR rather than NC_BYTE.
func chars(rows []string) string {
	out := make([]byte, len(rows)*stringLength)
	for i, r := range rows {
		copy(out[i*stringLength:(i+1)*stringLength], r)
	}
	return string(out)
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

func constant(n int, v float64) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(v)
	}
	return out
}
