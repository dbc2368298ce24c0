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
	"reflect"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/spatialmodel/radish/internal/ncio"
)

// CfRadial1 reads NetCDF files that follow the CF/Radial version 1
// convention, where the rays of all sweeps are stored end to end
// along a single time dimension.
type CfRadial1 struct {
	// Log receives warnings about lenient parsing and debug messages
	// about skipped variables.
	Log logrus.FieldLogger
}

// NewCfRadial1 returns a CfRadial1 backend that logs to the standard
// logrus logger.
func NewCfRadial1() *CfRadial1 {
	return &CfRadial1{Log: logrus.StandardLogger()}
}

// Name is part of the Backend interface.
func (c *CfRadial1) Name() string { return "cfradial1" }

// Description is part of the Backend interface.
func (c *CfRadial1) Description() string { return "CF/Radial NetCDF format (version 1)" }

// Extensions is part of the Backend interface.
func (c *CfRadial1) Extensions() []string { return []string{"nc", "nc4", "netcdf"} }

// CanRead is part of the Backend interface.
func (c *CfRadial1) CanRead(path string) bool { return CanReadExtension(c, path) }

// coordinateVars are the per-ray and per-gate variables that are
// never moments.
var coordinateVars = map[string]bool{
	"time":      true,
	"range":     true,
	"azimuth":   true,
	"elevation": true,
}

// Moment attributes that have their own Moment fields.
var momentAttrs = map[string]bool{
	"units":         true,
	"_FillValue":    true,
	"scale_factor":  true,
	"add_offset":    true,
	"valid_min":     true,
	"valid_max":     true,
	"standard_name": true,
	"long_name":     true,
	"coordinates":   true,
}

func (c *CfRadial1) log() logrus.FieldLogger {
	if c.Log == nil {
		return logrus.StandardLogger()
	}
	return c.Log
}

func (c *CfRadial1) open(path string) (ncio.File, error) {
	f, err := ncio.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	return f, nil
}

// ScanFile is part of the Backend interface.
func (c *CfRadial1) ScanFile(path string) (*VolumeMetadata, error) {
	f, err := c.open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return c.readMetadata(f, path)
}

// ReadSweep is part of the Backend interface.
func (c *CfRadial1) ReadSweep(path string, i int) (*Sweep, error) {
	f, err := c.open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := readSweepBounds(f, path)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(t.start) {
		return nil, invalidSweepIndex(path, i)
	}
	if err = t.readLayout(f, path); err != nil {
		return nil, err
	}
	return c.readSweep(f, path, t, i)
}

// ReadVolume is part of the Backend interface.
func (c *CfRadial1) ReadVolume(path string) (*Volume, error) {
	f, err := c.open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	meta, err := c.readMetadata(f, path)
	if err != nil {
		return nil, err
	}
	t, err := c.readSweepTable(f, path)
	if err != nil {
		return nil, err
	}
	v := &Volume{
		Metadata: *meta,
		Sweeps:   make([]*Sweep, meta.NumSweeps()),
	}
	for i := range v.Sweeps {
		s, err := c.readSweep(f, path, t, i)
		if err != nil {
			return nil, err
		}
		v.Sweeps[i] = s
	}
	v.Calibration = c.readCalibration(f, path)
	c.log().WithFields(logrus.Fields{
		"path":   path,
		"sweeps": len(v.Sweeps),
	}).Debug("read volume")
	return v, nil
}

// readMetadata reads the volume metadata. It only touches global
// attributes, scalars and per-sweep variables.
func (c *CfRadial1) readMetadata(f ncio.File, path string) (*VolumeMetadata, error) {
	m := &VolumeMetadata{
		InstrumentName: optString(f, "", "instrument_name", "unknown"),
		Institution:    optString(f, "", "institution", "unknown"),
		Attributes:     globalAttributes(f),
	}
	if s, err := ncio.AttrString(f, "", "site_name"); err == nil {
		m.SiteName = &s
	}
	m.PlatformType = c.readPlatformType(f, path)

	var err error
	for _, v := range []struct {
		name string
		dst  *float64
	}{
		{"latitude", &m.Latitude},
		{"longitude", &m.Longitude},
		{"altitude", &m.Altitude},
	} {
		if *v.dst, err = ncio.Scalar(f, v.name); err != nil {
			return nil, readError(path, v.name, err)
		}
	}
	m.AltitudeAGL = optScalar(f, "altitude_agl")

	if m.TimeCoverageStart, err = readTimeCoverage(f, path, "time_coverage_start"); err != nil {
		return nil, err
	}
	if m.TimeCoverageEnd, err = readTimeCoverage(f, path, "time_coverage_end"); err != nil {
		return nil, err
	}

	sweepNumbers, err := ncio.Int32s(f, "sweep_number")
	if err != nil {
		return nil, readError(path, "sweep_number", err)
	}
	m.SweepFixedAngles, err = ncio.Float64s(f, "fixed_angle")
	if err != nil {
		return nil, readError(path, "fixed_angle", err)
	}
	if len(m.SweepFixedAngles) != len(sweepNumbers) {
		return nil, conversionError(path, "fixed_angle", "%d fixed angles for %d sweeps",
			len(m.SweepFixedAngles), len(sweepNumbers))
	}
	m.SweepGroupNames = GenerateSweepNames(len(sweepNumbers))

	if v := optScalar(f, "volume_number"); v != nil && *v >= 0 {
		m.VolumeNumber = uint32(*v)
	}
	m.Frequency = optScalar(f, "frequency")
	return m, nil
}

func (c *CfRadial1) readPlatformType(f ncio.File, path string) *PlatformType {
	s, err := ncio.AttrString(f, "", "platform_type")
	if err != nil {
		rows, verr := ncio.Strings(f, "platform_type")
		if verr != nil || len(rows) == 0 {
			return nil
		}
		s = rows[0]
	}
	p, ok := ParsePlatformType(s)
	if !ok {
		c.log().WithFields(logrus.Fields{
			"path":          path,
			"platform_type": s,
		}).Debug("unrecognized platform type")
		return nil
	}
	return &p
}

func readTimeCoverage(f ncio.File, path, name string) (time.Time, error) {
	s, err := ncio.AttrString(f, "", name)
	if err != nil {
		// Some producers store the coverage times as text variables.
		if rows, verr := ncio.Strings(f, name); verr == nil && len(rows) > 0 {
			s, err = rows[0], nil
		}
	}
	if err != nil {
		return time.Time{}, &Error{Kind: KindMissingAttribute, Path: path, Name: name, Err: err}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, &Error{Kind: KindMissingAttribute, Path: path, Name: name, Err: err}
	}
	return t.UTC(), nil
}

// sweepTable holds the per-sweep variables shared by all sweep reads.
type sweepTable struct {
	start, end   []int32
	numbers      []int32
	fixedAngles  []float64
	modes        []string
	numRays      int
	rng          []float32
	followModes  []string
	prtModes     []string
	polarization []string
	scanRates    []float64
	indexed      []string
	angleRes     []float64
}

func (c *CfRadial1) readSweepTable(f ncio.File, path string) (*sweepTable, error) {
	t, err := readSweepBounds(f, path)
	if err != nil {
		return nil, err
	}
	if err = t.readLayout(f, path); err != nil {
		return nil, err
	}
	return t, nil
}

// readSweepBounds reads only the start and end ray indices, which are
// enough to validate a sweep index.
func readSweepBounds(f ncio.File, path string) (*sweepTable, error) {
	t := new(sweepTable)
	var err error
	if t.start, err = ncio.Int32s(f, "sweep_start_ray_index"); err != nil {
		return nil, readError(path, "sweep_start_ray_index", err)
	}
	if t.end, err = ncio.Int32s(f, "sweep_end_ray_index"); err != nil {
		return nil, readError(path, "sweep_end_ray_index", err)
	}
	if len(t.start) != len(t.end) {
		return nil, conversionError(path, "sweep_end_ray_index", "%d end indices for %d start indices",
			len(t.end), len(t.start))
	}
	return t, nil
}

// readLayout fills in the rest of the table after readSweepBounds.
func (t *sweepTable) readLayout(f ncio.File, path string) error {
	var err error
	if t.numbers, err = ncio.Int32s(f, "sweep_number"); err != nil {
		return readError(path, "sweep_number", err)
	}
	if t.fixedAngles, err = ncio.Float64s(f, "fixed_angle"); err != nil {
		return readError(path, "fixed_angle", err)
	}
	if t.modes, err = ncio.Strings(f, "sweep_mode"); err != nil {
		return readError(path, "sweep_mode", err)
	}
	l := f.Lengths("time")
	if len(l) != 1 {
		return readError(path, "time", ncio.ErrNotFound)
	}
	t.numRays = l[0]
	if t.rng, err = ncio.Float32s(f, "range"); err != nil {
		return readError(path, "range", err)
	}

	t.followModes, _ = ncio.Strings(f, "follow_mode")
	t.prtModes, _ = ncio.Strings(f, "prt_mode")
	t.polarization, _ = ncio.Strings(f, "polarization_mode")
	t.scanRates, _ = ncio.Float64s(f, "target_scan_rate")
	t.indexed, _ = ncio.Strings(f, "rays_are_indexed")
	t.angleRes, _ = ncio.Float64s(f, "ray_angle_res")
	return nil
}

// readSweep reads sweep i, whose rays are the inclusive range
// [sweep_start_ray_index[i], sweep_end_ray_index[i]] of the time
// dimension.
func (c *CfRadial1) readSweep(f ncio.File, path string, t *sweepTable, i int) (*Sweep, error) {
	if i < 0 || i >= len(t.start) {
		return nil, invalidSweepIndex(path, i)
	}
	start, end := int(t.start[i]), int(t.end[i])
	name := fmt.Sprintf("sweep_%d", i)
	if start < 0 || end < start || end >= t.numRays {
		return nil, conversionError(path, name, "ray range [%d, %d] is outside of the %d rays in the file",
			start, end, t.numRays)
	}
	numRays := end - start + 1

	s := &Sweep{
		Metadata: c.sweepMetadata(f, path, t, i, start),
		Moments:  make(map[string]*Moment),
		Coordinates: Coordinates{
			Range: append([]float32(nil), t.rng...),
		},
	}
	var err error
	if s.Coordinates.Time, err = ncio.Float64Range(f, "time", start, end+1); err != nil {
		return nil, readError(path, "time", err)
	}
	if s.Coordinates.Azimuth, err = ncio.Float32Range(f, "azimuth", start, end+1); err != nil {
		return nil, readError(path, "azimuth", err)
	}
	if s.Coordinates.Elevation, err = ncio.Float32Range(f, "elevation", start, end+1); err != nil {
		return nil, readError(path, "elevation", err)
	}

	for _, v := range f.Variables() {
		if coordinateVars[v] || len(f.Dimensions(v)) != 2 {
			continue
		}
		m, err := readMoment(f, path, v, start, numRays, len(t.rng))
		if err != nil {
			c.log().WithFields(logrus.Fields{
				"path":     path,
				"sweep":    i,
				"variable": v,
			}).WithError(err).Debug("skipping variable")
			continue
		}
		s.Moments[v] = m
	}
	return s, nil
}

func (c *CfRadial1) sweepMetadata(f ncio.File, path string, t *sweepTable, i, start int) SweepMetadata {
	m := SweepMetadata{SweepNumber: uint32(i)}
	if i < len(t.numbers) && t.numbers[i] >= 0 {
		m.SweepNumber = uint32(t.numbers[i])
	}
	if i < len(t.fixedAngles) {
		m.FixedAngle = t.fixedAngles[i]
	}
	var mode string
	if i < len(t.modes) {
		mode = t.modes[i]
	}
	var ok bool
	if m.SweepMode, ok = ParseSweepMode(mode); !ok {
		c.log().WithFields(logrus.Fields{
			"path":       path,
			"sweep":      i,
			"sweep_mode": mode,
		}).Warn("unrecognized sweep mode; assuming azimuth_surveillance")
	}

	if i < len(t.followModes) {
		if fm, ok := ParseFollowMode(t.followModes[i]); ok {
			m.FollowMode = &fm
		}
	}
	if i < len(t.prtModes) {
		if pm, ok := ParsePRTMode(t.prtModes[i]); ok {
			m.PRTMode = &pm
		}
	}
	if i < len(t.polarization) && t.polarization[i] != "" {
		p := t.polarization[i]
		m.PolarizationMode = &p
	}
	if i < len(t.scanRates) {
		r := t.scanRates[i]
		m.TargetScanRate = &r
	}
	if i < len(t.indexed) {
		switch strings.ToLower(t.indexed[i]) {
		case "true":
			b := true
			m.RaysAreIndexed = &b
		case "false":
			b := false
			m.RaysAreIndexed = &b
		}
	}
	if i < len(t.angleRes) {
		r := t.angleRes[i]
		m.RayAngleResolution = &r
	}

	if prt := optRayValue(f, "prt", start); prt != nil && *prt > 0 {
		prf := 1 / *prt
		m.PRF = &prf
	}
	m.NyquistVelocity = optRayValue(f, "nyquist_velocity", start)
	m.UnambiguousRange = optRayValue(f, "unambiguous_range", start)
	return m
}

// readMoment reads rays [start, start+numRays) of the two-dimensional
// variable name.
func readMoment(f ncio.File, path, name string, start, numRays, numGates int) (*Moment, error) {
	data, err := ncio.Float32Range(f, name, start, start+numRays)
	if err != nil {
		return nil, readError(path, name, err)
	}
	m, err := NewMoment(name, optString(f, name, "units", "unknown"), numRays, numGates, data)
	if err != nil {
		return nil, &Error{Kind: KindConversion, Path: path, Name: name, Err: err}
	}
	m.FillValue = optFloat32(f, name, "_FillValue")
	m.ScaleFactor = optFloat32(f, name, "scale_factor")
	m.AddOffset = optFloat32(f, name, "add_offset")
	m.ValidMin = optFloat32(f, name, "valid_min")
	m.ValidMax = optFloat32(f, name, "valid_max")
	m.StandardName = optStringPtr(f, name, "standard_name")
	m.LongName = optStringPtr(f, name, "long_name")
	m.Coordinates = optStringPtr(f, name, "coordinates")
	for _, a := range f.Attributes(name) {
		if momentAttrs[a] {
			continue
		}
		if s, err := ncio.AttrString(f, name, a); err == nil {
			m.Attributes[a] = s
		}
	}
	return m, nil
}

// readCalibration returns the first entry of the r_calib variables, or
// nil if the file has none.
func (c *CfRadial1) readCalibration(f ncio.File, path string) *Calibration {
	cal := new(Calibration)
	found := false
	for name, field := range cal.calibrationFields() {
		if v := optScalar(f, name); v != nil {
			*field = v
			found = true
		}
	}
	if rows, err := ncio.Strings(f, "r_calib_time"); err == nil && len(rows) > 0 {
		if t, err := time.Parse(time.RFC3339, rows[0]); err == nil {
			t = t.UTC()
			cal.Time = &t
			found = true
		} else {
			c.log().WithFields(logrus.Fields{"path": path}).WithError(err).Debug("unparsable r_calib_time")
		}
	}
	if !found {
		return nil
	}
	return cal
}

func optString(f ncio.File, v, name, def string) string {
	s, err := ncio.AttrString(f, v, name)
	if err != nil {
		return def
	}
	return s
}

func optStringPtr(f ncio.File, v, name string) *string {
	s, err := ncio.AttrString(f, v, name)
	if err != nil {
		return nil
	}
	return &s
}

func optFloat32(f ncio.File, v, name string) *float32 {
	x, err := ncio.AttrFloat64(f, v, name)
	if err != nil {
		return nil
	}
	x32 := float32(x)
	return &x32
}

func optScalar(f ncio.File, v string) *float64 {
	if !ncio.HasVariable(f, v) {
		return nil
	}
	x, err := ncio.Scalar(f, v)
	if err != nil {
		return nil
	}
	return &x
}

// optRayValue returns the value of per-ray variable v at ray i.
func optRayValue(f ncio.File, v string, i int) *float64 {
	if !ncio.HasVariable(f, v) {
		return nil
	}
	x, err := ncio.Float64Range(f, v, i, i+1)
	if err != nil || len(x) != 1 {
		return nil
	}
	return &x[0]
}

// globalAttributes renders every global attribute as text.
func globalAttributes(f ncio.File) map[string]string {
	out := make(map[string]string)
	for _, a := range f.Attributes("") {
		if v, ok := f.Attribute("", a); ok {
			out[a] = attrText(v)
		}
	}
	return out
}

func attrText(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return fmt.Sprint(v)
	}
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = fmt.Sprint(rv.Index(i).Interface())
	}
	return strings.Join(parts, " ")
}
