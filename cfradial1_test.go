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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatialmodel/radish/internal/radartest"
)

func writeFile(t *testing.T, o radartest.Options) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "volume.nc")
	require.NoError(t, radartest.Write(path, o))
	return path
}

func quietBackend() (*CfRadial1, *test.Hook) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return &CfRadial1{Log: log}, hook
}

// packedValue is the stored reflectivity of the two-sweep scenario,
// with fill values scattered through the volume.
func packedValue(ray, gate int) float64 {
	if (ray+gate)%13 == 0 {
		return -9999
	}
	return float64((ray*3 + gate) % 120)
}

func TestReadVolumeTwoSweeps(t *testing.T) {
	o := radartest.Default()
	o.RaysPerSweep = []int{360, 360}
	o.Gates = 100
	o.Moments[0].Value = packedValue
	path := writeFile(t, o)

	b, _ := quietBackend()
	vol, err := b.ReadVolume(path)
	require.NoError(t, err)
	require.NoError(t, vol.Validate())
	require.Equal(t, 2, vol.NumSweeps())
	assert.Equal(t, []string{"sweep_0", "sweep_1"}, vol.Metadata.SweepGroupNames)

	for i, s := range vol.Sweeps {
		first := o.SweepStart(i)
		assert.Equal(t, 360, s.NumRays())
		assert.Equal(t, 100, s.NumGates())
		assert.Equal(t, uint32(i), s.Metadata.SweepNumber)
		assert.Equal(t, o.FixedAngles[i], s.Metadata.FixedAngle)
		assert.Equal(t, Azimuth, s.Metadata.SweepMode)
		assert.Equal(t, float64(first)*0.5, s.Coordinates.Time[0])
		assert.Equal(t, float64(first+359)*0.5, s.Coordinates.Time[359])
		assert.Equal(t, float32(o.FixedAngles[i]), s.Coordinates.Elevation[0])
		assert.Equal(t, float32(125), s.Coordinates.Range[0])

		dbz, ok := s.Moment(DBZH)
		require.True(t, ok)
		r, g := dbz.Shape()
		assert.Equal(t, [2]int{360, 100}, [2]int{r, g})
		assert.Equal(t, "dBZ", dbz.Units)
		require.NotNil(t, dbz.StandardName)
		assert.Equal(t, "equivalent_reflectivity_factor", *dbz.StandardName)
		assert.Equal(t, Raw, dbz.State)
		assert.Equal(t, float32(packedValue(first+5, 7)), dbz.At(5, 7))

		dbz.ApplyScaleOffset()
		for ray := 0; ray < r; ray++ {
			for gate := 0; gate < g; gate++ {
				raw := float32(packedValue(first+ray, gate))
				want := raw*0.5 - 10
				if raw == -9999 {
					want = -9999
				}
				if dbz.At(ray, gate) != want {
					t.Fatalf("sweep %d ray %d gate %d: got %g, want %g", i, ray, gate, dbz.At(ray, gate), want)
				}
			}
		}
	}
}

func TestReadSweepRayCount(t *testing.T) {
	o := radartest.Default()
	o.RaysPerSweep = []int{3, 5, 2}
	o.FixedAngles = []float64{0.5, 1.5, 2.5}
	o.SweepModes = []string{"ppi", "rhi", "sector"}
	path := writeFile(t, o)

	b, _ := quietBackend()
	modes := []SweepMode{Azimuth, Elevation, Sector}
	for i, n := range o.RaysPerSweep {
		s, err := b.ReadSweep(path, i)
		require.NoError(t, err)
		assert.Equal(t, n, s.NumRays())
		assert.Equal(t, modes[i], s.Metadata.SweepMode)
		require.NoError(t, s.Validate())
	}

	_, err := b.ReadSweep(path, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, KindInvalidSweepIndex)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 3, e.Index)
	assert.Contains(t, err.Error(), "3")

	_, err = b.ReadSweep(path, -1)
	assert.ErrorIs(t, err, KindInvalidSweepIndex)
}

func TestScanFile(t *testing.T) {
	o := radartest.Default()
	o.SiteName = "Test Site"
	o.PlatformType = "Aircraft"
	o.AltitudeAGL = radartest.Float(12)
	vn := int32(7)
	o.VolumeNumber = &vn
	o.Frequency = []float64{2.5e9}
	path := writeFile(t, o)

	b, _ := quietBackend()
	m, err := b.ScanFile(path)
	require.NoError(t, err)
	assert.Equal(t, "KTST", m.InstrumentName)
	assert.Equal(t, "Radish test suite", m.Institution)
	require.NotNil(t, m.SiteName)
	assert.Equal(t, "Test Site", *m.SiteName)
	require.NotNil(t, m.PlatformType)
	assert.Equal(t, PlatformAircraft, *m.PlatformType)
	assert.Equal(t, 40.5, m.Latitude)
	assert.Equal(t, -105.25, m.Longitude)
	assert.Equal(t, 1600.0, m.Altitude)
	require.NotNil(t, m.AltitudeAGL)
	assert.Equal(t, 12.0, *m.AltitudeAGL)
	assert.True(t, o.Start.Equal(m.TimeCoverageStart))
	assert.True(t, o.End.Equal(m.TimeCoverageEnd))
	assert.Equal(t, time.UTC, m.TimeCoverageStart.Location())
	assert.Equal(t, []float64{0.5, 1.5}, m.SweepFixedAngles)
	assert.Equal(t, 2, m.NumSweeps())
	assert.Equal(t, uint32(7), m.VolumeNumber)
	require.NotNil(t, m.Frequency)
	assert.InEpsilon(t, 2.5e9, *m.Frequency, 1e-6)
	assert.Equal(t, "CF/Radial", m.Attributes["Conventions"])
	require.NoError(t, m.Validate())
}

func TestScanFileDefaults(t *testing.T) {
	o := radartest.Default()
	o.InstrumentName = ""
	o.Institution = ""
	o.PlatformType = "submarine"
	path := writeFile(t, o)

	b, _ := quietBackend()
	m, err := b.ScanFile(path)
	require.NoError(t, err)
	assert.Equal(t, "unknown", m.InstrumentName)
	assert.Equal(t, "unknown", m.Institution)
	assert.Nil(t, m.PlatformType)
	assert.Nil(t, m.SiteName)
	assert.Nil(t, m.AltitudeAGL)
	assert.Nil(t, m.Frequency)
	assert.Equal(t, uint32(0), m.VolumeNumber)
}

func TestPlatformTypeVariable(t *testing.T) {
	o := radartest.Default()
	o.PlatformType = "Ship"
	o.PlatformTypeVariable = true
	path := writeFile(t, o)

	b, _ := quietBackend()
	m, err := b.ScanFile(path)
	require.NoError(t, err)
	require.NotNil(t, m.PlatformType)
	assert.Equal(t, PlatformShip, *m.PlatformType)
}

func TestScanFileMissing(t *testing.T) {
	tests := []struct {
		omit string
		kind Kind
	}{
		{"time_coverage_start", KindMissingAttribute},
		{"time_coverage_end", KindMissingAttribute},
		{"latitude", KindMissingVariable},
		{"longitude", KindMissingVariable},
		{"altitude", KindMissingVariable},
		{"sweep_number", KindMissingVariable},
		{"fixed_angle", KindMissingVariable},
	}
	b, _ := quietBackend()
	for _, test := range tests {
		t.Run(test.omit, func(t *testing.T) {
			o := radartest.Default()
			o.Omit = []string{test.omit}
			path := writeFile(t, o)
			_, err := b.ScanFile(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, test.kind)
			assert.Contains(t, err.Error(), test.omit)
			assert.Contains(t, err.Error(), path)

			_, err = b.ReadVolume(path)
			assert.ErrorIs(t, err, test.kind)
		})
	}
}

func TestBadTimeCoverage(t *testing.T) {
	o := radartest.Default()
	path := writeFile(t, o)
	b, _ := quietBackend()
	_, err := b.ScanFile(path)
	require.NoError(t, err)

	// A zero start time is left out of the file.
	o.Start = time.Time{}
	path = writeFile(t, o)
	_, err = b.ScanFile(path)
	assert.ErrorIs(t, err, KindMissingAttribute)
}

func TestReadSweepMissingCoordinates(t *testing.T) {
	for _, name := range []string{"azimuth", "elevation", "range", "sweep_start_ray_index", "sweep_mode"} {
		t.Run(name, func(t *testing.T) {
			o := radartest.Default()
			o.Omit = []string{name}
			path := writeFile(t, o)
			b, _ := quietBackend()
			_, err := b.ReadSweep(path, 0)
			assert.ErrorIs(t, err, KindMissingVariable)
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestReadSweepIndexCheckedFirst(t *testing.T) {
	for _, name := range []string{"range", "sweep_mode", "fixed_angle"} {
		t.Run(name, func(t *testing.T) {
			o := radartest.Default()
			o.Omit = []string{name}
			path := writeFile(t, o)
			b, _ := quietBackend()
			_, err := b.ReadSweep(path, 5)
			assert.ErrorIs(t, err, KindInvalidSweepIndex)
			assert.NotErrorIs(t, err, KindMissingVariable)
		})
	}
}

func TestReadVolumeAtomic(t *testing.T) {
	o := radartest.Default()
	o.StartRayIndex = []int32{0, 4}
	o.EndRayIndex = []int32{3, 20}
	path := writeFile(t, o)

	b, _ := quietBackend()
	s, err := b.ReadSweep(path, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, s.NumRays())

	_, err = b.ReadSweep(path, 1)
	assert.ErrorIs(t, err, KindConversion)

	vol, err := b.ReadVolume(path)
	assert.Nil(t, vol)
	assert.ErrorIs(t, err, KindConversion)
	assert.Contains(t, err.Error(), "sweep_1")
}

func TestUnknownSweepMode(t *testing.T) {
	o := radartest.Default()
	o.SweepModes = []string{"azimuth_surveillance", "spiral"}
	path := writeFile(t, o)

	b, hook := quietBackend()
	s, err := b.ReadSweep(path, 1)
	require.NoError(t, err)
	assert.Equal(t, Azimuth, s.Metadata.SweepMode)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["sweep_mode"] == "spiral" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestMomentDiscovery(t *testing.T) {
	o := radartest.Default()
	o.Moments = append(o.Moments,
		radartest.Moment{
			Name:        VRADH,
			Short:       true,
			FillValue:   radartest.Float(-32768),
			ValidMin:    radartest.Float(-30),
			ValidMax:    radartest.Float(30),
			Coordinates: "elevation azimuth range",
		},
	)
	o.Calibration = map[string]float64{"r_calib_pulse_width": 0.5}
	o.CalibrationTime = "2024-04-30T00:00:00Z"
	path := writeFile(t, o)

	b, hook := quietBackend()
	s, err := b.ReadSweep(path, 1)
	require.NoError(t, err)
	// sweep_mode and r_calib_time are two-dimensional but are not moments.
	assert.Equal(t, []string{DBZH, VRADH}, s.MomentNames())

	vel, _ := s.Moment(VRADH)
	assert.Equal(t, "unknown", vel.Units)
	assert.Nil(t, vel.StandardName)
	assert.Nil(t, vel.ScaleFactor)
	require.NotNil(t, vel.FillValue)
	assert.Equal(t, float32(-32768), *vel.FillValue)
	assert.Equal(t, float32(-30), *vel.ValidMin)
	assert.Equal(t, float32(30), *vel.ValidMax)
	require.NotNil(t, vel.Coordinates)
	assert.Equal(t, "elevation azimuth range", *vel.Coordinates)
	assert.Equal(t, float32(radartest.RawValue(4, 2)), vel.At(0, 2))

	dbz, _ := s.Moment(DBZH)
	assert.Equal(t, float32(0.5), *dbz.ScaleFactor)
	assert.Equal(t, float32(-10), *dbz.AddOffset)
	assert.Equal(t, float32(-9999), *dbz.FillValue)
	require.NotNil(t, dbz.LongName)

	var skipped []string
	for _, e := range hook.AllEntries() {
		if e.Message == "skipping variable" {
			skipped = append(skipped, e.Data["variable"].(string))
		}
	}
	assert.ElementsMatch(t, []string{"sweep_mode", "r_calib_time"}, skipped)

	vol, err := b.ReadVolume(path)
	require.NoError(t, err)
	require.NotNil(t, vol.Calibration)
	require.NotNil(t, vol.Calibration.PulseWidth)
	assert.Equal(t, 0.5, *vol.Calibration.PulseWidth)
	assert.Nil(t, vol.Calibration.XmitPowerH)
	require.NotNil(t, vol.Calibration.Time)
	assert.Equal(t, time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC), *vol.Calibration.Time)
}

func TestNoCalibration(t *testing.T) {
	path := writeFile(t, radartest.Default())
	b, _ := quietBackend()
	vol, err := b.ReadVolume(path)
	require.NoError(t, err)
	assert.Nil(t, vol.Calibration)
}

func TestSecondarySweepMetadata(t *testing.T) {
	o := radartest.Default()
	o.FollowModes = []string{"sun", "none"}
	o.PRTModes = []string{"dual", "fixed"}
	o.PRT = 0.001
	o.NyquistVelocity = 26.5
	o.UnambiguousRange = 150000
	path := writeFile(t, o)

	b, _ := quietBackend()
	s, err := b.ReadSweep(path, 0)
	require.NoError(t, err)
	m := s.Metadata
	require.NotNil(t, m.FollowMode)
	assert.Equal(t, FollowSun, *m.FollowMode)
	require.NotNil(t, m.PRTMode)
	assert.Equal(t, PRTDual, *m.PRTMode)
	require.NotNil(t, m.PRF)
	assert.InDelta(t, 1000, *m.PRF, 0.01)
	require.NotNil(t, m.NyquistVelocity)
	assert.Equal(t, 26.5, *m.NyquistVelocity)
	require.NotNil(t, m.UnambiguousRange)
	assert.Equal(t, 150000.0, *m.UnambiguousRange)
	assert.Nil(t, m.RaysAreIndexed)
	assert.Nil(t, m.TargetScanRate)

	s, err = b.ReadSweep(path, 1)
	require.NoError(t, err)
	assert.Equal(t, PRTFixed, *s.Metadata.PRTMode)
	assert.Equal(t, FollowNone, *s.Metadata.FollowMode)
}

func TestNotNetCDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.nc")
	require.NoError(t, os.WriteFile(path, []byte("this is not a radar file"), 0644))
	b, _ := quietBackend()
	_, err := b.ScanFile(path)
	assert.ErrorIs(t, err, KindInvalidFormat)

	_, err = b.ScanFile(filepath.Join(t.TempDir(), "missing.nc"))
	assert.ErrorIs(t, err, KindIO)
}
