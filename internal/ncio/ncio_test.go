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

package ncio_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatialmodel/radish/internal/ncio"
	"github.com/spatialmodel/radish/internal/radartest"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.nc")
	o := radartest.Default()
	o.Moments = append(o.Moments, radartest.Moment{Name: "VRADH", Units: "m/s", Short: true})
	require.NoError(t, radartest.Write(path, o))
	return path
}

func drivers() []ncio.Driver { return []ncio.Driver{ncio.Classic, ncio.NetCDF4} }

func TestSniff(t *testing.T) {
	path := writeFixture(t)
	d, err := ncio.Sniff(path)
	require.NoError(t, err)
	assert.Equal(t, ncio.Classic, d)

	_, err = ncio.Sniff(filepath.Join(t.TempDir(), "missing.nc"))
	assert.Error(t, err)
}

func TestAccessors(t *testing.T) {
	path := writeFixture(t)
	o := radartest.Default()
	for _, d := range drivers() {
		t.Run(d.String(), func(t *testing.T) {
			f, err := ncio.OpenWith(path, d)
			require.NoError(t, err)
			defer f.Close()

			assert.True(t, ncio.HasVariable(f, "DBZH"))
			assert.False(t, ncio.HasVariable(f, "nope"))
			assert.Equal(t, []string{"time", "range"}, f.Dimensions("DBZH"))
			assert.Equal(t, []int{o.NumRays(), o.Gates}, f.Lengths("DBZH"))

			lat, err := ncio.Scalar(f, "latitude")
			require.NoError(t, err)
			assert.Equal(t, o.Latitude, lat)

			angles, err := ncio.Float64s(f, "fixed_angle")
			require.NoError(t, err)
			assert.Equal(t, o.FixedAngles, angles)

			nums, err := ncio.Int32s(f, "sweep_number")
			require.NoError(t, err)
			assert.Equal(t, []int32{0, 1}, nums)

			az, err := ncio.Float32Range(f, "azimuth", 4, 8)
			require.NoError(t, err)
			assert.Equal(t, []float32{0, 90, 180, 270}, az)

			tm, err := ncio.Float64Range(f, "time", 1, 3)
			require.NoError(t, err)
			assert.Equal(t, []float64{0.5, 1}, tm)

			block, err := f.Read("DBZH", 1, 3)
			require.NoError(t, err)
			vals := block.([]float32)
			require.Len(t, vals, 2*o.Gates)
			assert.Equal(t, float32(radartest.RawValue(1, 0)), vals[0])
			assert.Equal(t, float32(radartest.RawValue(2, 4)), vals[len(vals)-1])

			short, err := ncio.Float32Range(f, "VRADH", 0, 1)
			require.NoError(t, err)
			assert.Equal(t, float32(radartest.RawValue(0, 3)), short[3])

			modes, err := ncio.Strings(f, "sweep_mode")
			require.NoError(t, err)
			assert.Equal(t, o.SweepModes, modes)

			name, err := ncio.AttrString(f, "", "instrument_name")
			require.NoError(t, err)
			assert.Equal(t, o.InstrumentName, name)

			scale, err := ncio.AttrFloat64(f, "DBZH", "scale_factor")
			require.NoError(t, err)
			assert.Equal(t, 0.5, scale)

			assert.Contains(t, f.Attributes("DBZH"), "_FillValue")
		})
	}
}

func TestAccessorErrors(t *testing.T) {
	path := writeFixture(t)
	f, err := ncio.Open(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = ncio.Scalar(f, "missing")
	assert.True(t, errors.Is(err, ncio.ErrNotFound))
	assert.True(t, ncio.IsNotFound(err))

	_, err = ncio.AttrString(f, "", "missing")
	assert.True(t, errors.Is(err, ncio.ErrNotFound))

	_, err = ncio.AttrString(f, "DBZH", "scale_factor")
	assert.True(t, errors.Is(err, ncio.ErrType))

	_, err = ncio.AttrFloat64(f, "DBZH", "units")
	assert.True(t, errors.Is(err, ncio.ErrType))

	_, err = ncio.Float64s(f, "sweep_mode")
	assert.True(t, errors.Is(err, ncio.ErrType))

	_, err = ncio.Strings(f, "azimuth")
	assert.True(t, errors.Is(err, ncio.ErrType))

	_, err = ncio.Float32Range(f, "azimuth", 6, 100)
	assert.True(t, errors.Is(err, ncio.ErrShape))

	var ncErr *ncio.Error
	require.True(t, errors.As(err, &ncErr))
	assert.Equal(t, "azimuth", ncErr.Name)
}
