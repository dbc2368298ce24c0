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
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatialmodel/radish"
)

func testSweepModel(t *testing.T) *radish.Sweep {
	t.Helper()
	scale, offset, fill := float32(2), float32(1), float32(-1)
	dbz, err := radish.NewMoment("DBZH", "dBZ", 2, 2, []float32{1, -1, 3, 4})
	require.NoError(t, err)
	dbz.ScaleFactor, dbz.AddOffset, dbz.FillValue = &scale, &offset, &fill
	vel, err := radish.NewMoment("VRADH", "m/s", 2, 2, []float32{0, 1, 2, 3})
	require.NoError(t, err)
	return &radish.Sweep{
		Metadata: radish.SweepMetadata{SweepMode: radish.Azimuth, FixedAngle: 0.5},
		Moments:  map[string]*radish.Moment{"DBZH": dbz, "VRADH": vel},
		Coordinates: radish.Coordinates{
			Time:      []float64{0, 1},
			Range:     []float32{125, 375},
			Azimuth:   []float32{0, 180},
			Elevation: []float32{0.5, 0.5},
		},
	}
}

func TestPrepare(t *testing.T) {
	s := testSweepModel(t)

	o := defaultMomentOptions()
	o.mask = true
	out, decoded := o.prepare(s)
	assert.Equal(t, 1, decoded)
	assert.Len(t, out.Moments, 2)
	dbz := out.Moments["DBZH"]
	assert.Equal(t, radish.Physical, dbz.State)
	assert.Equal(t, float32(3), dbz.Data[0])
	assert.True(t, math.IsNaN(float64(dbz.Data[1])))
	assert.Equal(t, float32(9), dbz.Data[3])

	// The input is unchanged.
	assert.Equal(t, radish.Raw, s.Moments["DBZH"].State)
	assert.Equal(t, []float32{1, -1, 3, 4}, s.Moments["DBZH"].Data)

	o = momentOptions{names: []string{"VRADH"}}
	out, decoded = o.prepare(s)
	assert.Equal(t, 0, decoded)
	assert.Equal(t, []string{"VRADH"}, out.MomentNames())
	assert.Len(t, s.Moments, 2)
}

func TestPrepareVolume(t *testing.T) {
	v := &radish.Volume{Sweeps: []*radish.Sweep{testSweepModel(t), testSweepModel(t)}}
	assert.Equal(t, 2, defaultMomentOptions().prepareVolume(v))
	for _, s := range v.Sweeps {
		assert.Equal(t, radish.Physical, s.Moments["DBZH"].State)
	}
}

func TestFloatsOrNull(t *testing.T) {
	b, err := json.Marshal(floatsOrNull{1.5, float32(math.NaN()), float32(math.Inf(-1)), -9999, 0.1})
	require.NoError(t, err)
	assert.Equal(t, "[1.5,null,null,-9999,0.1]", string(b))

	b, err = json.Marshal(floatsOrNull{})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}

func TestWriteSweep(t *testing.T) {
	s := testSweepModel(t)

	buf := new(bytes.Buffer)
	require.NoError(t, writeSweep(buf, "json", 0, s))
	var v struct {
		Moments map[string]struct {
			Rays        int      `json:"rays"`
			Gates       int      `json:"gates"`
			ScaleFactor *float64 `json:"scale_factor"`
			State       string   `json:"state"`
		} `json:"moments"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &v))
	assert.Equal(t, 2, v.Moments["DBZH"].Rays)
	assert.Equal(t, 2, v.Moments["DBZH"].Gates)
	require.NotNil(t, v.Moments["DBZH"].ScaleFactor)
	assert.Equal(t, 2.0, *v.Moments["DBZH"].ScaleFactor)
	assert.Equal(t, "raw", v.Moments["VRADH"].State)

	buf.Reset()
	require.NoError(t, writeSweep(buf, "text", 3, s))
	out := buf.String()
	assert.Contains(t, out, "sweep 3")
	assert.Contains(t, out, "azimuth_surveillance")
	assert.Contains(t, out, "2 rays × 2 gates")
	assert.Contains(t, out, "VRADH")
}

func TestCheckFormat(t *testing.T) {
	assert.NoError(t, checkFormat("text"))
	assert.NoError(t, checkFormat("json"))
	assert.Error(t, checkFormat("csv"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"DBZH", "VRADH", "ZDR"}, splitList([]string{"DBZH,VRADH", " ZDR ", ""}))
	assert.Nil(t, splitList(nil))
}
