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
	"math"

	"github.com/spatialmodel/radish"
)

// momentOptions controls which moments are output and how their
// values are converted.
type momentOptions struct {
	// names selects moments to keep; all are kept if it is empty.
	names []string

	// decode converts stored values to physical values.
	decode bool

	// mask replaces fill values and out-of-range values with maskValue.
	mask      bool
	maskValue float32
}

func defaultMomentOptions() momentOptions {
	return momentOptions{decode: true, maskValue: float32(math.NaN())}
}

// prepare returns a copy of s with o applied and the number of moments
// that were decoded. s itself is not modified, so it may be shared.
func (o momentOptions) prepare(s *radish.Sweep) (*radish.Sweep, int) {
	out := *s
	out.Moments = make(map[string]*radish.Moment, len(s.Moments))
	for name, m := range s.Moments {
		out.Moments[name] = m
	}
	if len(o.names) > 0 {
		out.FilterMoments(o.names...)
	}
	var decoded int
	for name, m := range out.Moments {
		m = m.Clone()
		if o.decode && m.State == radish.Raw {
			m.ApplyScaleOffset()
			if m.State == radish.Physical {
				decoded++
			}
		}
		if o.mask {
			m.MaskInvalid(o.maskValue)
		}
		out.Moments[name] = m
	}
	return &out, decoded
}

// prepareVolume applies o to every sweep of v in place.
func (o momentOptions) prepareVolume(v *radish.Volume) int {
	var decoded int
	for i, s := range v.Sweeps {
		var n int
		v.Sweeps[i], n = o.prepare(s)
		decoded += n
	}
	return decoded
}
