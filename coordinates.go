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

import "fmt"

// Coordinates holds the per-ray and per-gate coordinates of a sweep.
type Coordinates struct {
	// Time is seconds since the epoch, one value per ray.
	Time []float64 `json:"time"`
	// Range is the distance from the radar to the center of each gate [m].
	Range []float32 `json:"range"`
	// Azimuth is the azimuth of each ray [degrees].
	Azimuth []float32 `json:"azimuth"`
	// Elevation is the elevation of each ray [degrees].
	Elevation []float32 `json:"elevation"`
}

// NumRays returns the number of rays.
func (c *Coordinates) NumRays() int { return len(c.Time) }

// NumGates returns the number of gates along each ray.
func (c *Coordinates) NumGates() int { return len(c.Range) }

// Validate returns an error if the per-ray coordinates do not all have
// the same length.
func (c *Coordinates) Validate() error {
	if len(c.Azimuth) != len(c.Time) {
		return &Error{Kind: KindConversion, Name: "azimuth",
			Err: fmt.Errorf("length %d does not match time length %d", len(c.Azimuth), len(c.Time))}
	}
	if len(c.Elevation) != len(c.Time) {
		return &Error{Kind: KindConversion, Name: "elevation",
			Err: fmt.Errorf("length %d does not match time length %d", len(c.Elevation), len(c.Time))}
	}
	return nil
}

// Clone returns a deep copy of c.
func (c *Coordinates) Clone() Coordinates {
	return Coordinates{
		Time:      append([]float64(nil), c.Time...),
		Range:     append([]float32(nil), c.Range...),
		Azimuth:   append([]float32(nil), c.Azimuth...),
		Elevation: append([]float32(nil), c.Elevation...),
	}
}
