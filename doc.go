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

// Package radish reads weather radar files into a single,
// format-independent model: a Volume holds Sweeps, and each Sweep holds
// named Moments together with its ray and gate Coordinates. The model
// follows the CF/Radial version 2 (FM 301) layout regardless of how the
// source file is organized.
//
// Readers for individual file formats implement the Backend interface.
// AutoBackend picks a backend from a file's extension, and the ScanFile,
// ReadSweep and ReadVolume functions use it to read a file in one call:
//
//	vol, err := radish.ReadVolume("KTLX20240501.nc")
//	if err != nil {
//		return err
//	}
//	dbz, ok := vol.Sweeps[0].Moment(radish.DBZH)
//	if ok {
//		dbz.ApplyScaleOffset()
//		dbz.MaskInvalid(float32(math.NaN()))
//	}
//
// Moments are returned as stored in the file. ApplyScaleOffset converts
// packed values to physical units and MaskInvalid replaces fill and
// out-of-range values.
package radish
