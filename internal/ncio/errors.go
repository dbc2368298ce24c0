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

package ncio

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a variable or attribute does not exist.
	ErrNotFound = errors.New("not found")

	// ErrType is returned when a value cannot be converted to the
	// requested type.
	ErrType = errors.New("unsupported type")

	// ErrShape is returned when a variable does not have the expected
	// dimensions, or a requested range lies outside of them.
	ErrShape = errors.New("invalid shape")

	// ErrFormat is returned when a file is not a NetCDF file.
	ErrFormat = errors.New("not a NetCDF file")
)

// Error records a failed NetCDF operation on a named variable or
// attribute.
type Error struct {
	Op   string
	Name string
	Err  error
}

func (e *Error) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("ncio: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("ncio: %s %s: %v", e.Op, e.Name, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
