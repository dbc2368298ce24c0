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

// Package ncio provides a small, format-neutral view of NetCDF files.
// Classic (CDF-1 and CDF-2) files are read with github.com/ctessum/cdf and
// NetCDF-4 (HDF5) files with github.com/batchatco/go-native-netcdf. Callers
// see the same File interface either way and never depend on which
// driver opened a file.
package ncio

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// File is an open NetCDF file.
type File interface {
	// Variables returns the names of all variables in the file.
	Variables() []string

	// Dimensions returns the names of the dimensions of variable v,
	// outermost first. It returns nil if v does not exist.
	Dimensions(v string) []string

	// Lengths returns the lengths of the dimensions of variable v,
	// outermost first. Record dimensions report the number of records
	// actually in the file. It returns nil if v does not exist.
	Lengths(v string) []int

	// Attribute returns the value of attribute name of variable v,
	// or the global attribute name if v is empty. Text attributes
	// are returned as strings and numeric attributes as slices.
	Attribute(v, name string) (interface{}, bool)

	// Attributes returns the attribute names of variable v, or the
	// global attribute names if v is empty.
	Attributes(v string) []string

	// Read returns the values of variable v whose outer index lies in
	// [begin, end), flattened in row-major order. Text variables are
	// returned as Chars. Scalar variables ignore begin and end and
	// return a single value.
	Read(v string, begin, end int) (interface{}, error)

	// ReadStrings returns the rows of a text variable with trailing
	// padding removed.
	ReadStrings(v string) ([]string, error)

	Close() error
}

// Chars holds the raw contents of a text (NC_CHAR) variable.
type Chars []byte

// Driver identifies the library used to read a file.
type Driver int

// These are the available drivers.
const (
	Auto Driver = iota
	Classic
	NetCDF4
)

func (d Driver) String() string {
	switch d {
	case Classic:
		return "classic"
	case NetCDF4:
		return "netcdf4"
	default:
		return "auto"
	}
}

var (
	magicCDF1 = []byte("CDF\x01")
	magicCDF2 = []byte("CDF\x02")
	magicHDF  = []byte("\x89HDF\r\n\x1a\n")
)

// Open opens the NetCDF file at path, choosing a driver from the
// file's leading bytes.
func Open(path string) (File, error) {
	return OpenWith(path, Auto)
}

// OpenWith opens the NetCDF file at path with driver d.
func OpenWith(path string, d Driver) (File, error) {
	if d == Auto {
		var err error
		d, err = Sniff(path)
		if err != nil {
			return nil, err
		}
	}
	switch d {
	case Classic:
		return openClassic(path)
	case NetCDF4:
		return openNetCDF4(path)
	default:
		return nil, &Error{Op: "open", Name: path, Err: fmt.Errorf("invalid driver %d", d)}
	}
}

// Sniff reports which driver can read the file at path. It returns
// an error wrapping ErrFormat if the file is not NetCDF.
func Sniff(path string) (Driver, error) {
	f, err := os.Open(path)
	if err != nil {
		return Auto, err
	}
	defer f.Close()
	head := make([]byte, len(magicHDF))
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return Auto, &Error{Op: "open", Name: path, Err: err}
	}
	return sniffBytes(path, head[:n])
}

func sniffBytes(path string, head []byte) (Driver, error) {
	switch {
	case bytes.HasPrefix(head, magicCDF1), bytes.HasPrefix(head, magicCDF2):
		return Classic, nil
	case bytes.HasPrefix(head, magicHDF):
		return NetCDF4, nil
	}
	return Auto, &Error{Op: "open", Name: path, Err: ErrFormat}
}

// HasVariable reports whether f contains a variable named v.
func HasVariable(f File, v string) bool {
	for _, name := range f.Variables() {
		if name == v {
			return true
		}
	}
	return false
}
