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
	"path/filepath"
	"strings"
)

// Backend is a reader for one radar file format.
type Backend interface {
	// Name returns a short identifier for the format.
	Name() string

	// Description returns a human-readable description of the format.
	Description() string

	// Extensions returns the file extensions, without the leading dot,
	// that the backend reads.
	Extensions() []string

	// ScanFile returns the metadata of the volume in the file at path
	// without reading any ray data.
	ScanFile(path string) (*VolumeMetadata, error)

	// ReadSweep returns sweep i of the volume in the file at path.
	ReadSweep(path string, i int) (*Sweep, error)

	// ReadVolume returns the whole volume in the file at path. It
	// returns an error rather than a partial volume if any sweep
	// cannot be read.
	ReadVolume(path string) (*Volume, error)

	// CanRead reports whether the backend can read the file at path,
	// judging by its name alone.
	CanRead(path string) bool
}

// CanReadExtension reports whether the extension of path is one of
// b's extensions, ignoring case. It does not open the file.
func CanReadExtension(b Backend, path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return false
	}
	for _, e := range b.Extensions() {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// Backends returns the available backends in the order they are
// tried.
func Backends() []Backend {
	return []Backend{NewCfRadial1()}
}

// AutoBackend returns the first backend that can read the file at
// path.
func AutoBackend(path string) (Backend, error) {
	for _, b := range Backends() {
		if b.CanRead(path) {
			return b, nil
		}
	}
	return nil, &Error{Kind: KindInvalidFormat, Path: path}
}

// ScanFile reads the volume metadata of the file at path with the
// backend chosen by AutoBackend.
func ScanFile(path string) (*VolumeMetadata, error) {
	b, err := AutoBackend(path)
	if err != nil {
		return nil, err
	}
	return b.ScanFile(path)
}

// ReadSweep reads sweep i of the file at path with the backend chosen
// by AutoBackend.
func ReadSweep(path string, i int) (*Sweep, error) {
	b, err := AutoBackend(path)
	if err != nil {
		return nil, err
	}
	return b.ReadSweep(path, i)
}

// ReadVolume reads the file at path with the backend chosen by
// AutoBackend.
func ReadVolume(path string) (*Volume, error) {
	b, err := AutoBackend(path)
	if err != nil {
		return nil, err
	}
	return b.ReadVolume(path)
}
