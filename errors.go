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
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spatialmodel/radish/internal/ncio"
)

// Kind classifies errors returned by this package. A Kind is itself an
// error so that callers can test for it with errors.Is:
//
//	if errors.Is(err, radish.KindInvalidSweepIndex) { ... }
type Kind uint8

// These are the kinds of error.
const (
	// KindGeneral is any error that does not fit another kind.
	KindGeneral Kind = iota
	// KindIO is a file-system level failure.
	KindIO
	// KindFileAccess is a failure reported by the NetCDF or HDF5 reader.
	KindFileAccess
	// KindInvalidFormat means no backend can read the file.
	KindInvalidFormat
	// KindMissingAttribute means a required attribute is absent or
	// cannot be parsed.
	KindMissingAttribute
	// KindMissingVariable means a required variable is absent.
	KindMissingVariable
	// KindInvalidSweepIndex means a sweep index is out of range.
	KindInvalidSweepIndex
	// KindConversion means data could not be assembled into the model,
	// for example because of a shape mismatch.
	KindConversion
	// KindUnsupported means the file uses a feature that is not supported.
	KindUnsupported
)

var kindText = map[Kind]string{
	KindGeneral:           "error",
	KindIO:                "i/o error",
	KindFileAccess:        "file access error",
	KindInvalidFormat:     "invalid format",
	KindMissingAttribute:  "missing attribute",
	KindMissingVariable:   "missing variable",
	KindInvalidSweepIndex: "invalid sweep index",
	KindConversion:        "conversion error",
	KindUnsupported:       "unsupported",
}

func (k Kind) Error() string {
	if s, ok := kindText[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error is the error type returned by readers in this package.
type Error struct {
	Kind Kind
	// Path is the file being read, if any.
	Path string
	// Name is the variable or attribute involved, if any.
	Name string
	// Index is the sweep index for KindInvalidSweepIndex errors.
	Index int
	// Err is the underlying error, if any.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("radish: ")
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Kind == KindInvalidSweepIndex {
		fmt.Fprintf(&b, " %d", e.Index)
	}
	if e.Name != "" {
		b.WriteString(" ")
		b.WriteString(e.Name)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the Kind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// KindOf returns the Kind of err, or KindGeneral if err was not
// produced by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindGeneral
}

func invalidSweepIndex(path string, i int) error {
	return &Error{Kind: KindInvalidSweepIndex, Path: path, Index: i}
}

func conversionError(path, name string, format string, args ...interface{}) error {
	return &Error{Kind: KindConversion, Path: path, Name: name, Err: fmt.Errorf(format, args...)}
}

// readError classifies an error returned while reading a required
// variable.
func readError(path, name string, err error) error {
	var k Kind
	var pathErr *fs.PathError
	switch {
	case errors.Is(err, ncio.ErrNotFound):
		k = KindMissingVariable
	case errors.Is(err, ncio.ErrType), errors.Is(err, ncio.ErrShape):
		k = KindConversion
	case errors.As(err, &pathErr):
		k = KindIO
	default:
		k = KindFileAccess
	}
	return &Error{Kind: k, Path: path, Name: name, Err: err}
}

// openError classifies an error returned while opening a file.
func openError(path string, err error) error {
	var pathErr *fs.PathError
	switch {
	case errors.Is(err, ncio.ErrFormat):
		return &Error{Kind: KindInvalidFormat, Path: path, Err: err}
	case errors.As(err, &pathErr):
		return &Error{Kind: KindIO, Path: path, Err: err}
	}
	return &Error{Kind: KindFileAccess, Path: path, Err: err}
}
