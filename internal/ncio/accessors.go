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

// read reads variable v whole, or the outer range [begin, end) when
// whole is false, and converts it to []U.
func read[U number](f File, v string, whole bool, begin, end int) ([]U, error) {
	if !HasVariable(f, v) {
		return nil, &Error{Op: "read", Name: v, Err: ErrNotFound}
	}
	if whole {
		begin, end = 0, 0
		if l := f.Lengths(v); len(l) > 0 {
			end = l[0]
		}
	}
	data, err := f.Read(v, begin, end)
	if err != nil {
		return nil, err
	}
	out, err := convertTo[U](data)
	if err != nil {
		return nil, &Error{Op: "read", Name: v, Err: fmt.Errorf("%w %T", err, data)}
	}
	return out, nil
}

// Float64s returns all values of variable v as float64s.
func Float64s(f File, v string) ([]float64, error) { return read[float64](f, v, true, 0, 0) }

// Float64Range returns the values of variable v for outer indices in
// [begin, end) as float64s.
func Float64Range(f File, v string, begin, end int) ([]float64, error) {
	return read[float64](f, v, false, begin, end)
}

// Float32s returns all values of variable v as float32s.
func Float32s(f File, v string) ([]float32, error) { return read[float32](f, v, true, 0, 0) }

// Float32Range returns the values of variable v for outer indices in
// [begin, end) as float32s.
func Float32Range(f File, v string, begin, end int) ([]float32, error) {
	return read[float32](f, v, false, begin, end)
}

// Int32s returns all values of variable v as int32s.
func Int32s(f File, v string) ([]int32, error) { return read[int32](f, v, true, 0, 0) }

// Scalar returns the first value of variable v.
func Scalar(f File, v string) (float64, error) {
	l := f.Lengths(v)
	if l == nil {
		return 0, &Error{Op: "read", Name: v, Err: ErrNotFound}
	}
	end := 0
	if len(l) > 0 {
		if l[0] == 0 {
			return 0, &Error{Op: "read", Name: v, Err: ErrShape}
		}
		end = 1
	}
	vals, err := read[float64](f, v, false, 0, end)
	if err != nil {
		return 0, err
	}
	if len(vals) == 0 {
		return 0, &Error{Op: "read", Name: v, Err: ErrShape}
	}
	return vals[0], nil
}

// Strings returns the rows of text variable v.
func Strings(f File, v string) ([]string, error) { return f.ReadStrings(v) }

// AttrString returns text attribute name of variable v, or the
// global attribute if v is empty.
func AttrString(f File, v, name string) (string, error) {
	val, ok := f.Attribute(v, name)
	if !ok {
		return "", &Error{Op: "attribute", Name: attrName(v, name), Err: ErrNotFound}
	}
	s, ok := val.(string)
	if !ok {
		return "", &Error{Op: "attribute", Name: attrName(v, name), Err: fmt.Errorf("%w %T", ErrType, val)}
	}
	return s, nil
}

// AttrFloat64 returns the first value of numeric attribute name of
// variable v, or the global attribute if v is empty.
func AttrFloat64(f File, v, name string) (float64, error) {
	val, ok := f.Attribute(v, name)
	if !ok {
		return 0, &Error{Op: "attribute", Name: attrName(v, name), Err: ErrNotFound}
	}
	vals, err := convertTo[float64](val)
	if err != nil {
		return 0, &Error{Op: "attribute", Name: attrName(v, name), Err: fmt.Errorf("%w %T", err, val)}
	}
	if len(vals) == 0 {
		return 0, &Error{Op: "attribute", Name: attrName(v, name), Err: ErrShape}
	}
	return vals[0], nil
}

// IsNotFound reports whether err means a variable or attribute is
// missing.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func attrName(v, name string) string {
	if v == "" {
		return ":" + name
	}
	return v + ":" + name
}
