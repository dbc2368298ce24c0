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
	"os"
	"strings"

	"github.com/ctessum/cdf"
)

// classic reads NetCDF classic and 64-bit offset files.
type classic struct {
	f       *os.File
	ff      *cdf.File
	numRecs int
}

func openClassic(path string) (*classic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	ff, err := cdf.Open(f)
	if err != nil {
		f.Close()
		return nil, &Error{Op: "open", Name: path, Err: err}
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &classic{
		f:       f,
		ff:      ff,
		numRecs: int(ff.Header.NumRecs(fi.Size())),
	}, nil
}

func (c *classic) Variables() []string { return c.ff.Header.Variables() }

func (c *classic) Dimensions(v string) []string { return c.ff.Header.Dimensions(v) }

func (c *classic) Lengths(v string) []int {
	l := c.ff.Header.Lengths(v)
	if l == nil {
		return nil
	}
	// The header's slice is shared, so copy before patching in the
	// record count.
	out := make([]int, len(l))
	copy(out, l)
	if c.ff.Header.IsRecordVariable(v) {
		out[0] = c.numRecs
	}
	return out
}

func (c *classic) Attribute(v, name string) (interface{}, bool) {
	val := c.ff.Header.GetAttribute(v, name)
	if val == nil {
		return nil, false
	}
	if s, ok := val.(string); ok {
		return strings.TrimRight(s, "\x00"), true
	}
	return val, true
}

func (c *classic) Attributes(v string) []string { return c.ff.Header.Attributes(v) }

func (c *classic) isChar(v string) bool {
	_, ok := c.ff.Header.ZeroValue(v, 0).(string)
	return ok
}

func (c *classic) Read(v string, begin, end int) (interface{}, error) {
	lengths := c.Lengths(v)
	if lengths == nil {
		return nil, &Error{Op: "read", Name: v, Err: ErrNotFound}
	}
	var start, stop []int
	n := 1
	if len(lengths) > 0 {
		if begin < 0 || end > lengths[0] || begin > end {
			return nil, &Error{Op: "read", Name: v, Err: ErrShape}
		}
		n = end - begin
		start = make([]int, len(lengths))
		stop = make([]int, len(lengths))
		start[0], stop[0] = begin, end-1
		for i := 1; i < len(lengths); i++ {
			n *= lengths[i]
			stop[i] = lengths[i] - 1
		}
	}
	r := c.ff.Reader(v, start, stop)
	if n == 0 {
		return c.convertBytes(v, r.Zero(0)), nil
	}
	buf := r.Zero(n)
	if _, err := r.Read(buf); err != nil {
		return nil, &Error{Op: "read", Name: v, Err: err}
	}
	return c.convertBytes(v, buf), nil
}

// convertBytes distinguishes CHAR from BYTE data, which the cdf package
// both returns as []uint8. NetCDF bytes are signed.
func (c *classic) convertBytes(v string, buf interface{}) interface{} {
	b, ok := buf.([]uint8)
	if !ok {
		return buf
	}
	if c.isChar(v) {
		return Chars(b)
	}
	out := make([]int8, len(b))
	for i, x := range b {
		out[i] = int8(x)
	}
	return out
}

func (c *classic) ReadStrings(v string) ([]string, error) {
	if !HasVariable(c, v) {
		return nil, &Error{Op: "read", Name: v, Err: ErrNotFound}
	}
	if !c.isChar(v) {
		return nil, &Error{Op: "read", Name: v, Err: ErrType}
	}
	lengths := c.Lengths(v)
	if len(lengths) == 0 {
		data, err := c.Read(v, 0, 0)
		if err != nil {
			return nil, err
		}
		return []string{trimText(string(data.(Chars)))}, nil
	}
	data, err := c.Read(v, 0, lengths[0])
	if err != nil {
		return nil, err
	}
	return splitChars(data.(Chars), lengths), nil
}

func (c *classic) Close() error { return c.f.Close() }

// splitChars splits text data into rows. One-dimensional data is a
// single string; higher dimensional data has one string per
// innermost run of characters.
func splitChars(b Chars, lengths []int) []string {
	if len(lengths) <= 1 {
		return []string{trimText(string(b))}
	}
	width := lengths[len(lengths)-1]
	if width == 0 {
		rows := 1
		for _, l := range lengths[:len(lengths)-1] {
			rows *= l
		}
		return make([]string, rows)
	}
	out := make([]string, 0, len(b)/width)
	for i := 0; i+width <= len(b); i += width {
		out = append(out, trimText(string(b[i:i+width])))
	}
	return out
}

func trimText(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}
