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
	"reflect"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

// netCDF4 reads NetCDF-4 (HDF5) files. It also reads classic files
// when forced with OpenWith.
type netCDF4 struct {
	g api.Group
}

// dimensioner is implemented by both of the go-native-netcdf readers
// but is not part of api.Group.
type dimensioner interface {
	GetDimension(name string) (uint64, bool)
}

func openNetCDF4(path string) (*netCDF4, error) {
	g, err := netcdf.Open(path)
	if err != nil {
		return nil, &Error{Op: "open", Name: path, Err: err}
	}
	return &netCDF4{g: g}, nil
}

func (n *netCDF4) Variables() []string { return n.g.ListVariables() }

func (n *netCDF4) getter(v string) (api.VarGetter, bool) {
	if !HasVariable(n, v) {
		return nil, false
	}
	vg, err := n.g.GetVarGetter(v)
	if err != nil {
		return nil, false
	}
	return vg, true
}

func (n *netCDF4) Dimensions(v string) []string {
	vg, ok := n.getter(v)
	if !ok {
		return nil
	}
	d := vg.Dimensions()
	if d == nil {
		d = []string{}
	}
	return d
}

func (n *netCDF4) Lengths(v string) []int {
	vg, ok := n.getter(v)
	if !ok {
		return nil
	}
	dims := vg.Dimensions()
	out := make([]int, len(dims))
	if len(dims) == 0 {
		return out
	}
	out[0] = int(vg.Len())
	dg, ok := n.g.(dimensioner)
	for i := 1; i < len(dims); i++ {
		if ok {
			if l, found := dg.GetDimension(dims[i]); found {
				out[i] = int(l)
			}
		}
	}
	if len(dims) > 1 && out[len(dims)-1] == 0 && vg.Type() == "char" && out[0] > 0 {
		// Text widths are not always stored as dimensions, so read a
		// row to recover one.
		if row, err := vg.GetSlice(0, 1); err == nil {
			if s := flattenStrings(row); len(s) > 0 {
				out[len(dims)-1] = len(s[0])
			}
		}
	}
	return out
}

func (n *netCDF4) attributes(v string) (api.AttributeMap, bool) {
	if v == "" {
		return n.g.Attributes(), true
	}
	vg, ok := n.getter(v)
	if !ok {
		return nil, false
	}
	return vg.Attributes(), true
}

func (n *netCDF4) Attribute(v, name string) (interface{}, bool) {
	am, ok := n.attributes(v)
	if !ok || am == nil {
		return nil, false
	}
	val, has := am.Get(name)
	if !has {
		return nil, false
	}
	if s, ok := val.(string); ok {
		return strings.TrimRight(s, "\x00"), true
	}
	return flatten(val), true
}

func (n *netCDF4) Attributes(v string) []string {
	am, ok := n.attributes(v)
	if !ok || am == nil {
		return nil
	}
	return am.Keys()
}

func (n *netCDF4) Read(v string, begin, end int) (interface{}, error) {
	vg, ok := n.getter(v)
	if !ok {
		return nil, &Error{Op: "read", Name: v, Err: ErrNotFound}
	}
	var (
		data interface{}
		err  error
	)
	if len(vg.Dimensions()) == 0 {
		data, err = vg.Values()
	} else {
		if begin < 0 || int64(end) > vg.Len() || begin > end {
			return nil, &Error{Op: "read", Name: v, Err: ErrShape}
		}
		data, err = vg.GetSlice(int64(begin), int64(end))
	}
	if err != nil {
		return nil, &Error{Op: "read", Name: v, Err: err}
	}
	if vg.Type() == "char" {
		width := 0
		if l := n.Lengths(v); len(l) > 1 {
			width = l[len(l)-1]
		}
		return joinChars(flattenStrings(data), width), nil
	}
	return flatten(data), nil
}

func (n *netCDF4) ReadStrings(v string) ([]string, error) {
	vg, ok := n.getter(v)
	if !ok {
		return nil, &Error{Op: "read", Name: v, Err: ErrNotFound}
	}
	if vg.Type() != "char" && vg.Type() != "string" {
		return nil, &Error{Op: "read", Name: v, Err: ErrType}
	}
	data, err := vg.Values()
	if err != nil {
		return nil, &Error{Op: "read", Name: v, Err: err}
	}
	rows := flattenStrings(data)
	for i, r := range rows {
		rows[i] = trimText(r)
	}
	return rows, nil
}

func (n *netCDF4) Close() error {
	n.g.Close()
	return nil
}

// flatten converts nested slices to a single row-major slice and
// wraps scalars in a slice of length one.
func flatten(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		s := reflect.MakeSlice(reflect.SliceOf(rv.Type()), 1, 1)
		s.Index(0).Set(rv)
		return s.Interface()
	}
	leaf := rv.Type()
	for leaf.Elem().Kind() == reflect.Slice {
		leaf = leaf.Elem()
	}
	if leaf == rv.Type() {
		return v
	}
	out := reflect.MakeSlice(leaf, 0, 0)
	var walk func(reflect.Value)
	walk = func(x reflect.Value) {
		if x.Type() == leaf {
			out = reflect.AppendSlice(out, x)
			return
		}
		for i := 0; i < x.Len(); i++ {
			walk(x.Index(i))
		}
	}
	walk(rv)
	return out.Interface()
}

// flattenStrings collects the strings held in v, which go-native-netcdf
// returns as a string, a []string or nested slices of strings.
func flattenStrings(v interface{}) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil
	}
	var out []string
	for i := 0; i < rv.Len(); i++ {
		out = append(out, flattenStrings(rv.Index(i).Interface())...)
	}
	return out
}

// joinChars packs rows of text into fixed-width character data.
func joinChars(rows []string, width int) Chars {
	if width <= 0 {
		return Chars(strings.Join(rows, ""))
	}
	out := make(Chars, len(rows)*width)
	for i, r := range rows {
		copy(out[i*width:(i+1)*width], r)
	}
	return out
}
