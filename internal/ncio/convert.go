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

type number interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

func convert[T, U number](in []T) []U {
	out := make([]U, len(in))
	for i, v := range in {
		out[i] = U(v)
	}
	return out
}

// convertTo converts any numeric slice or scalar held in v to a []U.
// Text values are rejected with ErrType.
func convertTo[U number](v interface{}) ([]U, error) {
	switch t := v.(type) {
	case []U:
		return t, nil
	case []int8:
		return convert[int8, U](t), nil
	case []uint8:
		return convert[uint8, U](t), nil
	case []int16:
		return convert[int16, U](t), nil
	case []uint16:
		return convert[uint16, U](t), nil
	case []int32:
		return convert[int32, U](t), nil
	case []uint32:
		return convert[uint32, U](t), nil
	case []int64:
		return convert[int64, U](t), nil
	case []uint64:
		return convert[uint64, U](t), nil
	case []float32:
		return convert[float32, U](t), nil
	case []float64:
		return convert[float64, U](t), nil
	case int8:
		return []U{U(t)}, nil
	case uint8:
		return []U{U(t)}, nil
	case int16:
		return []U{U(t)}, nil
	case uint16:
		return []U{U(t)}, nil
	case int32:
		return []U{U(t)}, nil
	case uint32:
		return []U{U(t)}, nil
	case int64:
		return []U{U(t)}, nil
	case uint64:
		return []U{U(t)}, nil
	case float32:
		return []U{U(t)}, nil
	case float64:
		return []U{U(t)}, nil
	}
	return nil, ErrType
}
