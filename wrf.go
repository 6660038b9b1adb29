/*
Copyright © 2026 the streamfunc authors.
This file is part of streamfunc.

streamfunc is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

streamfunc is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with streamfunc.  If not, see <http://www.gnu.org/licenses/>.
*/

package streamfunc

import (
	"fmt"

	"github.com/ctessum/cdf"
)

// ReadWRF reads the horizontal wind components of one model layer
// and output record from a WRF output file. WRF stores
// U(Time, bottom_top, south_north, west_east_stag) and
// V(Time, bottom_top, south_north_stag, west_east) on a C-grid, so
// the fields only need to be transposed into [x, y] order. The grid
// is built from the DX and DY global attributes [m], with the
// south-west corner of the domain at the origin.
func ReadWRF(rw cdf.ReaderWriterAt, record, layer int) (*Fields, error) {
	ff, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("streamfunc: opening WRF file: %w", err)
	}
	uDims, vDims := ff.Header.Lengths("U"), ff.Header.Lengths("V")
	if len(uDims) != 4 {
		return nil, fmt.Errorf("streamfunc: WRF variable U has dimensions %v; it should have 4", uDims)
	}
	if len(vDims) != 4 {
		return nil, fmt.Errorf("streamfunc: WRF variable V has dimensions %v; it should have 4", vDims)
	}
	m, n := uDims[3], vDims[2]
	if uDims[2] != n-1 {
		return nil, &ShapeMismatchError{Name: "U", Against: "V south_north_stag", Dim: 2, Have: uDims[2], Want: n - 1}
	}
	if vDims[3] != m-1 {
		return nil, &ShapeMismatchError{Name: "V", Against: "U west_east_stag", Dim: 3, Have: vDims[3], Want: m - 1}
	}
	if layer < 0 || layer >= uDims[1] {
		return nil, fmt.Errorf("streamfunc: WRF layer %d is out of range [0, %d)", layer, uDims[1])
	}

	dx, err := floatAttribute(ff, "DX")
	if err != nil {
		return nil, err
	}
	dy, err := floatAttribute(ff, "DY")
	if err != nil {
		return nil, err
	}
	x, err := UniformAxis("x", 0, dx, m)
	if err != nil {
		return nil, err
	}
	y, err := UniformAxis("y", 0, dy, n)
	if err != nil {
		return nil, err
	}

	u, err := readSlab(ff, "U", []int{record, layer})
	if err != nil {
		return nil, err
	}
	v, err := readSlab(ff, "V", []int{record, layer})
	if err != nil {
		return nil, err
	}
	return &Fields{
		U:    transpose(u),
		V:    transpose(v),
		Grid: &Grid{X: x, Y: y},
	}, nil
}

// floatAttribute returns the first value of numeric global attribute name.
func floatAttribute(ff *cdf.File, name string) (float64, error) {
	switch a := ff.Header.GetAttribute("", name).(type) {
	case []float32:
		if len(a) > 0 {
			return float64(a[0]), nil
		}
	case []float64:
		if len(a) > 0 {
			return a[0], nil
		}
	case []int32:
		if len(a) > 0 {
			return float64(a[0]), nil
		}
	case nil:
		return 0, fmt.Errorf("streamfunc: global attribute %s not in file", name)
	}
	return 0, fmt.Errorf("streamfunc: global attribute %s is not numeric", name)
}
