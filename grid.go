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
	"math"

	"gonum.org/v1/gonum/floats"
)

// Axis holds the coordinates of one direction of a staggered grid.
// Faces are the control-volume boundaries and Centers are the control-volume
// midpoints, so len(Centers) == len(Faces)-1. The slices are referenced,
// not copied, and must not be modified while the Axis is in use.
type Axis struct {
	// Name is the axis name ("x" or "y"), used in error messages.
	Name string

	Faces   []float64
	Centers []float64
}

// NewAxis returns a validated axis with the given name, cell-center
// coordinates and cell-face coordinates. Both sequences must be strictly
// monotonic in the same direction and each center must lie strictly between
// its two neighboring faces.
func NewAxis(name string, centers, faces []float64) (*Axis, error) {
	a := &Axis{Name: name, Faces: faces, Centers: centers}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// UniformAxis returns an axis with nFaces evenly spaced faces starting
// at origin and separated by delta, with centers at the face midpoints.
func UniformAxis(name string, origin, delta float64, nFaces int) (*Axis, error) {
	if nFaces < 2 {
		return nil, &InvalidGridError{Name: name + "F", Index: nFaces, Reason: "need at least two faces"}
	}
	if delta == 0 || math.IsNaN(delta) || math.IsInf(delta, 0) {
		return nil, &InvalidGridError{Name: name + "F", Index: 0, Reason: fmt.Sprintf("invalid spacing %g", delta)}
	}
	faces := make([]float64, nFaces)
	centers := make([]float64, nFaces-1)
	for i := range faces {
		faces[i] = origin + float64(i)*delta
	}
	for i := range centers {
		centers[i] = origin + (float64(i)+0.5)*delta
	}
	return NewAxis(name, centers, faces)
}

// Validate checks the axis invariants.
func (a *Axis) Validate() error {
	fName, cName := a.Name+"F", a.Name+"C"
	nf := len(a.Faces)
	if nf < 2 {
		return &InvalidGridError{Name: fName, Index: nf, Reason: "need at least two faces"}
	}
	if len(a.Centers) != nf-1 {
		return &ShapeMismatchError{Name: cName, Against: fName, Dim: 0, Have: len(a.Centers), Want: nf - 1}
	}
	for i, f := range a.Faces {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return &InvalidGridError{Name: fName, Index: i, Reason: fmt.Sprintf("coordinate is %g", f)}
		}
	}
	for i, c := range a.Centers {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return &InvalidGridError{Name: cName, Index: i, Reason: fmt.Sprintf("coordinate is %g", c)}
		}
	}
	increasing := a.Faces[1] > a.Faces[0]
	for i := 0; i < nf-1; i++ {
		lo, hi := a.Faces[i], a.Faces[i+1]
		if (increasing && hi <= lo) || (!increasing && hi >= lo) {
			return &InvalidGridError{Name: fName, Index: i + 1, Reason: "faces are not strictly monotonic"}
		}
		// (c-lo)*(hi-c) is positive only for c strictly between lo and hi,
		// whichever way the axis runs.
		if c := a.Centers[i]; (c-lo)*(hi-c) <= 0 {
			return &InvalidGridError{Name: cName, Index: i,
				Reason: fmt.Sprintf("center %g is not strictly between faces %g and %g", c, lo, hi)}
		}
	}
	return nil
}

// NumFaces returns the number of faces along the axis.
func (a *Axis) NumFaces() int { return len(a.Faces) }

// Spacing returns the signed distances between consecutive faces.
func (a *Axis) Spacing() []float64 {
	d := make([]float64, len(a.Faces)-1)
	floats.SubTo(d, a.Faces[1:], a.Faces[:len(a.Faces)-1])
	return d
}

// Grid is a two-dimensional staggered (Arakawa C) grid.
type Grid struct {
	X, Y *Axis
}

// NewGrid returns a validated grid from the cell-center and cell-face
// coordinates in the x and y directions.
func NewGrid(xC, xF, yC, yF []float64) (*Grid, error) {
	x, err := NewAxis("x", xC, xF)
	if err != nil {
		return nil, err
	}
	y, err := NewAxis("y", yC, yF)
	if err != nil {
		return nil, err
	}
	return &Grid{X: x, Y: y}, nil
}

// Shape returns the number of x faces (m) and y faces (n), which is also
// the shape of the stream function array.
func (g *Grid) Shape() (m, n int) {
	return g.X.NumFaces(), g.Y.NumFaces()
}
