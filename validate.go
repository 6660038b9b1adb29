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
	"math"

	"github.com/ctessum/sparse"
)

// checkField checks that field a, called name, is a two-dimensional
// array of shape (rows, cols), where rowsFrom and colsFrom name the
// coordinate arrays that set those lengths.
func checkField(name string, a *sparse.DenseArray, rows, cols int, rowsFrom, colsFrom string) error {
	if a == nil {
		return &ShapeMismatchError{Name: name, Against: "a velocity field", Dim: -1, Have: 0, Want: 2}
	}
	if len(a.Shape) != 2 {
		return &ShapeMismatchError{Name: name, Against: "a velocity field", Dim: -1, Have: len(a.Shape), Want: 2}
	}
	if a.Shape[0] != rows {
		return &ShapeMismatchError{Name: name, Against: rowsFrom, Dim: 0, Have: a.Shape[0], Want: rows}
	}
	if a.Shape[1] != cols {
		return &ShapeMismatchError{Name: name, Against: colsFrom, Dim: 1, Have: a.Shape[1], Want: cols}
	}
	if len(a.Elements) != rows*cols {
		return &ShapeMismatchError{Name: name + " elements", Against: name + " shape", Dim: 0,
			Have: len(a.Elements), Want: rows * cols}
	}
	return nil
}

// checkGrid checks that g is defined and that both of its axes are valid.
func checkGrid(g *Grid) error {
	if g == nil || g.X == nil || g.Y == nil {
		return &InvalidGridError{Name: "grid", Reason: "grid is not defined"}
	}
	if err := g.X.Validate(); err != nil {
		return err
	}
	return g.Y.Validate()
}

// checkVelocity checks the grid, and u and v against it.
func checkVelocity(u, v *sparse.DenseArray, g *Grid) error {
	if err := checkGrid(g); err != nil {
		return err
	}
	m, n := g.Shape()
	if err := checkField("u", u, m, n-1, "xF", "yC"); err != nil {
		return err
	}
	return checkField("v", v, m-1, n, "xC", "yF")
}

// checkBoundary checks the lengths of the boundary values against the grid.
func checkBoundary(psiBottom, psiLeft []float64, g *Grid) error {
	m, n := g.Shape()
	if len(psiBottom) != m {
		return &ShapeMismatchError{Name: "psiBottom", Against: "xF", Dim: 0, Have: len(psiBottom), Want: m}
	}
	if len(psiLeft) != n {
		return &ShapeMismatchError{Name: "psiLeft", Against: "yF", Dim: 0, Have: len(psiLeft), Want: n}
	}
	return nil
}

// checkFinite returns an error for the first NaN or Inf in vals.
func checkFinite(name string, vals []float64) error {
	for i, x := range vals {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return &NonFiniteInputError{Name: name, Index: i, Value: x}
		}
	}
	return nil
}
