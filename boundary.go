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
	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// ConstantBoundary returns bottom and left boundary values for grid g
// that all equal c. It returns an error if g is not a valid grid.
func ConstantBoundary(g *Grid, c float64) (psiBottom, psiLeft []float64, err error) {
	if err := checkGrid(g); err != nil {
		return nil, nil, err
	}
	m, n := g.Shape()
	psiBottom = make([]float64, m)
	psiLeft = make([]float64, n)
	floats.AddConst(c, psiBottom)
	floats.AddConst(c, psiLeft)
	return psiBottom, psiLeft, nil
}

// BoundaryFromVelocity returns bottom and left boundary values that are
// consistent with the fluxes through the bottom and left domain faces,
// with ψ = psi0 at the bottom-left corner. Along the bottom,
// ψ[i+1] = ψ[i] - v[i,0]·Δx_i; along the left side, ψ[j+1] = ψ[j] + u[0,j]·Δy_j.
func BoundaryFromVelocity(u, v *sparse.DenseArray, g *Grid, psi0 float64) (psiBottom, psiLeft []float64, err error) {
	if err := checkVelocity(u, v, g); err != nil {
		return nil, nil, err
	}
	m, n := g.Shape()

	psiBottom = make([]float64, m)
	for i, dx := range g.X.Spacing() {
		psiBottom[i+1] = -v.Elements[i*n] * dx
	}
	floats.CumSum(psiBottom, psiBottom)
	floats.AddConst(psi0, psiBottom)

	psiLeft = make([]float64, n)
	floats.MulTo(psiLeft[1:], u.Elements[:n-1], g.Y.Spacing())
	floats.CumSum(psiLeft, psiLeft)
	floats.AddConst(psi0, psiLeft)

	return psiBottom, psiLeft, nil
}
