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

import "github.com/ctessum/sparse"

// SampleStreamFunction evaluates the function psi at the corners of grid g
// and returns the velocities whose face fluxes it implies:
//
//	u[i,j] = (ψ(xF_i, yF_j+1) - ψ(xF_i, yF_j)) / Δy_j
//	v[i,j] = -(ψ(xF_i+1, yF_j) - ψ(xF_i, yF_j)) / Δx_i
//
// The resulting fields have zero discrete divergence, and every
// integration path recovers the corner values up to rounding error.
func SampleStreamFunction(g *Grid, psi func(x, y float64) float64) (u, v, corners *sparse.DenseArray, err error) {
	if err := checkGrid(g); err != nil {
		return nil, nil, nil, err
	}
	m, n := g.Shape()
	corners = sparse.ZerosDense(m, n)
	for i, x := range g.X.Faces {
		for j, y := range g.Y.Faces {
			corners.Elements[i*n+j] = psi(x, y)
		}
	}
	dx, dy := g.X.Spacing(), g.Y.Spacing()
	u = sparse.ZerosDense(m, n-1)
	for i := 0; i < m; i++ {
		for j := 0; j < n-1; j++ {
			u.Elements[i*(n-1)+j] = (corners.Elements[i*n+j+1] - corners.Elements[i*n+j]) / dy[j]
		}
	}
	v = sparse.ZerosDense(m-1, n)
	for i := 0; i < m-1; i++ {
		for j := 0; j < n; j++ {
			v.Elements[i*n+j] = -(corners.Elements[(i+1)*n+j] - corners.Elements[i*n+j]) / dx[i]
		}
	}
	return u, v, corners, nil
}
