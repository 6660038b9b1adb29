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

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// Divergence returns the finite-volume divergence of the velocity field
// in each grid cell, with shape (m-1, n-1):
//
//	(u[i+1,j]-u[i,j])/Δx_i + (v[i,j+1]-v[i,j])/Δy_j
//
// A velocity field that has a stream function has zero divergence.
func Divergence(u, v *sparse.DenseArray, g *Grid) (*sparse.DenseArray, error) {
	if err := checkVelocity(u, v, g); err != nil {
		return nil, err
	}
	m, n := g.Shape()
	dx, dy := g.X.Spacing(), g.Y.Spacing()
	div := sparse.ZerosDense(m-1, n-1)
	for i := 0; i < m-1; i++ {
		for j := 0; j < n-1; j++ {
			dudx := (u.Elements[(i+1)*(n-1)+j] - u.Elements[i*(n-1)+j]) / dx[i]
			dvdy := (v.Elements[i*n+j+1] - v.Elements[i*n+j]) / dy[j]
			div.Elements[i*(n-1)+j] = dudx + dvdy
		}
	}
	return div, nil
}

// Diagnostics summarizes how well a velocity field and boundary
// values determine a stream function.
type Diagnostics struct {
	// Nx and Ny are the numbers of x and y faces.
	Nx int `toml:"nx"`
	Ny int `toml:"ny"`

	// MaxAbsDivergence and RMSDivergence are the maximum absolute value
	// and the root mean square of the cell divergence.
	MaxAbsDivergence float64 `toml:"max_abs_divergence"`
	RMSDivergence    float64 `toml:"rms_divergence"`

	// PathDiscrepancy is the largest absolute difference between the
	// PathBottom and PathLeft results.
	PathDiscrepancy float64 `toml:"path_discrepancy"`
}

func (d *Diagnostics) String() string {
	return fmt.Sprintf("grid %dx%d: max |divergence| %.4g, rms divergence %.4g, path discrepancy %.4g",
		d.Nx, d.Ny, d.MaxAbsDivergence, d.RMSDivergence, d.PathDiscrepancy)
}

// Diagnose calculates Diagnostics for the given inputs, which must
// satisfy the requirements of DirectIntegration. Corner values are
// not checked for consistency.
func Diagnose(u, v *sparse.DenseArray, g *Grid, psiBottom, psiLeft []float64) (*Diagnostics, error) {
	div, err := Divergence(u, v, g)
	if err != nil {
		return nil, err
	}
	bottom := &Solver{Path: PathBottom, Corner: CornerPreferBottom}
	fromBottom, err := bottom.Solve(u, v, g, psiBottom, psiLeft)
	if err != nil {
		return nil, err
	}
	left := &Solver{Path: PathLeft, Corner: CornerPreferBottom}
	fromLeft, err := left.Solve(u, v, g, psiBottom, psiLeft)
	if err != nil {
		return nil, err
	}

	m, n := g.Shape()
	return &Diagnostics{
		Nx:               m,
		Ny:               n,
		MaxAbsDivergence: floats.Norm(div.Elements, math.Inf(1)),
		RMSDivergence:    floats.Norm(div.Elements, 2) / math.Sqrt(float64(len(div.Elements))),
		PathDiscrepancy:  floats.Distance(fromBottom.Elements, fromLeft.Elements, math.Inf(1)),
	}, nil
}
