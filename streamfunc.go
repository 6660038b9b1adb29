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

// Package streamfunc computes two-dimensional stream functions from
// velocity components on a staggered (Arakawa C) finite-volume grid by
// directly integrating the definition of the stream function with an
// explicit first order difference scheme.
//
// For stream function ψ and velocity components u (x direction) and
// v (y direction)
//
//	∂ψ/∂y = u
//	∂ψ/∂x = -v
//
// u is sited on the vertical cell faces (xF, yC), v on the horizontal cell
// faces (xC, yF) and ψ on the cell corners (xF, yF). All two-dimensional
// arrays are indexed [x, y].
package streamfunc

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// Version gives the version number.
const Version = "1.0.0"

// Path selects the traversal used to fill the interior of the stream function.
type Path int

const (
	// PathBottom integrates u in the y direction, starting from the
	// bottom boundary values: ψ[i,j] = ψ[i,0] + Σ_{k<j} u[i,k]·Δy_k.
	PathBottom Path = iota

	// PathLeft integrates -v in the x direction, starting from the
	// left boundary values: ψ[i,j] = ψ[0,j] - Σ_{k<i} v[k,j]·Δx_k.
	PathLeft

	// PathMean averages the PathBottom and PathLeft results.
	PathMean
)

func (p Path) String() string {
	switch p {
	case PathBottom:
		return "bottom"
	case PathLeft:
		return "left"
	case PathMean:
		return "mean"
	default:
		return fmt.Sprintf("Path(%d)", int(p))
	}
}

// ParsePath returns the Path with the given name
// ("bottom", "left", or "mean").
func ParsePath(s string) (Path, error) {
	for _, p := range []Path{PathBottom, PathLeft, PathMean} {
		if s == p.String() {
			return p, nil
		}
	}
	return 0, fmt.Errorf("streamfunc: invalid integration path %q; valid options are bottom, left, and mean", s)
}

// CornerPolicy specifies what to do when the two boundaries disagree
// about the value of ψ at the shared corner.
type CornerPolicy int

const (
	// CornerStrict returns a CornerMismatchError when the corner values
	// differ by more than the tolerance.
	CornerStrict CornerPolicy = iota

	// CornerPreferBottom uses the bottom boundary value at the corner.
	CornerPreferBottom
)

func (c CornerPolicy) String() string {
	switch c {
	case CornerStrict:
		return "strict"
	case CornerPreferBottom:
		return "bottom"
	default:
		return fmt.Sprintf("CornerPolicy(%d)", int(c))
	}
}

// ParseCornerPolicy returns the CornerPolicy with the given name
// ("strict" or "bottom").
func ParseCornerPolicy(s string) (CornerPolicy, error) {
	for _, c := range []CornerPolicy{CornerStrict, CornerPreferBottom} {
		if s == c.String() {
			return c, nil
		}
	}
	return 0, fmt.Errorf("streamfunc: invalid corner policy %q; valid options are strict and bottom", s)
}

// Solver computes stream functions. The zero value integrates along
// PathBottom, requires exactly matching corner values and lets non-finite
// inputs propagate into the result.
type Solver struct {
	// Path is the integration path used for the interior points.
	Path Path

	// Corner specifies how disagreeing corner values are handled, and
	// CornerTolerance is the largest difference accepted by CornerStrict.
	Corner          CornerPolicy
	CornerTolerance float64

	// RejectNonFinite specifies whether NaN or Inf input values cause
	// a NonFiniteInputError instead of propagating into the result.
	RejectNonFinite bool

	// Log receives status messages. It can be nil.
	Log logrus.FieldLogger
}

// DirectIntegration calculates the stream function at the cell corners
// (xF, yF) using the default Solver.
//
// u has shape (m, n-1) and holds the x-components of velocity on the
// vertical cell faces (xF, yC). v has shape (m-1, n) and holds the
// y-components of velocity on the horizontal cell faces (xC, yF).
// xC and xF are the x-coordinates of the cell centers and faces, with
// lengths m-1 and m, and yC and yF are the y-coordinates, with lengths n-1
// and n. psiBottom (length m) and psiLeft (length n) are the values of the
// stream function along the bottom and left hand side of the domain.
//
// The result has shape (m, n). No input is modified.
func DirectIntegration(u, v *sparse.DenseArray, xC, xF, yC, yF, psiBottom, psiLeft []float64) (*sparse.DenseArray, error) {
	g, err := NewGrid(xC, xF, yC, yF)
	if err != nil {
		return nil, err
	}
	var s Solver
	return s.Solve(u, v, g, psiBottom, psiLeft)
}

// Solve calculates the stream function at the corners of grid g from
// velocities u and v and boundary values psiBottom and psiLeft.
// See DirectIntegration for the required shapes. All inputs are validated
// before any computation, and no input is modified.
func (s *Solver) Solve(u, v *sparse.DenseArray, g *Grid, psiBottom, psiLeft []float64) (*sparse.DenseArray, error) {
	if err := checkVelocity(u, v, g); err != nil {
		return nil, err
	}
	if err := checkBoundary(psiBottom, psiLeft, g); err != nil {
		return nil, err
	}
	if s.RejectNonFinite {
		for _, in := range []struct {
			name string
			vals []float64
		}{
			{"u", u.Elements}, {"v", v.Elements},
			{"psiBottom", psiBottom}, {"psiLeft", psiLeft},
		} {
			if err := checkFinite(in.name, in.vals); err != nil {
				return nil, err
			}
		}
	}
	if err := s.checkCorner(psiBottom[0], psiLeft[0]); err != nil {
		return nil, err
	}

	m, n := g.Shape()
	if s.Log != nil {
		s.Log.WithFields(logrus.Fields{
			"nx":   m,
			"ny":   n,
			"path": s.Path.String(),
		}).Debug("streamfunc: integrating stream function")
	}

	psi := sparse.ZerosDense(m, n)
	switch s.Path {
	case PathBottom:
		integrateBottom(psi, u, g.Y.Spacing(), psiBottom)
	case PathLeft:
		integrateLeft(psi, v, g.X.Spacing(), psiLeft)
	case PathMean:
		integrateBottom(psi, u, g.Y.Spacing(), psiBottom)
		left := sparse.ZerosDense(m, n)
		integrateLeft(left, v, g.X.Spacing(), psiLeft)
		floats.Add(psi.Elements, left.Elements)
		floats.Scale(0.5, psi.Elements)
	default:
		return nil, fmt.Errorf("streamfunc: invalid integration path %v", s.Path)
	}
	setBoundary(psi, psiBottom, psiLeft)
	return psi, nil
}

// checkCorner applies the corner policy. NaN corner values are not
// compared so that they propagate like any other non-finite input.
func (s *Solver) checkCorner(bottom, left float64) error {
	d := math.Abs(bottom - left)
	if d == 0 || math.IsNaN(d) {
		return nil
	}
	switch s.Corner {
	case CornerStrict:
		if d > s.CornerTolerance {
			return &CornerMismatchError{Bottom: bottom, Left: left, Tolerance: s.CornerTolerance}
		}
	case CornerPreferBottom:
		if s.Log != nil {
			s.Log.WithFields(logrus.Fields{
				"psiBottom[0]": bottom,
				"psiLeft[0]":   left,
			}).Warn("streamfunc: corner values disagree; using the bottom value")
		}
	default:
		return fmt.Errorf("streamfunc: invalid corner policy %v", s.Corner)
	}
	return nil
}

// integrateBottom fills columns 1..m-1 of psi by accumulating u·Δy
// upward from psiBottom. Each x-row of psi and u is contiguous.
func integrateBottom(psi, u *sparse.DenseArray, dy, psiBottom []float64) {
	m, n := psi.Shape[0], psi.Shape[1]
	for i := 1; i < m; i++ {
		row := psi.Elements[i*n+1 : (i+1)*n]
		floats.MulTo(row, u.Elements[i*(n-1):(i+1)*(n-1)], dy)
		floats.CumSum(row, row)
		floats.AddConst(psiBottom[i], row)
	}
}

// integrateLeft fills rows 1..n-1 of psi by accumulating -v·Δx
// rightward from psiLeft.
func integrateLeft(psi, v *sparse.DenseArray, dx, psiLeft []float64) {
	m, n := psi.Shape[0], psi.Shape[1]
	for j := 1; j < n; j++ {
		acc := psiLeft[j]
		for i := 1; i < m; i++ {
			acc -= v.Elements[(i-1)*n+j] * dx[i-1]
			psi.Elements[i*n+j] = acc
		}
	}
}

// setBoundary copies the boundary values into psi. The bottom value
// is written last, so it is the one kept at the corner.
func setBoundary(psi *sparse.DenseArray, psiBottom, psiLeft []float64) {
	n := psi.Shape[1]
	copy(psi.Elements[:n], psiLeft)
	for i, b := range psiBottom {
		psi.Elements[i*n] = b
	}
}
