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
	"errors"
	"math"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInputs returns inputs for a 4x3 grid that DirectIntegration accepts.
func validInputs() (u, v *sparse.DenseArray, xC, xF, yC, yF, psiBottom, psiLeft []float64) {
	xF, xC = []float64{0, 1, 2, 3}, []float64{0.5, 1.5, 2.5}
	yF, yC = []float64{0, 1, 2}, []float64{0.5, 1.5}
	return sparse.ZerosDense(4, 2), sparse.ZerosDense(3, 3),
		xC, xF, yC, yF, make([]float64, 4), make([]float64, 3)
}

func TestShapeMismatch(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(u, v **sparse.DenseArray, xC, yC, psiBottom, psiLeft *[]float64)
		field   string
		against string
		dim     int
	}{
		{
			name:    "u rows",
			modify:  func(u, v **sparse.DenseArray, xC, yC, b, l *[]float64) { *u = sparse.ZerosDense(3, 2) },
			field:   "u",
			against: "xF",
			dim:     0,
		},
		{
			name:    "u cols",
			modify:  func(u, v **sparse.DenseArray, xC, yC, b, l *[]float64) { *u = sparse.ZerosDense(4, 3) },
			field:   "u",
			against: "yC",
			dim:     1,
		},
		{
			name:    "v rows",
			modify:  func(u, v **sparse.DenseArray, xC, yC, b, l *[]float64) { *v = sparse.ZerosDense(4, 3) },
			field:   "v",
			against: "xC",
			dim:     0,
		},
		{
			name:    "v cols",
			modify:  func(u, v **sparse.DenseArray, xC, yC, b, l *[]float64) { *v = sparse.ZerosDense(3, 2) },
			field:   "v",
			against: "yF",
			dim:     1,
		},
		{
			name:    "u rank",
			modify:  func(u, v **sparse.DenseArray, xC, yC, b, l *[]float64) { *u = sparse.ZerosDense(8) },
			field:   "u",
			against: "a velocity field",
			dim:     -1,
		},
		{
			name:    "nil v",
			modify:  func(u, v **sparse.DenseArray, xC, yC, b, l *[]float64) { *v = nil },
			field:   "v",
			against: "a velocity field",
			dim:     -1,
		},
		{
			name:    "psiBottom",
			modify:  func(u, v **sparse.DenseArray, xC, yC, b, l *[]float64) { *b = (*b)[:3] },
			field:   "psiBottom",
			against: "xF",
		},
		{
			name:    "psiLeft",
			modify:  func(u, v **sparse.DenseArray, xC, yC, b, l *[]float64) { *l = append(*l, 0) },
			field:   "psiLeft",
			against: "yF",
		},
		{
			name:    "xC",
			modify:  func(u, v **sparse.DenseArray, xC, yC, b, l *[]float64) { *xC = (*xC)[:2] },
			field:   "xC",
			against: "xF",
		},
		{
			name:    "yC",
			modify:  func(u, v **sparse.DenseArray, xC, yC, b, l *[]float64) { *yC = []float64{0.5, 1, 1.5} },
			field:   "yC",
			against: "yF",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			u, v, xC, xF, yC, yF, psiBottom, psiLeft := validInputs()
			test.modify(&u, &v, &xC, &yC, &psiBottom, &psiLeft)
			_, err := DirectIntegration(u, v, xC, xF, yC, yF, psiBottom, psiLeft)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrShapeMismatch), "error %v", err)
			var sErr *ShapeMismatchError
			require.True(t, errors.As(err, &sErr))
			assert.Equal(t, test.field, sErr.Name)
			assert.Equal(t, test.against, sErr.Against)
			assert.Equal(t, test.dim, sErr.Dim)
		})
	}
}

func TestInvalidGrid(t *testing.T) {
	tests := []struct {
		name   string
		xC, xF []float64
		field  string
		index  int
	}{
		{name: "one face", xC: []float64{}, xF: []float64{0}, field: "xF", index: 1},
		{name: "repeated face", xC: []float64{0.5, 1, 1.5}, xF: []float64{0, 1, 1, 2}, field: "xF", index: 2},
		{name: "reversed face", xC: []float64{0.5, 1.5, 1.2}, xF: []float64{0, 1, 2, 1.1}, field: "xF", index: 3},
		{name: "center outside", xC: []float64{0.5, 2.5, 2.6}, xF: []float64{0, 1, 2, 3}, field: "xC", index: 1},
		{name: "center on face", xC: []float64{0, 1.5, 2.5}, xF: []float64{0, 1, 2, 3}, field: "xC", index: 0},
		{name: "NaN face", xC: []float64{0.5, 1.5, 2.5}, xF: []float64{0, 1, math.NaN(), 3}, field: "xF", index: 2},
		{name: "Inf center", xC: []float64{0.5, math.Inf(1), 2.5}, xF: []float64{0, 1, 2, 3}, field: "xC", index: 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewAxis("x", test.xC, test.xF)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidGrid), "error %v", err)
			var gErr *InvalidGridError
			require.True(t, errors.As(err, &gErr))
			assert.Equal(t, test.field, gErr.Name)
			assert.Equal(t, test.index, gErr.Index)
		})
	}

	t.Run("decreasing", func(t *testing.T) {
		_, err := NewAxis("x", []float64{2.5, 1.5, 0.5}, []float64{3, 2, 1, 0})
		assert.NoError(t, err)
	})
	t.Run("nil grid", func(t *testing.T) {
		u, v, _, _, _, _, psiBottom, psiLeft := validInputs()
		_, err := new(Solver).Solve(u, v, nil, psiBottom, psiLeft)
		assert.True(t, errors.Is(err, ErrInvalidGrid), "error %v", err)
		_, _, err = ConstantBoundary(nil, 0)
		assert.True(t, errors.Is(err, ErrInvalidGrid), "error %v", err)
		_, _, _, err = SampleStreamFunction(nil, func(x, y float64) float64 { return x })
		assert.True(t, errors.Is(err, ErrInvalidGrid), "error %v", err)
	})
	t.Run("unvalidated grid", func(t *testing.T) {
		g := &Grid{
			X: &Axis{Name: "x", Faces: []float64{0, 1, 1, 2}, Centers: []float64{0.5, 1, 1.5}},
			Y: &Axis{Name: "y", Faces: []float64{0, 1}, Centers: []float64{0.5}},
		}
		_, _, err := ConstantBoundary(g, 0)
		assert.True(t, errors.Is(err, ErrInvalidGrid), "error %v", err)
		_, _, _, err = SampleStreamFunction(g, func(x, y float64) float64 { return x })
		assert.True(t, errors.Is(err, ErrInvalidGrid), "error %v", err)
	})
}

func TestCornerMismatch(t *testing.T) {
	u, v, xC, xF, yC, yF, psiBottom, psiLeft := validInputs()
	g, err := NewGrid(xC, xF, yC, yF)
	require.NoError(t, err)
	psiBottom[0], psiLeft[0] = 1, 1.5

	t.Run("strict", func(t *testing.T) {
		_, err := new(Solver).Solve(u, v, g, psiBottom, psiLeft)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrCornerMismatch))
		var cErr *CornerMismatchError
		require.True(t, errors.As(err, &cErr))
		assert.Equal(t, 1.0, cErr.Bottom)
		assert.Equal(t, 1.5, cErr.Left)
	})
	t.Run("tolerance", func(t *testing.T) {
		s := &Solver{CornerTolerance: 0.5}
		psi, err := s.Solve(u, v, g, psiBottom, psiLeft)
		require.NoError(t, err)
		assert.Equal(t, 1.0, psi.Get(0, 0))
	})
	t.Run("prefer bottom", func(t *testing.T) {
		for _, path := range allPaths {
			s := &Solver{Path: path, Corner: CornerPreferBottom}
			psi, err := s.Solve(u, v, g, psiBottom, psiLeft)
			require.NoError(t, err)
			assert.Equal(t, 1.0, psi.Get(0, 0), path.String())
			assert.Equal(t, psiLeft[1], psi.Get(0, 1), path.String())
		}
	})
	t.Run("NaN corner", func(t *testing.T) {
		b := append([]float64(nil), psiBottom...)
		b[0] = math.NaN()
		psi, err := new(Solver).Solve(u, v, g, b, psiLeft)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(psi.Get(0, 0)))
	})
}

func TestRejectNonFinite(t *testing.T) {
	u, v, xC, xF, yC, yF, psiBottom, psiLeft := validInputs()
	g, err := NewGrid(xC, xF, yC, yF)
	require.NoError(t, err)
	s := &Solver{RejectNonFinite: true}

	v.Set(math.Inf(-1), 1, 2)
	_, err = s.Solve(u, v, g, psiBottom, psiLeft)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNonFinite))
	var nErr *NonFiniteInputError
	require.True(t, errors.As(err, &nErr))
	assert.Equal(t, "v", nErr.Name)
	assert.Equal(t, 5, nErr.Index)
	assert.True(t, math.IsInf(nErr.Value, -1))

	// Set ignores zero values.
	v.Elements[1*3+2] = 0
	psiLeft[2] = math.NaN()
	_, err = s.Solve(u, v, g, psiBottom, psiLeft)
	require.Error(t, err)
	require.True(t, errors.As(err, &nErr))
	assert.Equal(t, "psiLeft", nErr.Name)
	assert.Equal(t, 2, nErr.Index)
}
