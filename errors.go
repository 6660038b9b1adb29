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
	"fmt"
)

// Sentinel errors. The detailed error types below unwrap to these,
// so they can be matched with errors.Is.
var (
	// ErrShapeMismatch indicates that the dimensions of two inputs
	// are not consistent with each other.
	ErrShapeMismatch = errors.New("streamfunc: shape mismatch")

	// ErrInvalidGrid indicates coordinates that are not strictly monotonic,
	// cell centers that are not bracketed by their faces, or an axis
	// with fewer than two faces.
	ErrInvalidGrid = errors.New("streamfunc: invalid grid")

	// ErrNonFinite indicates a NaN or infinite input value when
	// non-finite values are rejected.
	ErrNonFinite = errors.New("streamfunc: non-finite input")

	// ErrCornerMismatch indicates that the bottom and left boundary
	// values disagree at the shared corner.
	ErrCornerMismatch = errors.New("streamfunc: inconsistent corner value")
)

// ShapeMismatchError reports that dimension Dim of Name has length Have,
// whereas its relation to Against requires length Want.
// A negative Dim means that Have and Want are numbers of dimensions
// rather than a length.
type ShapeMismatchError struct {
	Name, Against string
	Dim           int
	Have, Want    int
}

func (e *ShapeMismatchError) Error() string {
	if e.Dim < 0 {
		return fmt.Sprintf("streamfunc: shape mismatch: %s has %d dimensions but %s requires %d",
			e.Name, e.Have, e.Against, e.Want)
	}
	return fmt.Sprintf("streamfunc: shape mismatch: dimension %d of %s has length %d but %s requires %d",
		e.Dim, e.Name, e.Have, e.Against, e.Want)
}

// Unwrap returns ErrShapeMismatch.
func (e *ShapeMismatchError) Unwrap() error { return ErrShapeMismatch }

// InvalidGridError reports a problem with coordinate array Name at Index.
type InvalidGridError struct {
	Name   string
	Index  int
	Reason string
}

func (e *InvalidGridError) Error() string {
	return fmt.Sprintf("streamfunc: invalid grid: %s[%d]: %s", e.Name, e.Index, e.Reason)
}

// Unwrap returns ErrInvalidGrid.
func (e *InvalidGridError) Unwrap() error { return ErrInvalidGrid }

// NonFiniteInputError reports a NaN or Inf at flat index Index of input Name.
type NonFiniteInputError struct {
	Name  string
	Index int
	Value float64
}

func (e *NonFiniteInputError) Error() string {
	return fmt.Sprintf("streamfunc: non-finite input: %s element %d is %g", e.Name, e.Index, e.Value)
}

// Unwrap returns ErrNonFinite.
func (e *NonFiniteInputError) Unwrap() error { return ErrNonFinite }

// CornerMismatchError reports disagreeing boundary values at ψ[0,0].
type CornerMismatchError struct {
	Bottom, Left, Tolerance float64
}

func (e *CornerMismatchError) Error() string {
	return fmt.Sprintf("streamfunc: psiBottom[0]=%g and psiLeft[0]=%g differ by more than %g",
		e.Bottom, e.Left, e.Tolerance)
}

// Unwrap returns ErrCornerMismatch.
func (e *CornerMismatchError) Unwrap() error { return ErrCornerMismatch }
