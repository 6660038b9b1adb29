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
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// VarNames holds the names of the NetCDF variables that contain each
// input quantity.
type VarNames struct {
	U, V               string
	XC, XF, YC, YF     string
	PsiBottom, PsiLeft string
}

// DefaultVarNames returns the variable names used by default:
// u, v, xC, xF, yC, yF, psi_bottom and psi_left.
func DefaultVarNames() VarNames {
	return VarNames{
		U: "u", V: "v",
		XC: "xC", XF: "xF", YC: "yC", YF: "yF",
		PsiBottom: "psi_bottom", PsiLeft: "psi_left",
	}
}

// Fields holds the inputs to a stream function calculation.
// PsiBottom and PsiLeft are nil if the boundary values are not known.
type Fields struct {
	U, V               *sparse.DenseArray
	Grid               *Grid
	PsiBottom, PsiLeft []float64
}

// ReadNCF reads velocities and grid coordinates from the NetCDF file in rw.
// The coordinates must be one-dimensional. The velocities may be
// two-dimensional, or three-dimensional with a leading (typically time)
// dimension, in which case the given record is read. Velocities may be
// stored either x-major, as u(xF, yC) and v(xC, yF), or y-major, as
// u(yC, xF) and v(yF, xC); the latter are transposed. The boundary
// variables are read if they are present in the file.
func ReadNCF(rw cdf.ReaderWriterAt, names VarNames, record int) (*Fields, error) {
	ff, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("streamfunc: opening netcdf file: %w", err)
	}
	var coords [4][]float64
	for i, name := range []string{names.XC, names.XF, names.YC, names.YF} {
		if coords[i], err = readVector(ff, name); err != nil {
			return nil, err
		}
	}
	g, err := NewGrid(coords[0], coords[1], coords[2], coords[3])
	if err != nil {
		return nil, err
	}

	o := &Fields{Grid: g}
	var uRaw, vRaw *sparse.DenseArray
	if uRaw, err = readRecord(ff, names.U, record); err != nil {
		return nil, err
	}
	if vRaw, err = readRecord(ff, names.V, record); err != nil {
		return nil, err
	}
	if o.U, o.V, err = orient(uRaw, vRaw, g); err != nil {
		return nil, err
	}

	if hasVariable(ff, names.PsiBottom) && hasVariable(ff, names.PsiLeft) {
		if o.PsiBottom, err = readVector(ff, names.PsiBottom); err != nil {
			return nil, err
		}
		if o.PsiLeft, err = readVector(ff, names.PsiLeft); err != nil {
			return nil, err
		}
		if err = checkBoundary(o.PsiBottom, o.PsiLeft, g); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Write writes f to w as a NetCDF file using the given variable names,
// with u and v stored x-major. The boundary values are written if
// they are not nil.
func (f *Fields) Write(w *os.File, names VarNames) error {
	m, n := f.Grid.Shape()
	if err := checkVelocity(f.U, f.V, f.Grid); err != nil {
		return err
	}
	h := gridHeader(m, n)
	h.AddAttribute("", "comment", "streamfunc staggered-grid velocity data file")
	addGridVariables(h, names)
	h.AddVariable(names.U, []string{"xF", "yC"}, []float64{0})
	h.AddAttribute(names.U, "description", "x-component of velocity on the vertical cell faces")
	h.AddVariable(names.V, []string{"xC", "yF"}, []float64{0})
	h.AddAttribute(names.V, "description", "y-component of velocity on the horizontal cell faces")
	withBoundary := f.PsiBottom != nil && f.PsiLeft != nil
	if withBoundary {
		if err := checkBoundary(f.PsiBottom, f.PsiLeft, f.Grid); err != nil {
			return err
		}
		h.AddVariable(names.PsiBottom, []string{"xF"}, []float64{0})
		h.AddAttribute(names.PsiBottom, "description", "stream function along the bottom edge of the domain")
		h.AddVariable(names.PsiLeft, []string{"yF"}, []float64{0})
		h.AddAttribute(names.PsiLeft, "description", "stream function along the left edge of the domain")
	}
	h.Define()

	ff, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("streamfunc: creating netcdf file: %w", err)
	}
	data := map[string][]float64{
		names.XF: f.Grid.X.Faces, names.XC: f.Grid.X.Centers,
		names.YF: f.Grid.Y.Faces, names.YC: f.Grid.Y.Centers,
		names.U: f.U.Elements, names.V: f.V.Elements,
	}
	if withBoundary {
		data[names.PsiBottom] = f.PsiBottom
		data[names.PsiLeft] = f.PsiLeft
	}
	for _, name := range h.Variables() {
		if err := writeNCF(ff, name, data[name]); err != nil {
			return fmt.Errorf("streamfunc: writing variable %s to netcdf file: %w", name, err)
		}
	}
	return cdf.UpdateNumRecs(w)
}

// WriteNCF writes stream function psi, calculated on grid g, to w as a
// NetCDF file with variable psi(xF, yF) and the grid coordinates.
// If d is not nil, the diagnostics are stored as global attributes.
func WriteNCF(w *os.File, psi *sparse.DenseArray, g *Grid, d *Diagnostics) error {
	m, n := g.Shape()
	if err := checkField("psi", psi, m, n, "xF", "yF"); err != nil {
		return err
	}
	h := gridHeader(m, n)
	h.AddAttribute("", "comment", "streamfunc stream function output file")
	h.AddAttribute("", "streamfunc_version", Version)
	if d != nil {
		h.AddAttribute("", "max_abs_divergence", []float64{d.MaxAbsDivergence})
		h.AddAttribute("", "rms_divergence", []float64{d.RMSDivergence})
		h.AddAttribute("", "path_discrepancy", []float64{d.PathDiscrepancy})
	}
	names := DefaultVarNames()
	addGridVariables(h, names)
	h.AddVariable("psi", []string{"xF", "yF"}, []float64{0})
	h.AddAttribute("psi", "description", "stream function at the cell corners, where dpsi/dy = u and dpsi/dx = -v")
	h.Define()

	ff, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("streamfunc: creating netcdf file: %w", err)
	}
	data := map[string][]float64{
		names.XF: g.X.Faces, names.XC: g.X.Centers,
		names.YF: g.Y.Faces, names.YC: g.Y.Centers,
		"psi": psi.Elements,
	}
	for _, name := range h.Variables() {
		if err := writeNCF(ff, name, data[name]); err != nil {
			return fmt.Errorf("streamfunc: writing variable %s to netcdf file: %w", name, err)
		}
	}
	return cdf.UpdateNumRecs(w)
}

// ReadPsiNCF reads a stream function written by WriteNCF.
func ReadPsiNCF(rw cdf.ReaderWriterAt) (*sparse.DenseArray, *Grid, error) {
	ff, err := cdf.Open(rw)
	if err != nil {
		return nil, nil, fmt.Errorf("streamfunc: opening netcdf file: %w", err)
	}
	names := DefaultVarNames()
	var coords [4][]float64
	for i, name := range []string{names.XC, names.XF, names.YC, names.YF} {
		if coords[i], err = readVector(ff, name); err != nil {
			return nil, nil, err
		}
	}
	g, err := NewGrid(coords[0], coords[1], coords[2], coords[3])
	if err != nil {
		return nil, nil, err
	}
	psi, err := readSlab(ff, "psi", nil)
	if err != nil {
		return nil, nil, err
	}
	m, n := g.Shape()
	if err := checkField("psi", psi, m, n, "xF", "yF"); err != nil {
		return nil, nil, err
	}
	return psi, g, nil
}

// gridHeader returns a header with the staggered grid dimensions.
func gridHeader(m, n int) *cdf.Header {
	return cdf.NewHeader(
		[]string{"xF", "yF", "xC", "yC"},
		[]int{m, n, m - 1, n - 1})
}

// addGridVariables adds the coordinate variables to h.
func addGridVariables(h *cdf.Header, names VarNames) {
	for _, c := range []struct{ name, dim, desc string }{
		{names.XF, "xF", "x-coordinates of the cell faces"},
		{names.YF, "yF", "y-coordinates of the cell faces"},
		{names.XC, "xC", "x-coordinates of the cell centers"},
		{names.YC, "yC", "y-coordinates of the cell centers"},
	} {
		h.AddVariable(c.name, []string{c.dim}, []float64{0})
		h.AddAttribute(c.name, "description", c.desc)
	}
}

func hasVariable(ff *cdf.File, name string) bool {
	return name != "" && ff.Header.Lengths(name) != nil
}

// readVector reads one-dimensional variable name from ff.
func readVector(ff *cdf.File, name string) ([]float64, error) {
	dims := ff.Header.Lengths(name)
	if dims == nil {
		return nil, fmt.Errorf("streamfunc: read netcdf: variable %q not in file", name)
	}
	if len(dims) != 1 {
		return nil, fmt.Errorf("streamfunc: read netcdf: variable %s has %d dimensions; it should have 1", name, len(dims))
	}
	r := ff.Reader(name, nil, nil)
	buf := r.Zero(dims[0])
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("streamfunc: read netcdf variable %s: %w", name, err)
	}
	return toFloat64(name, buf)
}

// readRecord reads two-dimensional variable name from ff, or the given
// record of it if it has a leading third dimension.
func readRecord(ff *cdf.File, name string, record int) (*sparse.DenseArray, error) {
	switch dims := ff.Header.Lengths(name); len(dims) {
	case 0:
		return nil, fmt.Errorf("streamfunc: read netcdf: variable %q not in file", name)
	case 2:
		return readSlab(ff, name, nil)
	case 3:
		return readSlab(ff, name, []int{record})
	default:
		return nil, fmt.Errorf("streamfunc: read netcdf: variable %s has %d dimensions; it should have 2 or 3", name, len(dims))
	}
}

// readSlab reads the two innermost dimensions of variable name from ff
// at the given indices of the outer dimensions.
func readSlab(ff *cdf.File, name string, outer []int) (*sparse.DenseArray, error) {
	dims := ff.Header.Lengths(name)
	if len(dims) != len(outer)+2 {
		return nil, fmt.Errorf("streamfunc: read netcdf: variable %s has %d dimensions; want %d",
			name, len(dims), len(outer)+2)
	}
	start, end := make([]int, len(dims)), make([]int, len(dims))
	for k, idx := range outer {
		// A length of zero marks the unlimited record dimension.
		if idx < 0 || (dims[k] > 0 && idx >= dims[k]) {
			return nil, fmt.Errorf("streamfunc: read netcdf: index %d of dimension %d of variable %s is out of range [0, %d)",
				idx, k, name, dims[k])
		}
		start[k], end[k] = idx, idx+1
	}
	ny, nx := dims[len(dims)-2], dims[len(dims)-1]
	end[len(dims)-2], end[len(dims)-1] = ny, nx

	r := ff.Reader(name, start, end)
	buf := r.Zero(ny * nx)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("streamfunc: read netcdf variable %s: %w", name, err)
	}
	vals, err := toFloat64(name, buf)
	if err != nil {
		return nil, err
	}
	data := sparse.ZerosDense(ny, nx)
	copy(data.Elements, vals)
	return data, nil
}

func toFloat64(name string, buf interface{}) ([]float64, error) {
	switch b := buf.(type) {
	case []float64:
		return b, nil
	case []float32:
		o := make([]float64, len(b))
		for i, v := range b {
			o[i] = float64(v)
		}
		return o, nil
	case []int32:
		o := make([]float64, len(b))
		for i, v := range b {
			o[i] = float64(v)
		}
		return o, nil
	case []int16:
		o := make([]float64, len(b))
		for i, v := range b {
			o[i] = float64(v)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("streamfunc: read netcdf: variable %s has unsupported type %T", name, buf)
	}
}

// writeNCF writes data to variable name in f.
func writeNCF(f *cdf.File, name string, data []float64) error {
	end := f.Header.Lengths(name)
	n := 1
	for _, v := range end {
		n *= v
	}
	if len(data) != n {
		return fmt.Errorf("dims are %d but array length is %d", n, len(data))
	}
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	_, err := w.Write(data)
	return err
}

// orient returns u and v in x-major order, transposing them if they
// are stored y-major. Both fields must use the same order.
func orient(u, v *sparse.DenseArray, g *Grid) (*sparse.DenseArray, *sparse.DenseArray, error) {
	m, n := g.Shape()
	if u.Shape[0] == n-1 && u.Shape[1] == m && v.Shape[0] == n && v.Shape[1] == m-1 {
		return transpose(u), transpose(v), nil
	}
	if err := checkVelocity(u, v, g); err != nil {
		return nil, nil, err
	}
	return u, v, nil
}

// transpose returns a transposed copy of two-dimensional array a.
func transpose(a *sparse.DenseArray) *sparse.DenseArray {
	r, c := a.Shape[0], a.Shape[1]
	o := sparse.ZerosDense(c, r)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			o.Elements[j*r+i] = a.Elements[i*c+j]
		}
	}
	return o
}
