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
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// ncfVar is a variable for writeTestNCF.
type ncfVar struct {
	name string
	dims []string
	data interface{}
}

// writeTestNCF creates a NetCDF file in a temporary directory with
// the given dimensions, variables and global attributes.
func writeTestNCF(t *testing.T, dims []string, lengths []int, vars []ncfVar, attrs map[string]interface{}) *os.File {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "test.nc"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	h := cdf.NewHeader(dims, lengths)
	for _, v := range vars {
		h.AddVariable(v.name, v.dims, v.data)
	}
	for name, val := range attrs {
		h.AddAttribute("", name, val)
	}
	h.Define()
	ff, err := cdf.Create(f, h)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range vars {
		end := append([]int(nil), ff.Header.Lengths(v.name)...)
		if len(end) > 0 && end[0] == 0 {
			// Record variable: the number of records follows from the data.
			size := 1
			for _, l := range end[1:] {
				size *= l
			}
			end[0] = dataLen(v.data) / size
		}
		if _, err := ff.Writer(v.name, make([]int, len(end)), end).Write(v.data); err != nil {
			t.Fatalf("writing %s: %v", v.name, err)
		}
	}
	if err := cdf.UpdateNumRecs(f); err != nil {
		t.Fatal(err)
	}
	return f
}

func dataLen(data interface{}) int {
	switch d := data.(type) {
	case []float32:
		return len(d)
	case []float64:
		return len(d)
	case []int32:
		return len(d)
	default:
		panic(fmt.Errorf("unsupported data type %T", data))
	}
}

func tempFile(t *testing.T, name string) *os.File {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), name))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestFieldsRoundTrip(t *testing.T) {
	g := randomGrid(rand.New(rand.NewSource(30)), 6, 4)
	u, v, _, err := SampleStreamFunction(g, func(x, y float64) float64 { return x * math.Sin(y) })
	if err != nil {
		t.Fatal(err)
	}
	psiBottom, psiLeft, err := BoundaryFromVelocity(u, v, g, 1)
	if err != nil {
		t.Fatal(err)
	}

	for _, withBoundary := range []bool{true, false} {
		fields := &Fields{U: u, V: v, Grid: g}
		if withBoundary {
			fields.PsiBottom, fields.PsiLeft = psiBottom, psiLeft
		}
		f := tempFile(t, "fields.nc")
		if err := fields.Write(f, DefaultVarNames()); err != nil {
			t.Fatal(err)
		}
		o, err := ReadNCF(f, DefaultVarNames(), 0)
		if err != nil {
			t.Fatal(err)
		}
		arrayCompare(o.U, u, 0, "u", t)
		arrayCompare(o.V, v, 0, "v", t)
		if !reflect.DeepEqual(o.Grid, g) {
			t.Errorf("grid: have %+v, want %+v", o.Grid, g)
		}
		if !reflect.DeepEqual(o.PsiBottom, fields.PsiBottom) || !reflect.DeepEqual(o.PsiLeft, fields.PsiLeft) {
			t.Errorf("boundary: have %v and %v, want %v and %v",
				o.PsiBottom, o.PsiLeft, fields.PsiBottom, fields.PsiLeft)
		}
	}
}

func TestReadNCFYMajor(t *testing.T) {
	// Two records of u(time, yC, xF) and v(time, yF, xC) on a 3x3 grid.
	uData := make([]float32, 2*2*3)
	for k := range uData {
		uData[k] = float32(k)
	}
	vData := make([]float32, 2*3*2)
	for k := range vData {
		vData[k] = -float32(k)
	}
	f := writeTestNCF(t,
		[]string{"time", "xF", "yF", "xC", "yC"},
		[]int{2, 3, 3, 2, 2},
		[]ncfVar{
			{"xf", []string{"xF"}, []float64{0, 1, 2}},
			{"yf", []string{"yF"}, []float64{0, 2, 4}},
			{"xc", []string{"xC"}, []float64{0.5, 1.5}},
			{"yc", []string{"yC"}, []float64{1, 3}},
			{"U", []string{"time", "yC", "xF"}, uData},
			{"V", []string{"time", "yF", "xC"}, vData},
		}, nil)
	names := VarNames{U: "U", V: "V", XC: "xc", XF: "xf", YC: "yc", YF: "yf"}
	o, err := ReadNCF(f, names, 1)
	if err != nil {
		t.Fatal(err)
	}
	// Record 1 of U holds 6..11 as [yC][xF].
	wantU := denseFrom(3, 2,
		6, 9,
		7, 10,
		8, 11,
	)
	// Record 1 of V holds -6..-11 as [yF][xC].
	wantV := denseFrom(2, 3,
		-6, -8, -10,
		-7, -9, -11,
	)
	arrayCompare(o.U, wantU, 0, "u", t)
	arrayCompare(o.V, wantV, 0, "v", t)
	if o.PsiBottom != nil || o.PsiLeft != nil {
		t.Error("boundary values should not be present")
	}

	if _, err := ReadNCF(f, names, 2); err == nil {
		t.Error("record 2 should be out of range")
	}
	names.U = "missing"
	if _, err := ReadNCF(f, names, 0); err == nil {
		t.Error("expected an error for a missing variable")
	}
}

func TestReadNCFShapeMismatch(t *testing.T) {
	f := writeTestNCF(t,
		[]string{"xF", "yF", "xC", "yC"},
		[]int{3, 3, 2, 2},
		[]ncfVar{
			{"xF", []string{"xF"}, []float64{0, 1, 2}},
			{"yF", []string{"yF"}, []float64{0, 1, 2}},
			{"xC", []string{"xC"}, []float64{0.5, 1.5}},
			{"yC", []string{"yC"}, []float64{0.5, 1.5}},
			{"u", []string{"xC", "yC"}, make([]float64, 4)},
			{"v", []string{"xC", "yF"}, make([]float64, 6)},
		}, nil)
	_, err := ReadNCF(f, DefaultVarNames(), 0)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("have error %v, want a shape mismatch", err)
	}
}

func TestWriteNCF(t *testing.T) {
	g := randomGrid(rand.New(rand.NewSource(31)), 5, 7)
	_, _, psi, err := SampleStreamFunction(g, func(x, y float64) float64 { return x - y*y })
	if err != nil {
		t.Fatal(err)
	}
	d := &Diagnostics{Nx: 5, Ny: 7, MaxAbsDivergence: 1e-15, RMSDivergence: 1e-16, PathDiscrepancy: 0.25}
	f := tempFile(t, "psi.nc")
	if err := WriteNCF(f, psi, g, d); err != nil {
		t.Fatal(err)
	}
	psi2, g2, err := ReadPsiNCF(f)
	if err != nil {
		t.Fatal(err)
	}
	arrayCompare(psi2, psi, 0, "psi", t)
	if !reflect.DeepEqual(g2, g) {
		t.Errorf("grid: have %+v, want %+v", g2, g)
	}

	ff, err := cdf.Open(f)
	if err != nil {
		t.Fatal(err)
	}
	if a, ok := ff.Header.GetAttribute("", "path_discrepancy").([]float64); !ok || a[0] != 0.25 {
		t.Errorf("path_discrepancy attribute: %v", ff.Header.GetAttribute("", "path_discrepancy"))
	}
	if v := ff.Header.GetAttribute("", "streamfunc_version"); v != Version {
		t.Errorf("version attribute: %v", v)
	}

	if err := WriteNCF(tempFile(t, "bad.nc"), sparse.ZerosDense(5, 6), g, nil); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("have error %v, want a shape mismatch", err)
	}
}
