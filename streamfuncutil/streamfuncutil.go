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

package streamfuncutil

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/streamfunc"
	"github.com/spf13/cobra"
)

// newLogger returns a logger that writes to w.
func newLogger(w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.Out = w
	log.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	}
	return log
}

// Solve calculates a stream function.
//
// CobraCommand is the cobra.Command instance where Solve is called from.
// Log messages are written to its output and to LogFile.
//
// OutputFile is the path where the stream function should be written
// as a NetCDF file.
//
// Input specifies the velocity data to read.
//
// Boundary and BoundaryValue specify the boundary values; see Boundaries.
//
// Solver performs the calculation. Its Log field is set by Solve.
func Solve(CobraCommand *cobra.Command, LogFile, OutputFile string, Input *Input,
	Boundary string, BoundaryValue float64, Solver *streamfunc.Solver) error {

	startTime := time.Now()

	logfile, err := os.Create(LogFile)
	if err != nil {
		return fmt.Errorf("streamfunc: problem creating log file: %v", err)
	}
	defer logfile.Close()
	log := newLogger(io.MultiWriter(CobraCommand.OutOrStdout(), logfile))
	Solver.Log = log

	log.WithFields(logrus.Fields{
		"file":   Input.File,
		"format": Input.Format,
		"record": Input.Record,
	}).Info("reading input data")
	f, err := Input.Read()
	if err != nil {
		return err
	}
	psiBottom, psiLeft, err := Boundaries(f, Boundary, BoundaryValue)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"path":     Solver.Path.String(),
		"boundary": Boundary,
	}).Info("calculating stream function")
	psi, err := Solver.Solve(f.U, f.V, f.Grid, psiBottom, psiLeft)
	if err != nil {
		return err
	}
	d, err := streamfunc.Diagnose(f.U, f.V, f.Grid, psiBottom, psiLeft)
	if err != nil {
		return err
	}
	logDiagnostics(log, d)

	w, err := os.Create(OutputFile)
	if err != nil {
		return fmt.Errorf("streamfunc: problem creating output file: %v", err)
	}
	if err := streamfunc.WriteNCF(w, psi, f.Grid, d); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("streamfunc: problem closing output file: %v", err)
	}
	log.WithField("file", OutputFile).Infof("finished in %v", time.Since(startTime))
	return nil
}

// Diagnose calculates and logs diagnostics for the velocities in Input
// with the given boundary values. If ReportFile is not empty, the
// diagnostics are also saved there in TOML format.
func Diagnose(CobraCommand *cobra.Command, Input *Input, Boundary string, BoundaryValue float64,
	ReportFile string) (*streamfunc.Diagnostics, error) {

	log := newLogger(CobraCommand.OutOrStdout())
	f, err := Input.Read()
	if err != nil {
		return nil, err
	}
	psiBottom, psiLeft, err := Boundaries(f, Boundary, BoundaryValue)
	if err != nil {
		return nil, err
	}
	d, err := streamfunc.Diagnose(f.U, f.V, f.Grid, psiBottom, psiLeft)
	if err != nil {
		return nil, err
	}
	logDiagnostics(log, d)

	if ReportFile != "" {
		if err := writeReport(ReportFile, d); err != nil {
			return nil, err
		}
		log.WithField("file", ReportFile).Info("wrote diagnostics report")
	}
	return d, nil
}

func logDiagnostics(log logrus.FieldLogger, d *streamfunc.Diagnostics) {
	log.WithFields(logrus.Fields{
		"nx":                 d.Nx,
		"ny":                 d.Ny,
		"max_abs_divergence": d.MaxAbsDivergence,
		"rms_divergence":     d.RMSDivergence,
		"path_discrepancy":   d.PathDiscrepancy,
	}).Info("diagnostics")
}

// writeReport saves d to file name in TOML format.
func writeReport(name string, d *streamfunc.Diagnostics) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("streamfunc: problem creating report file: %v", err)
	}
	if err := toml.NewEncoder(f).Encode(d); err != nil {
		f.Close()
		return fmt.Errorf("streamfunc: writing report: %v", err)
	}
	return f.Close()
}

// Sample writes an input file to OutputFile holding the velocities and
// boundary values of the stream function ψ = sin(x)·cos(y) on a uniform
// grid with nx by ny cells covering lx by ly.
func Sample(CobraCommand *cobra.Command, OutputFile string, nx, ny int, lx, ly float64) error {
	if nx < 1 || ny < 1 {
		return fmt.Errorf("streamfunc: the sample grid needs at least one cell in each direction but has %dx%d", nx, ny)
	}
	x, err := streamfunc.UniformAxis("x", 0, lx/float64(nx), nx+1)
	if err != nil {
		return err
	}
	y, err := streamfunc.UniformAxis("y", 0, ly/float64(ny), ny+1)
	if err != nil {
		return err
	}
	g := &streamfunc.Grid{X: x, Y: y}
	u, v, corners, err := streamfunc.SampleStreamFunction(g, func(x, y float64) float64 {
		return math.Sin(x) * math.Cos(y)
	})
	if err != nil {
		return err
	}
	m, n := g.Shape()
	fields := &streamfunc.Fields{
		U:         u,
		V:         v,
		Grid:      g,
		PsiBottom: make([]float64, m),
		PsiLeft:   make([]float64, n),
	}
	for i := range fields.PsiBottom {
		fields.PsiBottom[i] = corners.Get(i, 0)
	}
	for j := range fields.PsiLeft {
		fields.PsiLeft[j] = corners.Get(0, j)
	}

	w, err := os.Create(OutputFile)
	if err != nil {
		return fmt.Errorf("streamfunc: problem creating output file: %v", err)
	}
	if err := fields.Write(w, streamfunc.DefaultVarNames()); err != nil {
		w.Close()
		return err
	}
	CobraCommand.Printf("wrote %dx%d sample to %s\n", nx, ny, OutputFile)
	return w.Close()
}
