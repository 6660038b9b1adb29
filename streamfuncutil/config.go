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
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/streamfunc"
	"github.com/spf13/cast"
)

// Input specifies where velocity data are read from.
type Input struct {
	// File is the path to the NetCDF input file.
	File string

	// Format is either "generic" or "wrf".
	Format string

	// Record and Layer are the indices of the time record and,
	// for WRF files, the vertical layer to read.
	Record, Layer int

	// Vars holds the variable names in generic files.
	Vars streamfunc.VarNames
}

// Read reads the velocity data.
func (in *Input) Read() (*streamfunc.Fields, error) {
	f, err := os.Open(in.File)
	if err != nil {
		return nil, fmt.Errorf("streamfunc: opening input file: %v", err)
	}
	defer f.Close()
	switch in.Format {
	case "generic":
		return streamfunc.ReadNCF(f, in.Vars, in.Record)
	case "wrf":
		return streamfunc.ReadWRF(f, in.Record, in.Layer)
	default:
		return nil, fmt.Errorf("streamfunc: invalid InputFormat %q; valid options are generic and wrf", in.Format)
	}
}

// inputConfig returns the input specified in cfg.
func inputConfig(cfg *viper.Viper) (*Input, error) {
	in := &Input{
		File:   expandPath(cfg.GetString("Input")),
		Format: strings.ToLower(cfg.GetString("InputFormat")),
		Record: cfg.GetInt("Record"),
		Layer:  cfg.GetInt("Layer"),
	}
	if in.File == "" {
		return nil, fmt.Errorf(`streamfunc: you need to specify an input file configuration variable (for example: Input="velocity.nc")`)
	}
	vars, err := GetStringMapString("Variables", cfg)
	if err != nil {
		return nil, err
	}
	if in.Vars, err = varNames(vars); err != nil {
		return nil, err
	}
	return in, nil
}

// solverConfig returns the solver specified in cfg.
func solverConfig(cfg *viper.Viper) (*streamfunc.Solver, error) {
	path, err := streamfunc.ParsePath(strings.ToLower(cfg.GetString("Path")))
	if err != nil {
		return nil, err
	}
	corner, err := streamfunc.ParseCornerPolicy(strings.ToLower(cfg.GetString("Corner")))
	if err != nil {
		return nil, err
	}
	tol := cfg.GetFloat64("CornerTolerance")
	if tol < 0 {
		return nil, fmt.Errorf("streamfunc: CornerTolerance must not be negative but is %g", tol)
	}
	return &streamfunc.Solver{
		Path:            path,
		Corner:          corner,
		CornerTolerance: tol,
		RejectNonFinite: cfg.GetBool("RejectNonFinite"),
	}, nil
}

// Boundaries returns the bottom and left stream function boundary values
// for f. mode is "velocity", "zero", or "file"; see the Boundary
// configuration option.
func Boundaries(f *streamfunc.Fields, mode string, value float64) (psiBottom, psiLeft []float64, err error) {
	switch strings.ToLower(mode) {
	case "velocity":
		return streamfunc.BoundaryFromVelocity(f.U, f.V, f.Grid, value)
	case "zero":
		return streamfunc.ConstantBoundary(f.Grid, value)
	case "file":
		if f.PsiBottom == nil || f.PsiLeft == nil {
			return nil, nil, fmt.Errorf("streamfunc: Boundary is \"file\" but the input file does not contain boundary values")
		}
		return f.PsiBottom, f.PsiLeft, nil
	default:
		return nil, nil, fmt.Errorf("streamfunc: invalid Boundary %q; valid options are velocity, zero, and file", mode)
	}
}

// varNamesMap returns the variable names as a map keyed by quantity.
func varNamesMap(n streamfunc.VarNames) map[string]string {
	return map[string]string{
		"u": n.U, "v": n.V,
		"xC": n.XC, "xF": n.XF, "yC": n.YC, "yF": n.YF,
		"PsiBottom": n.PsiBottom, "PsiLeft": n.PsiLeft,
	}
}

// varNames returns the default variable names updated with the values
// in m. Keys are not case sensitive because configuration files
// lower-case them.
func varNames(m map[string]string) (streamfunc.VarNames, error) {
	n := streamfunc.DefaultVarNames()
	fields := map[string]*string{
		"u": &n.U, "v": &n.V,
		"xc": &n.XC, "xf": &n.XF, "yc": &n.YC, "yf": &n.YF,
		"psibottom": &n.PsiBottom, "psileft": &n.PsiLeft,
	}
	for k, v := range m {
		p, ok := fields[strings.ToLower(k)]
		if !ok {
			return n, fmt.Errorf("streamfunc: invalid key %q in Variables; valid keys are u, v, xC, xF, yC, yF, PsiBottom, and PsiLeft", k)
		}
		*p = v
	}
	return n, nil
}

// GetStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func GetStringMapString(varName string, cfg *viper.Viper) (map[string]string, error) {
	i := cfg.Get(varName)
	switch v := i.(type) {
	case map[string]string:
		return v, nil
	case map[string]interface{}:
		return cast.ToStringMapStringE(v)
	case string:
		o := make(map[string]string)
		if v == "" {
			return o, nil
		}
		d := json.NewDecoder(bytes.NewBufferString(v))
		if err := d.Decode(&o); err != nil {
			return nil, fmt.Errorf("streamfunc: parsing %s: %v", varName, err)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("streamfunc: invalid type for %s: %#v", varName, i)
	}
}

// expandPath expands any environment variables in path.
func expandPath(path string) string {
	return os.ExpandEnv(path)
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expand any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`streamfunc: you need to specify an output file configuration variable (for example: OutputFile="streamfunction.nc")`)
	}
	f = expandPath(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("streamfunc: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, outputFile string) string {
	if logFile == "" {
		logFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return expandPath(logFile)
}
