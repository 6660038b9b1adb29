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
	"math"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/streamfunc"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to streamfunc.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Input",
			usage: `
              Input is the path to the NetCDF file holding the velocity data.
              It can include environment variables.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), diagnoseCmd.Flags()},
		},
		{
			name: "InputFormat",
			usage: `
              InputFormat specifies the layout of the input file. "generic" files
              hold the velocities and grid coordinates as described for the
              Variables option; "wrf" files are WRF model output, where the
              U and V variables of one layer are used with the grid spacing
              given by the DX and DY attributes.`,
			defaultVal: "generic",
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), diagnoseCmd.Flags()},
		},
		{
			name: "Record",
			usage: `
              Record is the index of the outermost (typically time) dimension
              to read when the velocity variables have one.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), diagnoseCmd.Flags()},
		},
		{
			name: "Layer",
			usage: `
              Layer is the vertical layer to read from "wrf" input files.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), diagnoseCmd.Flags()},
		},
		{
			name: "Variables",
			usage: `
              Variables gives the names of the variables in "generic" input files
              (as values) that hold each quantity (as keys). u(xF, yC) and v(xC, yF)
              are the velocity components, which may also be stored in
              (yC, xF) and (yF, xC) order or with a leading record dimension.
              xC, xF, yC and yF are the cell-center and cell-face coordinates, and
              PsiBottom and PsiLeft are optional boundary values.`,
			defaultVal: varNamesMap(streamfunc.DefaultVarNames()),
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), diagnoseCmd.Flags()},
		},
		{
			name: "Boundary",
			usage: `
              Boundary specifies where the stream function boundary values come
              from. "velocity" integrates the flux through the bottom and left
              edges of the domain starting from BoundaryValue, "zero" sets the
              whole boundary to BoundaryValue, so that there is no flow through
              it, and "file" reads the boundary values from the input file.`,
			shorthand:  "b",
			defaultVal: "velocity",
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), diagnoseCmd.Flags()},
		},
		{
			name: "BoundaryValue",
			usage: `
              BoundaryValue is the stream function value at the bottom left
              corner of the domain for the "velocity" and "zero" boundaries.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), diagnoseCmd.Flags()},
		},
		{
			name: "Path",
			usage: `
              Path specifies how the interior of the domain is filled. "bottom"
              integrates u upward from the bottom boundary, "left" integrates -v
              rightward from the left boundary, and "mean" averages the two.`,
			shorthand:  "p",
			defaultVal: "bottom",
			flagsets:   []*pflag.FlagSet{solveCmd.Flags()},
		},
		{
			name: "Corner",
			usage: `
              Corner specifies what to do if the bottom and left boundary values
              disagree at the bottom left corner. "strict" stops with an error and
              "bottom" uses the bottom value.`,
			defaultVal: "strict",
			flagsets:   []*pflag.FlagSet{solveCmd.Flags()},
		},
		{
			name: "CornerTolerance",
			usage: `
              CornerTolerance is the largest corner disagreement accepted when
              Corner is "strict".`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags()},
		},
		{
			name: "RejectNonFinite",
			usage: `
              If RejectNonFinite is true, NaN or infinite input values cause an
              error. Otherwise they propagate into the result.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the desired output NetCDF file location.
              It can include environment variables.`,
			shorthand:  "o",
			defaultVal: "streamfunction.nc",
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), sampleCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. It can include
              environment variables. If LogFile is left blank, the logfile will be saved in
              the same location as the OutputFile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{solveCmd.Flags()},
		},
		{
			name: "ReportFile",
			usage: `
              ReportFile is the path where a TOML report of the diagnostics should
              be written. If it is left blank, no report is written.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{diagnoseCmd.Flags()},
		},
		{
			name: "Sample.Nx",
			usage: `
              Sample.Nx is the number of grid cells in the x direction.`,
			defaultVal: 32,
			flagsets:   []*pflag.FlagSet{sampleCmd.Flags()},
		},
		{
			name: "Sample.Ny",
			usage: `
              Sample.Ny is the number of grid cells in the y direction.`,
			defaultVal: 32,
			flagsets:   []*pflag.FlagSet{sampleCmd.Flags()},
		},
		{
			name: "Sample.Lx",
			usage: `
              Sample.Lx is the length of the domain in the x direction.`,
			defaultVal: 2 * math.Pi,
			flagsets:   []*pflag.FlagSet{sampleCmd.Flags()},
		},
		{
			name: "Sample.Ly",
			usage: `
              Sample.Ly is the length of the domain in the y direction.`,
			defaultVal: 2 * math.Pi,
			flagsets:   []*pflag.FlagSet{sampleCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("STREAMFUNC")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := string(b.Bytes())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(solveCmd)
	Root.AddCommand(diagnoseCmd)
	Root.AddCommand(sampleCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("streamfunc: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "streamfunc",
	Short: "Stream functions from staggered-grid velocities.",
	Long: `streamfunc calculates two-dimensional stream functions from velocity
components on a staggered (Arakawa C) finite-volume grid by directly
integrating the definition of the stream function.
Use the subcommands specified below to access the functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'STREAMFUNC_var' where 'var' is the
name of the variable to be set (for example STREAMFUNC_PATH=mean or
STREAMFUNC_SAMPLE_NX=64). File paths are additionally
allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of streamfunc.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("streamfunc v%s\n", streamfunc.Version)
	},
	DisableAutoGenTag: true,
}

// solveCmd is a command that calculates a stream function.
var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Calculate a stream function.",
	Long: `solve reads velocities from the Input file, determines the boundary
values, calculates the stream function at the cell corners, and saves it
with the grid coordinates and some diagnostics to the OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := inputConfig(Cfg)
		if err != nil {
			return err
		}
		s, err := solverConfig(Cfg)
		if err != nil {
			return err
		}
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		return Solve(
			cmd,
			checkLogFile(Cfg.GetString("LogFile"), outputFile),
			outputFile,
			in,
			Cfg.GetString("Boundary"),
			Cfg.GetFloat64("BoundaryValue"),
			s,
		)
	},
	DisableAutoGenTag: true,
}

// diagnoseCmd is a command that checks how well velocities determine
// a stream function.
var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Check whether velocities have a stream function.",
	Long: `diagnose reads velocities from the Input file and reports their
divergence and the disagreement between the stream functions obtained by
integrating from the bottom and left boundaries. A velocity field has
a stream function only if these are close to zero.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := inputConfig(Cfg)
		if err != nil {
			return err
		}
		_, err = Diagnose(
			cmd,
			in,
			Cfg.GetString("Boundary"),
			Cfg.GetFloat64("BoundaryValue"),
			expandPath(Cfg.GetString("ReportFile")),
		)
		return err
	},
	DisableAutoGenTag: true,
}

// sampleCmd is a command that creates an example input file.
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Create an example input file.",
	Long: `sample creates an input file for the solve and diagnose commands
holding the velocities and boundary values of the stream function
ψ = sin(x)·cos(y) on a uniform grid with its bottom left corner at the origin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		return Sample(
			cmd,
			outputFile,
			Cfg.GetInt("Sample.Nx"),
			Cfg.GetInt("Sample.Ny"),
			Cfg.GetFloat64("Sample.Lx"),
			Cfg.GetFloat64("Sample.Ly"),
		)
	},
	DisableAutoGenTag: true,
}
