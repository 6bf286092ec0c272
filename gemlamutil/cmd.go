/*
Copyright 2019 The Salish Sea MEOPAR contributors
and The University of British Columbia

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

   https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package gemlamutil holds the command-line interface of the rpn-to-gemlam
// forcing file generator.
package gemlamutil

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/SalishSeaCast/rpn-to-gemlam"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
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
	// Options are the configuration options available to rpn-to-gemlam.
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
			name: "StartDate",
			usage: `
              StartDate is the first date (YYYY-MM-DD) to generate forcing
              files for.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "EndDate",
			usage: `
              EndDate is the last date (YYYY-MM-DD) to generate forcing
              files for.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Forecast",
			usage: `
              Forecast is the HRDPS forecast origin hour to generate forcing
              files from; 00, 06, 12, or 18.`,
			defaultVal: "06",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "RPNDir",
			usage: `
              RPNDir is the directory tree in which the GEMLAM RPN files are
              stored in year directories.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "DestDir",
			usage: `
              DestDir is the directory in which to store the forcing files
              calculated from the RPN files.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TmpDir",
			usage: `
              TmpDir is the absolute path of a directory to use for
              intermediate hourly files. The default is a temporary
              directory that is removed when the run finishes; set TmpDir to
              keep the intermediate files for debugging.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "FilePrefix",
			usage: `
              FilePrefix is the forcing file name prefix.`,
			defaultVal: "gemlam",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "ToolScript",
			usage: `
              ToolScript is the path of the shell function library that
              provides the external dataset tools.`,
			defaultVal: gemlam.DefaultToolScript,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "verbosity",
			usage: `
              verbosity chooses how much information you want to see about
              the progress of the process; warning, error, and critical
              should be silent unless something bad goes wrong.`,
			shorthand:  "v",
			defaultVal: "warning",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("GEMLAM")

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
	Root.AddCommand(runCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("gemlam: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// setLogging configures the logger from the verbosity option.
func setLogging() error {
	level, err := logrus.ParseLevel(cast.ToString(Cfg.Get("verbosity")))
	if err != nil {
		return fmt.Errorf("gemlam: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableSorting:  true,
	})
	logrus.SetOutput(os.Stdout)
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "rpn-to-gemlam",
	Short: "Generate atmospheric forcing files from archival GEMLAM RPN files.",
	Long: `rpn-to-gemlam generates atmospheric forcing files for the SalishSeaCast
NEMO model from the ECCC 2007-2014 archival GEMLAM files produced by the
experimental phase of the HRDPS model.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'GEMLAM_var' where 'var' is
the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		if err := setConfig(); err != nil {
			return err
		}
		return setLogging()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of rpn-to-gemlam.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("rpn-to-gemlam v%s\n", gemlam.Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate forcing files for a date range.",
	Long: `run converts each day's RPN archive in the configured date range into
hourly NetCDF datasets, derives the physical fields the ocean model needs,
repairs missing hours and variables by interpolation, and concatenates the
repaired hours into per-day forcing files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := time.Parse("2006-01-02", Cfg.GetString("StartDate"))
		if err != nil {
			return fmt.Errorf("gemlam: StartDate: %v", err)
		}
		end, err := time.Parse("2006-01-02", Cfg.GetString("EndDate"))
		if err != nil {
			return fmt.Errorf("gemlam: EndDate: %v", err)
		}
		forecast, err := gemlam.ParseForecastOrigin(Cfg.GetString("Forecast"))
		if err != nil {
			return err
		}
		p := &gemlam.Pipeline{
			Start:    start,
			End:      end,
			Forecast: forecast,
			RPNDir:   os.ExpandEnv(Cfg.GetString("RPNDir")),
			DestDir:  os.ExpandEnv(Cfg.GetString("DestDir")),
			WorkDir:  os.ExpandEnv(Cfg.GetString("TmpDir")),
			Prefix:   Cfg.GetString("FilePrefix"),
			Tools:    &gemlam.ShellTools{Script: os.ExpandEnv(Cfg.GetString("ToolScript"))},
		}
		return p.Run(context.Background())
	},
	DisableAutoGenTag: true,
}
