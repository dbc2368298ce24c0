/*
Copyright © 2024 the Radish authors.
This file is part of Radish.

Radish is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Radish is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Radish.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package radishutil contains the radish command-line interface, its
// configuration, and the HTTP service.
package radishutil

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lnashier/viper"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/radish"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

// options are the configuration options available to radish.
var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
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
			name: "loglevel",
			usage: `
              loglevel sets the logging level: one of "debug", "info", "warning",
              or "error". At the "debug" level, variables that are skipped while
              reading moments are listed.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "format",
			usage: `
              format is the output format: "text" for a human-readable summary
              or "json" for the full contents, including moment data.`,
			shorthand:  "f",
			defaultVal: "text",
			flagsets:   []*pflag.FlagSet{scanCmd.Flags(), readCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "sweep",
			usage: `
              sweep is the 0-based index of the sweep to read.`,
			shorthand:  "s",
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{sweepCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "moments",
			usage: `
              moments lists the moments to output, for example "DBZH,VRADH".
              All moments are output if it is empty.`,
			shorthand:  "m",
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{readCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "decode",
			usage: `
              decode specifies whether stored values are converted to physical
              values using each moment's scale_factor and add_offset.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{readCmd.Flags(), sweepCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "mask",
			usage: `
              mask specifies whether fill values and values outside each moment's
              valid range are replaced with maskvalue.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{readCmd.Flags(), sweepCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "maskvalue",
			usage: `
              maskvalue is the value that masked values are replaced with.`,
			defaultVal: "NaN",
			flagsets:   []*pflag.FlagSet{readCmd.Flags(), sweepCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "moment",
			usage: `
              moment is the name of the moment to plot.`,
			defaultVal: radish.DBZH,
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "output",
			usage: `
              output is the path of the image to create. The format is chosen
              from the extension, e.g. ".png" or ".svg". If it is empty, the
              image is named after the input file, moment, and sweep.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "addr",
			usage: `
              addr is the network address the server listens on.`,
			defaultVal: "localhost:7272",
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
		{
			name: "cachesize",
			usage: `
              cachesize is the number of file metadata and sweep results the
              server keeps in memory.`,
			defaultVal: 16,
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
		{
			name: "root",
			usage: `
              root is the directory the server reads files from. Request paths
              are resolved against it, and paths outside of it are refused.`,
			defaultVal: ".",
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
		{
			name: "retries",
			usage: `
              retries is the number of times a failed download of an input file
              from a URL or blob storage ("gs://", "s3://", "file://") is retried.`,
			defaultVal: 5,
			flagsets:   []*pflag.FlagSet{scanCmd.Flags(), readCmd.Flags(), sweepCmd.Flags(), plotCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("RADISH")
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
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
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
			default:
				panic("invalid argument type")
			}
		}
		// Flags shared between commands are the same flag, so one binding
		// serves all of them.
		Cfg.BindPFlag(option.name, option.flagsets[0].Lookup(option.name))
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(scanCmd)
	Root.AddCommand(readCmd)
	Root.AddCommand(sweepCmd)
	Root.AddCommand(plotCmd)
	Root.AddCommand(serveCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets the logging level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("radish: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(Cfg.GetString("loglevel"))
	if err != nil {
		return fmt.Errorf("radish: invalid log level: %v", err)
	}
	logrus.SetLevel(level)
	return nil
}

// logger returns the logger that commands and backends write to.
func logger() logrus.FieldLogger { return logrus.StandardLogger() }

// splitList splits comma-separated entries and drops empty ones, so
// that "a,b" and ["a", "b"] are equivalent.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, f := range strings.Split(s, ",") {
			if f = strings.TrimSpace(f); f != "" {
				out = append(out, f)
			}
		}
	}
	return out
}

// configMomentOptions returns the moment options set in Cfg.
func configMomentOptions() (momentOptions, error) {
	o := defaultMomentOptions()
	names, err := cast.ToStringSliceE(Cfg.Get("moments"))
	if err != nil {
		return o, fmt.Errorf("radish: invalid moments: %v", err)
	}
	o.names = splitList(names)
	o.decode = Cfg.GetBool("decode")
	o.mask = Cfg.GetBool("mask")
	if o.maskValue, err = parseMaskValue(Cfg.GetString("maskvalue")); err != nil {
		return o, fmt.Errorf("radish: %v", err)
	}
	return o, nil
}

// input returns the local path of the input file, downloading it first
// if necessary.
func input(ctx context.Context, path string) (string, error) {
	return maybeDownload(ctx, os.ExpandEnv(path), Cfg.GetInt("retries"), logger())
}

// outputFormat returns the configured output format.
func outputFormat() (string, error) {
	f := Cfg.GetString("format")
	return f, checkFormat(f)
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "radish",
	Short: "A reader for weather radar files.",
	Long: `radish reads weather radar volume files into a common model of
volumes, sweeps and moments, and prints, plots or serves their contents.
Use the subcommands specified below to access the functionality.

Input files may be local paths, "http(s)://" URLs, or blob storage locations
("gs://bucket/key", "s3://bucket/key", "file://dir/key").

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'RADISH_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of radish.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("radish v%s\n", radish.Version)
	},
	DisableAutoGenTag: true,
}

var scanCmd = &cobra.Command{
	Use:   "scan FILE",
	Short: "Print volume metadata",
	Long: `scan prints the metadata of the radar volume in FILE, such as the
instrument, location, time coverage and sweep angles, without reading
any ray data.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat()
		if err != nil {
			return err
		}
		path, err := input(context.Background(), args[0])
		if err != nil {
			return err
		}
		md, err := radish.ScanFile(path)
		if err != nil {
			return err
		}
		return writeMetadata(cmd.OutOrStdout(), format, md)
	},
	DisableAutoGenTag: true,
}

var readCmd = &cobra.Command{
	Use:   "read FILE",
	Short: "Print a whole volume",
	Long: `read reads every sweep of the radar volume in FILE and prints it.
The read fails if any sweep cannot be read.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat()
		if err != nil {
			return err
		}
		opts, err := configMomentOptions()
		if err != nil {
			return err
		}
		path, err := input(context.Background(), args[0])
		if err != nil {
			return err
		}
		vol, err := radish.ReadVolume(path)
		if err != nil {
			return err
		}
		opts.prepareVolume(vol)
		return writeVolume(cmd.OutOrStdout(), format, vol)
	},
	DisableAutoGenTag: true,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep FILE",
	Short: "Print one sweep",
	Long:  `sweep reads the sweep selected by --sweep from the radar volume in FILE and prints it.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat()
		if err != nil {
			return err
		}
		opts, err := configMomentOptions()
		if err != nil {
			return err
		}
		path, err := input(context.Background(), args[0])
		if err != nil {
			return err
		}
		i := Cfg.GetInt("sweep")
		s, err := radish.ReadSweep(path, i)
		if err != nil {
			return err
		}
		s, _ = opts.prepare(s)
		return writeSweep(cmd.OutOrStdout(), format, i, s)
	},
	DisableAutoGenTag: true,
}

var plotCmd = &cobra.Command{
	Use:   "plot FILE",
	Short: "Plot one moment of a sweep",
	Long: `plot saves a heat map of the moment selected by --moment in the sweep
selected by --sweep, with range on the horizontal axis and azimuth on the
vertical axis.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := configMomentOptions()
		if err != nil {
			return err
		}
		name := Cfg.GetString("moment")
		opts.names = []string{name}
		path, err := input(context.Background(), args[0])
		if err != nil {
			return err
		}
		i := Cfg.GetInt("sweep")
		s, err := radish.ReadSweep(path, i)
		if err != nil {
			return err
		}
		s, _ = opts.prepare(s)
		out := Cfg.GetString("output")
		if out == "" {
			base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			out = fmt.Sprintf("%s_%s_%d.png", base, name, i)
		}
		if err := Plot(s, name, out); err != nil {
			return err
		}
		cmd.Printf("wrote %s\n", out)
		return nil
	},
	DisableAutoGenTag: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve radar files over HTTP",
	Long: `serve starts an HTTP server that reads radar files on request:

  GET /scan?path=FILE            volume metadata
  GET /sweep?path=FILE&index=I   one sweep; also accepts moments, decode,
                                 mask and maskvalue
  GET /metrics                   Prometheus metrics
  GET /healthz                   liveness check

FILE is resolved against the served directory (see --root), and files
outside of it are refused. Recently read metadata and sweeps are kept in
memory (see --cachesize).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger()
		reader := radish.NewCachedReader(nil, Cfg.GetInt("cachesize"))
		h, err := NewServer(reader, os.ExpandEnv(Cfg.GetString("root")), log, NewMetrics(prometheus.DefaultRegisterer))
		if err != nil {
			return err
		}
		srv := &http.Server{
			Addr:         Cfg.GetString("addr"),
			Handler:      h,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: time.Minute,
			IdleTimeout:  time.Minute,
		}
		log.WithFields(logrus.Fields{"addr": srv.Addr, "root": h.root}).Info("radish server starting")
		return srv.ListenAndServe()
	},
	DisableAutoGenTag: true,
}
