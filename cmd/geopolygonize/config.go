package main

import (
	"fmt"

	"github.com/lnashier/viper"
)

// cfg holds the merged configuration: flags override config-file values,
// both read through the same viper instance (the teacher's inmaputil/cmd.go
// idiom).
var cfg *viper.Viper

var configFile string

// option describes one recognized configuration key, bound both as a
// pflag on runCmd and a viper key, following the teacher's options-table
// pattern in inmaputil/cmd.go — a single source of truth for name,
// default, and usage text instead of one flag.XVar call per option.
var options = []struct {
	name, usage string
	defaultVal  interface{}
}{
	{"input", "path to the input NetCDF raster file", ""},
	{"variable", "name of the NetCDF variable holding the integer label grid", "labels"},
	{"output", "path to the output shapefile (without extension)", ""},
	{"nodata", "integer label value meaning \"no data\"", -1},
	{"tile_size", "side length, in pixels, of each square processing tile", 200},
	{"workers", "number of concurrent tile workers (0 means use all CPUs)", 0},
	{"min_blob_size", "pixel components smaller than this are cleaned before polygonization (0 disables)", 0},
	{"meters_per_pixel", "ground size of one pixel, used to derive the simplification tolerance", 1.0},
	{"simplification_pixel_window", "RDP tolerance as a multiple of meters_per_pixel", 2.0},
	{"smoothing_iterations", "number of Chaikin corner-cutting iterations", 5},
}

func init() {
	cfg = viper.New()
	cfg.SetEnvPrefix("GEOPOLYGONIZE")

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "configuration file location (TOML)")

	for _, opt := range options {
		switch v := opt.defaultVal.(type) {
		case string:
			runCmd.Flags().String(opt.name, v, opt.usage)
		case int:
			runCmd.Flags().Int(opt.name, v, opt.usage)
		case float64:
			runCmd.Flags().Float64(opt.name, v, opt.usage)
		default:
			panic(fmt.Sprintf("geopolygonize: unsupported option type for %q", opt.name))
		}
		cfg.BindPFlag(opt.name, runCmd.Flags().Lookup(opt.name))
	}
}

// setConfig reads the configuration file, if one was specified, before any
// subcommand runs.
func setConfig() error {
	if configFile == "" {
		return nil
	}
	cfg.SetConfigFile(configFile)
	cfg.SetConfigType("toml")
	if err := cfg.ReadInConfig(); err != nil {
		return &configError{fmt.Sprintf("reading configuration file %q: %v", configFile, err)}
	}
	return nil
}

// configError reports a bad flag/config value; it satisfies the kinder
// interface exitCode switches on.
type configError struct{ msg string }

func (e *configError) Error() string { return "geopolygonize: config: " + e.msg }
func (e *configError) Kind() string  { return "config" }

// ioError reports a failure reading input or writing output.
type ioError struct{ msg string }

func (e *ioError) Error() string { return "geopolygonize: io: " + e.msg }
func (e *ioError) Kind() string  { return "io" }
