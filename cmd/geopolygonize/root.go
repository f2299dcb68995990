package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags, following the teacher's own
// cmd/inmap convention of a package-level Version string.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "geopolygonize",
	Short: "Convert a categorical raster into a gap-free, simplified vector polygon layer.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setConfig()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of geopolygonize.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("geopolygonize " + version)
		return nil
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	logrus.SetLevel(logrus.InfoLevel)
}
