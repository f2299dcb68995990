// Command geopolygonize converts a categorical raster into a simplified,
// gap-free vector polygon layer.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(exitCode(err))
	}
}
