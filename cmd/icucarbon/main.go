// Command icucarbon is an emissions-estimation calculator for intensive-care
// units: baseline greenhouse-gas figures from facility inputs, plus what-if
// savings from a catalog of interventions.
package main

import (
	"os"

	"github.com/icugreen/icucarbon/internal/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.NewRootCmd(version).Execute(); err != nil {
		os.Exit(1)
	}
}
