// Command img-size-compress compresses the images of a directory through an
// external engine and reports the space saved.
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/idelchi/imgsizecompress/internal/cli"
	"github.com/idelchi/imgsizecompress/internal/compress"
)

// version is set at build time via -ldflags.
var version = ""

// getVersion returns the version string.
// Priority: ldflags > debug.ReadBuildInfo > "(devel)"
func getVersion() string {
	if version != "" {
		return version
	}

	if buildInfo, ok := debug.ReadBuildInfo(); ok && buildInfo.Main.Version != "" {
		return buildInfo.Main.Version
	}

	return "(devel)"
}

func main() {
	os.Exit(run())
}

// run executes the CLI and maps its error to an exit code.
// A failed engine already wrote its own diagnostics, so only its code is passed on.
func run() int {
	err := cli.New(getVersion()).Execute()
	if err == nil {
		return 0
	}

	var engineErr *compress.EngineError
	if errors.As(err, &engineErr) {
		if engineErr.Code > 0 {
			return engineErr.Code
		}

		return 1
	}

	fmt.Fprintln(os.Stderr, err)

	return 1
}
