package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rshade/fertcalc/internal/cli"
	"github.com/rshade/fertcalc/pkg/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func run() error {
	root := cli.NewRootCmd(version.GetVersion())
	root.SetVersionTemplate("fertcalc " + version.Info() + "\n")
	return root.ExecuteContext(context.Background())
}

// exitCode maps an error to the process exit code. A cli.ExitError carries
// its own code; any other error exits with 1.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode
	}
	return 1
}
