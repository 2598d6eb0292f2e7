package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// defaultFailureExitCode is the exit code used by --fail-on-failures when
// --exit-code is not given.
const defaultFailureExitCode = 2

// ExitError asks main to exit with a specific code after the output has been
// written. It is returned when --fail-on-failures is set and at least one
// nutrient could not be resolved.
type ExitError struct {
	ExitCode int
	Reason   string
}

func (e *ExitError) Error() string {
	return e.Reason
}

// failureFlags holds the exit behavior flags shared by report and batch.
type failureFlags struct {
	failOnFailures bool
	exitCode       int
}

func (f *failureFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.failOnFailures, "fail-on-failures", false,
		"exit non-zero when any nutrient could not be resolved")
	cmd.Flags().IntVar(&f.exitCode, "exit-code", defaultFailureExitCode,
		"exit code used with --fail-on-failures (1-255)")
}

// check returns an ExitError when failures should fail the command.
func (f *failureFlags) check(failures int) error {
	if !f.failOnFailures || failures == 0 {
		return nil
	}
	code := f.exitCode
	if code < 1 || code > 255 {
		code = defaultFailureExitCode
	}
	return &ExitError{
		ExitCode: code,
		Reason:   fmt.Sprintf("%d nutrient result(s) could not be resolved", failures),
	}
}
