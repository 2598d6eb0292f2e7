package cli_test

import (
	"bytes"
	"testing"

	"github.com/rshade/fertcalc/internal/cli"
	"github.com/rshade/fertcalc/internal/config"
)

// setupCLITest isolates the config directory and keeps logs quiet.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvOutputFormat, "")
	t.Setenv(config.EnvVariety, "")
	t.Setenv(config.EnvTablesFile, "")
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

// executeCmd runs the root command with args and returns stdout and stderr.
// The global config is reset first, as a new process would start with none.
func executeCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetGlobalConfigForTest()

	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
