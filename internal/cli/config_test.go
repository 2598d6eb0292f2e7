package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/fertcalc/internal/config"
	"github.com/rshade/fertcalc/internal/soil"
)

func TestConfigInit(t *testing.T) {
	home := setupCLITest(t)

	out, _, err := executeCmd(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized successfully")
	assert.FileExists(t, filepath.Join(home, "config.yaml"))

	_, _, err = executeCmd(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = executeCmd(t, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigSetGetList(t *testing.T) {
	home := setupCLITest(t)

	out, _, err := executeCmd(t, "config", "set", "output.default_format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "Set output.default_format = json")

	out, _, err = executeCmd(t, "config", "get", "output.default_format")
	require.NoError(t, err)
	assert.Equal(t, "json\n", out)

	loaded, err := config.Load(filepath.Join(home, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.OutputFormatJSON, loaded.Output.DefaultFormat)
	assert.Equal(t, config.DefaultVariety, loaded.Calculator.DefaultVariety)

	out, _, err = executeCmd(t, "config", "list", "--format", "keys")
	require.NoError(t, err)
	assert.Contains(t, out, "output.default_format = json")
	assert.Contains(t, out, "calculator.default_variety = Aman Rice")

	out, _, err = executeCmd(t, "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "default_format: json")

	_, _, err = executeCmd(t, "config", "set", "output.default_format", "xml")
	require.ErrorIs(t, err, config.ErrInvalidOutputFormat)

	_, _, err = executeCmd(t, "config", "get", "cost.budget")
	require.ErrorIs(t, err, config.ErrUnknownKey)

	_, _, err = executeCmd(t, "config", "list", "--format", "toml")
	require.Error(t, err)
}

func TestConfigSet_DoesNotPersistEnv(t *testing.T) {
	home := setupCLITest(t)
	t.Setenv(config.EnvVariety, "hyv-3.0")

	_, _, err := executeCmd(t, "config", "set", "output.precision", "3")
	require.NoError(t, err)

	loaded, err := config.Load(filepath.Join(home, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Output.Precision)
	assert.Equal(t, config.DefaultVariety, loaded.Calculator.DefaultVariety)
}

func TestConfigValidate(t *testing.T) {
	home := setupCLITest(t)

	out, _, err := executeCmd(t, "config", "validate", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
	assert.Contains(t, out, "Default variety: Aman Rice")
	assert.Contains(t, out, "Tables: built-in")

	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"),
		[]byte("calculator:\n  default_variety: Jute\n"), 0o600))
	_, _, err = executeCmd(t, "config", "validate")
	require.ErrorIs(t, err, soil.ErrNoVarietyData)

	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"),
		[]byte("output:\n  precision: 9\n"), 0o600))
	_, _, err = executeCmd(t, "config", "validate")
	require.ErrorIs(t, err, config.ErrInvalidPrecision)
}
