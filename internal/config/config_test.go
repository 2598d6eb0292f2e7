package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/fertcalc/internal/config"
)

func TestNew_DefaultsWithoutFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)

	cfg := config.New()
	assert.Equal(t, config.DefaultOutputFormat, cfg.Output.DefaultFormat)
	assert.Equal(t, config.DefaultPrecision, cfg.Output.Precision)
	assert.Equal(t, config.DefaultVariety, cfg.Calculator.DefaultVariety)
	assert.Equal(t, filepath.Join(home, "config.yaml"), cfg.Path())
	require.NoError(t, cfg.Validate())
}

func TestNew_LoadsFileAndEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(`
output:
  default_format: table
calculator:
  default_variety: hyv-4.0
`), 0o600))
	t.Setenv(config.EnvOutputFormat, "json")

	cfg := config.New()
	assert.Equal(t, "json", cfg.Output.DefaultFormat, "env wins over file")
	assert.Equal(t, "hyv-4.0", cfg.Calculator.DefaultVariety)
	assert.Equal(t, config.DefaultPrecision, cfg.Output.Precision, "missing field keeps default")
}

func TestNew_InvalidFileFallsBack(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte("output: [broken"), 0o600))

	cfg := config.New()
	assert.Equal(t, config.DefaultOutputFormat, cfg.Output.DefaultFormat)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := config.Default()
	cfg.SetPath(path)
	require.NoError(t, cfg.Set("output.precision", "4"))
	require.NoError(t, cfg.Set("calculator.default_variety", "hyv-3.0"))
	require.NoError(t, cfg.Save())

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.Output.Precision)
	assert.Equal(t, "hyv-3.0", loaded.Calculator.DefaultVariety)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
	}{
		{"defaults valid", func(*config.Config) {}, nil},
		{"bad format", func(c *config.Config) { c.Output.DefaultFormat = "xml" }, config.ErrInvalidOutputFormat},
		{"bad precision", func(c *config.Config) { c.Output.Precision = 9 }, config.ErrInvalidPrecision},
		{"empty variety", func(c *config.Config) { c.Calculator.DefaultVariety = " " }, config.ErrEmptyVariety},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "logfmt" }, config.ErrInvalidLogFormat},
		{"missing tables file", func(c *config.Config) { c.Calculator.TablesFile = "/nonexistent/tables.yaml" }, os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGetSet(t *testing.T) {
	cfg := config.Default()

	for _, key := range config.Keys() {
		_, err := cfg.Get(key)
		require.NoError(t, err, key)
	}

	require.NoError(t, cfg.Set("output.default_format", "ndjson"))
	got, err := cfg.Get("output.default_format")
	require.NoError(t, err)
	assert.Equal(t, "ndjson", got)

	require.ErrorIs(t, cfg.Set("output.default_format", "csv"), config.ErrInvalidOutputFormat)
	require.ErrorIs(t, cfg.Set("output.precision", "many"), config.ErrInvalidPrecision)
	require.ErrorIs(t, cfg.Set("plugins.kubecost", "x"), config.ErrUnknownKey)
	_, err = cfg.Get("nope")
	require.ErrorIs(t, err, config.ErrUnknownKey)
}

func TestGlobalConfig(t *testing.T) {
	t.Setenv(config.EnvHome, t.TempDir())
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)

	assert.Equal(t, config.DefaultOutputFormat, config.GetDefaultOutputFormat())

	custom := config.Default()
	custom.Calculator.DefaultVariety = "hyv-5.0"
	config.SetGlobalConfig(custom)
	assert.Equal(t, "hyv-5.0", config.GetDefaultVariety())
}

func TestToLoggingConfig(t *testing.T) {
	lc := config.LoggingConfig{Level: "debug", Format: "console"}
	got := lc.ToLoggingConfig()
	assert.Equal(t, "stderr", got.Output)

	lc.File = "/tmp/fertcalc.log"
	got = lc.ToLoggingConfig()
	assert.Equal(t, "file", got.Output)
	assert.Equal(t, "/tmp/fertcalc.log", got.File)
}
