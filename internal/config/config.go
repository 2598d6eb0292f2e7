// Package config loads and validates the fertcalc configuration file
// (~/.fertcalc/config.yaml).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by the report commands.
const (
	OutputFormatText   = "text"
	OutputFormatTable  = "table"
	OutputFormatJSON   = "json"
	OutputFormatNDJSON = "ndjson"
)

// Defaults applied when the config file or a field is missing.
const (
	DefaultOutputFormat = OutputFormatText
	DefaultPrecision    = 2
	DefaultVariety      = "Aman Rice"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "json"
	MaxPrecision        = 6
)

// Environment variables overriding config file values.
const (
	EnvHome         = "FERTCALC_HOME"
	EnvOutputFormat = "FERTCALC_OUTPUT_FORMAT"
	EnvVariety      = "FERTCALC_VARIETY"
	EnvTablesFile   = "FERTCALC_TABLES"
	EnvLogLevel     = "FERTCALC_LOG_LEVEL"
	EnvLogFormat    = "FERTCALC_LOG_FORMAT"
)

const configFileName = "config.yaml"

// Validation errors.
var (
	ErrInvalidOutputFormat = errors.New("output format must be one of text, table, json, ndjson")
	ErrInvalidPrecision    = fmt.Errorf("precision must be between 0 and %d", MaxPrecision)
	ErrInvalidLogFormat    = errors.New("log format must be 'json' or 'console'")
	ErrEmptyVariety        = errors.New("default variety cannot be empty")
	ErrUnknownKey          = errors.New("unknown configuration key")
)

// Config is the fertcalc configuration.
type Config struct {
	Output     OutputConfig     `yaml:"output"     json:"output"`
	Calculator CalculatorConfig `yaml:"calculator" json:"calculator"`
	Logging    LoggingConfig    `yaml:"logging"    json:"logging"`

	path string
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	// DefaultFormat is one of text, table, json, ndjson.
	DefaultFormat string `yaml:"default_format" json:"default_format"`
	// Precision is the number of decimals in the table view.
	Precision int `yaml:"precision" json:"precision"`
}

// CalculatorConfig selects the variety and tables used by the calculator.
type CalculatorConfig struct {
	// DefaultVariety is a variety key or label used when --variety is absent.
	DefaultVariety string `yaml:"default_variety" json:"default_variety"`
	// TablesFile points at a custom table set. Empty means built-in tables.
	TablesFile string `yaml:"tables_file,omitempty" json:"tables_file,omitempty"`
}

// LoggingConfig controls the zerolog setup.
type LoggingConfig struct {
	Level  string `yaml:"level"          json:"level"`
	Format string `yaml:"format"         json:"format"`
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
}

// Default returns a Config holding only default values.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			DefaultFormat: DefaultOutputFormat,
			Precision:     DefaultPrecision,
		},
		Calculator: CalculatorConfig{
			DefaultVariety: DefaultVariety,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// New loads the config file from the config directory, falling back to
// defaults when it is missing or unreadable, then applies environment
// overrides.
func New() *Config {
	path, err := DefaultPath()
	if err != nil {
		cfg := Default()
		cfg.applyEnv()
		return cfg
	}

	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger := GetLogger()
			logger.Warn().Err(err).Str("path", path).Msg("failed to load config file, using defaults")
		}
		cfg = Default()
		cfg.path = path
	}
	cfg.applyEnv()
	return cfg
}

// Load reads a config file. Fields missing from the file keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.path = path
	return cfg, nil
}

// DefaultPath returns the config file location inside the config directory.
func DefaultPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Path returns the file the config was loaded from or will be saved to.
func (c *Config) Path() string {
	return c.path
}

// SetPath changes the file Save writes to.
func (c *Config) SetPath(path string) {
	c.path = path
}

// Save writes the config as YAML, creating the directory if needed.
func (c *Config) Save() error {
	if c.path == "" {
		path, err := DefaultPath()
		if err != nil {
			return err
		}
		c.path = path
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", c.path, err)
	}
	return nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if err := c.Calculator.Validate(); err != nil {
		return fmt.Errorf("calculator: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Validate checks the output format and precision.
func (o OutputConfig) Validate() error {
	if !IsValidOutputFormat(o.DefaultFormat) {
		return fmt.Errorf("%w: got %q", ErrInvalidOutputFormat, o.DefaultFormat)
	}
	if o.Precision < 0 || o.Precision > MaxPrecision {
		return fmt.Errorf("%w: got %d", ErrInvalidPrecision, o.Precision)
	}
	return nil
}

// Validate checks the default variety and, when set, that the tables file
// exists.
func (cc CalculatorConfig) Validate() error {
	if strings.TrimSpace(cc.DefaultVariety) == "" {
		return ErrEmptyVariety
	}
	if cc.TablesFile != "" {
		if _, err := os.Stat(cc.TablesFile); err != nil {
			return fmt.Errorf("tables file: %w", err)
		}
	}
	return nil
}

// Validate checks the log format. Unknown levels fall back to info at
// runtime and are accepted here.
func (l LoggingConfig) Validate() error {
	switch l.Format {
	case "", "json", "console":
		return nil
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidLogFormat, l.Format)
	}
}

// IsValidOutputFormat reports whether format is a supported output format.
func IsValidOutputFormat(format string) bool {
	switch format {
	case OutputFormatText, OutputFormatTable, OutputFormatJSON, OutputFormatNDJSON:
		return true
	default:
		return false
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvOutputFormat); v != "" {
		c.Output.DefaultFormat = v
	}
	if v := os.Getenv(EnvVariety); v != "" {
		c.Calculator.DefaultVariety = v
	}
	if v := os.Getenv(EnvTablesFile); v != "" {
		c.Calculator.TablesFile = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
}

// keyAccessors maps dotted keys to getters and setters on Config.
//
//nolint:gochecknoglobals // Static lookup table.
var keyAccessors = map[string]struct {
	get func(*Config) string
	set func(*Config, string) error
}{
	"output.default_format": {
		get: func(c *Config) string { return c.Output.DefaultFormat },
		set: func(c *Config, v string) error {
			if !IsValidOutputFormat(v) {
				return fmt.Errorf("%w: got %q", ErrInvalidOutputFormat, v)
			}
			c.Output.DefaultFormat = v
			return nil
		},
	},
	"output.precision": {
		get: func(c *Config) string { return strconv.Itoa(c.Output.Precision) },
		set: func(c *Config, v string) error {
			p, err := strconv.Atoi(v)
			if err != nil || p < 0 || p > MaxPrecision {
				return fmt.Errorf("%w: got %q", ErrInvalidPrecision, v)
			}
			c.Output.Precision = p
			return nil
		},
	},
	"calculator.default_variety": {
		get: func(c *Config) string { return c.Calculator.DefaultVariety },
		set: func(c *Config, v string) error {
			if strings.TrimSpace(v) == "" {
				return ErrEmptyVariety
			}
			c.Calculator.DefaultVariety = v
			return nil
		},
	},
	"calculator.tables_file": {
		get: func(c *Config) string { return c.Calculator.TablesFile },
		set: func(c *Config, v string) error {
			c.Calculator.TablesFile = v
			return nil
		},
	},
	"logging.level": {
		get: func(c *Config) string { return c.Logging.Level },
		set: func(c *Config, v string) error {
			c.Logging.Level = v
			return nil
		},
	},
	"logging.format": {
		get: func(c *Config) string { return c.Logging.Format },
		set: func(c *Config, v string) error {
			if err := (LoggingConfig{Format: v}).Validate(); err != nil {
				return err
			}
			c.Logging.Format = v
			return nil
		},
	},
	"logging.file": {
		get: func(c *Config) string { return c.Logging.File },
		set: func(c *Config, v string) error {
			c.Logging.File = v
			return nil
		},
	},
}

// Get returns the value of a dotted key such as "output.default_format".
func (c *Config) Get(key string) (string, error) {
	acc, ok := keyAccessors[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return acc.get(c), nil
}

// Set assigns a dotted key, validating the value.
func (c *Config) Set(key, value string) error {
	acc, ok := keyAccessors[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return acc.set(c, value)
}

// Keys returns every settable key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(keyAccessors))
	for k := range keyAccessors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
