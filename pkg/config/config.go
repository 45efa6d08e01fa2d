// Package config loads rowtree settings from .rowtree/config.yaml.
package config

import (
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/rowtree/pkg/rowmodel"
)

const (
	// DirName is the directory searched for when discovering a config.
	DirName = ".rowtree"
	// FileName is the config file inside DirName.
	FileName = "config.yaml"

	// EnvConfig names an explicit config file.
	EnvConfig = "ROWTREE_CONFIG"
	// EnvLogFile overrides log_file.
	EnvLogFile = "ROWTREE_LOG"

	DefaultColumnWidth = 16
	MaxColumns         = 64
)

// Config represents a rowtree configuration file (.rowtree/config.yaml)
type Config struct {
	// Columns is the fixed number of columns of every row (default: 3)
	Columns int `yaml:"columns" json:"columns"`

	// Headers are custom column labels; missing ones read "Column N"
	Headers []string `yaml:"headers,omitempty" json:"headers,omitempty"`

	// ColumnWidth is the display width of one cell in the tree view
	ColumnWidth int `yaml:"column_width,omitempty" json:"column_width,omitempty"`

	// LogFile receives log output while the terminal UI runs
	LogFile string `yaml:"log_file,omitempty" json:"log_file,omitempty"`

	// Rows seeds the tree on startup
	Rows []RowConfig `yaml:"rows,omitempty" json:"rows,omitempty"`

	// Path is the file the config was loaded from, empty for defaults
	Path string `yaml:"-" json:"-"`
}

// RowConfig is one seeded row and its children.
type RowConfig struct {
	Values   []string    `yaml:"values" json:"values"`
	Children []RowConfig `yaml:"children,omitempty" json:"children,omitempty"`
}

// Validate validates a seeded row and its children.
func (r RowConfig) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Values, validation.Required),
		validation.Field(&r.Children),
	)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Columns, validation.Required, validation.Min(1), validation.Max(MaxColumns)),
		validation.Field(&c.Headers, validation.Length(0, c.Columns)),
		validation.Field(&c.ColumnWidth, validation.Min(4), validation.Max(200)),
		validation.Field(&c.Rows),
	)
}

// DefaultRows returns the sample rows shown when no config sets any.
func DefaultRows() []RowConfig {
	return []RowConfig{
		{Values: []string{"test1"}},
		{Values: []string{"test2"}, Children: []RowConfig{
			{Values: []string{"test3"}, Children: []RowConfig{
				{Values: []string{"test4"}},
			}},
		}},
	}
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Columns:     rowmodel.DefaultColumns,
		ColumnWidth: DefaultColumnWidth,
		Rows:        DefaultRows(),
	}
}

func (c *Config) applyDefaults() {
	if c.Columns == 0 {
		c.Columns = rowmodel.DefaultColumns
	}
	if c.ColumnWidth == 0 {
		c.ColumnWidth = DefaultColumnWidth
	}
}

// Load reads a config file, expanding ${VAR} references before parsing.
// Settings missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Resolve loads the config named by explicit, then by $ROWTREE_CONFIG, then
// the first .rowtree/config.yaml found walking up from the working
// directory. Without any of these it returns Default.
func Resolve(explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return Load(env)
	}
	if path, ok := DetectConfig(); ok {
		return Load(path)
	}
	return Default(), nil
}

// LogPath returns where log output should go, or "" to discard it.
func (c *Config) LogPath() string {
	if env := os.Getenv(EnvLogFile); env != "" {
		return expandHome(env)
	}
	return expandHome(c.LogFile)
}

// ModelOptions returns the rowmodel options matching the config.
func (c *Config) ModelOptions() []rowmodel.Option {
	return []rowmodel.Option{
		rowmodel.WithColumns(c.Columns),
		rowmodel.WithHeaders(c.Headers...),
	}
}

// SeedRows converts the configured rows for rowmodel.Model.Seed.
func (c *Config) SeedRows() []rowmodel.SeedRow {
	return toSeeds(c.Rows)
}

func toSeeds(rows []RowConfig) []rowmodel.SeedRow {
	if len(rows) == 0 {
		return nil
	}
	out := make([]rowmodel.SeedRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowmodel.SeedRow{Values: r.Values, Children: toSeeds(r.Children)})
	}
	return out
}

// NewModel builds a model with the configured columns and seeded rows.
func (c *Config) NewModel() *rowmodel.Model {
	m := rowmodel.New(c.ModelOptions()...)
	m.Seed(c.SeedRows())
	return m
}
