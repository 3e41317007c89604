package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the checkers configuration
type Config struct {
	Output        string         `yaml:"output,omitempty" json:"output,omitempty"`
	OutputFile    string         `yaml:"outputFile,omitempty" json:"outputFile,omitempty"`
	Name          string         `yaml:"name,omitempty" json:"name,omitempty"`
	Suites        []string       `yaml:"suites,omitempty" json:"suites,omitempty"`
	Data          []string       `yaml:"data,omitempty" json:"data,omitempty"`
	EnvFile       string         `yaml:"envFile,omitempty" json:"envFile,omitempty"`
	EnvPrefix     string         `yaml:"envPrefix,omitempty" json:"envPrefix,omitempty"`
	Variables     map[string]any `yaml:"variables,omitempty" json:"variables,omitempty"`
	BeforeRun     []string       `yaml:"beforeRun,omitempty" json:"beforeRun,omitempty"`
	AfterRun      []string       `yaml:"afterRun,omitempty" json:"afterRun,omitempty"`
	HistoryDB     string         `yaml:"historyDB,omitempty" json:"historyDB,omitempty"`
	MetricsFile   string         `yaml:"metricsFile,omitempty" json:"metricsFile,omitempty"`
	MetricsFormat string         `yaml:"metricsFormat,omitempty" json:"metricsFormat,omitempty"`
	LogLevel      string         `yaml:"logLevel,omitempty" json:"logLevel,omitempty"`
	Bail          *bool          `yaml:"bail,omitempty" json:"bail,omitempty"`
	Verbose       *bool          `yaml:"verbose,omitempty" json:"verbose,omitempty"`
	NoColor       *bool          `yaml:"noColor,omitempty" json:"noColor,omitempty"`
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetBail returns the bail setting, defaulting to false
func (c *Config) GetBail() bool {
	return getBool(c.Bail, false)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// ConfigFilenames contains the possible config file names, in lookup order
var ConfigFilenames = []string{
	".checkers.yaml",
	".checkers.yml",
	".checkers.json",
	".checkersrc",
}

// LoadConfig loads configuration from path, or searches the current
// directory when path is empty.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in dir and returns the
// defaults when there is none.
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}
	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c

	if other.Output != "" {
		result.Output = other.Output
	}
	if other.OutputFile != "" {
		result.OutputFile = other.OutputFile
	}
	if other.Name != "" {
		result.Name = other.Name
	}
	if other.EnvFile != "" {
		result.EnvFile = other.EnvFile
	}
	if other.EnvPrefix != "" {
		result.EnvPrefix = other.EnvPrefix
	}
	if other.HistoryDB != "" {
		result.HistoryDB = other.HistoryDB
	}
	if other.MetricsFile != "" {
		result.MetricsFile = other.MetricsFile
	}
	if other.MetricsFormat != "" {
		result.MetricsFormat = other.MetricsFormat
	}
	if other.LogLevel != "" {
		result.LogLevel = other.LogLevel
	}

	// Boolean flags - only override if explicitly set in other config
	if other.Bail != nil {
		result.Bail = other.Bail
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	if len(other.Suites) > 0 {
		result.Suites = other.Suites
	}
	if len(other.BeforeRun) > 0 {
		result.BeforeRun = other.BeforeRun
	}
	if len(other.AfterRun) > 0 {
		result.AfterRun = other.AfterRun
	}
	if len(other.Data) > 0 {
		result.Data = append(append([]string{}, c.Data...), other.Data...)
	}

	if len(other.Variables) > 0 {
		result.Variables = make(map[string]any, len(c.Variables)+len(other.Variables))
		maps.Copy(result.Variables, c.Variables)
		maps.Copy(result.Variables, other.Variables)
	}

	return &result
}

// SaveConfig writes the configuration as YAML.
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
