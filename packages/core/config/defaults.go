package config

const (
	DefaultOutput        = "console"
	DefaultEnvPrefix     = "CHECKERS_VAR_"
	DefaultMetricsFormat = "prometheus"
	DefaultLogLevel      = "warn"
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Output:        DefaultOutput,
		EnvPrefix:     DefaultEnvPrefix,
		MetricsFormat: DefaultMetricsFormat,
		LogLevel:      DefaultLogLevel,
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.Output == defaults.Output &&
		c.OutputFile == "" &&
		c.Name == "" &&
		len(c.Suites) == 0 &&
		len(c.Data) == 0 &&
		c.EnvFile == "" &&
		c.EnvPrefix == defaults.EnvPrefix &&
		len(c.Variables) == 0 &&
		len(c.BeforeRun) == 0 &&
		len(c.AfterRun) == 0 &&
		c.HistoryDB == "" &&
		c.MetricsFile == "" &&
		c.MetricsFormat == defaults.MetricsFormat &&
		c.LogLevel == defaults.LogLevel &&
		!c.GetBail() &&
		!c.GetVerbose() &&
		!c.GetNoColor()
}
