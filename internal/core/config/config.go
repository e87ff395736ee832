// Package config provides configuration management for dumpscrub.
package config

// Config holds the settings of one dumpscrub invocation.
//
// Input and Output empty mean stdin and stdout; the tool is a pipe filter
// by default. RulesFile and DatabaseURL are alternative rules sources; a
// run that needs rules requires at least one of them.
type Config struct {
	RulesFile   string
	Input       string
	Output      string
	DatabaseURL string
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{}
}

// HasRulesSource reports whether any rules source is configured.
func (c *Config) HasRulesSource() bool {
	return c.RulesFile != "" || c.DatabaseURL != ""
}
