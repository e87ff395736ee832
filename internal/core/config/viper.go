package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence; flag
// overrides are applied by the cmd layer after this returns.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("rules_file", "")
	v.SetDefault("input", "")
	v.SetDefault("output", "")
	v.SetDefault("db_url", "")

	// Bind environment variables with DS_ prefix
	v.SetEnvPrefix("DS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return &Config{
		RulesFile:   v.GetString("rules_file"),
		Input:       v.GetString("input"),
		Output:      v.GetString("output"),
		DatabaseURL: v.GetString("db_url"),
	}, nil
}
