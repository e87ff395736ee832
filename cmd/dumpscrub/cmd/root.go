package cmd

import (
	"github.com/spf13/cobra"
)

var (
	configFile string
	dbURL      string
)

var rootCmd = &cobra.Command{
	Use:   "dumpscrub",
	Short: "dumpscrub PostgreSQL dump anonymizer",
	Long:  `dumpscrub rewrites COPY data blocks of a plain-SQL dump through per-column redaction rules, in a single pass with constant memory.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "database connection URL (sqlite://path or postgres://...)")
}

func Execute() error {
	return rootCmd.Execute()
}
