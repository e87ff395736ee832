package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/solatis/dumpscrub/internal/core/config"
	"github.com/solatis/dumpscrub/internal/core/db"
	"github.com/solatis/dumpscrub/internal/dump"
	"github.com/solatis/dumpscrub/internal/rules"
	"github.com/solatis/dumpscrub/internal/types"
)

const Version = "0.1.0"

var anonymizeCmd = &cobra.Command{
	Use:   "anonymize",
	Short: "Anonymize a PostgreSQL plain-SQL dump",
	RunE:  runAnonymize,
}

func init() {
	rootCmd.AddCommand(anonymizeCmd)
	anonymizeCmd.Flags().StringP("rules", "r", "", "YAML rules file")
	anonymizeCmd.Flags().StringP("input", "i", "", "input dump file (default stdin)")
	anonymizeCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
}

func runAnonymize(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("rules") {
		cfg.RulesFile, _ = cmd.Flags().GetString("rules")
	}
	if cmd.Flags().Changed("input") {
		cfg.Input, _ = cmd.Flags().GetString("input")
	}
	if cmd.Flags().Changed("output") {
		cfg.Output, _ = cmd.Flags().GetString("output")
	}
	if dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if !cfg.HasRulesSource() {
		return types.ErrNoRulesSource
	}

	raw, err := loadRawRules(cfg)
	if err != nil {
		return err
	}

	for table, columns := range raw {
		for column := range columns {
			log.Printf("Loaded rule for %s.%s", table, column)
		}
	}

	catalog, diags := rules.CompileCatalog(raw)

	// Template problems surface here, before any row is processed; they
	// never abort the run and never interleave with row output.
	for _, d := range diags {
		log.Printf("template diagnostic: %s", d)
	}
	log.Printf("Starting dumpscrub v%s: %d tables with rules, %d template diagnostics", Version, len(catalog), len(diags))

	in, closeIn, err := openInput(cfg.Input)
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := openOutput(cfg.Output)
	if err != nil {
		return err
	}

	stats, err := dump.New(catalog).Process(in, out)
	if err != nil {
		closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}

	log.Printf("Processed %d lines: %d rows transformed, %d cells rewritten", stats.LinesRead, stats.RowsTransformed, stats.CellsRewritten)
	return nil
}

// loadRawRules resolves the raw rules from whichever source is configured.
// A database URL takes precedence: shared deployments pin their catalog in
// the rule store and only fall back to files for local runs.
func loadRawRules(cfg *config.Config) (types.RawRules, error) {
	if cfg.DatabaseURL != "" {
		database, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		store, err := db.NewRuleStore(database)
		if err != nil {
			return nil, fmt.Errorf("failed to open rule store: %w", err)
		}
		raw, id, err := store.LoadLatest()
		if err != nil {
			return nil, fmt.Errorf("failed to load rule set: %w", err)
		}
		log.Printf("Loaded rule set %s (%d tables)", id, len(raw))
		return raw, nil
	}

	return config.LoadRulesFile(cfg.RulesFile)
}

func openInput(path string) (io.Reader, func() error, error) {
	if path == "" {
		return os.Stdin, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, f.Close, nil
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output: %w", err)
	}
	return f, f.Close, nil
}
