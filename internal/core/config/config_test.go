package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, want nil", err)
	}
	if cfg.RulesFile != "" || cfg.Input != "" || cfg.Output != "" || cfg.DatabaseURL != "" {
		t.Errorf("LoadConfig() = %+v, want zero-value defaults", cfg)
	}
	if cfg.HasRulesSource() {
		t.Error("HasRulesSource() = true, want false for empty config")
	}
}

func TestLoadConfig_Environment(t *testing.T) {
	os.Setenv("DS_RULES_FILE", "/etc/dumpscrub/rules.yaml")
	defer os.Unsetenv("DS_RULES_FILE")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, want nil", err)
	}
	if cfg.RulesFile != "/etc/dumpscrub/rules.yaml" {
		t.Errorf("RulesFile = %q, want environment value", cfg.RulesFile)
	}
	if !cfg.HasRulesSource() {
		t.Error("HasRulesSource() = false, want true")
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "rules_file: rules.yaml\ninput: dump.sql\noutput: out.sql\ndb_url: sqlite://store.db\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, want nil", err)
	}
	if cfg.RulesFile != "rules.yaml" {
		t.Errorf("RulesFile = %q, want %q", cfg.RulesFile, "rules.yaml")
	}
	if cfg.Input != "dump.sql" {
		t.Errorf("Input = %q, want %q", cfg.Input, "dump.sql")
	}
	if cfg.Output != "out.sql" {
		t.Errorf("Output = %q, want %q", cfg.Output, "out.sql")
	}
	if cfg.DatabaseURL != "sqlite://store.db" {
		t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, "sqlite://store.db")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("LoadConfig() error = nil, want error for missing config file")
	}
}
