package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleRules = `
rules:
  public:
    users:
      - email: "{{HASH(pepper)}}@example.com"
      - name: "{{PICK(Alice,Bob)}}"
    orders:
      - total: "{{RAND(1,100)}}"
  audit:
    events:
      - ip: "0.0.0.0"
`

func TestParseRules_FlattensToQualifiedNames(t *testing.T) {
	raw, err := ParseRules([]byte(sampleRules))
	if err != nil {
		t.Fatalf("ParseRules() error = %v, want nil", err)
	}

	if len(raw) != 3 {
		t.Fatalf("len(raw) = %d, want 3", len(raw))
	}
	if got := raw["public.users"]["email"]; got != "{{HASH(pepper)}}@example.com" {
		t.Errorf("public.users.email = %q, want template", got)
	}
	if got := raw["public.users"]["name"]; got != "{{PICK(Alice,Bob)}}" {
		t.Errorf("public.users.name = %q, want template", got)
	}
	if got := raw["public.orders"]["total"]; got != "{{RAND(1,100)}}" {
		t.Errorf("public.orders.total = %q, want template", got)
	}
	if got := raw["audit.events"]["ip"]; got != "0.0.0.0" {
		t.Errorf("audit.events.ip = %q, want literal template", got)
	}
}

func TestParseRules_TolerantShapes(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "missing rules key", doc: "other: 1\n"},
		{name: "scalar rules key", doc: "rules: nope\n"},
		{name: "empty document", doc: ""},
		{name: "table is not a sequence", doc: "rules:\n  public:\n    users: scalar\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ParseRules([]byte(tt.doc))
			if err != nil {
				t.Fatalf("ParseRules() error = %v, want nil", err)
			}
			if len(raw) != 0 {
				t.Errorf("len(raw) = %d, want 0", len(raw))
			}
		})
	}
}

func TestParseRules_InvalidYAML(t *testing.T) {
	_, err := ParseRules([]byte("rules: [unclosed"))
	if err == nil {
		t.Fatal("ParseRules() error = nil, want error for invalid YAML")
	}
}

func TestLoadRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(sampleRules), 0o600); err != nil {
		t.Fatal(err)
	}

	raw, err := LoadRulesFile(path)
	if err != nil {
		t.Fatalf("LoadRulesFile() error = %v, want nil", err)
	}
	if len(raw) != 3 {
		t.Errorf("len(raw) = %d, want 3", len(raw))
	}
}

func TestLoadRulesFile_Missing(t *testing.T) {
	_, err := LoadRulesFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("LoadRulesFile() error = nil, want error for missing file")
	}
}
