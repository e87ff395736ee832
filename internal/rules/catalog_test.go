// internal/rules/catalog_test.go
package rules

import "testing"

func TestCompileCatalog_CompilesAllColumns(t *testing.T) {
	raw := map[string]map[string]string{
		"public.users": {
			"email": "{{HASH(pepper)}}@example.com",
			"name":  "{{PICK(Alice,Bob)}}",
		},
		"audit.events": {
			"ip": "0.0.0.0",
		},
	}

	catalog, diags := CompileCatalog(raw)
	if len(diags) != 0 {
		t.Fatalf("len(diags) = %d, want 0: %v", len(diags), diags)
	}
	if len(catalog) != 2 {
		t.Fatalf("len(catalog) = %d, want 2", len(catalog))
	}

	if rule := catalog.ColumnRule("public.users", "email"); rule == nil {
		t.Error("ColumnRule(public.users, email) = nil, want rule")
	}
	if rule := catalog.ColumnRule("audit.events", "ip"); rule == nil {
		t.Fatal("ColumnRule(audit.events, ip) = nil, want rule")
	}
	if got := catalog.ColumnRule("audit.events", "ip").Evaluate("10.1.2.3", nil); got != "0.0.0.0" {
		t.Errorf("Evaluate() = %q, want %q", got, "0.0.0.0")
	}
}

func TestCompileCatalog_UnknownLookupsAreNil(t *testing.T) {
	catalog, _ := CompileCatalog(map[string]map[string]string{
		"public.users": {"email": "{{NONE}}"},
	})

	if rule := catalog.ColumnRule("public.orders", "id"); rule != nil {
		t.Errorf("ColumnRule(unknown table) = %v, want nil", rule)
	}
	if rule := catalog.ColumnRule("public.users", "id"); rule != nil {
		t.Errorf("ColumnRule(unknown column) = %v, want nil", rule)
	}
}

// Diagnostics carry the table, column, and offending template so operators
// can find the broken rule without grepping the config.
func TestCompileCatalog_DiagnosticsAnnotated(t *testing.T) {
	raw := map[string]map[string]string{
		"public.users": {
			"email": "{{NONE}}",
			"phone": "{{BOGUS(1)}}",
		},
	}

	catalog, diags := CompileCatalog(raw)
	if len(diags) != 1 {
		t.Fatalf("len(diags) = %d, want 1", len(diags))
	}

	d := diags[0]
	if d.Table != "public.users" {
		t.Errorf("Table = %q, want %q", d.Table, "public.users")
	}
	if d.Column != "phone" {
		t.Errorf("Column = %q, want %q", d.Column, "phone")
	}
	if d.Template != "{{BOGUS(1)}}" {
		t.Errorf("Template = %q, want %q", d.Template, "{{BOGUS(1)}}")
	}

	// The degraded rule still exists and evaluates to empty.
	if got := catalog.ColumnRule("public.users", "phone").Evaluate("x", nil); got != "" {
		t.Errorf("degraded rule Evaluate() = %q, want empty", got)
	}
}

func TestCompileCatalog_EmptyInput(t *testing.T) {
	catalog, diags := CompileCatalog(nil)
	if len(catalog) != 0 {
		t.Errorf("len(catalog) = %d, want 0", len(catalog))
	}
	if len(diags) != 0 {
		t.Errorf("len(diags) = %d, want 0", len(diags))
	}
}
