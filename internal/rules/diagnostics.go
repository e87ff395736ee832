// internal/rules/diagnostics.go
package rules

import "fmt"

// Diagnostic describes one non-fatal template problem found during parsing
// or catalog compilation. Table, Column and Template are filled in by the
// catalog builder; the parser itself only knows the message.
type Diagnostic struct {
	Table    string
	Column   string
	Template string
	Message  string
}

// String renders the diagnostic for operator-facing logs.
func (d Diagnostic) String() string {
	if d.Table == "" {
		return d.Message
	}
	return fmt.Sprintf("%s.%s (%q): %s", d.Table, d.Column, d.Template, d.Message)
}

// Diagnostics is an explicit sink the parser appends to instead of writing
// to a process-wide logger. Callers collect it during catalog construction
// and surface it before any row is processed; template problems never
// interleave with row output and never abort the run.
type Diagnostics []Diagnostic

func (d *Diagnostics) addf(format string, args ...any) {
	*d = append(*d, Diagnostic{Message: fmt.Sprintf(format, args...)})
}
