// internal/dump/copy.go
package dump

import (
	"regexp"
	"strings"
)

// Block boundary grammar for plain-SQL dumps. Keywords match
// case-insensitively; the qualified table name is restricted to word
// characters and dots.
//
// Start: COPY schema.table [(col, "col2", ...)] FROM stdin;
// End:   a line consisting solely of \. (optional surrounding whitespace).
var (
	copyStartPattern = regexp.MustCompile(`(?i)^\s*COPY\s+([\w.]+)\s*(\([^;]+\))?\s+FROM\s+stdin\s*;\s*$`)
	copyEndPattern   = regexp.MustCompile(`^\s*\\\.\s*$`)
)

// parseCopyColumns extracts the column names from the parenthesized list
// of a COPY header. Surrounding quote characters and spaces are stripped
// per identifier; empty entries are dropped. Returns nil when the raw
// text carries no balanced parentheses.
func parseCopyColumns(raw string) []string {
	start := strings.IndexByte(raw, '(')
	end := strings.LastIndexByte(raw, ')')
	if start < 0 || end < 0 || end <= start {
		return nil
	}

	inner := raw[start+1 : end]
	inner = strings.ReplaceAll(inner, " ", "")
	inner = strings.ReplaceAll(inner, `"`, "")

	var columns []string
	for _, col := range strings.Split(inner, ",") {
		if col != "" {
			columns = append(columns, col)
		}
	}
	return columns
}
