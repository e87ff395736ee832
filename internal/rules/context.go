// internal/rules/context.go
package rules

// RowContext is a read-only view over one data row: ordered column names
// and the row's original (pre-transformation) cell values. Constructed
// fresh per row and discarded after the row's cells are transformed.
//
// Lookups always resolve against original values. Rules must be able to
// consult sibling columns while the row is progressively rewritten left to
// right; resolving against working values would leak an earlier
// transformation into a later column's conditional logic.
type RowContext struct {
	columns []string
	values  []string
}

// NewRowContext builds a context over one row. The slices are referenced,
// not copied; callers must not mutate them while the context is live.
func NewRowContext(columns, values []string) *RowContext {
	return &RowContext{columns: columns, values: values}
}

// Value returns the original value of the named column, or "" when the
// column is unknown or the row is shorter than the column list. Lookup is
// never an error; absence degrades to the empty string.
func (c *RowContext) Value(column string) string {
	if c == nil {
		return ""
	}
	for i, name := range c.columns {
		if name == column {
			if i < len(c.values) {
				return c.values[i]
			}
			return ""
		}
	}
	return ""
}
