// internal/rules/catalog.go
package rules

import "sort"

/*
 * Catalog compilation.
 *
 * The catalog maps (qualified table name -> column name -> rule tree).
 * Built once at startup from the resolved raw rules, read-only for the
 * rest of the run; stream processing does lookups only, so no locking
 * discipline is needed.
 *
 * Why sorted compile order: map iteration order would shuffle diagnostics
 * between runs of the same configuration. Sorting table and column names
 * keeps the diagnostic list stable for operators diffing two runs.
 */

// Catalog maps a qualified table name to its per-column rule trees.
// Keys are case-sensitive. Never mutated after CompileCatalog returns.
type Catalog map[string]map[string]Rule

// CompileCatalog parses every raw template into a rule tree. Compilation
// never fails; template problems are returned as diagnostics with their
// table, column, and offending template attached.
func CompileCatalog(raw map[string]map[string]string) (Catalog, Diagnostics) {
	catalog := make(Catalog, len(raw))
	var diags Diagnostics

	for _, table := range sortedKeys(raw) {
		columns := raw[table]
		compiled := make(map[string]Rule, len(columns))

		for _, column := range sortedKeys(columns) {
			template := columns[column]

			before := len(diags)
			compiled[column] = Parse(template, &diags)
			for i := before; i < len(diags); i++ {
				diags[i].Table = table
				diags[i].Column = column
				diags[i].Template = template
			}
		}

		catalog[table] = compiled
	}

	return catalog, diags
}

// ColumnRule returns the rule for (table, column), or nil when either is
// not configured.
func (c Catalog) ColumnRule(table, column string) Rule {
	columns, ok := c[table]
	if !ok {
		return nil
	}
	return columns[column]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
