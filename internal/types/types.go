// Package types provides domain models shared across dumpscrub components.
//
// Zero-dependency design: types.go and errors.go use only the standard
// library so the core packages stay free of transitive weight. ID utilities
// in ids.go import uuid but are isolated for selective inclusion.
package types

// RawRules maps a qualified table name ("schema.table", case-sensitive) to
// a map of column name -> raw template string. This is the handoff format
// every rules source (YAML file, database rule store) resolves to before
// catalog compilation.
type RawRules map[string]map[string]string

// QualifiedTable joins a schema and table name into the catalog key form.
// Keys are case-sensitive; no quoting or normalization is applied.
func QualifiedTable(schema, table string) string {
	return schema + "." + table
}

// RuleSetID represents a UUIDv7 rule-set identifier.
// String alias enables type safety while maintaining string serialization.
// UUIDv7 time-ordering makes "latest rule set" a simple ORDER BY.
type RuleSetID string
