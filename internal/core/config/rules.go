package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/solatis/dumpscrub/internal/types"
)

/*
 * Rules file schema:
 *
 *   rules:
 *     <schema>:
 *       <table>:
 *         - <column>: "<template>"
 *         - <column>: "<template>"
 *
 * Tables are keyed in the result by their qualified name "schema.table".
 * Tolerant loading: a missing rules key, or schema/table nodes of the
 * wrong shape, contribute nothing rather than failing the load. Only an
 * unreadable file or invalid YAML is an error; template problems are not
 * detected here at all, they surface as diagnostics during catalog
 * compilation.
 */

// LoadRulesFile reads and parses a YAML rules file.
func LoadRulesFile(path string) (types.RawRules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	raw, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}
	return raw, nil
}

// ParseRules parses the rules document into the raw catalog handoff form.
func ParseRules(data []byte) (types.RawRules, error) {
	var doc struct {
		Rules yaml.Node `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	raw := types.RawRules{}
	if doc.Rules.Kind != yaml.MappingNode {
		return raw, nil
	}

	var schemas map[string]yaml.Node
	if err := doc.Rules.Decode(&schemas); err != nil {
		return raw, nil
	}

	for schema, schemaNode := range schemas {
		var tables map[string]yaml.Node
		if schemaNode.Decode(&tables) != nil {
			continue
		}
		for table, tableNode := range tables {
			var entries []map[string]string
			if tableNode.Decode(&entries) != nil {
				continue
			}
			qualified := types.QualifiedTable(schema, table)
			for _, entry := range entries {
				for column, template := range entry {
					if raw[qualified] == nil {
						raw[qualified] = make(map[string]string)
					}
					raw[qualified][column] = template
				}
			}
		}
	}

	return raw, nil
}
