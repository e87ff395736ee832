// internal/rules/operators.go
package rules

import "strings"

/*
 * Conditional operator comparison.
 *
 * Three operators over already-evaluated strings:
 *   - EQ:  exact equality
 *   - NEQ: inequality
 *   - IN:  comparison value is a comma-separated list; each entry is
 *          trimmed of horizontal whitespace and must equal the actual
 *          value exactly ("a, b ,c" matches "b", not "ab"). Empty
 *          entries are skipped, so an empty actual value never matches
 *          an empty list or a trailing comma.
 *
 * Why function-based: three operators via switch statement is cleaner than
 * three interface implementations with minimal behavior variation.
 */

// compare applies the operator to the actual value produced by the
// condition subtree and the configured comparison value.
func compare(op Operator, actual, comparison string) bool {
	switch op {
	case OpEQ:
		return actual == comparison
	case OpNEQ:
		return actual != comparison
	case OpIN:
		for _, entry := range strings.Split(comparison, ",") {
			entry = strings.Trim(entry, " \t")
			if entry == "" {
				continue
			}
			if entry == actual {
				return true
			}
		}
		return false
	default:
		return false
	}
}
