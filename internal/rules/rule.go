// internal/rules/rule.go
package rules

import "regexp"

/*
 * Rule tree node types.
 *
 * A compiled template is a finite tree of rule nodes. The node set is
 * closed: one variant per template verb plus Composite for concatenation.
 * Evaluation dispatches through the Rule interface; adding a verb means
 * adding a variant here plus one parser arm and one evaluator method.
 *
 * Immutability contract: nodes are never mutated after Parse returns. Trees
 * are shared across all rows of their table/column and must be safe to
 * evaluate concurrently. RandomInt and Pick therefore hold no generator
 * state; they draw from math/rand/v2's process-wide source at evaluation
 * time (see evaluate.go).
 *
 * Regex-bearing nodes hold pre-compiled patterns. Compilation failures are
 * handled at parse time (diagnostic + empty Literal), so a constructed node
 * always carries a valid pattern.
 */

// Rule is one node of a compiled template tree.
// Evaluate never fails: every degradation path lands on an empty string or
// on the unchanged input value.
type Rule interface {
	Evaluate(value string, ctx *RowContext) string
}

// None returns the input value unchanged. Explicitly means "no redaction".
type None struct{}

// Literal returns fixed text, ignoring the input value and row context.
type Literal struct {
	Text string
}

// RandomInt draws uniformly from the closed interval [Min, Max].
// Parse guarantees Min <= Max and that Max-Min+1 fits a positive int,
// so the draw cannot fail. Each evaluation is an independent draw.
type RandomInt struct {
	Min int
	Max int
}

// Pick selects uniformly among Options. An empty option list yields "".
type Pick struct {
	Options []string
}

// Hash renders a deterministic 31-bit digest of salt + input as decimal.
// Same (salt, value) always yields the same digest, so a value hashed with
// the same configured salt maps to the same pseudonym everywhere it recurs.
// Pseudonymization only; the digest is not cryptographic.
type Hash struct {
	Salt uint32
}

// RegexReplace substitutes every match of Pattern within the input value.
// Replacement is itself a rule tree, evaluated first against the same
// (value, ctx) to produce the concrete replacement template.
type RegexReplace struct {
	Pattern     *regexp.Regexp
	Replacement Rule
}

// Matches reports "true"/"false" for a full match of Pattern against the
// original value of Column in the current row. The pattern is anchored at
// compile time, so partial matches do not count.
type Matches struct {
	Column  string
	Pattern *regexp.Regexp
}

// Operator is the comparison operator of a Conditional node.
type Operator int

const (
	OpEQ Operator = iota
	OpNEQ
	OpIN
)

// Conditional evaluates Condition to an actual value, compares it to
// Comparison per Operator, and recurses into the selected branch with the
// same (value, ctx).
type Conditional struct {
	Condition  Rule
	Operator   Operator
	Comparison string
	True       Rule
	False      Rule
}

// Composite concatenates the outputs of Children in order. Every child
// sees the original per-cell value, never a sibling's output.
type Composite struct {
	Children []Rule
}
