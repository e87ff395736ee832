// internal/rules/evaluate.go
package rules

import (
	"math/rand/v2"
	"strconv"
	"strings"
)

/*
 * Rule evaluation.
 *
 * One Evaluate method per node variant. The shared contract:
 *
 *   - Never fails, never panics: value-producing failures (empty Pick
 *     list, unknown context column) degrade to "".
 *   - Pure with respect to ctx (read-only); the only non-determinism is
 *     the independent draw in RandomInt and Pick.
 *   - Safe for concurrent use: nodes hold no mutable state, and random
 *     draws go through math/rand/v2's lock-free per-thread source rather
 *     than a generator embedded in the node.
 *
 * Hash layout: FNV-1a 32-bit. The salt's decimal representation is mixed
 * first, then the value bytes, and the result is masked to 31 bits before
 * decimal rendering. The mask keeps digests in the non-negative int32
 * range so they can stand in for integer key columns.
 */

const (
	fnvOffsetBasis uint32 = 2166136261
	fnvPrime       uint32 = 16777619
)

// Evaluate returns the input unchanged.
func (None) Evaluate(value string, _ *RowContext) string {
	return value
}

// Evaluate returns the fixed text.
func (r Literal) Evaluate(_ string, _ *RowContext) string {
	return r.Text
}

// Evaluate draws a fresh integer from [Min, Max] on every call.
func (r RandomInt) Evaluate(_ string, _ *RowContext) string {
	return strconv.Itoa(r.Min + rand.IntN(r.Max-r.Min+1))
}

// Evaluate picks one option uniformly; an empty list yields "".
func (r Pick) Evaluate(_ string, _ *RowContext) string {
	if len(r.Options) == 0 {
		return ""
	}
	return r.Options[rand.IntN(len(r.Options))]
}

// Evaluate digests salt + value deterministically.
func (r Hash) Evaluate(value string, _ *RowContext) string {
	h := fnvOffsetBasis
	for _, c := range []byte(strconv.FormatUint(uint64(r.Salt), 10)) {
		h ^= uint32(c)
		h *= fnvPrime
	}
	for _, c := range []byte(value) {
		h ^= uint32(c)
		h *= fnvPrime
	}
	return strconv.FormatUint(uint64(h&0x7FFFFFFF), 10)
}

// Evaluate substitutes every pattern match within value. The replacement
// subtree runs first, against the same (value, ctx), so replacement text
// can itself be dynamic. A non-matching pattern returns value unchanged.
func (r RegexReplace) Evaluate(value string, ctx *RowContext) string {
	replacement := r.Replacement.Evaluate(value, ctx)
	return r.Pattern.ReplaceAllString(value, replacement)
}

// Evaluate full-matches the pattern against the original value of the
// target column, never against the working value.
func (r Matches) Evaluate(_ string, ctx *RowContext) string {
	if r.Pattern.MatchString(ctx.Value(r.Column)) {
		return "true"
	}
	return "false"
}

// Evaluate resolves the condition subtree, compares, and recurses into the
// selected branch with the same (value, ctx).
func (r Conditional) Evaluate(value string, ctx *RowContext) string {
	actual := r.Condition.Evaluate(value, ctx)
	if compare(r.Operator, actual, r.Comparison) {
		return r.True.Evaluate(value, ctx)
	}
	return r.False.Evaluate(value, ctx)
}

// Evaluate concatenates child outputs in order. Children all receive the
// original per-cell value, not each other's output.
func (r Composite) Evaluate(value string, ctx *RowContext) string {
	var b strings.Builder
	for _, child := range r.Children {
		b.WriteString(child.Evaluate(value, ctx))
	}
	return b.String()
}
