// internal/rules/parse.go
package rules

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

/*
 * Template parsing.
 *
 * Compiles a raw template string ("literal {{VERB(args...)}} literal") into
 * an immutable rule tree. Parse never fails: malformed input degrades to
 * literal or empty nodes plus a diagnostic, so an unparsable template can
 * never block a dump run.
 *
 * Nesting: tags may appear inside tag arguments (e.g. a REGEX whose
 * replacement is itself a template). The scanner finds the matching close
 * token by counting braces, starting at depth 2 for the opening "{{" --
 * a plain substring search for "}}" would close the outer tag at the
 * inner tag's terminator.
 *
 * Recovery: an unterminated tag stops tag scanning and everything from the
 * last committed position onward is preserved as literal text. Nothing is
 * committed before the matching close token is located, so the preserved
 * tail is exactly the unconsumed input.
 *
 * Argument splitting: commas nested inside balanced braces or parentheses
 * are not split points, which lets an argument carry a sub-template or a
 * nested call. The splitter always yields at least one (possibly empty)
 * argument, so "LITERAL()" compiles to Literal("").
 */

// Verb names recognized inside template tags. Matching is case-sensitive.
const (
	verbNone    = "NONE"
	verbLiteral = "LITERAL"
	verbRand    = "RAND"
	verbPick    = "PICK"
	verbHash    = "HASH"
	verbRegex   = "REGEX"
	verbMatches = "MATCHES"
	verbIf      = "IF"
)

// Parse compiles a raw template into a rule tree. Problems are appended to
// diags; the returned tree is always evaluable.
func Parse(raw string, diags *Diagnostics) Rule {
	var children []Rule
	last := 0

	i := 0
	for i < len(raw) {
		if !(i+1 < len(raw) && raw[i] == '{' && raw[i+1] == '{') {
			i++
			continue
		}

		// Locate the matching close before committing anything, so an
		// unterminated tag leaves the remaining input intact as literal.
		end := findTagEnd(raw, i+2)
		if end < 0 {
			break
		}

		if i > last {
			children = append(children, Literal{Text: raw[last:i]})
		}
		children = append(children, parseFunc(raw[i+2:end-1], diags))

		i = end + 1
		last = i
	}

	if last < len(raw) {
		children = append(children, Literal{Text: raw[last:]})
	}

	return Composite{Children: children}
}

// findTagEnd scans forward from the first character after the opening
// token, counting braces with an initial depth of 2. Returns the index of
// the byte that balances the tag (the second closing brace), or -1 when
// the tag is unterminated.
func findTagEnd(raw string, start int) int {
	depth := 2
	for j := start; j < len(raw); j++ {
		switch raw[j] {
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth == 0 {
			return j
		}
	}
	return -1
}

// parseFunc compiles one function definition ("NAME" or "NAME(ARGS)") into
// a rule node. Unknown verbs and arity violations degrade to an empty
// Literal plus a diagnostic, never an error.
func parseFunc(def string, diags *Diagnostics) Rule {
	name := def
	argsStr := ""
	if p := strings.IndexByte(def, '('); p >= 0 {
		name = def[:p]
		if q := strings.LastIndexByte(def, ')'); q > p {
			argsStr = def[p+1 : q]
		}
	}
	name = stripSpace(name)
	args := splitArgs(argsStr)

	switch name {
	case verbNone:
		return None{}

	case verbLiteral:
		if len(args) == 1 {
			return Literal{Text: args[0]}
		}

	case verbRand:
		if len(args) == 2 {
			min, errMin := strconv.Atoi(args[0])
			max, errMax := strconv.Atoi(args[1])
			if errMin != nil || errMax != nil {
				diags.addf("RAND: non-numeric bounds (%q, %q)", args[0], args[1])
				return Literal{}
			}
			if min > max {
				diags.addf("RAND: min %d exceeds max %d", min, max)
				return Literal{}
			}
			// The draw needs max-min+1 representable as a positive int;
			// two's-complement subtraction gives the unsigned span even
			// when min is negative.
			if span := uint64(max) - uint64(min); span >= math.MaxInt64 {
				diags.addf("RAND: interval [%d, %d] is too wide", min, max)
				return Literal{}
			}
			return RandomInt{Min: min, Max: max}
		}

	case verbPick:
		return Pick{Options: args}

	case verbHash:
		if len(args) == 1 {
			return Hash{Salt: saltOf(args[0])}
		}

	case verbRegex:
		if len(args) >= 2 {
			pattern, err := regexp.Compile(args[0])
			if err != nil {
				diags.addf("REGEX: invalid pattern %q: %v", args[0], err)
				return Literal{}
			}
			return RegexReplace{
				Pattern:     pattern,
				Replacement: Parse(args[1], diags),
			}
		}

	case verbMatches:
		if len(args) == 2 {
			// Anchored so the column value must match in full, partial
			// matches report "false".
			pattern, err := regexp.Compile("^(?:" + args[1] + ")$")
			if err != nil {
				diags.addf("MATCHES: invalid pattern %q: %v", args[1], err)
				return Literal{}
			}
			return Matches{Column: args[0], Pattern: pattern}
		}

	case verbIf:
		if len(args) == 5 {
			op, ok := parseOperator(args[1])
			if !ok {
				diags.addf("IF: unknown operator %q", args[1])
				return Literal{}
			}
			return Conditional{
				Condition:  Parse(args[0], diags),
				Operator:   op,
				Comparison: args[2],
				True:       Parse(args[3], diags),
				False:      Parse(args[4], diags),
			}
		}

	default:
		diags.addf("unknown verb %q (args: %d)", name, len(args))
		return Literal{}
	}

	diags.addf("%s: wrong argument count (args: %d)", name, len(args))
	return Literal{}
}

// parseOperator maps the textual operator of an IF tag to its enum value.
func parseOperator(s string) (Operator, bool) {
	switch s {
	case "EQ":
		return OpEQ, true
	case "NEQ":
		return OpNEQ, true
	case "IN":
		return OpIN, true
	default:
		return 0, false
	}
}

// saltOf derives a numeric salt from the HASH argument by a polynomial
// accumulator over its bytes, wrapping at 32 bits.
func saltOf(arg string) uint32 {
	var salt uint32
	for i := 0; i < len(arg); i++ {
		salt = salt*31 + uint32(arg[i])
	}
	return salt
}

// splitArgs splits an argument list on commas, except commas nested inside
// balanced braces or parentheses. Each argument is trimmed of horizontal
// whitespace. Always returns at least one element.
func splitArgs(s string) []string {
	var args []string
	var current strings.Builder
	nesting := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '{', '(':
			nesting++
		case '}', ')':
			nesting--
		}
		if c == ',' && nesting == 0 {
			args = append(args, trimArg(current.String()))
			current.Reset()
			continue
		}
		current.WriteByte(c)
	}
	args = append(args, trimArg(current.String()))
	return args
}

func trimArg(s string) string {
	return strings.Trim(s, " \t")
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			return -1
		}
		return r
	}, s)
}
