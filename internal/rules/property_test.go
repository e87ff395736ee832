// internal/rules/property_test.go
package rules

import (
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property-based coverage for the contracts that must hold over the whole
// input space: hash determinism, digest range, and parser crash-freedom.

func TestHash_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("same salt and value always digest identically", prop.ForAll(
		func(salt uint32, value string) bool {
			rule := Hash{Salt: salt}
			return rule.Evaluate(value, nil) == rule.Evaluate(value, nil)
		},
		gen.UInt32(),
		gen.AnyString(),
	))

	properties.Property("digest is a decimal within [0, 2^31-1]", prop.ForAll(
		func(salt uint32, value string) bool {
			n, err := strconv.ParseInt(Hash{Salt: salt}.Evaluate(value, nil), 10, 64)
			return err == nil && n >= 0 && n <= 0x7FFFFFFF
		},
		gen.UInt32(),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestParse_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("parse never fails and always yields an evaluable tree", prop.ForAll(
		func(raw string) bool {
			var diags Diagnostics
			tree := Parse(raw, &diags)
			_ = tree.Evaluate(raw, nil)
			return tree != nil
		},
		gen.AnyString(),
	))

	properties.Property("tag-free templates evaluate to themselves", prop.ForAll(
		func(raw string) bool {
			var diags Diagnostics
			tree := Parse(raw, &diags)
			return tree.Evaluate("ignored", nil) == raw && len(diags) == 0
		},
		gen.AnyString().SuchThat(func(s string) bool {
			return !strings.Contains(s, "{{")
		}),
	))

	properties.TestingRun(t)
}

func TestConditionalIN_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	// Any entry of a comma-separated list matches after trimming,
	// regardless of how much horizontal padding surrounds it.
	properties.Property("padded list entries match after trim", prop.ForAll(
		func(entry string, padding uint8) bool {
			pad := strings.Repeat(" ", int(padding%5))
			rule := Conditional{
				Condition:  Literal{Text: entry},
				Operator:   OpIN,
				Comparison: "first," + pad + entry + pad + ",last",
				True:       Literal{Text: "T"},
				False:      Literal{Text: "F"},
			}
			return rule.Evaluate("ignored", nil) == "T"
		},
		gen.Identifier(),
		gen.UInt8(),
	))

	properties.TestingRun(t)
}
