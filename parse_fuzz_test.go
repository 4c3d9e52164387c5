//go:build go1.18
// +build go1.18

package calculator_test

import (
	"strings"
	"testing"

	"github.com/zephyrtronium/calculator"
)

func FuzzParse(f *testing.F) {
	f.Add("x")
	f.Add("y")
	f.Add("1×2")
	f.Add("-2**-x")
	f.Add("max([1, 2x, (3)])")
	f.Fuzz(func(t *testing.T, s string) {
		a, err := calculator.Parse(strings.NewReader(s), calculator.FreeVar("x"))
		if err != nil {
			return
		}
		// Formatted expressions must parse to the same thing.
		b, err := calculator.ParseString(a.String(), calculator.FreeVar("x"), calculator.MaxLength(-1), calculator.MaxDepth(-1))
		if err != nil {
			t.Fatalf("%q formatted as %q, which fails: %v", s, a.String(), err)
		}
		if a.String() != b.String() {
			t.Errorf("%q formatted as %q, which formats as %q", s, a.String(), b.String())
		}
	})
}
