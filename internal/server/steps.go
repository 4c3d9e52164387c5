package server

import (
	"github.com/zephyrtronium/calculator"
)

func expressionSteps(src string, e *calculator.Expr, v calculator.Value) []string {
	return []string{
		"expression: " + src,
		"parsed: " + e.Pretty(),
		"result: " + v.String(),
	}
}

// equationSteps shows how the equation reduces to its solution.
func equationSteps(eq string, s *calculator.Solution) []string {
	v := s.Normal.Var
	num := func(x float64) string { return calculator.Scalar(x).String() }
	return []string{
		"equation: " + eq,
		"left side: " + s.Left.String(),
		"right side: " + s.Right.String(),
		"collect terms: (" + num(s.Left.Coefficient) + " - " + num(s.Right.Coefficient) + ")*" + v +
			" = " + num(s.Right.Constant) + " - " + num(s.Left.Constant),
		"simplify: " + num(s.Normal.Coefficient) + "*" + v + " = " + num(-s.Normal.Constant),
		"solve: " + v + " = " + num(s.Value),
	}
}
