package calculator

import "strings"

// Result is the value of a single expression or equation.
type Result struct {
	Kind Kind `json:"kind"`
	// Value is the value of an expression or the solution of an equation.
	Value Value `json:"value"`
	// Source is the trimmed input text.
	Source string `json:"source"`
	// Var is the variable solved for, for equations.
	Var string `json:"variable,omitempty"`
	// Solution holds the reduced forms of an equation.
	Solution *Solution `json:"solution,omitempty"`
}

// Outcome is the result of Calculate. For KindBatch, Batch holds one entry per
// segment; otherwise Result holds the result.
type Outcome struct {
	Kind   Kind
	Result *Result
	Batch  []BatchEntry
}

// Calculate classifies text and evaluates it as an expression, solves it as
// a linear equation in variable, or runs it as a batch. An empty variable
// means "x".
//
// For expressions and equations, the first error stops the calculation. For
// batches, the error is non-nil only if the batch is structurally invalid.
func Calculate(text, variable string, opts ...ParseOption) (*Outcome, error) {
	if variable == "" {
		variable = "x"
	}
	p := newparsectx(opts)
	if err := p.checklen(text); err != nil {
		return nil, err
	}
	k, err := Classify(text)
	if err != nil {
		return nil, err
	}
	if k == KindBatch {
		b, err := RunBatch(text, variable, opts...)
		if err != nil {
			return nil, err
		}
		return &Outcome{Kind: k, Batch: b}, nil
	}
	r, err := calculateOne(strings.TrimSpace(text), k, variable, opts)
	if err != nil {
		return nil, err
	}
	return &Outcome{Kind: k, Result: r}, nil
}

// calculateOne evaluates or solves text, which must classify as k.
func calculateOne(text string, k Kind, variable string, opts []ParseOption) (*Result, error) {
	switch k {
	case KindExpression:
		v, err := Evaluate(text, opts...)
		if err != nil {
			return nil, err
		}
		return &Result{Kind: k, Value: v, Source: text}, nil
	case KindEquation:
		s, err := SolveDetail(text, variable, opts...)
		if err != nil {
			return nil, err
		}
		return &Result{Kind: k, Value: Scalar(s.Value), Source: text, Var: variable, Solution: s}, nil
	default:
		panic("calculator: cannot calculate " + k.String() + " as one unit")
	}
}
