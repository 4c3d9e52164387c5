package calculator

import "strconv"

// Kind is the branch of the calculator that handles an input.
type Kind uint8

const (
	// KindExpression is a plain expression to evaluate.
	KindExpression Kind = iota + 1
	// KindEquation is a linear equation in one variable to solve.
	KindEquation
	// KindBatch is a sequence of independent inputs separated by ;.
	KindBatch
)

func (k Kind) String() string {
	switch k {
	case KindExpression:
		return "expression"
	case KindEquation:
		return "equation"
	case KindBatch:
		return "batch"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Classify decides how to handle text. A top-level ; makes a batch. Otherwise
// exactly one top-level = makes an equation, and none makes an expression.
// More than one = is a *ClassificationError. Classify does not check that
// text is otherwise well-formed.
func Classify(text string) (Kind, error) {
	if hasTopLevel(text, ';') {
		return KindBatch, nil
	}
	switch n := len(topLevelEquals(text)); n {
	case 0:
		return KindExpression, nil
	case 1:
		return KindEquation, nil
	default:
		return 0, &ClassificationError{Kind: AmbiguousEquation, Count: n}
	}
}
