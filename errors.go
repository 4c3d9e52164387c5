package calculator

import (
	"strconv"
	"strings"
)

// EvalErrorKind classifies evaluation errors.
type EvalErrorKind int8

const (
	// DivisionByZero is division or remainder by zero, or zero raised to a
	// negative power.
	DivisionByZero EvalErrorKind = iota + 1
	// Domain is an argument outside a function's domain, including a
	// negative base raised to a fractional power.
	Domain
	// TypeMismatch is a list where a scalar is expected or vice versa.
	TypeMismatch
	// EmptyInput is an empty list passed to a function that needs at least
	// one element.
	EmptyInput
	// Overflow is a result too large to represent.
	Overflow
)

func (k EvalErrorKind) String() string {
	switch k {
	case DivisionByZero:
		return "division by zero"
	case Domain:
		return "domain error"
	case TypeMismatch:
		return "type mismatch"
	case EmptyInput:
		return "empty input"
	case Overflow:
		return "overflow"
	default:
		return "EvalErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// EvalError is an error evaluating a validated expression.
type EvalError struct {
	Kind EvalErrorKind
	// Func is the operator or function that failed, if known.
	Func string
	// X is the offending argument for domain errors.
	X float64
	// Arg is the 1-based index of the argument, if known.
	Arg int
	// Detail says what was expected, for type mismatches.
	Detail string
}

func (err *EvalError) Error() string {
	var b strings.Builder
	b.WriteString(err.Kind.String())
	if err.Func != "" {
		b.WriteString(" in ")
		b.WriteString(err.Func)
	}
	switch err.Kind {
	case Domain:
		b.WriteString(": ")
		b.WriteString(formatFloat(err.X))
		b.WriteString(" outside domain")
	case TypeMismatch, EmptyInput:
		if err.Detail != "" {
			b.WriteString(": ")
			b.WriteString(err.Detail)
		}
	}
	if err.Arg > 0 {
		b.WriteString(" (argument ")
		b.WriteString(strconv.Itoa(err.Arg))
		b.WriteByte(')')
	}
	return b.String()
}

// Is reports whether target is an *EvalError of the same kind, so that
// errors.Is matches the sentinel errors.
func (err *EvalError) Is(target error) bool {
	t, ok := target.(*EvalError)
	return ok && t.Kind == err.Kind
}

// Sentinels for errors.Is.
var (
	ErrDivisionByZero error = &EvalError{Kind: DivisionByZero}
	ErrDomain         error = &EvalError{Kind: Domain}
	ErrTypeMismatch   error = &EvalError{Kind: TypeMismatch}
	ErrEmptyInput     error = &EvalError{Kind: EmptyInput}
	ErrOverflow       error = &EvalError{Kind: Overflow}
)

// EquationErrorKind classifies errors solving equations.
type EquationErrorKind int8

const (
	// NonLinear is a use of the variable that a linear equation cannot have.
	NonLinear EquationErrorKind = iota + 1
	// VariableNotFound is an equation that does not use the variable.
	VariableNotFound
	// NoSolution is a contradiction, e.g. 0x + 5 = 7.
	NoSolution
	// InfiniteSolutions is an identity, e.g. 0x + 5 = 5.
	InfiniteSolutions
	// InvalidVariable is a variable name that is not an identifier or that
	// collides with a permitted constant or function.
	InvalidVariable
)

func (k EquationErrorKind) String() string {
	switch k {
	case NonLinear:
		return "equation is not linear"
	case VariableNotFound:
		return "variable not found"
	case NoSolution:
		return "equation has no solution"
	case InfiniteSolutions:
		return "equation has infinitely many solutions"
	case InvalidVariable:
		return "invalid variable name"
	default:
		return "EquationErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// EquationError is an error solving a linear equation.
type EquationError struct {
	Kind EquationErrorKind
	// Var is the variable being solved for.
	Var string
	// Construct describes where a nonlinear use of the variable appears.
	Construct string
	// Found lists other names the equation uses, for VariableNotFound.
	Found []string
}

func (err *EquationError) Error() string {
	s := err.Kind.String()
	switch err.Kind {
	case NonLinear:
		s += " in " + err.Var
		if err.Construct != "" {
			s += ": " + err.Var + " appears " + err.Construct
		}
	case VariableNotFound:
		s = "variable " + strconv.Quote(err.Var) + " not found in equation"
		if len(err.Found) > 0 {
			s += " (found " + strings.Join(err.Found, ", ") + ")"
		}
	case InvalidVariable:
		s += ": " + strconv.Quote(err.Var)
	}
	return s
}

// Is reports whether target is an *EquationError of the same kind.
func (err *EquationError) Is(target error) bool {
	t, ok := target.(*EquationError)
	return ok && t.Kind == err.Kind
}

// Sentinels for errors.Is.
var (
	ErrNonLinear         error = &EquationError{Kind: NonLinear}
	ErrVariableNotFound  error = &EquationError{Kind: VariableNotFound}
	ErrNoSolution        error = &EquationError{Kind: NoSolution}
	ErrInfiniteSolutions error = &EquationError{Kind: InfiniteSolutions}
	ErrInvalidVariable   error = &EquationError{Kind: InvalidVariable}
)

// ClassificationErrorKind classifies errors routing an input.
type ClassificationErrorKind int8

const (
	// AmbiguousEquation is an equation without exactly one top-level =.
	AmbiguousEquation ClassificationErrorKind = iota + 1
	// EmptyBatch is a batch with no segments.
	EmptyBatch
	// NestedBatch is a batch segment that is itself a batch.
	NestedBatch
)

func (k ClassificationErrorKind) String() string {
	switch k {
	case AmbiguousEquation:
		return "ambiguous equation"
	case EmptyBatch:
		return "empty batch"
	case NestedBatch:
		return "nested batch"
	default:
		return "ClassificationErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ClassificationError is an error deciding how to handle an input.
type ClassificationError struct {
	Kind ClassificationErrorKind
	// Count is the number of top-level = signs, for AmbiguousEquation.
	Count int
	// Segment is the offending batch segment, for NestedBatch.
	Segment string
}

func (err *ClassificationError) Error() string {
	switch err.Kind {
	case AmbiguousEquation:
		return "ambiguous equation: need exactly one '=' but found " + strconv.Itoa(err.Count)
	case EmptyBatch:
		return "empty batch: no expressions between ';'"
	case NestedBatch:
		return "nested batch in segment " + strconv.Quote(err.Segment)
	}
	return err.Kind.String()
}

// Is reports whether target is a *ClassificationError of the same kind.
func (err *ClassificationError) Is(target error) bool {
	t, ok := target.(*ClassificationError)
	return ok && t.Kind == err.Kind
}

// Sentinels for errors.Is.
var (
	ErrAmbiguousEquation error = &ClassificationError{Kind: AmbiguousEquation}
	ErrEmptyBatch        error = &ClassificationError{Kind: EmptyBatch}
	ErrNestedBatch       error = &ClassificationError{Kind: NestedBatch}
)
