package calculator

import (
	"errors"
	"strconv"
)

// OperatorError is an error indicating an operator token that is not
// permitted. It implements InputError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the token that was not understood.
	Operator string
	// Unary is whether the parser expected a unary operator at the time.
	Unary bool
}

func (err *OperatorError) Error() string {
	s := "binary"
	if err.Unary {
		s = "unary"
	}
	return errpos(err.Col, s+" operator "+strconv.Quote(err.Operator)+" is not permitted")
}

func (err *OperatorError) Pos() int {
	return err.Col
}

// BracketError is an error indicating mismatched brackets in the
// input. It implements InputError.
type BracketError struct {
	// Col is the position of the operator.
	Col int
	// Left is the opening bracket.
	Left string
	// Right is the mismatched closing bracket.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	if err.Right == "" {
		return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
	}
	return errpos(err.Col, "mismatched bracket: "+err.Left+"expr"+err.Right)
}

func (err *BracketError) Pos() int {
	return err.Col
}

// SeparatorError is an error indicating an illegal use of a comma or semicolon
// separator. It implements InputError.
type SeparatorError struct {
	// Col is the position of the separator.
	Col int
	// Sep is the separator.
	Sep string
}

func (err *SeparatorError) Error() string {
	return errpos(err.Col, "invalid occurrence of separator "+strconv.Quote(err.Sep))
}

func (err *SeparatorError) Pos() int {
	return err.Col
}

// CallError is an error indicating a call to a function that is not permitted
// or a call with the wrong number of arguments. It implements InputError.
type CallError struct {
	// Col is the position of the function name.
	Col int
	// Func is the function name that was called.
	Func string
	// Len is the number of arguments the function call tried to imply.
	Len int
	// Unknown indicates that Func is not a permitted function at all.
	Unknown bool
}

func (err *CallError) Error() string {
	if err.Unknown {
		return errpos(err.Col, "call to "+strconv.Quote(err.Func)+" is not permitted")
	}
	return errpos(err.Col, "cannot call "+err.Func+" with "+strconv.Itoa(err.Len)+" arguments")
}

func (err *CallError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating an empty subexpression.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// NameError is an error indicating a name that is neither a permitted
// constant nor the variable being solved for. It implements InputError.
type NameError struct {
	// Col is the position of the name.
	Col int
	// Name is the name that was not permitted.
	Name string
	// Func indicates that Name is a function used without a call.
	Func bool
	// Unbound indicates that Name is the free variable of an expression
	// that was evaluated without a value for it.
	Unbound bool
}

func (err *NameError) Error() string {
	switch {
	case err.Func:
		return errpos(err.Col, "function "+err.Name+" must be called with parentheses")
	case err.Unbound:
		return errpos(err.Col, "variable "+strconv.Quote(err.Name)+" has no value")
	}
	return errpos(err.Col, "undefined name "+strconv.Quote(err.Name))
}

func (err *NameError) Pos() int {
	return err.Col
}

// ConstructError is an error indicating a syntactic form that the calculator
// never accepts, such as attribute access, subscripts, or keywords. It
// implements InputError.
type ConstructError struct {
	// Col is the position of the construct.
	Col int
	// Construct describes the rejected form, e.g. "attribute access".
	Construct string
	// Text is the token that introduced the construct.
	Text string
}

func (err *ConstructError) Error() string {
	return errpos(err.Col, err.Construct+" is not permitted: "+strconv.Quote(err.Text))
}

func (err *ConstructError) Pos() int {
	return err.Col
}

// ComplexityError is an error indicating that an input exceeds a length or
// nesting limit. Parsing stops as soon as a limit is exceeded, so the input
// is never evaluated. It implements InputError.
type ComplexityError struct {
	// Col is the position at which the limit was exceeded.
	Col int
	// Limit is "length" or "depth".
	Limit string
	// Max is the limit's value.
	Max int
}

func (err *ComplexityError) Error() string {
	return errpos(err.Col, "expression too complex: exceeds maximum "+err.Limit+" of "+strconv.Itoa(err.Max))
}

func (err *ComplexityError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// shiftpos moves the position of an input error right by off runes, for
// errors in text that was cut from a longer input.
func shiftpos(err error, off int) error {
	switch e := err.(type) {
	case *LexError:
		e.Col += off
	case *OperatorError:
		e.Col += off
	case *BracketError:
		e.Col += off
	case *SeparatorError:
		e.Col += off
	case *CallError:
		e.Col += off
	case *EmptyExpressionError:
		e.Col += off
	case *NameError:
		e.Col += off
	case *ConstructError:
		e.Col += off
	case *ComplexityError:
		e.Col += off
	}
	return err
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError. Together these are the validation
// errors: a tree that produced none of them satisfies the whitelist.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

// IsValidation reports whether err is or wraps an InputError.
func IsValidation(err error) bool {
	var ie InputError
	return errors.As(err, &ie)
}

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SeparatorError)(nil)
	_ InputError = (*CallError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*LexError)(nil)
	_ InputError = (*NameError)(nil)
	_ InputError = (*ConstructError)(nil)
	_ InputError = (*ComplexityError)(nil)
)
