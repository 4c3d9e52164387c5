package server

import (
	"context"
	"errors"

	"github.com/zephyrtronium/calculator"
)

// Error codes prefixed to tool error messages.
const (
	CodeClassification  = "CLASSIFICATION"
	CodeValidation      = "VALIDATION"
	CodeEvaluation      = "EVALUATION"
	CodeEquation        = "EQUATION"
	CodeTimeout         = "TIMEOUT"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeInternal        = "INTERNAL"
)

// argError is an error in the arguments of a tool call that the calculator
// itself never sees.
type argError string

func (err argError) Error() string {
	return string(err)
}

// errorCode maps an error to the code reported to the caller.
func errorCode(err error) string {
	var (
		ce *calculator.ClassificationError
		qe *calculator.EquationError
		ee *calculator.EvalError
		ue *calculator.UnknownStatisticError
		ae argError
	)
	switch {
	case errors.As(err, &ce):
		return CodeClassification
	case calculator.IsValidation(err):
		return CodeValidation
	case errors.As(err, &qe):
		return CodeEquation
	case errors.As(err, &ee):
		return CodeEvaluation
	case errors.As(err, &ue), errors.As(err, &ae):
		return CodeInvalidArgument
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return CodeTimeout
	default:
		return CodeInternal
	}
}
