package calculator

import "math"

// function is an entry in the dispatch table.
type function interface {
	// Call evaluates the function. args has a length for which CanCall
	// returned true.
	Call(args []Value) (Value, error)
	// CanCall returns whether the function can be called with n arguments.
	// The validator rejects calls for which it returns false.
	CanCall(n int) bool
}

// funcTable maps each permitted function to its implementation. Indexing by
// funcID makes every entry reachable only through the whitelist.
var funcTable = [numFuncs]function{
	fnSin:   monadic("sin", math.Sin),
	fnCos:   monadic("cos", math.Cos),
	fnTan:   monadic("tan", math.Tan),
	fnLog:   scalarfn{"log", 1, 2, logfn},
	fnLog10: scalarfn{"log10", 1, 1, log10fn},
	fnSqrt:  scalarfn{"sqrt", 1, 1, sqrtfn},
	fnAbs:   monadic("abs", math.Abs),
	fnRound: scalarfn{"round", 1, 2, roundfn},
	fnPow: scalarfn{"pow", 2, 2, func(xs []float64) (float64, error) {
		return pow("pow", xs[0], xs[1])
	}},

	fnMax: aggregate{"max", func(xs []float64) (float64, error) {
		if len(xs) == 0 {
			return 0, &EvalError{Kind: EmptyInput, Func: "max", Detail: "empty list"}
		}
		r := xs[0]
		for _, x := range xs[1:] {
			r = math.Max(r, x)
		}
		return r, nil
	}},
	fnMin: aggregate{"min", func(xs []float64) (float64, error) {
		if len(xs) == 0 {
			return 0, &EvalError{Kind: EmptyInput, Func: "min", Detail: "empty list"}
		}
		r := xs[0]
		for _, x := range xs[1:] {
			r = math.Min(r, x)
		}
		return r, nil
	}},
	fnSum: aggregate{"sum", func(xs []float64) (float64, error) {
		var r float64
		for _, x := range xs {
			r += x
		}
		return r, nil
	}},
	fnLen: aggregate{"len", func(xs []float64) (float64, error) {
		return float64(len(xs)), nil
	}},

	fnMean:     aggregate{"mean", Mean},
	fnMedian:   aggregate{"median", Median},
	fnMode:     aggregate{"mode", Mode},
	fnStdev:    aggregate{"stdev", Stdev},
	fnVariance: aggregate{"variance", Variance},
}

// scalarfn is a function of between min and max scalar arguments.
type scalarfn struct {
	name     string
	min, max int
	f        func(xs []float64) (float64, error)
}

func (s scalarfn) Call(args []Value) (Value, error) {
	xs := make([]float64, len(args))
	for i, a := range args {
		if a.islist {
			return Value{}, &EvalError{Kind: TypeMismatch, Func: s.name, Arg: i + 1, Detail: "expected a number, got a list"}
		}
		xs[i] = a.num
	}
	r, err := s.f(xs)
	if err != nil {
		return Value{}, err
	}
	r, err = checked(s.name, r)
	return Scalar(r), err
}

func (s scalarfn) CanCall(n int) bool {
	return s.min <= n && n <= s.max
}

// monadic wraps a function of one variable that is defined everywhere.
func monadic(name string, f func(float64) float64) function {
	return scalarfn{name, 1, 1, func(xs []float64) (float64, error) {
		return f(xs[0]), nil
	}}
}

// aggregate is a function of exactly one list argument.
type aggregate struct {
	name string
	f    func(xs []float64) (float64, error)
}

func (a aggregate) Call(args []Value) (Value, error) {
	if !args[0].islist {
		return Value{}, &EvalError{Kind: TypeMismatch, Func: a.name, Arg: 1, Detail: "expected a list, got a number"}
	}
	r, err := a.f(args[0].list)
	if err != nil {
		return Value{}, err
	}
	r, err = checked(a.name, r)
	return Scalar(r), err
}

func (a aggregate) CanCall(n int) bool {
	return n == 1
}

func logfn(xs []float64) (float64, error) {
	x := xs[0]
	if x <= 0 {
		return 0, &EvalError{Kind: Domain, Func: "log", X: x, Arg: 1}
	}
	if len(xs) == 1 {
		return math.Log(x), nil
	}
	b := xs[1]
	switch {
	case b <= 0:
		return 0, &EvalError{Kind: Domain, Func: "log", X: b, Arg: 2}
	case b == 1:
		// ln(1) is the divisor.
		return 0, &EvalError{Kind: DivisionByZero, Func: "log", Arg: 2}
	}
	return math.Log(x) / math.Log(b), nil
}

func log10fn(xs []float64) (float64, error) {
	if xs[0] <= 0 {
		return 0, &EvalError{Kind: Domain, Func: "log10", X: xs[0], Arg: 1}
	}
	return math.Log10(xs[0]), nil
}

func sqrtfn(xs []float64) (float64, error) {
	if xs[0] < 0 {
		return 0, &EvalError{Kind: Domain, Func: "sqrt", X: xs[0], Arg: 1}
	}
	return math.Sqrt(xs[0]), nil
}

// roundfn rounds half to even, optionally to a number of decimal digits.
func roundfn(xs []float64) (float64, error) {
	x := xs[0]
	if len(xs) == 1 {
		return math.RoundToEven(x), nil
	}
	nd := xs[1]
	if nd != math.Trunc(nd) {
		return 0, &EvalError{Kind: TypeMismatch, Func: "round", Arg: 2, Detail: "ndigits must be an integer"}
	}
	switch {
	case nd > 308:
		return x, nil
	case nd < -308:
		return 0, nil
	}
	if nd < 0 {
		p := math.Pow(10, -nd)
		return math.RoundToEven(x/p) * p, nil
	}
	p := math.Pow(10, nd)
	y := x * p
	if math.IsInf(y, 0) {
		// Already more precise than ndigits.
		return x, nil
	}
	return math.RoundToEven(y) / p, nil
}

// pow computes x**y for the operator or function op.
func pow(op string, x, y float64) (float64, error) {
	switch {
	case x == 0 && y < 0:
		return 0, &EvalError{Kind: DivisionByZero, Func: op}
	case x < 0 && y != math.Trunc(y):
		return 0, &EvalError{Kind: Domain, Func: op, X: x, Arg: 1}
	}
	return checked(op, math.Pow(x, y))
}

// checked converts non-finite results of finite operands into errors.
func checked(op string, r float64) (float64, error) {
	switch {
	case math.IsInf(r, 0):
		return 0, &EvalError{Kind: Overflow, Func: op}
	case math.IsNaN(r):
		return 0, &EvalError{Kind: Domain, Func: op, X: r}
	}
	return r, nil
}

// Apply calls the permitted function name with args directly, with the same
// checks as a call in an expression.
func Apply(name string, args ...Value) (Value, error) {
	id, ok := funcIDs[name]
	if !ok {
		return Value{}, &CallError{Func: name, Len: len(args), Unknown: true}
	}
	if !funcTable[id].CanCall(len(args)) {
		return Value{}, &CallError{Func: name, Len: len(args)}
	}
	return funcTable[id].Call(args)
}
