package calculator

import (
	"math"
	"strings"
)

// Eval evaluates the expression. An expression that uses a free variable
// needs a value for it; see EvalAt.
func (e *Expr) Eval() (Value, error) {
	return e.n.eval(nil)
}

// EvalAt evaluates the expression with its free variable bound to x. If the
// expression was parsed without FreeVar, x is unused.
func (e *Expr) EvalAt(x float64) (Value, error) {
	return e.n.eval(&binding{name: e.free, val: x})
}

// binding is the value of the free variable during evaluation.
type binding struct {
	name string
	val  float64
}

// eval computes the node's value. The tree must have been validated.
func (n *node) eval(b *binding) (Value, error) {
	switch n.kind {
	case nodeNum:
		return Scalar(n.num), nil
	case nodeName:
		if v, ok := constants[n.name]; ok {
			return Scalar(v), nil
		}
		if b != nil && b.name != "" && n.name == b.name {
			return Scalar(b.val), nil
		}
		return Value{}, &NameError{Col: n.pos, Name: n.name, Unbound: true}
	case nodeCall:
		id, ok := funcIDs[n.name]
		if !ok {
			panic("calculator: eval of unvalidated call to " + n.name)
		}
		args := make([]Value, len(n.args))
		for i, a := range n.args {
			v, err := a.eval(b)
			if err != nil {
				return Value{}, err
			}
			args[i] = v
		}
		return funcTable[id].Call(args)
	case nodeList:
		xs := make([]float64, len(n.args))
		for i, a := range n.args {
			x, err := a.scalar(b, "list")
			if err != nil {
				return Value{}, err
			}
			xs[i] = x
		}
		return Value{list: xs, islist: true}, nil
	case nodeNeg:
		x, err := n.left.scalar(b, "-")
		if err != nil {
			return Value{}, err
		}
		return Scalar(-x), nil
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow:
		op := opsym(n.kind)
		l, err := n.left.scalar(b, op)
		if err != nil {
			return Value{}, err
		}
		r, err := n.right.scalar(b, op)
		if err != nil {
			return Value{}, err
		}
		x, err := arith(n.kind, l, r)
		return Scalar(x), err
	default:
		panic("calculator: invalid AST node " + n.kind.String())
	}
}

// scalar evaluates a node in a position that requires a number.
func (n *node) scalar(b *binding, op string) (float64, error) {
	v, err := n.eval(b)
	if err != nil {
		return 0, err
	}
	if v.islist {
		return 0, &EvalError{Kind: TypeMismatch, Func: op, Detail: "list used where a number is expected"}
	}
	return v.num, nil
}

// arith applies a binary operator.
func arith(k nodeKind, l, r float64) (float64, error) {
	switch k {
	case nodeAdd:
		return checked("+", l+r)
	case nodeSub:
		return checked("-", l-r)
	case nodeMul:
		return checked("*", l*r)
	case nodeDiv:
		if r == 0 {
			return 0, &EvalError{Kind: DivisionByZero, Func: "/"}
		}
		return checked("/", l/r)
	case nodeMod:
		if r == 0 {
			return 0, &EvalError{Kind: DivisionByZero, Func: "%"}
		}
		// math.Mod truncates, so the result has the sign of l.
		return math.Mod(l, r), nil
	case nodePow:
		return pow("**", l, r)
	default:
		panic("calculator: not a binary operator: " + k.String())
	}
}

func opsym(k nodeKind) string {
	switch k {
	case nodeAdd:
		return "+"
	case nodeSub:
		return "-"
	case nodeMul:
		return "*"
	case nodeDiv:
		return "/"
	case nodeMod:
		return "%"
	case nodePow:
		return "**"
	default:
		return k.String()
	}
}

// Evaluate is a shortcut to parse, validate, and evaluate an expression that
// uses no variables.
func Evaluate(src string, opts ...ParseOption) (Value, error) {
	e, err := Parse(strings.NewReader(src), opts...)
	if err != nil {
		return Value{}, err
	}
	return e.Eval()
}
