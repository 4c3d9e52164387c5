package calculator

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

// tolerance is the magnitude below which a coefficient or constant of a
// normalized equation counts as zero.
const tolerance = 1e-10

// Linear is a linear expression Coefficient*Var + Constant.
type Linear struct {
	Var         string  `json:"variable"`
	Coefficient float64 `json:"coefficient"`
	Constant    float64 `json:"constant"`
}

func (l Linear) String() string {
	var b strings.Builder
	b.WriteString(formatFloat(l.Coefficient))
	b.WriteString("*")
	b.WriteString(l.Var)
	if l.Constant < 0 || l.Constant == 0 && math.Signbit(l.Constant) {
		b.WriteString(" - ")
		b.WriteString(formatFloat(-l.Constant))
	} else {
		b.WriteString(" + ")
		b.WriteString(formatFloat(l.Constant))
	}
	return b.String()
}

// Solution is the solution of a linear equation along with the forms it
// passed through.
type Solution struct {
	// Left and Right are the sides of the equation each reduced to linear
	// form.
	Left  Linear `json:"left"`
	Right Linear `json:"right"`
	// Normal is Left - Right, so that the equation is Normal = 0.
	Normal Linear `json:"normal"`
	// Value is the value of the variable that satisfies the equation.
	Value float64 `json:"value"`
}

// Solve solves a linear equation in one variable. The equation must contain
// exactly one top-level =, and each side must be an expression in which
// variable appears only linearly.
func Solve(text, variable string, opts ...ParseOption) (float64, error) {
	s, err := SolveDetail(text, variable, opts...)
	if err != nil {
		return 0, err
	}
	return s.Value, nil
}

// SolveDetail solves a linear equation like Solve and returns the reduced
// forms of the equation along with its solution.
func SolveDetail(text, variable string, opts ...ParseOption) (*Solution, error) {
	if !validVariable(variable) {
		return nil, &EquationError{Kind: InvalidVariable, Var: variable}
	}
	p := newparsectx(opts)
	if err := p.checklen(text); err != nil {
		return nil, err
	}
	eqs := topLevelEquals(text)
	if len(eqs) != 1 {
		return nil, &ClassificationError{Kind: AmbiguousEquation, Count: len(eqs)}
	}
	lt, rt := text[:eqs[0]], text[eqs[0]+1:]
	opts = append(opts[:len(opts):len(opts)], FreeVar(variable))
	l, err := ParseString(lt, opts...)
	if err != nil {
		return nil, notfound(text, variable, err)
	}
	r, err := ParseString(rt, opts...)
	if err != nil {
		err = shiftpos(err, utf8.RuneCountInString(lt)+1)
		return nil, notfound(text, variable, err)
	}
	if !l.n.mentions(variable) && !r.n.mentions(variable) {
		return nil, &EquationError{Kind: VariableNotFound, Var: variable}
	}

	s := Solution{Left: Linear{Var: variable}, Right: Linear{Var: variable}}
	s.Left.Coefficient, s.Left.Constant, err = linearize(l.n, variable)
	if err != nil {
		return nil, err
	}
	s.Right.Coefficient, s.Right.Constant, err = linearize(r.n, variable)
	if err != nil {
		return nil, err
	}
	s.Normal = Linear{Var: variable}
	s.Normal.Coefficient, s.Normal.Constant, err = checked2("=", s.Left.Coefficient-s.Right.Coefficient, s.Left.Constant-s.Right.Constant)
	if err != nil {
		return nil, err
	}
	if math.Abs(s.Normal.Coefficient) < tolerance {
		if math.Abs(s.Normal.Constant) < tolerance {
			return nil, &EquationError{Kind: InfiniteSolutions, Var: variable}
		}
		return nil, &EquationError{Kind: NoSolution, Var: variable}
	}
	x, err := checked("=", -s.Normal.Constant/s.Normal.Coefficient)
	if err != nil {
		return nil, err
	}
	if x == 0 {
		// No -0.
		x = 0
	}
	s.Value = x
	return &s, nil
}

// notfound converts a name error into VariableNotFound when the equation
// never uses the variable at all, e.g. solving 3y + 1 = 7 for x.
func notfound(text, variable string, err error) error {
	var ne *NameError
	if !errors.As(err, &ne) || ne.Func {
		return err
	}
	names := identifiers(text)
	for _, name := range names {
		if name == variable {
			return err
		}
	}
	return &EquationError{Kind: VariableNotFound, Var: variable, Found: names}
}

// identifiers lists the distinct names in text that are not constants,
// functions, or keywords, in sorted order.
func identifiers(text string) []string {
	scan := lex(strings.NewReader(text), 0)
	seen := make(map[string]bool)
	var r []string
	for {
		tok, err := scan.next()
		if err != nil || tok.kind == tokenEOF {
			break
		}
		if tok.kind != tokenIdent || seen[tok.text] {
			continue
		}
		seen[tok.text] = true
		if !IsConstant(tok.text) && !IsFunction(tok.text) && !keywords[tok.text] {
			r = append(r, tok.text)
		}
	}
	sort.Strings(r)
	return r
}

// linearize reduces the tree at n to coef*v + cons. Subtrees that do not
// mention v are evaluated.
func linearize(n *node, v string) (coef, cons float64, err error) {
	if !n.mentions(v) {
		x, err := n.scalar(nil, "=")
		return 0, x, err
	}
	nonlinear := func(where string) error {
		return &EquationError{Kind: NonLinear, Var: v, Construct: where}
	}
	switch n.kind {
	case nodeName:
		return 1, 0, nil
	case nodeNeg:
		a, b, err := linearize(n.left, v)
		if err != nil {
			return 0, 0, err
		}
		return -a, -b, nil
	case nodeAdd, nodeSub:
		a, b, err := linearize(n.left, v)
		if err != nil {
			return 0, 0, err
		}
		c, d, err := linearize(n.right, v)
		if err != nil {
			return 0, 0, err
		}
		if n.kind == nodeSub {
			c, d = -c, -d
		}
		return checked2("+", a+c, b+d)
	case nodeMul:
		if n.left.mentions(v) && n.right.mentions(v) {
			return 0, 0, nonlinear("multiplied by itself")
		}
		a, b, err := linearize(n.left, v)
		if err != nil {
			return 0, 0, err
		}
		c, d, err := linearize(n.right, v)
		if err != nil {
			return 0, 0, err
		}
		// Exactly one side is constant.
		if !n.left.mentions(v) {
			return checked2("*", b*c, b*d)
		}
		return checked2("*", a*d, b*d)
	case nodeDiv:
		if n.right.mentions(v) {
			return 0, 0, nonlinear("in a divisor")
		}
		a, b, err := linearize(n.left, v)
		if err != nil {
			return 0, 0, err
		}
		d, err := n.right.scalar(nil, "/")
		if err != nil {
			return 0, 0, err
		}
		if d == 0 {
			return 0, 0, &EvalError{Kind: DivisionByZero, Func: "/"}
		}
		return checked2("/", a/d, b/d)
	case nodePow:
		return 0, 0, nonlinear("in a power")
	case nodeMod:
		return 0, 0, nonlinear("in a remainder")
	case nodeCall:
		return 0, 0, nonlinear("in a call to " + n.name)
	case nodeList:
		return 0, 0, nonlinear("in a list")
	case nodeNum:
		panic("calculator: number mentions variable")
	default:
		panic("calculator: invalid AST node " + n.kind.String())
	}
}

// checked2 checks the coefficient and constant of a linear form.
func checked2(op string, coef, cons float64) (float64, float64, error) {
	coef, err := checked(op, coef)
	if err != nil {
		return 0, 0, err
	}
	cons, err = checked(op, cons)
	if err != nil {
		return 0, 0, err
	}
	return coef, cons, nil
}
