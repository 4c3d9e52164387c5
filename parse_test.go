package calculator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"testing"
)

// diff finds the first in-order node of n that differs from m, or nil, nil if
// the two ASTs are equal. If any node is nodeNone, it is returned.
func (n *node) diff(m *node) (*node, *node) {
	if n == nil {
		if m != nil {
			return n, m
		}
		return nil, nil
	}
	if m == nil {
		return n, m
	}
	if n.kind == nodeNone || m.kind == nodeNone {
		return n, m
	}
	if n.kind != m.kind {
		return n, m
	}
	switch n.kind {
	case nodeNum:
		if n.num != m.num {
			return n, m
		}
	case nodeName:
		if n.name != m.name {
			return n, m
		}
	case nodeCall, nodeList:
		if n.name != m.name || len(n.args) != len(m.args) {
			return n, m
		}
		for i := range n.args {
			if d, e := n.args[i].diff(m.args[i]); d != nil || e != nil {
				return d, e
			}
		}
	case nodeNeg, nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
		if d, e := n.right.diff(m.right); d != nil || e != nil {
			return d, e
		}
	default:
		panic(fmt.Errorf("invalid node kind: n=%+v m=%+v", n, m))
	}
	return nil, nil
}

// haskind checks whether a parse tree contains a node of the given type.
func (n *node) haskind(k nodeKind) bool {
	if n == nil {
		return false
	}
	if n.kind == k {
		return true
	}
	for _, a := range n.args {
		if a.haskind(k) {
			return true
		}
	}
	if n.left.haskind(k) {
		return true
	}
	return n.right.haskind(k)
}

func TestOpPrecsExist(t *testing.T) {
	for _, op := range []string{"+", "-", "*", "/", "%", "**"} {
		if binop(op).op == nodeNone {
			t.Errorf("no binary operator for %s", op)
		}
	}
	if unop("-").op == nodeNone {
		t.Error("no unary minus")
	}
	for _, op := range []string{"//", "^", "==", "!=", "<", ">", "<=", ">=", "&", "|", "~", "<<", ">>", "=", "!", "."} {
		if binop(op).op != nodeNone {
			t.Errorf("%s is a binary operator", op)
		}
		if unop(op).op != nodeNone {
			t.Errorf("%s is a unary operator", op)
		}
	}
	if unop("+").op != nodeNone {
		t.Error("unary + is an operator")
	}
}

func TestTermPrecMatchesMultiplication(t *testing.T) {
	if p := binop("*").prec; p != termprec.prec {
		t.Errorf("terms have prec %d but * has prec %d", termprec.prec, p)
	}
}

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"paren", "(x)", "x"},
		{"multi", "((((x))))", "x"},

		{"neg", "-x", "(-(x))"},
		{"negnum", "-1", "(-(1))"},
		{"add", "x+1", "((x)+(1))"},
		{"sub", "x-1", "((x)-(1))"},
		{"mul", "x*2", "((x)*(2))"},
		{"div", "x/2", "((x)/(2))"},
		{"mod", "x%2", "((x)%(2))"},
		{"pow", "x**2", "((x)**(2))"},
		{"terms", "2x", "2*x"},
		{"parenterms", "2(x)", "2*x"},
		{"varparen", "x(1+2)", "x*(1+2)"},
		{"parenparen", "(1+x)(x-1)", "(1+x)*(x-1)"},
		{"constterms", "2 pi x", "2*(pi*x)"},

		{"add4", "x+1+2+3", "((x+1)+2)+3"},
		{"sub4", "x-1-2-3", "((x-1)-2)-3"},
		{"mul4", "x*1*2*3", "((x*1)*2)*3"},
		{"div4", "x/1/2/3", "((x/1)/2)/3"},
		{"mod3", "x%2%3", "(x%2)%3"},
		{"pow4", "x**1**2**3", "x**(1**(2**3))"},

		{"negpow", "-2**2", "-(2**2)"},
		{"negpowvar", "-x**2", "-(x**2)"},
		{"desc", "x**2*3+4", "((x**2)*3)+4"},
		{"asc", "1+2*x**3", "1+(2*(x**3))"},
		{"negneg", "--x", "-(-x)"},
		{"negsub", "-x-x", "(-x)-x"},
		{"negterms", "-3x", "(-3)*x"},
		{"powneg", "x**-1", "x**(-1)"},
		{"pownegpow", "x**-2**-3", "x**(-(2**(-3)))"},
		{"powterms", "2x**2", "2*(x**2)"},
		{"powparen", "x**2(3)", "(x**2)*3"},
		{"divterms", "6/2x", "6/(2*x)"},

		{"call", "sqrt(x)", "sqrt((x))"},
		{"call2", "log(x, 2)", "log((x), (2))"},
		{"callterms", "2sqrt(x)", "2*sqrt(x)"},
		{"list", "mean([1, x, 3])", "mean([(1), (x), (3)])"},
		{"emptylist", "sum([])", "sum([ ])"},
		{"neglist", "max([-1, 2])", "max([(-(1)), 2])"},
		{"constpow", "e**x", "(e)**(x)"},
		{"exponent", "1e3x", "1000*x"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.a, FreeVar("x"))
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.a, err)
			}
			b, err := ParseString(c.b, FreeVar("x"))
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.b, err)
			}
			d, e := a.n.diff(b.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", c.a, a.n, d, c.b, b.n, e)
			}
		})
	}
}

func TestParseExact(t *testing.T) {
	cases := []struct {
		name string
		src  string
		n    *node
	}{
		{
			name: "call2",
			src:  "log(x, 2)",
			n: &node{
				kind: nodeCall,
				name: "log",
				args: []*node{
					{kind: nodeName, name: "x"},
					{kind: nodeNum, name: "2", num: 2},
				},
			},
		},
		{
			name: "list",
			src:  "[1, -x]",
			n: &node{
				kind: nodeList,
				args: []*node{
					{kind: nodeNum, name: "1", num: 1},
					{kind: nodeNeg, left: &node{kind: nodeName, name: "x"}},
				},
			},
		},
		{
			name: "emptylist",
			src:  "[]",
			n:    &node{kind: nodeList},
		},
		{
			name: "juxtaposed",
			src:  "2x",
			n: &node{
				kind:  nodeMul,
				left:  &node{kind: nodeNum, name: "2", num: 2},
				right: &node{kind: nodeName, name: "x"},
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src, FreeVar("x"))
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			d, e := a.n.diff(c.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\twant %v which has %v\n\tgot  %v which has %v from %q", c.n, e, a.n, d, c.src)
			}
		})
	}
}

func TestExprString(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"paren", "(x)"},
		{"neg", "-x"},
		{"negnum", "-1"},
		{"add", "x+1"},
		{"sub", "x-1"},
		{"mul", "x*2"},
		{"div", "x/2"},
		{"mod", "x%2"},
		{"pow", "x**2"},
		{"terms", "2x"},
		{"parenterms", "2(x)"},

		{"add4", "x+1+2+3"},
		{"pow4", "x**1**2**3"},
		{"negpow", "-2**2"},
		{"parenneg", "(-2)**2"},
		{"negneg", "--x"},
		{"powneg", "x**-1"},
		{"pownegpow", "x**-2**-3"},
		{"divterms", "6/2x"},

		{"call", "sqrt(x)"},
		{"call2", "log(x, 2)"},
		{"list", "mean([1, x, 3])"},
		{"emptylist", "sum([])"},
		{"exponent", "1.5e-3x"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src, FreeVar("x"))
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			s := a.String()
			b, err := ParseString(s, FreeVar("x"))
			if err != nil {
				t.Fatalf("%q -> %q failed to parse: %v", c.src, s, err)
			}
			d, e := a.n.diff(b.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", c.src, a.n, d, s, b.n, e)
			}
		})
	}
}

func TestExprPretty(t *testing.T) {
	a, err := ParseString("2x**2/4", FreeVar("x"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := a.Pretty(), "((2 × (x ^ 2)) ÷ 4)"; got != want {
		t.Errorf("wrong pretty form: want %q, got %q", want, got)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  InputError
		res  []string
		excl []string
	}{
		{"empty", "", new(EmptyExpressionError), []string{`(?i)\b(no|empty)\b.*\bexpression\b`}, []string{`(?i)\bend\b`}},
		{"emptyparen", "()", new(EmptyExpressionError), []string{`(?i)\b(no|empty)\b.*\bexpression\b`, `\)`}, nil},
		{"emptyoperand", "2*", new(EmptyExpressionError), []string{`(?i)\b(no|empty)\b.*\bexpression\b`, `(?i)\bend\b`}, nil},
		{"emptyunary", "2*-", new(EmptyExpressionError), []string{`(?i)\b(no|empty)\b.*\bexpression\b`, `(?i)\bend\b`}, nil},
		{"emptyclose", "(2+)", new(EmptyExpressionError), []string{`\)`}, nil},
		{"left", "(2", new(BracketError), []string{`(?i)\bbracket\b`, `\(`}, nil},
		{"right", "2)", new(BracketError), []string{`(?i)\bbracket\b`, `\)`}, nil},
		{"mismatch", "(2]", new(BracketError), []string{`(?i)\bbracket\b`, `\(`, `]`}, nil},
		{"listmismatch", "[1, 2)", new(BracketError), []string{`(?i)\bbracket\b`, `\[`, `\)`}, nil},
		{"calleof", "sqrt(", new(BracketError), []string{`(?i)\bbracket\b`, `\(`}, nil},

		{"nonunary", "*2", new(OperatorError), []string{`(?i)\bunary\b`, `\*`}, nil},
		{"unaryplus", "+2", new(OperatorError), []string{`(?i)\bunary\b`, `"\+"`}, nil},
		{"floordiv", "7//2", new(OperatorError), []string{`(?i)\bbinary\b`, `"//"`}, nil},
		{"xor", "2^3", new(OperatorError), []string{`"\^"`}, nil},
		{"eq", "1==1", new(OperatorError), []string{`"=="`}, nil},
		{"ne", "1!=1", new(OperatorError), []string{`"!="`}, nil},
		{"lt", "1<2", new(OperatorError), []string{`"<"`}, nil},
		{"and", "1&2", new(OperatorError), []string{`"&"`}, nil},
		{"or", "1|2", new(OperatorError), []string{`"\|"`}, nil},
		{"shift", "1<<2", new(OperatorError), []string{`"<<"`}, nil},
		{"invert", "~1", new(OperatorError), []string{`(?i)\bunary\b`, `"~"`}, nil},
		{"not", "!1", new(OperatorError), []string{`(?i)\bunary\b`, `"!"`}, nil},

		{"assign", "a=1", new(ConstructError), []string{`(?i)assignment`}, nil},
		{"attr", "a.b", new(ConstructError), []string{`(?i)attribute`, `a\.b`}, nil},
		{"mathattr", "math.pi", new(ConstructError), []string{`(?i)attribute`}, nil},
		{"attrop", "(1).real", new(ConstructError), []string{`(?i)attribute`}, nil},
		{"subscript", "[1,2][0]", new(ConstructError), []string{`(?i)subscript`}, nil},
		{"dunder", "__import__('os')", new(ConstructError), []string{`__import__`}, nil},
		{"dunderattr", "().__class__", new(EmptyExpressionError), nil, nil},
		{"keyword", "lambda: 1", new(ConstructError), []string{`(?i)keyword`, `lambda`}, nil},
		{"comprehension", "[x for x in [1]]", new(ConstructError), []string{`(?i)keyword`, `for`}, nil},
		{"conditional", "1 if 1 else 2", new(ConstructError), []string{`(?i)keyword`, `if`}, nil},
		{"set", "{1}", new(ConstructError), []string{`(?i)set`}, nil},
		{"numjuxt", "2 3", new(ConstructError), []string{`(?i)implicit multiplication`, `"3"`}, nil},
		{"string", "'a'", new(LexError), []string{`(?i)string`}, nil},
		{"lexer", "2**exp(-$)", new(LexError), []string{`\$`}, nil},
		{"bignum", "1e999", new(LexError), []string{`(?i)number`}, nil},

		{"undefined", "y + 1", new(NameError), []string{`(?i)undefined`, `"y"`}, nil},
		{"funcnocall", "sqrt", new(NameError), []string{`sqrt`, `(?i)parentheses`}, nil},
		{"unknowncall", "foo(1)", new(CallError), []string{`"foo"`, `(?i)not permitted`}, nil},
		{"openfile", "open('f')", new(ConstructError), []string{`open`}, nil},
		{"arity", "sqrt(1, 2)", new(CallError), []string{`sqrt`, `\b2\b`}, nil},
		{"arity1", "pow(2)", new(CallError), []string{`pow`, `\b1\b`}, nil},
		{"arity0", "max()", new(CallError), []string{`max`, `\b0\b`}, nil},

		{"sep", "1, 2", new(SeparatorError), []string{`","`}, nil},
		{"tuple", "(1, 2)", new(SeparatorError), []string{`","`}, nil},
		{"semicall", "max(1; 2)", new(SeparatorError), []string{`";"`}, nil},
		{"emptyarg", "log(1,)", new(EmptyExpressionError), []string{`\)`}, nil},
		{"leadingcomma", "log(,1)", new(SeparatorError), []string{`","`}, nil},

		{"deep", strings.Repeat("(", 100) + "1" + strings.Repeat(")", 100), new(ComplexityError), []string{`(?i)too complex`, `depth`}, nil},
		{"deepneg", strings.Repeat("-", 100) + "1", new(ComplexityError), []string{`(?i)too complex`, `depth`}, nil},
		{"deeppow", strings.Repeat("2**", 100) + "1", new(ComplexityError), []string{`(?i)too complex`, `depth`}, nil},
		{"long", strings.Repeat("1+", 3000) + "1", new(ComplexityError), []string{`(?i)too complex`, `length`}, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src)
			if a != nil {
				t.Errorf("%q parsed non-nil to %v", c.src, a.n)
			}
			if reflect.TypeOf(err) != reflect.TypeOf(c.err) {
				t.Errorf("wrong error type from %q: want %T, got %T (%v)", c.src, c.err, err, err)
			}
			if err == nil {
				return
			}
			if !IsValidation(err) {
				t.Errorf("%v is not a validation error", err)
			}
			msg := err.Error()
			for _, re := range c.res {
				if !regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q does not match %s", msg, re)
				}
			}
			for _, re := range c.excl {
				if regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q matches %s", msg, re)
				}
			}
		})
	}
}

func TestParseLimits(t *testing.T) {
	deep := strings.Repeat("(", 100) + "1" + strings.Repeat(")", 100)
	if _, err := ParseString(deep, MaxDepth(0)); err != nil {
		t.Errorf("unlimited depth failed: %v", err)
	}
	if _, err := ParseString(deep, MaxDepth(50)); !isComplexity(err, "depth") {
		t.Errorf("depth 50 gave wrong error: %v", err)
	}
	if _, err := ParseString("1+2+3+4", MaxLength(5)); !isComplexity(err, "length") {
		t.Errorf("length 5 gave wrong error: %v", err)
	}
	if _, err := ParseString("1+2+3+4", Limits(10, 7)); err != nil {
		t.Errorf("exact length failed: %v", err)
	}
	// Later options replace earlier ones.
	if _, err := ParseString("1+2+3+4", MaxLength(5), nil, MaxLength(0)); err != nil {
		t.Errorf("replaced limit failed: %v", err)
	}
}

func isComplexity(err error, limit string) bool {
	var ce *ComplexityError
	return errors.As(err, &ce) && ce.Limit == limit
}

func TestParseNestingNotLength(t *testing.T) {
	// The depth limit counts nesting, so long flat inputs are fine.
	cases := []struct {
		src   string
		depth int
	}{
		{"1", 1},
		{strings.Repeat("-", 60) + "1", 61},
		{strings.Repeat("(", 60) + "1" + strings.Repeat(")", 60), 1},
		{strings.Repeat("1+", 2000) + "1", 2001},
		{"max([" + strings.Repeat("1,", 1000) + "1])", 3},
	}
	for _, c := range cases {
		a, err := ParseString(c.src)
		if err != nil {
			t.Errorf("failed to parse %.20q...: %v", c.src, err)
			continue
		}
		if d := a.n.depth(); d != c.depth {
			t.Errorf("%.20q... has depth %d, want %d", c.src, d, c.depth)
		}
	}
}

func TestFreeVar(t *testing.T) {
	a, err := ParseString("2y + pi", FreeVar("y"))
	if err != nil {
		t.Fatal(err)
	}
	if got := a.Vars(); !reflect.DeepEqual(got, []string{"y"}) {
		t.Errorf("wrong vars: %q", got)
	}
	b, err := ParseString("2 + pi")
	if err != nil {
		t.Fatal(err)
	}
	if got := b.Vars(); len(got) != 0 {
		t.Errorf("wrong vars: %q", got)
	}
	// Free variables are only permitted when asked for.
	if _, err := ParseString("2y + pi"); err == nil {
		t.Error("free variable parsed without FreeVar")
	}

	bad := []string{"pi", "sqrt", "lambda", "__x", "2a", "a.b", "a b"}
	for _, v := range bad {
		_, err := ParseString("1", FreeVar(v))
		if !errors.Is(err, ErrInvalidVariable) {
			t.Errorf("FreeVar(%q) gave wrong error: %v", v, err)
		}
	}
}

func TestWhitelistTables(t *testing.T) {
	if got := len(Functions()); got != int(numFuncs) {
		t.Errorf("wrong number of functions: want %d, got %d", numFuncs, got)
	}
	for id, name := range funcNames {
		if name == "" {
			t.Errorf("no name for function %d", id)
		}
		if funcTable[id] == nil {
			t.Errorf("no implementation for %s", name)
		}
		if IsConstant(name) || keywords[name] {
			t.Errorf("%s is both a function and a constant or keyword", name)
		}
	}
	for _, name := range Constants() {
		if keywords[name] {
			t.Errorf("%s is both a constant and a keyword", name)
		}
		if _, ok := Constant(name); !ok {
			t.Errorf("no value for %s", name)
		}
	}
}

func BenchmarkParse(b *testing.B) {
	cases := []struct {
		name string
		src  string
	}{
		{"descasc", "x**2*3+4+5*6**7"},
		{"descasc-parens", "(((x**2)*3)+4)+5*(6**7)"},
		{"ascdesc", "1+x*3**4**5*6+7"},
		{"calls", "sqrt(abs(sin(x)*cos(x)))"},
		{"list", "mean([1, 2, 3, 4, 5, 6, 7, 8])"},
		{"terms", "2x + 3(x - 1)"},
	}
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			b.ReportAllocs()
			var src strings.Reader
			for i := 0; i < b.N; i++ {
				src.Reset(c.src)
				Parse(&src, FreeVar("x"))
			}
		})
	}
}

// depth returns the height of the tree.
func (n *node) depth() int {
	if n == nil {
		return 0
	}
	d := 0
	for _, a := range n.args {
		if k := a.depth(); k > d {
			d = k
		}
	}
	if k := n.left.depth(); k > d {
		d = k
	}
	if k := n.right.depth(); k > d {
		d = k
	}
	return d + 1
}
