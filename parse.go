package calculator

import (
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Expr = num | name | Call | List | Neg | Add | Sub | Mul | Div | Mod | Pow | '(' Expr ')' | Expr Expr
// Call = funcname '(' [ Expr { ',' Expr } ] ')'
// List = '[' [ Expr { ',' Expr } ] ']'
// Neg = '-' Expr
// Add = Expr '+' Expr
// Sub = Expr '-' Expr
// Mul = Expr '*' Expr
// Div = Expr '/' Expr
// Mod = Expr '%' Expr
// Pow = Expr '**' Expr
//
// Juxtaposition (Expr Expr) is multiplication when the second term starts
// with a name or an open parenthesis: 2x, 3(x+1), (a+b)c.

// Expr is a parsed and validated expression. Every node of an Expr satisfies
// the whitelist of operators, functions, and constants, so it is always safe
// to evaluate. Expr is immutable and safe for concurrent use.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// names is the list of variable names used in the expression.
	names []string
	// free is the variable permitted when parsing, if any.
	free string
}

// Parse parses and validates an expression. The given options are applied in
// order. Any error is an InputError, except for errors reading src and an
// *EquationError if FreeVar names an invalid variable.
func Parse(src io.RuneScanner, opts ...ParseOption) (*Expr, error) {
	p := newparsectx(opts)
	if p.free != "" && !validVariable(p.free) {
		return nil, &EquationError{Kind: InvalidVariable, Var: p.free}
	}
	scan := lex(src, p.maxlen)
	n, err := parseterm(scan, &p, exprprec)
	if err != nil {
		return nil, err
	}
	if tok := scan.must(); tok.kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok, -1)
	}
	if err := p.validate(n); err != nil {
		return nil, err
	}
	ex := Expr{
		n:     n,
		names: make([]string, 0, len(p.names)),
		free:  p.free,
	}
	for k := range p.names {
		ex.names = append(ex.names, k)
	}
	sort.Strings(ex.names)
	return &ex, nil
}

// ParseString is a shortcut to parse an expression from a string.
func ParseString(src string, opts ...ParseOption) (*Expr, error) {
	return Parse(strings.NewReader(src), opts...)
}

// parseterm parses a single term. If there is no error, then parseterm pushes
// the last token it scans, including EOF. If the input is an empty
// subexpression, the result is nil with no error; callers must create an error
// in contexts where empty subexpressions are illegal.
func parseterm(scan *lexer, p *parsectx, until operator) (*node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.maxdepth > 0 && p.depth > p.maxdepth {
		return nil, &ComplexityError{Col: scan.rune, Limit: "depth", Max: p.maxdepth}
	}
	n, err := parselhs(scan, p, until)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenIdent:
			// (parsed) x -> (parsed) * (x)
			// (parsed) x**(expr) -> (parsed) * (x**(expr))
			// a**(parsed) x -> (a**(parsed)) * (x)
			scan.push(tok)
			prec := termprec
			if !prec.moreBinding(until) {
				return n, nil
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			n = &node{kind: nodeMul, left: n, right: rhs, pos: n.pos}
		case tokenNum:
			// 2 3 is almost certainly a typo rather than 6.
			return nil, &ConstructError{Col: tok.pos, Construct: "implicit multiplication by a number", Text: tok.text}
		case tokenOp:
			// Binary operator.
			prec := binop(tok.text)
			if prec.op == nodeNone {
				return nil, misop(tok, false)
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			if rhs == nil {
				end := scan.must()
				return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
			}
			n = &node{kind: prec.op, left: n, right: rhs, pos: n.pos}
		case tokenOpen:
			switch tok.text {
			case "(":
				// 2 (expr) -> (2) * (expr)
				prec := termprec
				if !prec.moreBinding(until) {
					scan.push(tok)
					return n, nil
				}
				scan.push(tok)
				rhs, err := parseterm(scan, p, prec)
				if err != nil {
					return nil, err
				}
				n = &node{kind: nodeMul, left: n, right: rhs, pos: n.pos}
			case "[":
				return nil, &ConstructError{Col: tok.pos, Construct: "subscript", Text: tok.text}
			default:
				return nil, &ConstructError{Col: tok.pos, Construct: "set or dict literal", Text: tok.text}
			}
		case tokenClose, tokenSep, tokenEOF:
			// End of expression.
			scan.push(tok)
			return n, nil
		default:
			panic("calculator: unknown token: " + tok.String())
		}
	}
}

// parselhs parses the first component of a term. I.e., operators are unary
// and any encountered token must be valid as the start of a subexpression.
func parselhs(scan *lexer, p *parsectx, until operator) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	var n *node
	switch tok.kind {
	case tokenNum:
		return numnode(tok.text, tok.pos)
	case tokenIdent:
		if err := checkident(tok); err != nil {
			return nil, err
		}
		// The free variable is never a function, so f(x) with f free is a
		// multiplication, which parseterm handles.
		if tok.text != p.free {
			open, err := scan.next()
			if err != nil {
				return nil, err
			}
			if open.kind == tokenOpen && open.text == "(" {
				args, err := parsearglist(scan, p, open)
				if err != nil {
					return nil, err
				}
				return &node{kind: nodeCall, name: tok.text, args: args, pos: tok.pos}, nil
			}
			scan.push(open)
		}
		if !IsConstant(tok.text) {
			p.names[tok.text] = true
		}
		n = &node{kind: nodeName, name: tok.text, pos: tok.pos}
	case tokenOp:
		// unary operator
		prec := unop(tok.text)
		if prec.op == nodeNone {
			return nil, misop(tok, true)
		}
		if !prec.moreBinding(until) {
			// x**-y -> x**(-y)
			// Just use the new operator's precedence to simplify.
			prec.prec, prec.right = until.prec, until.right
		}
		rhs, err := parseterm(scan, p, prec)
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			end := scan.must()
			return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
		}
		n = &node{kind: prec.op, left: rhs, pos: tok.pos}
	case tokenOpen:
		switch tok.text {
		case "(":
			rhs, err := parseterm(scan, p, exprprec)
			if err != nil {
				return nil, err
			}
			end := scan.must()
			if end.kind != tokenClose || end.text != ")" {
				return nil, itShouldNotHaveEndedThisWay(end, 0)
			}
			if rhs == nil {
				return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
			}
			n = rhs
		case "[":
			elems, err := parsearglist(scan, p, tok)
			if err != nil {
				return nil, err
			}
			n = &node{kind: nodeList, args: elems, pos: tok.pos}
		default:
			return nil, &ConstructError{Col: tok.pos, Construct: "set or dict literal", Text: tok.text}
		}
	case tokenClose:
		// This might be part of niladic func() or an empty list, so just let
		// the caller decide what to do.
		scan.push(tok)
		return nil, nil
	case tokenSep:
		return nil, &SeparatorError{Col: tok.pos, Sep: tok.text}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos, End: ""}
	default:
		panic("calculator: unknown token: " + tok.String())
	}
	return n, nil
}

// checkident rejects identifiers that name something other than a value or
// function.
func checkident(tok lexToken) error {
	switch {
	case keywords[tok.text]:
		return &ConstructError{Col: tok.pos, Construct: "keyword", Text: tok.text}
	case strings.HasPrefix(tok.text, "__"):
		return &ConstructError{Col: tok.pos, Construct: "dunder name", Text: tok.text}
	case strings.Contains(tok.text, "."):
		return &ConstructError{Col: tok.pos, Construct: "attribute access", Text: tok.text}
	}
	return nil
}

// misop creates the error for an operator token that the parser refuses.
func misop(tok lexToken, unary bool) error {
	switch tok.text {
	case ".":
		return &ConstructError{Col: tok.pos, Construct: "attribute access", Text: tok.text}
	case "=":
		return &ConstructError{Col: tok.pos, Construct: "assignment", Text: tok.text}
	}
	return &OperatorError{Col: tok.pos, Operator: tok.text, Unary: unary}
}

// parsearglist parses a comma-separated list of zero or more expressions
// following the open bracket open, through the matching close bracket.
func parsearglist(scan *lexer, p *parsectx, open lexToken) ([]*node, error) {
	match := rightbracket(open.text)
	var args []*node
	for {
		rhs, err := parseterm(scan, p, exprprec)
		if err != nil {
			// As a special case, reporting mismatched brackets is more helpful
			// than empty expression at the end of input.
			if ee, _ := err.(*EmptyExpressionError); ee != nil && ee.End == "" {
				err = &BracketError{Col: ee.Col, Left: open.text}
			}
			return nil, err
		}
		end := scan.must()
		switch end.kind {
		case tokenClose:
			if end.text != closebrackets[match] {
				return nil, &BracketError{Col: end.pos, Left: open.text, Right: end.text}
			}
			if rhs == nil {
				// No expression parsed.
				// f() and [] are allowed, but f(a,) isn't.
				if len(args) != 0 {
					return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
				}
				return nil, nil
			}
			return append(args, rhs), nil
		case tokenSep:
			if end.text != "," {
				return nil, &SeparatorError{Col: end.pos, Sep: end.text}
			}
			args = append(args, rhs)
		case tokenEOF:
			return nil, &BracketError{Col: end.pos, Left: open.text, Right: ""}
		default:
			panic("calculator: parseterm ended on non-end token " + end.String())
		}
	}
}

// rightbracket gets the closing bracket index for an opening bracket.
func rightbracket(left string) int {
	r, sz := utf8.DecodeRuneInString(left)
	k := strings.IndexRune(OpenBrackets, r)
	if k < 0 || sz != len(left) {
		panic("calculator: invalid bracket " + strconv.Quote(left))
	}
	return k
}

// leftbracket gets the opening bracket matching right. If right is no bracket,
// then the result is the empty string.
func leftbracket(right int) string {
	if right == -1 {
		return ""
	}
	return openbrackets[right]
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. match is the bracket rune index that
// the expression should have matched, or -1 if none.
func itShouldNotHaveEndedThisWay(tok lexToken, match int) error {
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Col: tok.pos, Left: leftbracket(match), Right: ""}
	case tokenClose:
		// A bracket could be the wrong bracket for the opening brace or any
		// bracket at the end of an input.
		return &BracketError{Col: tok.pos, Left: leftbracket(match), Right: tok.text}
	case tokenSep:
		// Separator outside a function call.
		return &SeparatorError{Col: tok.pos, Sep: tok.text}
	default:
		panic("calculator: it really should not have ended this way: " + tok.String())
	}
}

// Vars returns the variable names used in the expression.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// String creates a fully parenthesized representation of the parsed
// expression. The result parses to the same expression.
func (e *Expr) String() string {
	return e.n.String()
}

// Pretty is like String but uses conventional symbols for multiplication,
// division, and exponentiation. The result is for display only.
func (e *Expr) Pretty() string {
	var b strings.Builder
	e.n.fmt(&b, true)
	return b.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*":
		return operator{5, false, nodeMul}
	case "/":
		return operator{5, false, nodeDiv}
	case "%":
		return operator{5, false, nodeMod}
	case "**":
		return operator{15, true, nodePow}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of nodeNone.
func unop(text string) operator {
	switch text {
	case "-":
		return operator{10, true, nodeNeg}
	default:
		return operator{}
	}
}

var (
	// termprec is the default precedence for parsing terms. Its prec
	// should match that of multiplication.
	termprec = operator{5, true, nodeMul}
	// exprprec is the precedence required to parse an entire subexpression.
	exprprec = operator{-128, true, nodeNone}
)
