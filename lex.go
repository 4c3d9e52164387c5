package calculator

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is a decimal number, possibly with a fraction and exponent.
	tokenNum
	// tokenIdent is a constant, function, or variable name.
	tokenIdent
	// tokenOp is an operator. Not every operator the lexer recognizes is
	// accepted by the parser.
	tokenOp
	// tokenOpen is an open bracket, e.g. (.
	tokenOpen
	// tokenClose is a close bracket, e.g. ).
	tokenClose
	// tokenSep is a separator, either , or ;.
	tokenSep
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=tokenKind -trimprefix=token

// Operators contains the runes which begin operator tokens. The lexer scans
// all of them so that the parser can name an operator it refuses; only
// + - * / % and ** are accepted.
const Operators = "+-*/%^&|~<>=!."

// twoCharOps are operators spelled with two runes.
var twoCharOps = []string{"**", "//", "==", "!=", "<=", ">=", "<<", ">>"}

// OpenBrackets and CloseBrackets contain the runes which group expressions.
// The parser checks that a bracket in byte position k in OpenBrackets is
// matched with the bracket in byte position k in CloseBrackets.
const (
	OpenBrackets  = "([{"
	CloseBrackets = ")]}"
)

func byteidcs(s string) []string {
	v := make([]string, len(s))
	for i, r := range s {
		v[i] = string(r)
	}
	return v
}

var (
	operstrs      = byteidcs(Operators)
	openbrackets  = byteidcs(OpenBrackets)
	closebrackets = byteidcs(CloseBrackets)
)

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	back []rune
	rune int
	max  int
	p    lexToken
	eof  bool
}

func lex(src io.RuneScanner, max int) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
		max:  max,
	}
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("calculator: double push")
	}
	l.p = tok
}

// must scans the pushed token. Panics if there is no pushed token.
func (l *lexer) must() lexToken {
	tok := l.p
	if tok.kind == tokenNone {
		panic("calculator: no pushed token")
	}
	l.p = lexToken{}
	return tok
}

// readRune reads a rune from the src and updates the lexer's position info.
// Reading past the length limit is an error.
func (l *lexer) readRune() (rune, error) {
	if n := len(l.back); n > 0 {
		r := l.back[n-1]
		l.back = l.back[:n-1]
		l.rune++
		return r, nil
	}
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
		if l.max > 0 && l.rune-1 > l.max {
			return r, &ComplexityError{Col: l.rune - 1, Limit: "length", Max: l.max}
		}
	}
	return r, err
}

// unreadRune returns r to the input. Any number of runes may be unread.
func (l *lexer) unreadRune(r rune) {
	l.back = append(l.back, r)
	l.rune--
}

// peek returns the next rune without consuming it. At EOF, the result is 0.
func (l *lexer) peek() (rune, error) {
	r, err := l.readRune()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, err
	}
	l.unreadRune(r)
	return r, nil
}

// next scans the next token from the input. The first time EOF is encountered
// before any non-whitespace characters, the result is an EOF token with a nil
// error. Subsequent times, if the EOF token is not pushed, the result is an
// empty token with io.EOF.
func (l *lexer) next() (lexToken, error) {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		return tok, nil
	}
	if l.eof {
		return lexToken{}, io.EOF
	}
	defer l.buf.Reset()
	tok := lexToken{pos: l.rune}
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.kind = tokenEOF
				l.eof = true
				return tok, nil
			}
			return tok, err
		}
		switch {
		case unicode.IsSpace(r):
			tok.pos++
			continue
		case '0' <= r && r <= '9':
			l.unreadRune(r)
			if err := l.scanNum(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenNum
			return tok, nil
		case r == '.':
			// A dot begins a number only if a digit follows. Otherwise it is
			// attribute access on whatever preceded it.
			d, err := l.peek()
			if err != nil {
				return tok, err
			}
			if '0' <= d && d <= '9' {
				l.unreadRune(r)
				if err := l.scanNum(); err != nil {
					return tok, err
				}
				tok.text = l.buf.String()
				tok.kind = tokenNum
				return tok, nil
			}
			tok.text = "."
			tok.kind = tokenOp
			return tok, nil
		case r == '_', unicode.IsLetter(r):
			l.unreadRune(r)
			if err := l.scanIdent(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenIdent
			return tok, nil
		case r == ',':
			tok.text = ","
			tok.kind = tokenSep
			return tok, nil
		case r == ';':
			tok.text = ";"
			tok.kind = tokenSep
			return tok, nil
		case r == '\'', r == '"', r == '`':
			l.buf.WriteRune(r)
			return tok, l.error("string")
		default:
			if k := strings.IndexRune(Operators, r); k >= 0 {
				tok.text = operstrs[k]
				tok.kind = tokenOp
				s, err := l.peek()
				if err != nil {
					return tok, err
				}
				for _, op := range twoCharOps {
					if rune(op[0]) == r && rune(op[1]) == s {
						l.readRune()
						tok.text = op
						break
					}
				}
				return tok, nil
			}
			if k := strings.IndexRune(OpenBrackets, r); k >= 0 {
				tok.text = openbrackets[k]
				tok.kind = tokenOpen
				return tok, nil
			}
			if k := strings.IndexRune(CloseBrackets, r); k >= 0 {
				tok.text = closebrackets[k]
				tok.kind = tokenClose
				return tok, nil
			}
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return tok, l.error("")
		}
	}
}

// scanNum scans a decimal number. A letter that cannot continue the number
// ends it, so that 2x scans as a number followed by an identifier.
func (l *lexer) scanNum() error {
	var dig, dot, e, ed bool
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		switch {
		case '0' <= r && r <= '9':
			if e {
				ed = true
			} else {
				dig = true
			}
			l.buf.WriteRune(r)
			continue
		case r == '.':
			if dot || e {
				l.buf.WriteRune(r)
				return l.error("number")
			}
			dot = true
			l.buf.WriteRune(r)
			continue
		case (r == 'e' || r == 'E') && dig && !e:
			// 2e3 and 2e-3 are numbers, but in 2e and 2e-x, e is the constant.
			s, err := l.peek()
			if err != nil {
				return err
			}
			if isDigit(s) {
				e = true
				l.buf.WriteRune(r)
				continue
			}
			if s == '+' || s == '-' {
				l.readRune()
				t, err := l.peek()
				if err != nil {
					return err
				}
				if isDigit(t) {
					e = true
					l.buf.WriteRune(r)
					l.buf.WriteRune(s)
					continue
				}
				l.unreadRune(s)
			}
		}
		l.unreadRune(r)
		break
	}
	if !dig || (e && !ed) {
		return l.error("number")
	}
	if _, err := strconv.ParseFloat(l.buf.String(), 64); err != nil {
		return l.error("number")
	}
	return nil
}

func (l *lexer) scanIdent() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// next unreads the rune that decides ident scanning before
				// calling scanIdent, so we have scanned at least one rune.
				return nil
			}
			return err
		}
		switch {
		case r == '_', r == '.', unicode.IsLetter(r), unicode.IsDigit(r):
			l.buf.WriteRune(r)
		default:
			l.unreadRune(r)
			return nil
		}
	}
}

func (l *lexer) error(kind string) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  l.rune - 1,
	}
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This may be "number",
	// "string", or the empty string (if a token kind hadn't been decided).
	Kind string
	// Col is the total number of runes scanned by the lexer up to and
	// including this error.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	switch err.Kind {
	case "":
		return "invalid token at " + pos + ": " + err.Text
	case "string":
		return "string literals are not permitted at " + pos + ": " + err.Text
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
}

func (err *LexError) Pos() int {
	return err.Col
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
