package calculator

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestLex(t *testing.T) {
	cases := []struct {
		src    string
		tokens []lexToken
		errs   int
	}{
		// spaces
		{"", nil, 0},
		{" \t \r\n ", nil, 0},
		// numbers
		{"0", []lexToken{{text: "0", kind: tokenNum, pos: 1}}, 0},
		{"9876543210", []lexToken{{text: "9876543210", kind: tokenNum, pos: 1}}, 0},
		{"1 0", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "0", kind: tokenNum, pos: 3}}, 0},
		{"1.0", []lexToken{{text: "1.0", kind: tokenNum, pos: 1}}, 0},
		{"-1", []lexToken{{text: "-", kind: tokenOp, pos: 1}, {text: "1", kind: tokenNum, pos: 2}}, 0},
		{"1e1", []lexToken{{text: "1e1", kind: tokenNum, pos: 1}}, 0},
		{"1E5", []lexToken{{text: "1E5", kind: tokenNum, pos: 1}}, 0},
		{"1e+1", []lexToken{{text: "1e+1", kind: tokenNum, pos: 1}}, 0},
		{"1e-1", []lexToken{{text: "1e-1", kind: tokenNum, pos: 1}}, 0},
		{"1.0e1", []lexToken{{text: "1.0e1", kind: tokenNum, pos: 1}}, 0},
		{".1", []lexToken{{text: ".1", kind: tokenNum, pos: 1}}, 0},
		{".1e1", []lexToken{{text: ".1e1", kind: tokenNum, pos: 1}}, 0},
		{"1e+", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "e", kind: tokenIdent, pos: 2}, {text: "+", kind: tokenOp, pos: 3}}, 0},
		{"2e-x", []lexToken{{text: "2", kind: tokenNum, pos: 1}, {text: "e", kind: tokenIdent, pos: 2}, {text: "-", kind: tokenOp, pos: 3}, {text: "x", kind: tokenIdent, pos: 4}}, 0},
		{"2E+1x", []lexToken{{text: "2E+1", kind: tokenNum, pos: 1}, {text: "x", kind: tokenIdent, pos: 5}}, 0},
		{"1.1.1", []lexToken{{pos: 1}, {text: "1", kind: tokenNum, pos: 5}}, 1},
		{"1e400", []lexToken{{pos: 1}}, 1},
		// numbers next to names
		{"1e", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "e", kind: tokenIdent, pos: 2}}, 0},
		{"2x", []lexToken{{text: "2", kind: tokenNum, pos: 1}, {text: "x", kind: tokenIdent, pos: 2}}, 0},
		{"1.5y", []lexToken{{text: "1.5", kind: tokenNum, pos: 1}, {text: "y", kind: tokenIdent, pos: 4}}, 0},
		// identifiers
		{"e", []lexToken{{text: "e", kind: tokenIdent, pos: 1}}, 0},
		{"e1", []lexToken{{text: "e1", kind: tokenIdent, pos: 1}}, 0},
		{"π", []lexToken{{text: "π", kind: tokenIdent, pos: 1}}, 0},
		{"_1234_", []lexToken{{text: "_1234_", kind: tokenIdent, pos: 1}}, 0},
		{"a.b", []lexToken{{text: "a.b", kind: tokenIdent, pos: 1}}, 0},
		{"e(", []lexToken{{text: "e", kind: tokenIdent, pos: 1}, {text: "(", kind: tokenOpen, pos: 2}}, 0},
		// operators
		{"+", []lexToken{{text: "+", kind: tokenOp, pos: 1}}, 0},
		{"++", []lexToken{{text: "+", kind: tokenOp, pos: 1}, {text: "+", kind: tokenOp, pos: 2}}, 0},
		{"x**2", []lexToken{{text: "x", kind: tokenIdent, pos: 1}, {text: "**", kind: tokenOp, pos: 2}, {text: "2", kind: tokenNum, pos: 4}}, 0},
		{"a//b", []lexToken{{text: "a", kind: tokenIdent, pos: 1}, {text: "//", kind: tokenOp, pos: 2}, {text: "b", kind: tokenIdent, pos: 4}}, 0},
		{"*-", []lexToken{{text: "*", kind: tokenOp, pos: 1}, {text: "-", kind: tokenOp, pos: 2}}, 0},
		{"=", []lexToken{{text: "=", kind: tokenOp, pos: 1}}, 0},
		{"==", []lexToken{{text: "==", kind: tokenOp, pos: 1}}, 0},
		{"<=", []lexToken{{text: "<=", kind: tokenOp, pos: 1}}, 0},
		{"!x", []lexToken{{text: "!", kind: tokenOp, pos: 1}, {text: "x", kind: tokenIdent, pos: 2}}, 0},
		{".", []lexToken{{text: ".", kind: tokenOp, pos: 1}}, 0},
		// brackets and separators
		{"(1)", []lexToken{{text: "(", kind: tokenOpen, pos: 1}, {text: "1", kind: tokenNum, pos: 2}, {text: ")", kind: tokenClose, pos: 3}}, 0},
		{"[]", []lexToken{{text: "[", kind: tokenOpen, pos: 1}, {text: "]", kind: tokenClose, pos: 2}}, 0},
		{"{}", []lexToken{{text: "{", kind: tokenOpen, pos: 1}, {text: "}", kind: tokenClose, pos: 2}}, 0},
		{"f(1,2;3)", []lexToken{
			{text: "f", kind: tokenIdent, pos: 1},
			{text: "(", kind: tokenOpen, pos: 2},
			{text: "1", kind: tokenNum, pos: 3},
			{text: ",", kind: tokenSep, pos: 4},
			{text: "2", kind: tokenNum, pos: 5},
			{text: ";", kind: tokenSep, pos: 6},
			{text: "3", kind: tokenNum, pos: 7},
			{text: ")", kind: tokenClose, pos: 8},
		}, 0},
		// strings
		{"'os'", []lexToken{{pos: 1}, {text: "os", kind: tokenIdent, pos: 2}, {pos: 4}}, 2},
		{`"x"`, []lexToken{{pos: 1}, {text: "x", kind: tokenIdent, pos: 2}, {pos: 3}}, 2},
		// erroneous symbols
		{"$", []lexToken{{pos: 1}}, 1},
		{"a$", []lexToken{{text: "a", kind: tokenIdent, pos: 1}, {pos: 2}}, 1},
		{"$a", []lexToken{{pos: 1}, {text: "a", kind: tokenIdent, pos: 2}}, 1},
		{"$$", []lexToken{{pos: 1}, {pos: 2}}, 2},
	}

	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			scan := lex(strings.NewReader(c.src), 0)
			var got []lexToken
			errs := 0
			for {
				tok, err := scan.next()
				if err != nil {
					var le *LexError
					if !errors.As(err, &le) {
						t.Fatalf("non-lex error: %v", err)
					}
					errs++
				}
				if tok.kind == tokenEOF {
					break
				}
				got = append(got, tok)
				if len(got) > len(c.src)+1 {
					t.Fatalf("too many tokens: %v", got)
				}
			}
			if !reflect.DeepEqual(got, c.tokens) {
				t.Errorf("wrong tokens: want %v, got %v", c.tokens, got)
			}
			if errs != c.errs {
				t.Errorf("wrong number of errors: want %d, got %d", c.errs, errs)
			}
		})
	}
}

func TestLexLength(t *testing.T) {
	scan := lex(strings.NewReader("1+2+3+4"), 4)
	var err error
	for i := 0; i < 10 && err == nil; i++ {
		_, err = scan.next()
	}
	var ce *ComplexityError
	if !errors.As(err, &ce) {
		t.Fatalf("wrong error: want *ComplexityError, got %v", err)
	}
	if ce.Limit != "length" || ce.Max != 4 || ce.Col != 5 {
		t.Errorf("wrong error: %+v", ce)
	}
}
