package calculator

import (
	"math"
	"sort"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// funcID identifies a permitted function. The set of functions is closed:
// names map to IDs and IDs index the dispatch table in funcs.go, so nothing a
// caller writes can reach code outside the table.
type funcID uint8

const (
	fnSin funcID = iota
	fnCos
	fnTan
	fnLog
	fnLog10
	fnSqrt
	fnAbs
	fnRound
	fnPow
	fnMax
	fnMin
	fnSum
	fnLen
	fnMean
	fnMedian
	fnMode
	fnStdev
	fnVariance

	numFuncs
)

var funcNames = [numFuncs]string{
	fnSin:      "sin",
	fnCos:      "cos",
	fnTan:      "tan",
	fnLog:      "log",
	fnLog10:    "log10",
	fnSqrt:     "sqrt",
	fnAbs:      "abs",
	fnRound:    "round",
	fnPow:      "pow",
	fnMax:      "max",
	fnMin:      "min",
	fnSum:      "sum",
	fnLen:      "len",
	fnMean:     "mean",
	fnMedian:   "median",
	fnMode:     "mode",
	fnStdev:    "stdev",
	fnVariance: "variance",
}

var funcIDs = func() map[string]funcID {
	m := make(map[string]funcID, numFuncs)
	for id, name := range funcNames {
		m[name] = funcID(id)
	}
	return m
}()

func (id funcID) String() string {
	if id >= numFuncs {
		return "funcID(" + strconv.Itoa(int(id)) + ")"
	}
	return funcNames[id]
}

// constants are the permitted named constants.
var constants = map[string]float64{
	"pi":  math.Pi,
	"e":   math.E,
	"tau": 2 * math.Pi,
}

// keywords are identifiers that introduce statements or non-arithmetic
// expressions. They are rejected by name so that the diagnostic says what
// was attempted.
var keywords = map[string]bool{
	"and": true, "as": true, "assert": true, "async": true, "await": true,
	"break": true, "class": true, "continue": true, "def": true, "del": true,
	"elif": true, "else": true, "except": true, "exec": true, "eval": true,
	"False": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"None": true, "nonlocal": true, "not": true, "or": true, "pass": true,
	"raise": true, "return": true, "True": true, "try": true, "while": true,
	"with": true, "yield": true, "open": true,
}

// IsFunction reports whether name is a permitted function.
func IsFunction(name string) bool {
	_, ok := funcIDs[name]
	return ok
}

// IsConstant reports whether name is a permitted constant.
func IsConstant(name string) bool {
	_, ok := constants[name]
	return ok
}

// Constant returns the value of a permitted constant.
func Constant(name string) (float64, bool) {
	v, ok := constants[name]
	return v, ok
}

// Functions returns the names of the permitted functions in sorted order.
func Functions() []string {
	r := make([]string, 0, numFuncs)
	r = append(r, funcNames[:]...)
	sort.Strings(r)
	return r
}

// Constants returns the names of the permitted constants in sorted order.
func Constants() []string {
	r := make([]string, 0, len(constants))
	for k := range constants {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

// validVariable reports whether name can be used as a free variable: an
// identifier that does not collide with anything the whitelist names.
func validVariable(name string) bool {
	if name == "" || IsFunction(name) || IsConstant(name) || keywords[name] {
		return false
	}
	r, _ := utf8.DecodeRuneInString(name)
	if r != '_' && !unicode.IsLetter(r) {
		return false
	}
	for _, r := range name {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return len(name) < 2 || name[:2] != "__"
}
