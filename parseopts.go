package calculator

import "unicode/utf8"

// Default limits on parsed input.
const (
	// DefaultMaxLength is the default maximum number of runes in an input.
	DefaultMaxLength = 4096
	// DefaultMaxDepth is the default maximum nesting of subexpressions.
	DefaultMaxDepth = 64
)

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	depthopt  int
	lengthopt int
	freeopt   string
)

// parsectx holds general data for parsing.
type parsectx struct {
	// names is the set of variable names that have been seen this parse.
	names map[string]bool
	// free is the name permitted as a free variable, or empty.
	free string
	// maxdepth and maxlen are the complexity limits.
	maxdepth, maxlen int
	// depth is the current recursion depth of the parser.
	depth int
}

func newparsectx(opts []ParseOption) parsectx {
	p := parsectx{
		names:    make(map[string]bool),
		maxdepth: DefaultMaxDepth,
		maxlen:   DefaultMaxLength,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		p = opt.parseOption(p)
	}
	return p
}

// checklen checks the length of a whole input against the length limit
// without scanning it.
func (p *parsectx) checklen(s string) error {
	if p.maxlen <= 0 {
		return nil
	}
	if n := utf8.RuneCountInString(s); n > p.maxlen {
		return &ComplexityError{Col: p.maxlen + 1, Limit: "length", Max: p.maxlen}
	}
	return nil
}

// MaxDepth sets the maximum nesting of subexpressions. Zero or negative means
// no limit.
func MaxDepth(n int) ParseOption {
	return depthopt(n)
}

func (o depthopt) parseOption(p parsectx) parsectx {
	p.maxdepth = int(o)
	return p
}

// MaxLength sets the maximum number of runes in an input. Zero or negative
// means no limit.
func MaxLength(n int) ParseOption {
	return lengthopt(n)
}

func (o lengthopt) parseOption(p parsectx) parsectx {
	p.maxlen = int(o)
	return p
}

// FreeVar permits name to appear in an expression as a variable. Expressions
// with a free variable are evaluated with EvalAt or solved with Solve. The
// name must be an identifier that is not a permitted constant or function.
func FreeVar(name string) ParseOption {
	return freeopt(name)
}

func (o freeopt) parseOption(p parsectx) parsectx {
	p.free = string(o)
	return p
}

// Limits returns parse options applying maximum depth and length at once.
func Limits(depth, length int) ParseOption {
	return limitsopt{depth, length}
}

type limitsopt struct{ depth, length int }

func (o limitsopt) parseOption(p parsectx) parsectx {
	p.maxdepth = o.depth
	p.maxlen = o.length
	return p
}
