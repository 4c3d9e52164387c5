package calculator

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression. A node owns
// its children; trees are never shared or modified after parsing.
type node struct {
	kind nodeKind

	// name is the literal text of a number, the name of a constant or
	// variable, or the name of a called function.
	name string
	num  float64
	// pos is the column at which the node's first token starts.
	pos int

	left  *node
	right *node
	// args holds call arguments or list elements in order.
	args []*node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // num
	nodeName // constant, or the free variable when solving
	nodeCall // name is the function, args are its arguments
	nodeList // args are the elements

	nodeNeg // -left
	nodeAdd // left + right
	nodeSub // left - right
	nodeMul // left * right
	nodeDiv // left / right
	nodeMod // left % right, truncated
	nodePow // left ** right
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=nodeKind -trimprefix=node

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b, false)
	return b.String()
}

// fmt writes the node fully parenthesized. With alt, binary operators are
// written with their conventional symbols instead of the accepted spelling.
func (n *node) fmt(b *strings.Builder, alt bool) {
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		if n.left != nil {
			n.left.fmt(b, alt)
		}
		b.WriteByte('#')
		if n.right != nil {
			n.right.fmt(b, alt)
		}
		b.WriteByte('$')
	case nodeNum, nodeName:
		b.WriteString(n.name)
	case nodeCall:
		b.WriteString(n.name)
		n.fmtargs(b, '(', ')', alt)
	case nodeList:
		n.fmtargs(b, '[', ']', alt)
	case nodeNeg:
		b.WriteString("(-")
		n.left.fmt(b, alt)
		b.WriteByte(')')
	case nodeAdd:
		n.fmtbin(b, " + ", alt)
	case nodeSub:
		n.fmtbin(b, " - ", alt)
	case nodeMul:
		if alt {
			n.fmtbin(b, " × ", alt)
		} else {
			n.fmtbin(b, " * ", alt)
		}
	case nodeDiv:
		if alt {
			n.fmtbin(b, " ÷ ", alt)
		} else {
			n.fmtbin(b, " / ", alt)
		}
	case nodeMod:
		n.fmtbin(b, " % ", alt)
	case nodePow:
		if alt {
			n.fmtbin(b, " ^ ", alt)
		} else {
			n.fmtbin(b, " ** ", alt)
		}
	default:
		panic("calculator: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

func (n *node) fmtbin(b *strings.Builder, op string, alt bool) {
	b.WriteByte('(')
	n.left.fmt(b, alt)
	b.WriteString(op)
	n.right.fmt(b, alt)
	b.WriteByte(')')
}

func (n *node) fmtargs(b *strings.Builder, l, r byte, alt bool) {
	b.WriteByte(l)
	for i, a := range n.args {
		if i > 0 {
			b.WriteString(", ")
		}
		a.fmt(b, alt)
	}
	b.WriteByte(r)
}

// mentions reports whether the tree refers to the name v as a variable.
func (n *node) mentions(v string) bool {
	if n == nil {
		return false
	}
	switch n.kind {
	case nodeName:
		return n.name == v
	case nodeCall, nodeList:
		for _, a := range n.args {
			if a.mentions(v) {
				return true
			}
		}
		return false
	default:
		return n.left.mentions(v) || n.right.mentions(v)
	}
}

func numnode(text string, pos int) (*node, error) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, &LexError{Text: text, Kind: "number", Col: pos}
	}
	return &node{kind: nodeNum, name: text, num: v, pos: pos}, nil
}
