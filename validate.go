package calculator

// validate checks that every node of the tree rooted at n is in the
// whitelist. The parser's nesting limit bounds the recursion.
func (p *parsectx) validate(n *node) error {
	switch n.kind {
	case nodeNum:
		return nil
	case nodeName:
		switch {
		case IsConstant(n.name), p.free != "" && n.name == p.free:
			return nil
		case IsFunction(n.name):
			return &NameError{Col: n.pos, Name: n.name, Func: true}
		}
		return &NameError{Col: n.pos, Name: n.name}
	case nodeCall:
		id, ok := funcIDs[n.name]
		if !ok {
			return &CallError{Col: n.pos, Func: n.name, Len: len(n.args), Unknown: true}
		}
		if !funcTable[id].CanCall(len(n.args)) {
			return &CallError{Col: n.pos, Func: n.name, Len: len(n.args)}
		}
		return p.validateall(n.args)
	case nodeList:
		return p.validateall(n.args)
	case nodeNeg:
		return p.validate(n.left)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow:
		if err := p.validate(n.left); err != nil {
			return err
		}
		return p.validate(n.right)
	default:
		panic("calculator: invalid node kind " + n.kind.String())
	}
}

func (p *parsectx) validateall(args []*node) error {
	for _, a := range args {
		if err := p.validate(a); err != nil {
			return err
		}
	}
	return nil
}
