package expr

import (
	"errors"
	"strconv"
)

// maxDepth bounds recursion on pathological input such as "((((...".
const maxDepth = 256

type parser struct {
	toks  []lexToken
	i     int
	funcs map[string]Func
	depth int
}

func (p *parser) peek() lexToken {
	return p.toks[p.i]
}

func (p *parser) next() lexToken {
	tok := p.toks[p.i]
	if tok.kind != tokenEOF {
		p.i++
	}
	return tok
}

// parse builds the tree for a whole input. It returns nil for input with no
// tokens.
func parse(src string, funcs map[string]Func) (*node, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, funcs: funcs}
	if p.peek().kind == tokenEOF {
		return nil, nil
	}
	n, err := p.expr(precAdd)
	if err != nil {
		return nil, err
	}
	switch tok := p.peek(); tok.kind {
	case tokenEOF:
		return n, nil
	case tokenClose:
		return nil, errorf(tok.pos, "unmatched )")
	default:
		return nil, errorf(tok.pos, "unexpected %s", describe(tok))
	}
}

// expr parses binary operators of precedence at least min.
func (p *parser) expr(min int8) (*node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		return nil, errorf(p.peek().pos, "expression nested too deeply")
	}

	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokenOp {
			return left, nil
		}
		op, ok := binaryOps[tok.text]
		if !ok || op.prec < min {
			return left, nil
		}
		p.next()
		right, err := p.expr(op.moreBinding())
		if err != nil {
			return nil, err
		}
		left = &node{kind: op.op, pos: tok.pos, left: left, right: right}
	}
}

// unary parses a signed operand. A sign binds looser than ** so -2**2 is -4.
func (p *parser) unary() (*node, error) {
	tok := p.peek()
	if tok.kind == tokenOp && (tok.text == "-" || tok.text == "+") {
		p.next()
		operand, err := p.expr(precUnary)
		if err != nil {
			return nil, err
		}
		kind := nodeNeg
		if tok.text == "+" {
			kind = nodePlus
		}
		return &node{kind: kind, pos: tok.pos, left: operand}, nil
	}
	return p.primary()
}

func (p *parser) primary() (*node, error) {
	tok := p.next()
	switch tok.kind {
	case tokenNum:
		v, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			// Out of range literals parse to ±Inf with ErrRange; keep the value.
			if !errors.Is(err, strconv.ErrRange) {
				return nil, errorf(tok.pos, "malformed number %q", tok.text)
			}
		}
		return &node{kind: nodeNum, pos: tok.pos, num: v}, nil
	case tokenIdent:
		fn, ok := p.funcs[tok.text]
		if !ok {
			return nil, errorf(tok.pos, "unknown name %q", tok.text)
		}
		if open := p.peek(); open.kind != tokenOpen {
			return nil, errorf(open.pos, "function %s must be called with (", tok.text)
		}
		p.next()
		args, err := p.arglist()
		if err != nil {
			return nil, err
		}
		return &node{kind: nodeCall, pos: tok.pos, fn: fn, name: tok.text, args: args}, nil
	case tokenOpen:
		n, err := p.expr(precAdd)
		if err != nil {
			return nil, err
		}
		if err := p.close(); err != nil {
			return nil, err
		}
		return n, nil
	case tokenEOF:
		return nil, errorf(tok.pos, "unexpected end of expression")
	}
	return nil, errorf(tok.pos, "unexpected %s", describe(tok))
}

// arglist parses the arguments after an opening parenthesis.
func (p *parser) arglist() ([]*node, error) {
	var args []*node
	if tok := p.peek(); tok.kind == tokenClose || tok.kind == tokenEOF {
		return args, p.close()
	}
	for {
		arg, err := p.expr(precAdd)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().kind != tokenSep {
			break
		}
		p.next()
	}
	return args, p.close()
}

// close consumes a closing parenthesis. End of input closes it implicitly.
func (p *parser) close() error {
	switch tok := p.peek(); tok.kind {
	case tokenClose:
		p.next()
		return nil
	case tokenEOF:
		return nil
	default:
		return errorf(tok.pos, "expected ) but found %s", describe(tok))
	}
}

func describe(tok lexToken) string {
	if tok.kind == tokenEOF {
		return "end of expression"
	}
	return strconv.Quote(tok.text)
}
