package expr

import (
	"math"
	"strings"
)

// Evaluate parses src and returns its value. Empty or blank input is 0.
// Errors are always *EvalError.
func Evaluate(src string) (float64, error) {
	if strings.TrimSpace(src) == "" {
		return 0, nil
	}
	n, err := parse(src, newFuncTable())
	if err != nil {
		return 0, err
	}
	if n == nil {
		return 0, nil
	}
	return n.eval()
}

func (n *node) eval() (float64, error) {
	switch n.kind {
	case nodeNum:
		return n.num, nil
	case nodeNeg, nodePlus:
		x, err := n.left.eval()
		if err != nil {
			return 0, err
		}
		if n.kind == nodeNeg {
			return -x, nil
		}
		return x, nil
	case nodeCall:
		args := make([]float64, 0, len(n.args))
		for _, a := range n.args {
			v, err := a.eval()
			if err != nil {
				return 0, err
			}
			args = append(args, v)
		}
		return n.fn(args), nil
	}

	x, err := n.left.eval()
	if err != nil {
		return 0, err
	}
	y, err := n.right.eval()
	if err != nil {
		return 0, err
	}
	switch n.kind {
	case nodeAdd:
		return x + y, nil
	case nodeSub:
		return x - y, nil
	case nodeMul:
		return x * y, nil
	case nodeDiv:
		if y == 0 {
			return 0, &EvalError{Pos: n.pos, Msg: ErrDivisionByZero.Error(), Err: ErrDivisionByZero}
		}
		return x / y, nil
	case nodePow:
		return math.Pow(x, y), nil
	}
	return 0, errorf(n.pos, "unknown node kind %d", n.kind)
}
