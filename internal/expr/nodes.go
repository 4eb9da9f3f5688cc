package expr

type nodeKind int8

const (
	nodeNum nodeKind = iota
	nodeNeg
	nodePlus
	nodeAdd
	nodeSub
	nodeMul
	nodeDiv
	nodePow
	nodeCall
)

type node struct {
	kind nodeKind
	// pos is the column of the token that produced the node.
	pos   int
	num   float64
	left  *node
	right *node
	fn    Func
	// name is the function identifier for nodeCall.
	name string
	args []*node
}

// operator describes a binary operator for precedence climbing.
type operator struct {
	prec  int8
	right bool
	op    nodeKind
}

const (
	precAdd int8 = iota + 1
	precMul
	precUnary
	precPow
)

var binaryOps = map[string]operator{
	"+":  {precAdd, false, nodeAdd},
	"-":  {precAdd, false, nodeSub},
	"*":  {precMul, false, nodeMul},
	"/":  {precMul, false, nodeDiv},
	"**": {precPow, true, nodePow},
}

// moreBinding returns the minimum precedence for the right operand of op.
func (o operator) moreBinding() int8 {
	if o.right {
		return o.prec
	}
	return o.prec + 1
}
