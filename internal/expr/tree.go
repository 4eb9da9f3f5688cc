package expr

import (
	"strconv"
	"strings"
)

// TreeKind classifies a Tree node.
type TreeKind string

const (
	TreeNumber   TreeKind = "number"
	TreeOperator TreeKind = "operator"
	TreeFunction TreeKind = "function"
)

// Tree is a read-only view of a parsed expression.
type Tree struct {
	Kind     TreeKind `json:"kind"`
	Label    string   `json:"label"`
	Pos      int      `json:"pos"`
	Children []*Tree  `json:"children,omitempty"`
}

// Inspect parses src without evaluating it. Blank input yields a nil tree.
func Inspect(src string) (*Tree, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}
	n, err := parse(src, newFuncTable())
	if err != nil || n == nil {
		return nil, err
	}
	return n.tree(), nil
}

var opLabels = map[nodeKind]string{
	nodeNeg:  "neg",
	nodePlus: "pos",
	nodeAdd:  "+",
	nodeSub:  "-",
	nodeMul:  "*",
	nodeDiv:  "/",
	nodePow:  "**",
}

func (n *node) tree() *Tree {
	t := &Tree{Pos: n.pos}
	switch n.kind {
	case nodeNum:
		t.Kind = TreeNumber
		t.Label = strconv.FormatFloat(n.num, 'g', -1, 64)
	case nodeCall:
		t.Kind = TreeFunction
		t.Label = n.name
		for _, a := range n.args {
			t.Children = append(t.Children, a.tree())
		}
	default:
		t.Kind = TreeOperator
		t.Label = opLabels[n.kind]
		t.Children = append(t.Children, n.left.tree())
		if n.right != nil {
			t.Children = append(t.Children, n.right.tree())
		}
	}
	return t
}

// Size counts the nodes in t.
func (t *Tree) Size() int {
	if t == nil {
		return 0
	}
	n := 1
	for _, c := range t.Children {
		n += c.Size()
	}
	return n
}
