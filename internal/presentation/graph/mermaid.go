package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/abacus/internal/expr"
)

// Overlay carries evaluation data to draw on top of the tree.
type Overlay struct {
	// Result is shown as an extra node above the root.
	Result string
	// Failed styles the result node as an error.
	Failed bool
}

// GenerateMermaid produces a Mermaid flowchart of an expression tree.
// It applies semantic styling:
// - Operator: ((Circle))
// - Function: [[Subroutine]]
// - Number: [Rectangle]
// - Result: [/Parallelogram/]
func GenerateMermaid(root *expr.Tree, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	if root != nil {
		next := 0
		writeNode(&sb, root, &next)
	}

	if overlay != nil && overlay.Result != "" {
		fmt.Fprintf(&sb, "    result[/\"= %s\"/]\n", escapeLabel(overlay.Result))
		if root != nil {
			sb.WriteString("    result --> n0\n")
		}

		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast regardless of theme
		sb.WriteString("    classDef ok fill:#e8f5e9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffebee,stroke:#c62828,stroke-width:4px,color:#000;\n")
		class := "ok"
		if overlay.Failed {
			class = "failed"
		}
		fmt.Fprintf(&sb, "    class result %s;\n", class)
	}

	return sb.String()
}

// writeNode emits t and its subtree in preorder. IDs are n0, n1, ...
func writeNode(sb *strings.Builder, t *expr.Tree, next *int) string {
	id := fmt.Sprintf("n%d", *next)
	*next++

	opener, closer := "[", "]"
	switch t.Kind {
	case expr.TreeOperator:
		opener, closer = "((", "))"
	case expr.TreeFunction:
		opener, closer = "[[", "]]"
	}
	fmt.Fprintf(sb, "    %s%s\"%s\"%s\n", id, opener, escapeLabel(t.Label), closer)

	for _, c := range t.Children {
		child := writeNode(sb, c, next)
		fmt.Fprintf(sb, "    %s --> %s\n", id, child)
	}
	return id
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}
