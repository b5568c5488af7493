package php

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// elseTag marks the alternative arm of a branch in a condition chain.
const elseTag = "else"

// placeholder stands in for expression forms the renderer does not model.
const placeholder = "expr"

// renderCondition serializes a condition expression into a best-effort
// human-readable form. It is never re-parsed.
func renderCondition(n *sitter.Node, source []byte) string {
	if n == nil {
		return placeholder
	}
	switch n.Type() {
	case "parenthesized_expression":
		if inner := namedChild(n, 0); inner != nil {
			return renderCondition(inner, source)
		}
		return placeholder
	case "binary_expression":
		left := renderCondition(n.ChildByFieldName("left"), source)
		right := renderCondition(n.ChildByFieldName("right"), source)
		operator := operatorText(n, source)
		return fmt.Sprintf("%s %s %s", left, operator, right)
	case "variable_name":
		return n.Content(source)
	case "string", "encapsed_string":
		return fmt.Sprintf("%q", stripQuotes(n.Content(source)))
	case "integer", "float":
		return n.Content(source)
	case "name", "qualified_name":
		return n.Content(source)
	}
	return placeholder
}

func operatorText(n *sitter.Node, source []byte) string {
	if op := n.ChildByFieldName("operator"); op != nil {
		return op.Content(source)
	}
	// anonymous operator token sits between the named operands
	for idx := 0; idx < int(n.ChildCount()); idx++ {
		child := n.Child(idx)
		if !child.IsNamed() {
			return child.Content(source)
		}
	}
	return "?"
}

func namedChild(n *sitter.Node, idx int) *sitter.Node {
	if idx >= int(n.NamedChildCount()) {
		return nil
	}
	return n.NamedChild(idx)
}
