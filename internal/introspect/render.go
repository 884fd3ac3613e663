package introspect

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// nodeText extracts the raw source text of a tree-sitter node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// nodeLine returns the 1-based source line of a node.
func nodeLine(node *sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}

// renderExpr renders an expression node to text. Recognized shapes get a
// structured rendering; any other shape falls back to the node's raw source
// text rather than failing, so an unrecognized expression can never abort
// extraction.
func renderExpr(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}

	switch node.Kind() {
	case "identifier", "string", "integer", "float", "true", "false", "none":
		return nodeText(node, source)
	case "attribute":
		obj := renderExpr(node.ChildByFieldName("object"), source)
		attr := nodeText(node.ChildByFieldName("attribute"), source)
		return obj + "." + attr
	case "subscript":
		value := renderExpr(node.ChildByFieldName("value"), source)
		sub := renderExpr(node.ChildByFieldName("subscript"), source)
		return value + "[" + sub + "]"
	default:
		// Generic textual reconstruction.
		return nodeText(node, source)
	}
}

// walkTree recursively walks a tree-sitter tree in pre-order, which matches
// source declaration order. The visitor returns false to skip a subtree.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visitor(node) {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		walkTree(node.Child(i), visitor)
	}
}
