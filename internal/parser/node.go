// # internal/parser/node.go
package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Text returns the source text covered by node.
func Text(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// Location is a 1-based source position.
type Location struct {
	File   string
	Line   int
	Column int
}

func (s *Source) Location(node *sitter.Node) Location {
	return Location{
		File:   s.Path,
		Line:   int(node.StartPosition().Row) + 1,
		Column: int(node.StartPosition().Column) + 1,
	}
}

func (s *Source) Text(node *sitter.Node) string {
	return Text(node, s.Content)
}

// SameNode reports whether a and b refer to the same tree node. The
// bindings allocate a fresh Node per call, so pointer equality is not
// meaningful.
func SameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil && a.Id() == b.Id()
}

// FindAncestor walks upward from node until pred matches, boundary matches,
// or the root is reached. The child through which the matching ancestor was
// entered is reported alongside it.
func FindAncestor(node *sitter.Node, pred, boundary func(*sitter.Node) bool) (ancestor, child *sitter.Node) {
	child = node
	for cur := node.Parent(); cur != nil; cur = cur.Parent() {
		if pred(cur) {
			return cur, child
		}
		if boundary(cur) {
			return nil, nil
		}
		child = cur
	}
	return nil, nil
}

// IsStatementBoundary reports whether crossing node would leave the
// enclosing statement or declaration.
func IsStatementBoundary(node *sitter.Node) bool {
	kind := node.Kind()
	switch kind {
	case "program", "statement_block", "class_body",
		"lexical_declaration", "variable_declaration",
		"function_declaration", "function_expression",
		"generator_function_declaration", "arrow_function",
		"method_definition":
		return true
	}
	return strings.HasSuffix(kind, "_statement")
}

// StringLiteralValue returns the fragment text of a string node, or false
// when node is not a plain string literal.
func StringLiteralValue(node *sitter.Node, source []byte) (string, bool) {
	if node == nil || node.Kind() != "string" {
		return "", false
	}
	var b strings.Builder
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "string_fragment" {
			b.WriteString(Text(child, source))
		}
	}
	return b.String(), true
}

// CollectIdentifiers appends every identifier-like leaf under node to the
// given set. Used to seed the per-file registry with names that are already
// taken.
func CollectIdentifiers(node *sitter.Node, source []byte, into map[string]bool) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "identifier", "shorthand_property_identifier",
		"shorthand_property_identifier_pattern", "type_identifier":
		into[Text(node, source)] = true
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		CollectIdentifiers(node.Child(i), source, into)
	}
}
