// # internal/transform/usage.go
package transform

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"unrequire/internal/parser"
)

// UsageKind classifies how a require call's result is consumed.
type UsageKind int

const (
	UsageUnresolved UsageKind = iota
	UsageBareStatement
	UsageMemberAccess
	UsageVariableBinding
	UsageNestedCall
)

func (k UsageKind) String() string {
	switch k {
	case UsageBareStatement:
		return "bare-statement"
	case UsageMemberAccess:
		return "member-access"
	case UsageVariableBinding:
		return "variable-binding"
	case UsageNestedCall:
		return "nested-call"
	default:
		return "unresolved"
	}
}

// BindingElement is one element of a destructuring pattern, in source order.
// Renamed elements carry the exported name only; the local alias already
// exists from the enclosing binding. Elements that can never match a named
// export (rest patterns, nested patterns) carry an empty Exported name.
type BindingElement struct {
	Exported string
	Renamed  bool
}

// UsageContext is the classified consumption of one call site, plus the
// independent bare-statement flag the planner consults across branches.
type UsageContext struct {
	Kind UsageKind

	// member access
	Key    string
	HasKey bool

	// variable binding
	Simple   string
	Elements []BindingElement

	// the call is the entire expression of a statement (member or
	// parenthesized wrapping allowed, binary/call/new nesting not)
	IsBareStatement bool
}

// FindUsage classifies how the result of call is consumed by walking the
// enclosing tree strictly upward.
func FindUsage(call *sitter.Node, source []byte) UsageContext {
	ctx := UsageContext{Kind: UsageUnresolved, IsBareStatement: isBareStatement(call)}

	if member, child := parser.FindAncestor(call, isMemberAccess, parser.IsStatementBoundary); member != nil {
		if parser.SameNode(member.ChildByFieldName("object"), child) && unwrapsTo(child, call) {
			ctx.Kind = UsageMemberAccess
			ctx.Key, ctx.HasKey = memberKey(member, source)
			return ctx
		}
	}

	if declarator, child := parser.FindAncestor(call, isVariableDeclarator, parser.IsStatementBoundary); declarator != nil {
		if parser.SameNode(declarator.ChildByFieldName("value"), child) && unwrapsTo(child, call) {
			name := declarator.ChildByFieldName("name")
			switch {
			case name == nil:
			case name.Kind() == "identifier":
				ctx.Kind = UsageVariableBinding
				ctx.Simple = parser.Text(name, source)
				return ctx
			case name.Kind() == "object_pattern":
				ctx.Kind = UsageVariableBinding
				ctx.Elements = patternElements(name, source)
				return ctx
			}
		}
	}

	if wrapper, child := parser.FindAncestor(call, isCallExpression, parser.IsStatementBoundary); wrapper != nil {
		if isCallOperand(wrapper, child) {
			ctx.Kind = UsageNestedCall
			return ctx
		}
	}

	if ctx.IsBareStatement {
		ctx.Kind = UsageBareStatement
	}
	return ctx
}

func isMemberAccess(node *sitter.Node) bool {
	kind := node.Kind()
	return kind == "member_expression" || kind == "subscript_expression"
}

func isVariableDeclarator(node *sitter.Node) bool {
	return node.Kind() == "variable_declarator"
}

func isCallExpression(node *sitter.Node) bool {
	kind := node.Kind()
	return kind == "call_expression" || kind == "new_expression"
}

// unwrapsTo reports whether node is call itself, possibly wrapped in
// parentheses.
func unwrapsTo(node, call *sitter.Node) bool {
	for node != nil {
		if parser.SameNode(node, call) {
			return true
		}
		if node.Kind() != "parenthesized_expression" {
			return false
		}
		node = node.NamedChild(0)
	}
	return false
}

func isCallOperand(wrapper, child *sitter.Node) bool {
	if parser.SameNode(wrapper.ChildByFieldName("function"), child) {
		return true
	}
	if args := wrapper.ChildByFieldName("arguments"); args != nil {
		if parser.SameNode(args, child) {
			return true
		}
		return parser.SameNode(child.Parent(), args)
	}
	return false
}

// memberKey extracts the statically known accessed name: the property for
// dot access, the literal text for a string-literal bracket access.
func memberKey(member *sitter.Node, source []byte) (string, bool) {
	if member.Kind() == "member_expression" {
		prop := member.ChildByFieldName("property")
		if prop == nil {
			return "", false
		}
		return parser.Text(prop, source), true
	}
	index := member.ChildByFieldName("index")
	if value, ok := parser.StringLiteralValue(index, source); ok {
		return value, true
	}
	return "", false
}

func patternElements(pattern *sitter.Node, source []byte) []BindingElement {
	var elements []BindingElement
	for i := uint(0); i < pattern.NamedChildCount(); i++ {
		child := pattern.NamedChild(i)
		switch child.Kind() {
		case "shorthand_property_identifier_pattern":
			elements = append(elements, BindingElement{Exported: parser.Text(child, source)})
		case "pair_pattern":
			key := child.ChildByFieldName("key")
			exported := parser.Text(key, source)
			if value, ok := parser.StringLiteralValue(key, source); ok {
				exported = value
			}
			elements = append(elements, BindingElement{Exported: exported, Renamed: true})
		case "object_assignment_pattern":
			left := child.ChildByFieldName("left")
			if left != nil && left.Kind() == "shorthand_property_identifier_pattern" {
				elements = append(elements, BindingElement{Exported: parser.Text(left, source)})
			} else {
				elements = append(elements, BindingElement{})
			}
		default:
			// rest patterns and nested patterns never match a named export
			elements = append(elements, BindingElement{})
		}
	}
	return elements
}

// isBareStatement reports whether the call is the entire expression of a
// statement: every node between the call and its expression_statement is a
// member access or parentheses.
func isBareStatement(call *sitter.Node) bool {
	child := call
	for cur := call.Parent(); cur != nil; cur = cur.Parent() {
		switch cur.Kind() {
		case "expression_statement":
			return true
		case "parenthesized_expression":
		case "member_expression", "subscript_expression":
			if !parser.SameNode(cur.ChildByFieldName("object"), child) {
				return false
			}
		default:
			return false
		}
		child = cur
	}
	return false
}
