// # internal/resolver/exports.go
package resolver

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"unrequire/internal/parser"
	"unrequire/internal/transform"
)

type exportScan struct {
	src        *parser.Source
	hasDefault bool
	named      map[string]struct{}
	// export * from '...' makes the named set unenumerable
	reexportAll bool
}

// ScanExports builds the export descriptor for a parsed module from its ESM
// export statements and CommonJS module.exports / exports assignments.
func ScanExports(src *parser.Source) transform.ExportsDescriptor {
	scan := &exportScan{src: src, named: make(map[string]struct{})}
	scan.walk(src.Root())

	if scan.reexportAll {
		return transform.UnknownExports()
	}
	return transform.ExportsDescriptor{
		Known:      true,
		HasDefault: scan.hasDefault,
		Named:      scan.named,
	}
}

func (s *exportScan) walk(node *sitter.Node) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "export_statement":
		s.scanExportStatement(node)
	case "assignment_expression":
		s.scanAssignment(node)
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		s.walk(node.Child(i))
	}
}

func (s *exportScan) addNamed(name string) {
	if name != "" {
		s.named[name] = struct{}{}
	}
}

func (s *exportScan) scanExportStatement(node *sitter.Node) {
	if hasKeywordChild(node, "default") {
		s.hasDefault = true
		return
	}

	if decl := node.ChildByFieldName("declaration"); decl != nil {
		s.scanDeclaration(decl)
		return
	}

	hasSource := node.ChildByFieldName("source") != nil
	clause := namedChildOfKind(node, "export_clause")
	if clause == nil {
		if hasSource {
			// export * from '...'
			s.reexportAll = true
		}
		return
	}
	for i := uint(0); i < clause.NamedChildCount(); i++ {
		spec := clause.NamedChild(i)
		if spec.Kind() != "export_specifier" {
			continue
		}
		exported := s.src.Text(spec.ChildByFieldName("name"))
		if alias := spec.ChildByFieldName("alias"); alias != nil {
			exported = s.src.Text(alias)
		}
		if exported == "default" {
			s.hasDefault = true
			continue
		}
		s.addNamed(exported)
	}
}

func (s *exportScan) scanDeclaration(decl *sitter.Node) {
	switch decl.Kind() {
	case "function_declaration", "generator_function_declaration",
		"class_declaration", "abstract_class_declaration",
		"interface_declaration", "type_alias_declaration", "enum_declaration":
		s.addNamed(s.src.Text(decl.ChildByFieldName("name")))
	case "lexical_declaration", "variable_declaration":
		for i := uint(0); i < decl.NamedChildCount(); i++ {
			declarator := decl.NamedChild(i)
			if declarator.Kind() != "variable_declarator" {
				continue
			}
			name := declarator.ChildByFieldName("name")
			if name != nil && name.Kind() == "identifier" {
				s.addNamed(s.src.Text(name))
			}
		}
	}
}

// scanAssignment handles the CommonJS forms: module.exports = …,
// module.exports.foo = …, and exports.foo = ….
func (s *exportScan) scanAssignment(node *sitter.Node) {
	left := node.ChildByFieldName("left")
	if left == nil || left.Kind() != "member_expression" {
		return
	}
	object := left.ChildByFieldName("object")
	property := s.src.Text(left.ChildByFieldName("property"))

	if object != nil && isModuleExports(object, s.src) {
		// module.exports.foo = …
		s.addNamed(property)
		return
	}

	objectText := s.src.Text(object)
	switch {
	case objectText == "exports":
		// exports.foo = …
		s.addNamed(property)
	case objectText == "module" && property == "exports":
		// module.exports = …
		s.scanModuleExportsValue(node.ChildByFieldName("right"))
	}
}

func isModuleExports(node *sitter.Node, src *parser.Source) bool {
	if node.Kind() != "member_expression" {
		return false
	}
	return src.Text(node.ChildByFieldName("object")) == "module" &&
		src.Text(node.ChildByFieldName("property")) == "exports"
}

// scanModuleExportsValue treats an object-literal assignment as a set of
// named exports; any other value is the module's default.
func (s *exportScan) scanModuleExportsValue(right *sitter.Node) {
	if right == nil {
		return
	}
	if right.Kind() != "object" {
		s.hasDefault = true
		return
	}
	s.hasDefault = true
	for i := uint(0); i < right.NamedChildCount(); i++ {
		prop := right.NamedChild(i)
		switch prop.Kind() {
		case "shorthand_property_identifier":
			s.addNamed(s.src.Text(prop))
		case "pair":
			key := prop.ChildByFieldName("key")
			name := s.src.Text(key)
			if value, ok := parser.StringLiteralValue(key, s.src.Content); ok {
				name = value
			}
			s.addNamed(name)
		case "method_definition":
			s.addNamed(s.src.Text(prop.ChildByFieldName("name")))
		}
	}
}

func hasKeywordChild(node *sitter.Node, keyword string) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if !child.IsNamed() && child.Kind() == keyword {
			return true
		}
	}
	return false
}

func namedChildOfKind(node *sitter.Node, kind string) *sitter.Node {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}
