// # internal/transform/pass.go
package transform

import (
	"fmt"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"unrequire/internal/parser"
)

// Options controls one file pass.
type Options struct {
	// Strict aborts the pass on an unclassifiable call site instead of
	// leaving it unchanged.
	Strict bool
	// ExportsOnly bypasses the engine entirely; every call site is left
	// unchanged.
	ExportsOnly bool
}

// DescriptorFunc resolves a module specifier, as written at the call site,
// to its export shape. Implementations return UnknownExports when the
// module cannot be resolved.
type DescriptorFunc func(specifier string) ExportsDescriptor

// CallSite records what happened to one require call.
type CallSite struct {
	Specifier string
	Usage     UsageKind
	Action    ActionKind
	Location  parser.Location
}

// Result is the outcome of transforming one file.
type Result struct {
	Path      string
	Changed   bool
	Output    []byte
	CallSites []CallSite
	Imports   ImportPlan
	// Unresolved counts call sites whose specifier argument was not a
	// static string; those are left untouched.
	Unresolved int
}

type edit struct {
	start, end uint
	text       string
}

// Apply runs the import-binding pass over one parsed file. The registry is
// created fresh here and discarded with the pass; call sites are processed
// in source order, each decision completing before the next.
func Apply(src *parser.Source, resolve DescriptorFunc, opts Options) (*Result, error) {
	result := &Result{Path: src.Path, Output: src.Content}

	calls := findRequireCalls(src.Root(), src.Content)
	if len(calls) == 0 {
		return result, nil
	}

	if opts.ExportsOnly {
		for _, call := range calls {
			result.CallSites = append(result.CallSites, CallSite{
				Specifier: call.specifier,
				Action:    ActionUnchanged,
				Location:  src.Location(call.node),
			})
		}
		return result, nil
	}

	registry := NewRegistry()
	seedIdentifiers(src, registry)
	seedExistingImports(src, registry)

	var edits []edit
	for _, call := range calls {
		if !call.static {
			result.Unresolved++
			result.CallSites = append(result.CallSites, CallSite{
				Action:   ActionUnchanged,
				Location: src.Location(call.node),
			})
			continue
		}

		ctx := FindUsage(call.node, src.Content)
		decision, err := Plan(call.specifier, resolve(call.specifier), ctx, registry)
		if err != nil {
			if opts.Strict {
				loc := src.Location(call.node)
				return nil, fmt.Errorf("%s:%d:%d: require(%q): %w",
					loc.File, loc.Line, loc.Column, call.specifier, err)
			}
			decision = Decision{Action: Unchanged()}
		}

		result.Imports = append(result.Imports, decision.Plan...)
		result.CallSites = append(result.CallSites, CallSite{
			Specifier: call.specifier,
			Usage:     ctx.Kind,
			Action:    decision.Action.Kind,
			Location:  src.Location(call.node),
		})

		if e, ok := editFor(call.node, src.Content, decision.Action); ok {
			edits = append(edits, e)
		}
	}

	if len(result.Imports) > 0 {
		offset := importInsertOffset(src.Root(), src.Content)
		var b strings.Builder
		for _, spec := range result.Imports {
			b.WriteString(spec.Render())
			b.WriteByte('\n')
		}
		edits = append(edits, edit{start: offset, end: offset, text: b.String()})
	}

	if len(edits) == 0 {
		return result, nil
	}

	result.Output = splice(src.Content, edits)
	result.Changed = true
	return result, nil
}

type requireCall struct {
	node      *sitter.Node
	specifier string
	static    bool
}

// findRequireCalls returns every require(...) call expression in source
// order. A call qualifies when the callee is the bare identifier `require`
// and it has exactly one argument.
func findRequireCalls(root *sitter.Node, source []byte) []requireCall {
	var calls []requireCall
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}
		if call, ok := classifyRequire(node, source); ok {
			calls = append(calls, call)
		}
		for i := uint(0); i < node.ChildCount(); i++ {
			walk(node.Child(i))
		}
	}
	walk(root)
	return calls
}

func classifyRequire(node *sitter.Node, source []byte) (requireCall, bool) {
	if node.Kind() != "call_expression" {
		return requireCall{}, false
	}
	fn := node.ChildByFieldName("function")
	if fn == nil || fn.Kind() != "identifier" || parser.Text(fn, source) != "require" {
		return requireCall{}, false
	}
	args := node.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() != 1 {
		return requireCall{}, false
	}
	specifier, static := parser.StringLiteralValue(args.NamedChild(0), source)
	return requireCall{node: node, specifier: specifier, static: static}, true
}

func seedIdentifiers(src *parser.Source, registry *Registry) {
	used := make(map[string]bool)
	parser.CollectIdentifiers(src.Root(), src.Content, used)
	for name := range used {
		registry.MarkUsed(name)
	}
}

// seedExistingImports records the file's existing import statements so call
// sites that re-require an already-imported module reuse those bindings
// instead of planning duplicates.
func seedExistingImports(src *parser.Source, registry *Registry) {
	root := src.Root()
	for i := uint(0); i < root.NamedChildCount(); i++ {
		stmt := root.NamedChild(i)
		if stmt.Kind() != "import_statement" {
			continue
		}
		specifier, ok := parser.StringLiteralValue(stmt.ChildByFieldName("source"), src.Content)
		if !ok {
			continue
		}

		clause := namedChildOfKind(stmt, "import_clause")
		if clause == nil {
			registry.AddBare(specifier)
			continue
		}
		for j := uint(0); j < clause.NamedChildCount(); j++ {
			part := clause.NamedChild(j)
			switch part.Kind() {
			case "identifier":
				registry.AddDefault(specifier, src.Text(part))
			case "namespace_import":
				if name := namedChildOfKind(part, "identifier"); name != nil {
					registry.AddNamespace(specifier, src.Text(name))
				}
			case "named_imports":
				for k := uint(0); k < part.NamedChildCount(); k++ {
					spec := part.NamedChild(k)
					if spec.Kind() != "import_specifier" {
						continue
					}
					name := src.Text(spec.ChildByFieldName("name"))
					local := name
					if alias := spec.ChildByFieldName("alias"); alias != nil {
						local = src.Text(alias)
					}
					registry.AddNamed(specifier, name, local)
				}
			}
		}
	}
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

func editFor(call *sitter.Node, source []byte, action ReplacementAction) (edit, bool) {
	switch action.Kind {
	case ActionReplaceIdentifier:
		return edit{start: call.StartByte(), end: call.EndByte(), text: action.Name}, true
	case ActionReplaceObjectLiteral:
		return edit{start: call.StartByte(), end: call.EndByte(), text: renderObjectLiteral(action.Pairs)}, true
	case ActionRemove:
		stmt := enclosingExpressionStatement(call)
		if stmt == nil {
			return edit{}, false
		}
		return statementRemoval(stmt, source), true
	default:
		return edit{}, false
	}
}

func enclosingExpressionStatement(call *sitter.Node) *sitter.Node {
	for cur := call; cur != nil; cur = cur.Parent() {
		if cur.Kind() == "expression_statement" {
			return cur
		}
	}
	return nil
}

// statementRemoval deletes the statement's full line when it stands alone:
// leading indentation and the trailing newline go with it.
func statementRemoval(stmt *sitter.Node, source []byte) edit {
	start, end := stmt.StartByte(), stmt.EndByte()
	for start > 0 && (source[start-1] == ' ' || source[start-1] == '\t') {
		start--
	}
	if end < uint(len(source)) && source[end] == '\n' {
		end++
	}
	return edit{start: start, end: end}
}

// importInsertOffset places new imports after the hashbang, any leading
// comments and directives, and the file's existing import statements.
func importInsertOffset(root *sitter.Node, source []byte) uint {
	var offset uint
	for i := uint(0); i < root.NamedChildCount(); i++ {
		stmt := root.NamedChild(i)
		switch stmt.Kind() {
		case "hash_bang_line", "comment", "import_statement":
		case "expression_statement":
			if !isDirective(stmt) {
				return offset
			}
		default:
			return offset
		}
		offset = stmt.EndByte()
		if offset < uint(len(source)) && source[offset] == '\n' {
			offset++
		}
	}
	return offset
}

func isDirective(stmt *sitter.Node) bool {
	return stmt.NamedChildCount() == 1 && stmt.NamedChild(0).Kind() == "string"
}

func splice(source []byte, edits []edit) []byte {
	sort.Slice(edits, func(i, j int) bool {
		if edits[i].start != edits[j].start {
			return edits[i].start > edits[j].start
		}
		return edits[i].end > edits[j].end
	})
	out := append([]byte(nil), source...)
	for _, e := range edits {
		out = append(out[:e.start], append([]byte(e.text), out[e.end:]...)...)
	}
	return out
}
