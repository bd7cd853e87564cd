// # internal/transform/plan.go
package transform

import (
	"fmt"
	"strings"
)

// ImportKind discriminates the binding form of one planned import.
type ImportKind int

const (
	ImportBare ImportKind = iota
	ImportDefault
	ImportNamespace
	ImportNamed
)

func (k ImportKind) String() string {
	switch k {
	case ImportBare:
		return "bare"
	case ImportDefault:
		return "default"
	case ImportNamespace:
		return "namespace"
	case ImportNamed:
		return "named"
	default:
		return "unknown"
	}
}

type NamedPair struct {
	Exported string
	Local    string
}

// ImportSpec is one import to add for a module specifier.
type ImportSpec struct {
	Kind      ImportKind
	Specifier string
	Local     string      // default/namespace binding
	Pairs     []NamedPair // named bindings
}

// ImportPlan is the ordered list of imports one call site contributes.
type ImportPlan []ImportSpec

// ActionKind discriminates what happens to the original call expression.
type ActionKind int

const (
	ActionUnchanged ActionKind = iota
	ActionRemove
	ActionReplaceIdentifier
	ActionReplaceObjectLiteral
)

func (k ActionKind) String() string {
	switch k {
	case ActionUnchanged:
		return "unchanged"
	case ActionRemove:
		return "remove"
	case ActionReplaceIdentifier:
		return "identifier"
	case ActionReplaceObjectLiteral:
		return "object-literal"
	default:
		return "unknown"
	}
}

// ReplacementAction tells the rewriter how to patch the call site.
type ReplacementAction struct {
	Kind  ActionKind
	Name  string      // identifier replacement
	Pairs []NamedPair // object-literal replacement, in source order
}

func Unchanged() ReplacementAction {
	return ReplacementAction{Kind: ActionUnchanged}
}

func Remove() ReplacementAction {
	return ReplacementAction{Kind: ActionRemove}
}

func ReplaceWithIdentifier(name string) ReplacementAction {
	return ReplacementAction{Kind: ActionReplaceIdentifier, Name: name}
}

func ReplaceWithObjectLiteral(pairs []NamedPair) ReplacementAction {
	return ReplacementAction{Kind: ActionReplaceObjectLiteral, Pairs: pairs}
}

// Render produces the import statement text for one spec.
func (s ImportSpec) Render() string {
	switch s.Kind {
	case ImportBare:
		return fmt.Sprintf("import %q;", s.Specifier)
	case ImportDefault:
		return fmt.Sprintf("import %s from %q;", s.Local, s.Specifier)
	case ImportNamespace:
		return fmt.Sprintf("import * as %s from %q;", s.Local, s.Specifier)
	case ImportNamed:
		if len(s.Pairs) == 0 {
			return fmt.Sprintf("import {} from %q;", s.Specifier)
		}
		parts := make([]string, 0, len(s.Pairs))
		for _, pair := range s.Pairs {
			if pair.Local == pair.Exported {
				parts = append(parts, pair.Exported)
			} else {
				parts = append(parts, pair.Exported+" as "+pair.Local)
			}
		}
		return fmt.Sprintf("import { %s } from %q;", strings.Join(parts, ", "), s.Specifier)
	default:
		return ""
	}
}

// renderObjectLiteral produces the parenthesized literal substituted for a
// call expression. Parens keep the literal valid in every expression
// position, statement-initial included.
func renderObjectLiteral(pairs []NamedPair) string {
	if len(pairs) == 0 {
		return "({})"
	}
	parts := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		if pair.Local == pair.Exported {
			parts = append(parts, pair.Exported)
		} else {
			parts = append(parts, pair.Exported+": "+pair.Local)
		}
	}
	return "({ " + strings.Join(parts, ", ") + " })"
}
