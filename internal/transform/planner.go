// # internal/transform/planner.go
package transform

import (
	"strings"
	"unicode"
)

// Decision is the planner's output for one call site: the imports to add and
// the patch to apply to the call expression.
type Decision struct {
	Plan   ImportPlan
	Action ReplacementAction
}

// Plan decides the import binding for one require call site. It reads and
// mutates the per-file registry; each decision completes before the next
// call site is processed. On an unresolvable context it returns
// ErrUnhandledUsageContext and the caller chooses strict or lenient policy.
func Plan(specifier string, exports ExportsDescriptor, ctx UsageContext, registry *Registry) (Decision, error) {
	switch ctx.Kind {
	case UsageMemberAccess:
		if ctx.HasKey {
			return planMemberAccess(specifier, exports, ctx, registry), nil
		}
		return planWholeModule(specifier, exports, ctx, "", registry), nil

	case UsageVariableBinding:
		if ctx.Simple != "" {
			return planWholeModule(specifier, exports, ctx, ctx.Simple, registry), nil
		}
		return planDestructured(specifier, exports, ctx, registry), nil

	case UsageNestedCall:
		return planWholeModule(specifier, exports, ctx, "", registry), nil

	case UsageBareStatement:
		return planWholeModule(specifier, exports, ctx, "", registry), nil

	case UsageUnresolved:
		return Decision{Action: Unchanged()}, ErrUnhandledUsageContext
	}
	return Decision{Action: Unchanged()}, ErrUnhandledUsageContext
}

// planWholeModule handles every branch that binds the module as a whole:
// unknown exports, simple variable bindings, nested calls, bare statements,
// and member accesses with no static key.
func planWholeModule(specifier string, exports ExportsDescriptor, ctx UsageContext, seed string, registry *Registry) Decision {
	if ctx.IsBareStatement {
		var plan ImportPlan
		if !registry.IsBareImported(specifier) {
			registry.AddBare(specifier)
			plan = append(plan, ImportSpec{Kind: ImportBare, Specifier: specifier})
		}
		return Decision{Plan: plan, Action: Remove()}
	}

	local, plan := resolveWholeModule(specifier, exports, seed, registry)
	return Decision{Plan: plan, Action: ReplaceWithIdentifier(local)}
}

// resolveWholeModule returns a local bound to the whole module, reusing an
// existing default or namespace binding before creating one. Unknown export
// shapes prefer the default form.
func resolveWholeModule(specifier string, exports ExportsDescriptor, seed string, registry *Registry) (string, ImportPlan) {
	if exports.defaultPreferred() {
		if local, ok := registry.HasDefault(specifier); ok {
			return local, nil
		}
	} else {
		if local, ok := registry.HasNamespace(specifier); ok {
			return local, nil
		}
	}

	if seed == "" {
		seed = nameFromSpecifier(specifier)
	}
	local := registry.Fresh(seed)

	if exports.defaultPreferred() {
		registry.AddDefault(specifier, local)
		return local, ImportPlan{{Kind: ImportDefault, Specifier: specifier, Local: local}}
	}
	registry.AddNamespace(specifier, local)
	return local, ImportPlan{{Kind: ImportNamespace, Specifier: specifier, Local: local}}
}

func planMemberAccess(specifier string, exports ExportsDescriptor, ctx UsageContext, registry *Registry) Decision {
	key := ctx.Key

	if !exports.HasNamed(key) {
		local, plan := resolveWholeModule(specifier, exports, "", registry)
		// single-entry literal keeps the wrapping access valid against
		// the imported value
		return Decision{Plan: plan, Action: ReplaceWithObjectLiteral([]NamedPair{{Exported: key, Local: local}})}
	}

	alias, ok := registry.HasNamed(specifier, key)
	var plan ImportPlan
	if !ok {
		if ns, nsOK := registry.HasNamespace(specifier); nsOK && !exports.HasDefault {
			// the namespace local already exposes the export; no
			// separate named import needed
			alias = ns
		} else {
			alias = registry.Fresh(key)
			registry.AddNamed(specifier, key, alias)
			plan = ImportPlan{{Kind: ImportNamed, Specifier: specifier, Pairs: []NamedPair{{Exported: key, Local: alias}}}}
		}
	}

	if ctx.IsBareStatement {
		return Decision{Plan: plan, Action: Remove()}
	}
	return Decision{Plan: plan, Action: ReplaceWithObjectLiteral([]NamedPair{{Exported: key, Local: alias}})}
}

func planDestructured(specifier string, exports ExportsDescriptor, ctx UsageContext, registry *Registry) Decision {
	type binding struct {
		pair NamedPair
		new_ bool
	}
	var bindings []binding

	for _, element := range ctx.Elements {
		if element.Exported == "" || !exports.HasNamed(element.Exported) {
			continue
		}
		if local, ok := registry.HasNamed(specifier, element.Exported); ok {
			bindings = append(bindings, binding{pair: NamedPair{Exported: element.Exported, Local: local}})
			continue
		}
		bindings = append(bindings, binding{pair: NamedPair{Exported: element.Exported}, new_: true})
	}

	// all-or-nothing: any element outside the module's named exports drops
	// the whole binding back to a whole-module import
	if len(bindings) != len(ctx.Elements) {
		return planWholeModule(specifier, exports, ctx, "", registry)
	}

	var newPairs []NamedPair
	allPairs := make([]NamedPair, 0, len(bindings))
	for i := range bindings {
		if bindings[i].new_ {
			name := bindings[i].pair.Exported
			alias := registry.Fresh(name)
			bindings[i].pair.Local = alias
			registry.AddNamed(specifier, name, alias)
			newPairs = append(newPairs, bindings[i].pair)
		}
		allPairs = append(allPairs, bindings[i].pair)
	}

	var plan ImportPlan
	switch {
	case len(newPairs) > 0:
		plan = ImportPlan{{Kind: ImportNamed, Specifier: specifier, Pairs: newPairs}}
	case len(allPairs) == 0 && !registry.IsBound(specifier):
		// an empty pattern still loads the module for its side effects
		registry.AddBare(specifier)
		plan = ImportPlan{{Kind: ImportNamed, Specifier: specifier}}
	}
	return Decision{Plan: plan, Action: ReplaceWithObjectLiteral(allPairs)}
}

// nameFromSpecifier derives an identifier seed from a module specifier:
// the last path segment with its extension stripped, folded to camelCase
// across non-identifier characters.
func nameFromSpecifier(specifier string) string {
	base := specifier
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}

	var b strings.Builder
	upperNext := false
	for _, r := range base {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
			if upperNext {
				r = unicode.ToUpper(r)
				upperNext = false
			}
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if b.Len() == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			upperNext = false
		default:
			upperNext = b.Len() > 0
		}
	}
	if b.Len() == 0 {
		return "mod"
	}
	return b.String()
}
