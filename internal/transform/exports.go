// # internal/transform/exports.go
package transform

// ExportsDescriptor describes what a target module exports. Known=false
// means the shape could not be determined; the planner then assumes no named
// exports and prefers a default binding for whole-module imports.
type ExportsDescriptor struct {
	Known      bool
	HasDefault bool
	Named      map[string]struct{}
}

// UnknownExports is the conservative descriptor for unresolvable modules.
func UnknownExports() ExportsDescriptor {
	return ExportsDescriptor{}
}

func KnownExports(hasDefault bool, named ...string) ExportsDescriptor {
	set := make(map[string]struct{}, len(named))
	for _, name := range named {
		set[name] = struct{}{}
	}
	return ExportsDescriptor{Known: true, HasDefault: hasDefault, Named: set}
}

func (d ExportsDescriptor) HasNamed(name string) bool {
	if !d.Known {
		return false
	}
	_, ok := d.Named[name]
	return ok
}

// defaultPreferred reports whether a whole-module import should bind the
// default export rather than a namespace.
func (d ExportsDescriptor) defaultPreferred() bool {
	return !d.Known || d.HasDefault
}
