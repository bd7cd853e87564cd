// # internal/transform/registry.go
package transform

import "strconv"

type registryEntry struct {
	bare           bool
	defaultLocal   string
	namespaceLocal string
	named          map[string]string // exported name -> local
}

// Registry is the per-file ledger of planned imports and taken identifiers.
// One instance exists per file pass; entries only grow, and every name it
// hands out stays reserved for the rest of the pass.
type Registry struct {
	entries map[string]*registryEntry // keyed by module specifier
	used    map[string]bool           // every identifier bound or reserved in the file
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*registryEntry),
		used:    make(map[string]bool),
	}
}

func (r *Registry) entry(specifier string) *registryEntry {
	e := r.entries[specifier]
	if e == nil {
		e = &registryEntry{named: make(map[string]string)}
		r.entries[specifier] = e
	}
	return e
}

// MarkUsed reserves an identifier that already appears in the file.
func (r *Registry) MarkUsed(name string) {
	if name != "" {
		r.used[name] = true
	}
}

func (r *Registry) AddBare(specifier string) {
	r.entry(specifier).bare = true
}

func (r *Registry) AddDefault(specifier, local string) {
	e := r.entry(specifier)
	if e.defaultLocal == "" {
		e.defaultLocal = local
		r.MarkUsed(local)
	}
}

func (r *Registry) AddNamespace(specifier, local string) {
	e := r.entry(specifier)
	if e.namespaceLocal == "" {
		e.namespaceLocal = local
		r.MarkUsed(local)
	}
}

func (r *Registry) AddNamed(specifier, exported, local string) {
	e := r.entry(specifier)
	if _, ok := e.named[exported]; !ok {
		e.named[exported] = local
		r.MarkUsed(local)
	}
}

func (r *Registry) IsBareImported(specifier string) bool {
	e := r.entries[specifier]
	return e != nil && e.bare
}

func (r *Registry) HasDefault(specifier string) (string, bool) {
	e := r.entries[specifier]
	if e == nil || e.defaultLocal == "" {
		return "", false
	}
	return e.defaultLocal, true
}

func (r *Registry) HasNamespace(specifier string) (string, bool) {
	e := r.entries[specifier]
	if e == nil || e.namespaceLocal == "" {
		return "", false
	}
	return e.namespaceLocal, true
}

func (r *Registry) HasNamed(specifier, exported string) (string, bool) {
	e := r.entries[specifier]
	if e == nil {
		return "", false
	}
	local, ok := e.named[exported]
	return local, ok
}

// IsBound reports whether any import form already loads specifier.
func (r *Registry) IsBound(specifier string) bool {
	e := r.entries[specifier]
	if e == nil {
		return false
	}
	return e.bare || e.defaultLocal != "" || e.namespaceLocal != "" || len(e.named) > 0
}

// IsFree reports whether name is not bound anywhere in the file, counting
// names reserved earlier in this pass.
func (r *Registry) IsFree(name string) bool {
	return name != "" && !r.used[name]
}

// Fresh derives a free identifier from seed, reserves it, and returns it.
// The seed itself is used when free; otherwise a numeric suffix is appended,
// starting at 2.
func (r *Registry) Fresh(seed string) string {
	if seed == "" {
		seed = "mod"
	}
	candidate := seed
	for i := 2; !r.IsFree(candidate); i++ {
		candidate = seed + strconv.Itoa(i)
	}
	r.used[candidate] = true
	return candidate
}
