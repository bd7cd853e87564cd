// # internal/resolver/resolver_test.go
package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"unrequire/internal/parser"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(parser.NewParser(parser.NewGrammarLoader()))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolve_CommonJSNamedExports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.js", "exports.readFile = function () {};\nmodule.exports.writeFile = function () {};\n")
	from := writeFile(t, dir, "main.js", "")

	r := newTestResolver(t)
	d := r.Resolve(from, "./lib")

	if !d.Known {
		t.Fatal("expected known exports")
	}
	if d.HasDefault {
		t.Error("expected no default export")
	}
	if !d.HasNamed("readFile") || !d.HasNamed("writeFile") {
		t.Errorf("expected readFile and writeFile, got %v", d.Named)
	}
}

func TestResolve_ModuleExportsObject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.js", "module.exports = { a, b: helper, run() {} };\n")
	from := writeFile(t, dir, "main.js", "")

	r := newTestResolver(t)
	d := r.Resolve(from, "./lib")

	if !d.Known || !d.HasDefault {
		t.Fatalf("expected known exports with default, got %+v", d)
	}
	for _, name := range []string{"a", "b", "run"} {
		if !d.HasNamed(name) {
			t.Errorf("expected named export %q, got %v", name, d.Named)
		}
	}
}

func TestResolve_ModuleExportsExpression(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.js", "module.exports = function main() {};\n")
	from := writeFile(t, dir, "main.js", "")

	r := newTestResolver(t)
	d := r.Resolve(from, "./lib")

	if !d.Known || !d.HasDefault {
		t.Fatalf("expected default-only exports, got %+v", d)
	}
	if len(d.Named) != 0 {
		t.Errorf("expected no named exports, got %v", d.Named)
	}
}

func TestResolve_ESMExports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.mjs", `
export default class Thing {}
export const alpha = 1, beta = 2;
export function gamma() {}
const hidden = 3;
export { hidden as delta };
`)
	from := writeFile(t, dir, "main.js", "")

	r := newTestResolver(t)
	d := r.Resolve(from, "./lib")

	if !d.Known || !d.HasDefault {
		t.Fatalf("expected known exports with default, got %+v", d)
	}
	for _, name := range []string{"alpha", "beta", "gamma", "delta"} {
		if !d.HasNamed(name) {
			t.Errorf("expected named export %q, got %v", name, d.Named)
		}
	}
	if d.HasNamed("hidden") {
		t.Error("alias should shadow the internal name")
	}
}

func TestResolve_ReexportAllIsUnknown(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.js", "export * from './other';\n")
	from := writeFile(t, dir, "main.js", "")

	r := newTestResolver(t)
	if d := r.Resolve(from, "./lib"); d.Known {
		t.Errorf("expected unknown exports for re-export-all, got %+v", d)
	}
}

func TestResolve_IndexFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pkg/index.js", "exports.entry = 1;\n")
	from := writeFile(t, dir, "main.js", "")

	r := newTestResolver(t)
	d := r.Resolve(from, "./pkg")

	if !d.Known || !d.HasNamed("entry") {
		t.Errorf("expected index fallback resolution, got %+v", d)
	}
}

func TestResolve_UnresolvableSpecifiers(t *testing.T) {
	dir := t.TempDir()
	from := writeFile(t, dir, "main.js", "")

	r := newTestResolver(t)
	for _, specifier := range []string{"fs", "node:path", "lodash", "./does-not-exist", ""} {
		if d := r.Resolve(from, specifier); d.Known {
			t.Errorf("%q: expected unknown exports", specifier)
		}
	}
}

func TestResolve_CachesDescriptor(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "lib.js", "exports.one = 1;\n")
	from := writeFile(t, dir, "main.js", "")

	r := newTestResolver(t)
	if d := r.Resolve(from, "./lib"); !d.HasNamed("one") {
		t.Fatalf("expected named export one, got %+v", d)
	}

	// rewrite the file; the cached descriptor should still be served
	if err := os.WriteFile(target, []byte("exports.two = 2;\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if d := r.Resolve(from, "./lib"); !d.HasNamed("one") {
		t.Errorf("expected cached descriptor, got %+v", d)
	}
}

func TestIsNodeBuiltin(t *testing.T) {
	cases := []struct {
		specifier string
		expected  bool
	}{
		{"fs", true},
		{"node:fs", true},
		{"fs/promises", true},
		{"path", true},
		{"lodash", false},
		{"./fs", false},
	}
	for _, tc := range cases {
		if got := IsNodeBuiltin(tc.specifier); got != tc.expected {
			t.Errorf("%q: expected %v, got %v", tc.specifier, tc.expected, got)
		}
	}
}
