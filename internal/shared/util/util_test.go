package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizePatternPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Empty", input: "", expected: ""},
		{name: "Dot", input: ".", expected: ""},
		{name: "Trim", input: "  ./src/vendor  ", expected: "src/vendor"},
		{name: "Relative", input: "src/../dist", expected: "dist"},
		{name: "Backslashes", input: `src\legacy`, expected: "src/legacy"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizePatternPath(tc.input); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestHasPathPrefix(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		path     string
		prefix   string
		expected bool
	}{
		{name: "Exact", path: "src/vendor", prefix: "src/vendor", expected: true},
		{name: "Nested", path: "src/vendor/lodash/index.js", prefix: "src/vendor", expected: true},
		{name: "Neighbor", path: "src/vendored", prefix: "src/vendor", expected: false},
		{name: "Shorter", path: "src", prefix: "src/vendor", expected: false},
		{name: "MixedSeparators", path: `src\vendor\lib.js`, prefix: "src/vendor", expected: true},
		{name: "RelativePrefix", path: "./src/vendor/lib.js", prefix: "src/vendor", expected: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := HasPathPrefix(tc.path, tc.prefix); got != tc.expected {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestContainsPathSeparator(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		value    string
		expected bool
	}{
		{name: "Unix", value: "src/legacy", expected: true},
		{name: "Windows", value: `src\legacy`, expected: true},
		{name: "Basename", value: "*.min.js", expected: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ContainsPathSeparator(tc.value); got != tc.expected {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestWriteFileWithDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "src", "utils", "paths.js")
	content := []byte("export const join = (a, b) => a + '/' + b;\n")

	if err := WriteFileWithDirs(path, content, 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(got) != string(content) {
		t.Fatalf("expected %q, got %q", string(content), string(got))
	}
}
