// # cmd/unrequire/app_test.go
package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"unrequire/internal/config"
)

func testConfig(dir string) *config.Config {
	cfg := config.Default()
	cfg.Paths = []string{dir}
	cfg.History.Path = filepath.Join(dir, ".history", "history.db")
	return cfg
}

func TestApp_RunDryRun(t *testing.T) {
	tmpDir := t.TempDir()

	os.WriteFile(filepath.Join(tmpDir, "lib.js"),
		[]byte("exports.greet = function () {};\nexports.name = 'lib';\n"), 0644)
	os.WriteFile(filepath.Join(tmpDir, "main.js"),
		[]byte("const { greet } = require('./lib');\ngreet();\n"), 0644)

	app, err := NewApp(testConfig(tmpDir), false)
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	summary, err := app.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if summary.FilesScanned != 2 {
		t.Errorf("Expected 2 files scanned, got %d", summary.FilesScanned)
	}
	if summary.FilesChanged != 1 {
		t.Errorf("Expected 1 file changed, got %d", summary.FilesChanged)
	}
	if summary.Rewritten != 1 {
		t.Errorf("Expected 1 rewritten call site, got %d", summary.Rewritten)
	}

	// Dry run must not touch the file.
	data, _ := os.ReadFile(filepath.Join(tmpDir, "main.js"))
	if !strings.Contains(string(data), "require('./lib')") {
		t.Error("dry run modified the source file")
	}
}

func TestApp_RunWrite(t *testing.T) {
	tmpDir := t.TempDir()

	os.WriteFile(filepath.Join(tmpDir, "side-effect.js"), []byte("exports.on = true;\n"), 0644)
	mainPath := filepath.Join(tmpDir, "main.js")
	os.WriteFile(mainPath, []byte("require('./side-effect');\n"), 0644)

	app, err := NewApp(testConfig(tmpDir), true)
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	summary, err := app.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if summary.FilesChanged != 1 {
		t.Fatalf("Expected 1 file changed, got %d", summary.FilesChanged)
	}

	data, err := os.ReadFile(mainPath)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, `import "./side-effect";`) {
		t.Errorf("expected bare import in output, got: %s", out)
	}
	if strings.Contains(out, "require(") {
		t.Errorf("expected require call removed, got: %s", out)
	}

	// Run recording should have produced a history database.
	if _, err := os.Stat(filepath.Join(tmpDir, ".history", "history.db")); err != nil {
		t.Errorf("expected history database: %v", err)
	}
}

func TestApp_ScanDirectoriesExcludes(t *testing.T) {
	tmpDir := t.TempDir()

	os.MkdirAll(filepath.Join(tmpDir, "node_modules", "pkg"), 0755)
	os.WriteFile(filepath.Join(tmpDir, "node_modules", "pkg", "index.js"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(tmpDir, "keep.js"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(tmpDir, "skip.min.js"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("x"), 0644)

	app, err := NewApp(testConfig(tmpDir), false)
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	files, err := app.ScanDirectories([]string{tmpDir}, []string{"node_modules"}, []string{"*.min.js"})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "keep.js" {
		t.Errorf("Expected only keep.js, got %v", files)
	}
}

func TestApp_HandleChanges(t *testing.T) {
	tmpDir := t.TempDir()

	os.WriteFile(filepath.Join(tmpDir, "util.js"), []byte("module.exports = { id: 1 };\n"), 0644)
	os.WriteFile(filepath.Join(tmpDir, "entry.js"), []byte("const u = require('./util');\n"), 0644)

	app, err := NewApp(testConfig(tmpDir), false)
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	// Should not crash; skips unsupported and missing paths.
	app.HandleChanges([]string{
		filepath.Join(tmpDir, "entry.js"),
		filepath.Join(tmpDir, "missing.js"),
		filepath.Join(tmpDir, "notes.txt"),
	})
}

func TestApp_StrictModeFailsRun(t *testing.T) {
	tmpDir := t.TempDir()

	os.WriteFile(filepath.Join(tmpDir, "weird.js"),
		[]byte("const x = require('./missing') + 1;\n"), 0644)

	cfg := testConfig(tmpDir)
	cfg.Modes.Strict = true

	app, err := NewApp(cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	if _, err := app.Run(context.Background()); err == nil {
		t.Fatal("expected strict mode to fail on unclassifiable call site")
	}
}
