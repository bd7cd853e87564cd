package integration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"unrequire/internal/parser"
	"unrequire/internal/resolver"
	"unrequire/internal/transform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestProject(t *testing.T, tmpDir string) {
	libJS := `exports.parse = function (input) {
  return JSON.parse(input);
};
exports.VERSION = '2.1.0';
`
	err := os.WriteFile(filepath.Join(tmpDir, "lib.js"), []byte(libJS), 0644)
	require.NoError(t, err)

	loggerJS := `module.exports = function log(msg) {
  console.log(msg);
};
`
	err = os.WriteFile(filepath.Join(tmpDir, "logger.js"), []byte(loggerJS), 0644)
	require.NoError(t, err)

	mainJS := `require('./polyfill');
const { parse } = require('./lib');
const log = require('./logger');
log(parse('{}'));
`
	err = os.WriteFile(filepath.Join(tmpDir, "main.js"), []byte(mainJS), 0644)
	require.NoError(t, err)

	err = os.WriteFile(filepath.Join(tmpDir, "polyfill.js"), []byte("globalThis.flag = true;\n"), 0644)
	require.NoError(t, err)
}

func TestFullPipelineIntegration(t *testing.T) {
	tmpDir := t.TempDir()
	createTestProject(t, tmpDir)

	p := parser.NewParser(parser.NewGrammarLoader())
	res, err := resolver.NewResolver(p)
	require.NoError(t, err)

	mainPath := filepath.Join(tmpDir, "main.js")
	content, err := os.ReadFile(mainPath)
	require.NoError(t, err)

	src, err := p.ParseFile(mainPath, content)
	require.NoError(t, err)
	defer src.Close()

	result, err := transform.Apply(src, res.DescriptorFunc(mainPath), transform.Options{})
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.Len(t, result.CallSites, 3)
	assert.Zero(t, result.Unresolved)

	out := string(result.Output)
	assert.Contains(t, out, `import "./polyfill";`)
	assert.Contains(t, out, `from "./lib";`)
	assert.Contains(t, out, `from "./logger";`)
	assert.NotContains(t, out, "require(")

	// the rewritten file must still parse cleanly
	reparsed, err := p.ParseFile(mainPath, result.Output)
	require.NoError(t, err)
	defer reparsed.Close()
	assert.False(t, reparsed.Root().HasError(), "rewritten output should parse cleanly:\n%s", out)
}

func TestPipelineStrictModeSurfacesLocation(t *testing.T) {
	tmpDir := t.TempDir()

	weird := "const conf = require('./settings') || {};\n"
	path := filepath.Join(tmpDir, "weird.js")
	require.NoError(t, os.WriteFile(path, []byte(weird), 0644))

	p := parser.NewParser(parser.NewGrammarLoader())
	res, err := resolver.NewResolver(p)
	require.NoError(t, err)

	src, err := p.ParseFile(path, []byte(weird))
	require.NoError(t, err)
	defer src.Close()

	_, err = transform.Apply(src, res.DescriptorFunc(path), transform.Options{Strict: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weird.js:1:")
	assert.True(t, strings.Contains(err.Error(), "./settings"))
}
