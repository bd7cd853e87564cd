// # internal/parser/parser.go
package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type Parser struct {
	loader *GrammarLoader
}

// Source is one parsed file. Close releases the underlying tree.
type Source struct {
	Path     string
	Language string
	Content  []byte
	Tree     *sitter.Tree
}

func NewParser(loader *GrammarLoader) *Parser {
	return &Parser{loader: loader}
}

func (p *Parser) ParseFile(path string, content []byte) (*Source, error) {
	lang := DetectLanguage(path)
	if lang == "" {
		return nil, fmt.Errorf("unsupported language: %s", path)
	}

	grammar, err := p.loader.Language(lang)
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, errors.New("parse failed")
	}

	return &Source{
		Path:     path,
		Language: lang,
		Content:  content,
		Tree:     tree,
	}, nil
}

func (s *Source) Root() *sitter.Node {
	return s.Tree.RootNode()
}

func (s *Source) Close() {
	if s.Tree != nil {
		s.Tree.Close()
		s.Tree = nil
	}
}

func DetectLanguage(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".cjs", ".mjs", ".jsx":
		return "javascript"
	case ".ts":
		return "typescript"
	case ".tsx":
		return "tsx"
	default:
		return ""
	}
}
