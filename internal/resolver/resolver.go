// # internal/resolver/resolver.go
package resolver

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"unrequire/internal/parser"
	"unrequire/internal/shared/observability"
	"unrequire/internal/transform"
)

const defaultCacheSize = 512

// Resolver maps module specifiers to export descriptors by locating and
// parsing the target module. It is shared read-mostly across one run;
// descriptors are cached per resolved file path.
type Resolver struct {
	parser *parser.Parser
	cache  *lru.Cache[string, transform.ExportsDescriptor]
}

func NewResolver(p *parser.Parser) (*Resolver, error) {
	cache, err := lru.New[string, transform.ExportsDescriptor](defaultCacheSize)
	if err != nil {
		return nil, err
	}
	return &Resolver{parser: p, cache: cache}, nil
}

// DescriptorFunc binds the resolver to one importing file, matching the
// transform pass's collaborator contract.
func (r *Resolver) DescriptorFunc(fromFile string) transform.DescriptorFunc {
	return func(specifier string) transform.ExportsDescriptor {
		return r.Resolve(fromFile, specifier)
	}
}

// Resolve returns the export shape of specifier as seen from fromFile.
// Builtins, bare package specifiers, and anything that fails to resolve or
// parse come back Unknown; resolution never surfaces an error.
func (r *Resolver) Resolve(fromFile, specifier string) transform.ExportsDescriptor {
	if specifier == "" || IsNodeBuiltin(specifier) || !isRelative(specifier) {
		return transform.UnknownExports()
	}

	path := r.locate(filepath.Dir(fromFile), specifier)
	if path == "" {
		return transform.UnknownExports()
	}

	if descriptor, ok := r.cache.Get(path); ok {
		observability.ExportScansTotal.WithLabelValues("hit").Inc()
		return descriptor
	}

	descriptor := r.scanFile(path)
	observability.ExportScansTotal.WithLabelValues("miss").Inc()
	r.cache.Add(path, descriptor)
	return descriptor
}

func isRelative(specifier string) bool {
	return strings.HasPrefix(specifier, "./") ||
		strings.HasPrefix(specifier, "../") ||
		strings.HasPrefix(specifier, "/")
}

var resolveExtensions = []string{".js", ".mjs", ".cjs", ".jsx", ".ts", ".tsx"}

// locate tries the literal path, then extension and index fallbacks, and
// returns the first existing file as an absolute path.
func (r *Resolver) locate(dir, specifier string) string {
	base := filepath.Join(dir, specifier)

	candidates := make([]string, 0, 2*len(resolveExtensions)+1)
	candidates = append(candidates, base)
	for _, ext := range resolveExtensions {
		candidates = append(candidates, base+ext)
	}
	for _, ext := range resolveExtensions {
		candidates = append(candidates, filepath.Join(base, "index"+ext))
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			return candidate
		}
		return abs
	}
	return ""
}

func (r *Resolver) scanFile(path string) transform.ExportsDescriptor {
	content, err := os.ReadFile(path)
	if err != nil {
		slog.Debug("exports scan: read failed", "path", path, "error", err)
		return transform.UnknownExports()
	}

	src, err := r.parser.ParseFile(path, content)
	if err != nil {
		slog.Debug("exports scan: parse failed", "path", path, "error", err)
		return transform.UnknownExports()
	}
	defer src.Close()

	return ScanExports(src)
}
