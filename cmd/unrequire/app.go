// # cmd/unrequire/app.go
package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gobwas/glob"
	"go.opentelemetry.io/otel/attribute"

	"unrequire/internal/config"
	"unrequire/internal/history"
	"unrequire/internal/parser"
	"unrequire/internal/resolver"
	"unrequire/internal/shared/observability"
	"unrequire/internal/shared/util"
	"unrequire/internal/transform"
	"unrequire/internal/watcher"
)

type App struct {
	Config   *config.Config
	Parser   *parser.Parser
	Resolver *resolver.Resolver

	store        *history.Store
	limiter      *util.Limiter
	teaProgram   *tea.Program
	write        bool
	supportedExt map[string]bool
}

// FileChange summarizes one rewritten file for reporting.
type FileChange struct {
	Path      string
	CallSites int
	Imports   int
}

// Summary aggregates one conversion pass over the configured paths.
type Summary struct {
	FilesScanned int
	FilesChanged int
	CallSites    int
	Rewritten    int
	ImportsAdded int
	Unresolved   int
	Errors       int
	Duration     time.Duration
	Changed      []FileChange
}

func NewApp(cfg *config.Config, write bool) (*App, error) {
	loader := parser.NewGrammarLoader()
	p := parser.NewParser(loader)

	res, err := resolver.NewResolver(p)
	if err != nil {
		return nil, err
	}

	exts := make(map[string]bool)
	for _, ext := range loader.SupportedExtensions() {
		exts[ext] = true
	}

	var store *history.Store
	if cfg.History.Path != "" {
		store, err = history.Open(cfg.History.Path)
		if err != nil {
			slog.Warn("run history disabled", "path", cfg.History.Path, "error", err)
			store = nil
		}
	}

	return &App{
		Config:       cfg,
		Parser:       p,
		Resolver:     res,
		store:        store,
		limiter:      util.NewLimiter(4, 8),
		write:        write,
		supportedExt: exts,
	}, nil
}

func (a *App) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			slog.Warn("failed to close history store", "error", err)
		}
	}
}

// Run converts every supported file under the configured paths once.
func (a *App) Run(ctx context.Context) (Summary, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.Run")
	defer span.End()

	start := time.Now()

	files, err := a.ScanDirectories(a.Config.Paths, a.Config.Exclude.Dirs, a.Config.Exclude.Files)
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	for _, path := range files {
		result, err := a.ProcessFile(ctx, path)
		if err != nil {
			if a.Config.Modes.Strict {
				return Summary{}, err
			}
			slog.Warn("failed to process file", "path", path, "error", err)
			summary.Errors++
			continue
		}
		summary.accumulate(result)
	}
	summary.Duration = time.Since(start)

	span.SetAttributes(
		attribute.Int("files.scanned", summary.FilesScanned),
		attribute.Int("files.changed", summary.FilesChanged),
		attribute.Int("call_sites", summary.CallSites),
	)

	slog.Debug("run complete",
		"files", summary.FilesScanned,
		"changed", summary.FilesChanged,
		"heap_mb", util.GetHeapAllocMB(),
	)

	a.recordRun(summary)
	return summary, nil
}

func (s *Summary) accumulate(result *transform.Result) {
	s.FilesScanned++
	s.CallSites += len(result.CallSites)
	s.ImportsAdded += len(result.Imports)
	s.Unresolved += result.Unresolved
	for _, cs := range result.CallSites {
		if cs.Action != transform.ActionUnchanged {
			s.Rewritten++
		}
	}
	if result.Changed {
		s.FilesChanged++
		s.Changed = append(s.Changed, FileChange{
			Path:      result.Path,
			CallSites: len(result.CallSites),
			Imports:   len(result.Imports),
		})
	}
}

func (a *App) ScanDirectories(paths []string, excludeDirs, excludeFiles []string) ([]string, error) {
	var files []string

	dirGlobs := make([]glob.Glob, 0, len(excludeDirs))
	dirPrefixes := make([]string, 0)
	for _, p := range excludeDirs {
		if util.ContainsPathSeparator(p) {
			dirPrefixes = append(dirPrefixes, util.NormalizePatternPath(p))
			continue
		}
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
		dirGlobs = append(dirGlobs, g)
	}

	fileGlobs := make([]glob.Glob, 0, len(excludeFiles))
	for _, p := range excludeFiles {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", p, err)
		}
		fileGlobs = append(fileGlobs, g)
	}

	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			base := filepath.Base(path)

			if d.IsDir() {
				for _, g := range dirGlobs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
				for _, prefix := range dirPrefixes {
					if util.HasPathPrefix(path, prefix) {
						return filepath.SkipDir
					}
				}
				return nil
			}

			if !a.supportedExt[filepath.Ext(path)] {
				return nil
			}

			for _, g := range fileGlobs {
				if g.Match(base) {
					return nil
				}
			}

			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

func (a *App) ProcessFile(ctx context.Context, path string) (*transform.Result, error) {
	_, span := observability.Tracer.Start(ctx, "app.ProcessFile")
	defer span.End()

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	parseStart := time.Now()
	src, err := a.Parser.ParseFile(path, content)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	observability.ParsingDuration.WithLabelValues(src.Language).Observe(time.Since(parseStart).Seconds())

	opts := transform.Options{
		Strict:      a.Config.Modes.Strict,
		ExportsOnly: a.Config.Modes.ExportsOnly,
	}

	transformStart := time.Now()
	result, err := transform.Apply(src, a.Resolver.DescriptorFunc(path), opts)
	if err != nil {
		return nil, err
	}
	observability.TransformDuration.WithLabelValues(src.Language).Observe(time.Since(transformStart).Seconds())

	observability.FilesProcessedTotal.Inc()
	for _, cs := range result.CallSites {
		observability.CallSitesTotal.WithLabelValues(cs.Action.String()).Inc()
	}
	for _, spec := range result.Imports {
		observability.ImportsEmittedTotal.WithLabelValues(spec.Kind.String()).Inc()
	}
	if result.Unresolved > 0 {
		observability.UnresolvedSpecifiersTotal.Add(float64(result.Unresolved))
	}

	if result.Changed {
		observability.FilesChangedTotal.Inc()
		if a.write {
			if err := util.WriteFileWithDirs(path, result.Output, 0o644); err != nil {
				return nil, fmt.Errorf("write %s: %w", path, err)
			}
			slog.Info("rewrote file", "path", path, "call_sites", len(result.CallSites), "imports", len(result.Imports))
		} else {
			slog.Info("would rewrite file", "path", path, "call_sites", len(result.CallSites), "imports", len(result.Imports))
		}
	}

	return result, nil
}

func (a *App) HandleChanges(paths []string) {
	ctx := context.Background()
	if err := a.limiter.Wait(ctx, 1); err != nil {
		return
	}

	slog.Info("detected changes", "count", len(paths))
	start := time.Now()

	var summary Summary
	for _, path := range paths {
		if !a.supportedExt[filepath.Ext(path)] {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		result, err := a.ProcessFile(ctx, path)
		if err != nil {
			slog.Warn("failed to re-process file", "path", path, "error", err)
			summary.Errors++
			continue
		}
		summary.accumulate(result)
	}
	summary.Duration = time.Since(start)

	if summary.FilesScanned == 0 {
		return
	}

	a.recordRun(summary)

	if a.teaProgram != nil {
		a.teaProgram.Send(updateMsg{summary: summary})
		return
	}
	a.PrintSummary(summary)
}

func (a *App) recordRun(summary Summary) {
	if a.store == nil {
		return
	}

	commitHash, commitTS := history.ResolveGitMetadata(firstPath(a.Config.Paths))
	_, err := a.store.InsertRun(history.Run{
		CommitHash:         commitHash,
		CommitTimestamp:    commitTS,
		Mode:               a.mode(),
		FilesScanned:       summary.FilesScanned,
		FilesChanged:       summary.FilesChanged,
		CallSites:          summary.CallSites,
		CallSitesRewritten: summary.Rewritten,
		ImportsAdded:       summary.ImportsAdded,
		Unresolved:         summary.Unresolved,
	})
	if err != nil {
		slog.Warn("failed to record run", "error", err)
	}
}

func (a *App) mode() string {
	switch {
	case a.Config.Modes.ExportsOnly:
		return "exports-only"
	case a.write:
		return "write"
	default:
		return "dry-run"
	}
}

func (a *App) PrintSummary(summary Summary) {
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Scanned %d files in %v\n", summary.FilesScanned, summary.Duration.Round(time.Millisecond))
	fmt.Printf("Call sites: %d (%d rewritten, %d dynamic)\n", summary.CallSites, summary.Rewritten, summary.Unresolved)
	fmt.Printf("Imports added: %d\n", summary.ImportsAdded)

	if len(summary.Changed) > 0 {
		verb := "Would rewrite"
		if a.write {
			verb = "Rewrote"
		}
		fmt.Printf("%s %d files:\n", verb, len(summary.Changed))
		for _, change := range summary.Changed {
			fmt.Printf("   %s (%d call sites, %d imports)\n", change.Path, change.CallSites, change.Imports)
		}
	} else {
		fmt.Println("No files needed changes.")
	}

	if summary.Errors > 0 {
		fmt.Printf("Errors: %d (see log)\n", summary.Errors)
	}
	fmt.Println(strings.Repeat("-", 40))
}

func (a *App) StartWatcher() error {
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		a.HandleChanges,
	)
	if err != nil {
		return err
	}
	// Note: We don't close here, it should run forever
	return w.Watch(a.Config.Paths)
}

func (a *App) RunUI(initial Summary) error {
	m := initialModel(a.write)
	p := tea.NewProgram(m, tea.WithAltScreen())
	a.teaProgram = p

	go func() {
		a.teaProgram.Send(updateMsg{summary: initial})
	}()

	_, err := p.Run()
	return err
}

func firstPath(paths []string) string {
	if len(paths) == 0 {
		return "."
	}
	return paths[0]
}
