package source

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	eventbus "github.com/gqlkit/typedefs/internal/eventbus"
	events "github.com/gqlkit/typedefs/internal/events"
)

// NotFoundError reports a load call that produced no sources at all.
type NotFoundError struct {
	Pointers []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unable to find any GraphQL type definitions for pointers: %s", strings.Join(e.Pointers, ", "))
}

// Collect resolves every pointer into sources using the asynchronous
// model: pointer work runs on a bounded worker pool.
func Collect(ctx context.Context, ptrs *PointerMap, opts *Options) ([]*Source, error) {
	return collect(ctx, ptrs, opts, true)
}

// CollectSync performs the same resolution with no concurrency.
func CollectSync(ctx context.Context, ptrs *PointerMap, opts *Options) ([]*Source, error) {
	return collect(ctx, ptrs, opts, false)
}

func collect(ctx context.Context, ptrs *PointerMap, opts *Options, async bool) ([]*Source, error) {
	opts = opts.WithDefaults()
	c := &collector{opts: opts, async: async}

	// First pass: every pointer through the full strategy chain. Globs are
	// deferred, everything else resolves now.
	tasks := make([]func(context.Context) error, 0, ptrs.Len())
	for _, pointer := range ptrs.Pointers() {
		popts := ptrs.Options(pointer)
		tasks = append(tasks, func(ctx context.Context) error {
			return c.dispatch(ctx, pointerStrategies, pointer, popts)
		})
	}
	if err := c.run(ctx, tasks); err != nil {
		return nil, err
	}

	// Second pass: expand the deferred globs once and run each match
	// through the loader strategies only.
	if len(c.globs) > 0 {
		paths, err := c.expandGlobs(ctx)
		if err != nil {
			return nil, err
		}
		tasks = tasks[:0]
		for _, path := range paths {
			tasks = append(tasks, func(ctx context.Context) error {
				return c.dispatch(ctx, globStrategies, path, c.globOpts)
			})
		}
		if err := c.run(ctx, tasks); err != nil {
			return nil, err
		}
	}

	if len(c.sources) == 0 {
		return nil, &NotFoundError{Pointers: ptrs.Pointers()}
	}
	if opts.Sort() {
		sortSourcesByLocation(c.sources)
	}
	return c.sources, nil
}

type collector struct {
	opts  *Options
	async bool

	mu       sync.Mutex
	sources  []*Source
	globs    []string
	globOpts PointerOptions
}

// run executes tasks on the bounded pool in async mode, or inline in sync
// mode.
func (c *collector) run(ctx context.Context, tasks []func(context.Context) error) error {
	if !c.async {
		for _, task := range tasks {
			if err := task(ctx); err != nil {
				return err
			}
		}
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)
	for _, task := range tasks {
		g.Go(func() error { return task(gctx) })
	}
	return g.Wait()
}

// strategy attempts to resolve one pointer. Handled means the chain stops,
// whether or not a source was added.
type strategy interface {
	attempt(ctx context.Context, c *collector, pointer string, opts PointerOptions) (handled bool, err error)
}

var pointerStrategies = []strategy{literalStrategy{}, globStrategy{}, customLoaderStrategy{}, fallbackStrategy{}}

// Glob matches never require further glob expansion.
var globStrategies = []strategy{customLoaderStrategy{}, fallbackStrategy{}}

func (c *collector) dispatch(ctx context.Context, chain []strategy, pointer string, popts PointerOptions) error {
	if src := c.cached(pointer); src != nil {
		c.add(ctx, pointer, src, true)
		return nil
	}
	for _, s := range chain {
		handled, err := s.attempt(ctx, c, pointer, popts)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}
	return nil
}

func (c *collector) cached(key string) *Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts.Cache[key]
}

func (c *collector) store(key string, src *Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.opts.Cache[key]; !ok {
		c.opts.Cache[key] = src
	}
}

func (c *collector) add(ctx context.Context, pointer string, src *Source, cached bool) {
	c.mu.Lock()
	c.sources = append(c.sources, src)
	c.mu.Unlock()
	eventbus.Publish(ctx, events.SourceCollected{Pointer: pointer, Location: src.Location, Cached: cached})
}

// literalStrategy handles pointers that are SDL text themselves.
type literalStrategy struct{}

func (literalStrategy) attempt(ctx context.Context, c *collector, pointer string, _ PointerOptions) (bool, error) {
	if !looksLikeSDL(pointer) {
		return false, nil
	}
	key := literalCacheKey(pointer)
	if src := c.cached(key); src != nil {
		c.add(ctx, pointer, src, true)
		return true, nil
	}
	src := &Source{Location: key, RawSDL: pointer}
	if err := c.parse(ctx, src); err != nil {
		return false, err
	}
	c.store(key, src)
	c.add(ctx, pointer, src, false)
	return true, nil
}

// globStrategy defers glob pointers for the second pass.
type globStrategy struct{}

func (globStrategy) attempt(ctx context.Context, c *collector, pointer string, popts PointerOptions) (bool, error) {
	normalized := strings.ReplaceAll(pointer, `\`, "/")
	if !isGlobPattern(normalized) {
		return false, nil
	}
	c.mu.Lock()
	c.globs = append(c.globs, normalized)
	c.globOpts = c.globOpts.merge(popts)
	c.mu.Unlock()
	return true, nil
}

// customLoaderStrategy invokes a per-pointer loader override. Custom
// loader results are never cached.
type customLoaderStrategy struct{}

func (customLoaderStrategy) attempt(ctx context.Context, c *collector, pointer string, popts PointerOptions) (bool, error) {
	loader := popts.LoaderFn
	if loader == nil && popts.Loader != "" {
		var ok bool
		loader, ok = c.opts.CustomLoaders[popts.Loader]
		if !ok {
			return false, fmt.Errorf("pointer %q names unknown custom loader %q", pointer, popts.Loader)
		}
	}
	if loader == nil {
		return false, nil
	}
	src, err := loader(ctx, pointer, popts)
	if err != nil {
		c.opts.Logger.Error("custom loader failed", "pointer", pointer, "error", err)
		return false, err
	}
	if src == nil {
		// A custom loader with no result drops the pointer silently.
		return true, nil
	}
	if src.Location == "" {
		src.Location = pointer
	}
	if err := c.parse(ctx, src); err != nil {
		return false, err
	}
	c.add(ctx, pointer, src, false)
	return true, nil
}

// fallbackStrategy walks the ordered loader chain; the first loader that
// can load the pointer wins and the result is cached by pointer.
type fallbackStrategy struct{}

func (fallbackStrategy) attempt(ctx context.Context, c *collector, pointer string, _ PointerOptions) (bool, error) {
	for _, loader := range c.opts.Loaders {
		ok, err := loader.CanLoad(ctx, pointer)
		if err != nil {
			c.opts.Logger.Error("loader failed", "pointer", pointer, "error", err)
			return false, err
		}
		if !ok {
			continue
		}
		src, err := loader.Load(ctx, pointer)
		if err != nil {
			c.opts.Logger.Error("loader failed", "pointer", pointer, "error", err)
			return false, err
		}
		if src == nil {
			continue
		}
		if src.Location == "" {
			src.Location = pointer
		}
		if err := c.parse(ctx, src); err != nil {
			return false, err
		}
		c.store(pointer, src)
		c.add(ctx, pointer, src, false)
		return true, nil
	}
	return false, nil
}

// expandGlobs resolves every deferred pattern, honoring the ignore globs.
func (c *collector) expandGlobs(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range c.globs {
		matches, err := doublestar.FilepathGlob(c.anchor(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			paths = append(paths, m)
		}
	}
	kept := paths[:0]
	for _, p := range paths {
		ignored := false
		for _, ig := range c.opts.Ignore {
			ok, err := doublestar.PathMatch(c.anchor(strings.ReplaceAll(ig, `\`, "/")), p)
			if err != nil {
				return nil, fmt.Errorf("invalid ignore glob %q: %w", ig, err)
			}
			if ok {
				ignored = true
				break
			}
		}
		if !ignored {
			kept = append(kept, p)
		}
	}
	eventbus.Publish(ctx, events.GlobExpanded{Patterns: c.globs, Matches: len(kept)})
	return kept, nil
}

func (c *collector) anchor(pattern string) string {
	if filepath.IsAbs(pattern) || c.opts.CWD == "" {
		return pattern
	}
	return filepath.Join(c.opts.CWD, pattern)
}

func isGlobPattern(p string) bool {
	if strings.ContainsAny(p, "*?[") {
		return true
	}
	return strings.Contains(p, "{") && !strings.ContainsAny(p, " \t\n")
}

// looksLikeSDL reports whether the pointer's text is itself a document:
// its first meaningful line starts with a definition keyword or a
// selection set.
func looksLikeSDL(pointer string) bool {
	for _, line := range strings.Split(pointer, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "{") {
			return true
		}
		token := line
		if i := strings.IndexAny(line, " \t{(@"); i >= 0 {
			token = line[:i]
		}
		return sdlKeywords[token]
	}
	return false
}

var sdlKeywords = map[string]bool{
	"schema":       true,
	"type":         true,
	"interface":    true,
	"union":        true,
	"enum":         true,
	"scalar":       true,
	"input":        true,
	"directive":    true,
	"extend":       true,
	"query":        true,
	"mutation":     true,
	"subscription": true,
	"fragment":     true,
}

func sortSourcesByLocation(sources []*Source) {
	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Location < sources[j].Location
	})
}
