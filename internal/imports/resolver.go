package imports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	eventbus "github.com/gqlkit/typedefs/internal/eventbus"
	events "github.com/gqlkit/typedefs/internal/events"
	language "github.com/gqlkit/typedefs/internal/language"
	pool "github.com/gqlkit/typedefs/internal/pool"
)

// Resolver follows import directives across files and produces the closed
// definition set for one root source. A Resolver is built fresh per
// top-level load call and holds all mutable resolution state.
type Resolver struct {
	// Registry guards against revisiting identical (file, import line)
	// pairs. Nil means a fresh registry.
	Registry *Registry

	// ReadFile reads an imported file. Defaults to os.ReadFile.
	ReadFile func(path string) (string, error)

	// FileExists reports whether a relative import candidate resolves.
	// Defaults to an os.Stat check. Override together with ReadFile when
	// resolving against an in-memory corpus.
	FileExists func(path string) bool

	// ResolveModule resolves a package-style import path that did not
	// resolve relative to the importing file.
	ResolveModule func(from string) (string, error)

	// Sort orders merged field lists with FieldOrder.
	Sort bool

	// FieldOrder compares fields during filtering and merge. Nil means
	// lexicographic by field name.
	FieldOrder func(a, b *language.FieldDefinition) int

	// Async reads sibling imports concurrently. Filtering and merging stay
	// sequential in file order, so both modes observe identical results.
	Async bool

	typeDefs [][]pool.Definition // filtered, one entry per visited file
	allDefs  [][]pool.Definition // unfiltered, lookup only
}

// Resolve walks the import graph rooted at the given source and returns
// the structurally closed definition list for it.
func (r *Resolver) Resolve(ctx context.Context, location string, doc *pool.Document, rawSDL string) ([]pool.Definition, error) {
	if r.Registry == nil {
		r.Registry = NewRegistry()
	}
	if r.ReadFile == nil {
		r.ReadFile = func(path string) (string, error) {
			b, err := os.ReadFile(path)
			if err != nil {
				return "", err
			}
			return string(b), nil
		}
	}
	if r.FileExists == nil {
		r.FileExists = func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		}
	}
	r.typeDefs = nil
	r.allDefs = nil

	if err := r.collect(ctx, []string{"*"}, location, doc, rawSDL); err != nil {
		return nil, err
	}
	return r.mergeAndClose()
}

// collect visits one file: records its definitions, filters them down to
// the requested imports, and recurses into each new import line.
func (r *Resolver) collect(ctx context.Context, imported []string, location string, doc *pool.Document, rawSDL string) error {
	r.allDefs = append(r.allDefs, doc.Definitions)
	r.typeDefs = append(r.typeDefs, r.filterImported(imported, doc.Definitions))

	modules, err := ScanSDL(rawSDL)
	if err != nil {
		return fmt.Errorf("%s: %w", location, err)
	}
	if len(modules) == 0 {
		return nil
	}

	type child struct {
		module RawModule
		path   string
		raw    string
		doc    *pool.Document
		err    error
	}
	children := make([]*child, len(modules))
	for i, m := range modules {
		path, err := r.resolvePath(location, m.From)
		if err != nil {
			return err
		}
		children[i] = &child{module: m, path: path}
	}

	// Prefetch file contents up front. Reads are idempotent, so fetching a
	// file whose import pair turns out to be already applied is harmless.
	load := func(c *child) {
		c.raw, c.err = r.ReadFile(c.path)
		if c.err != nil {
			c.err = fmt.Errorf("cannot import %q from %q: %w", c.module.From, location, c.err)
			return
		}
		if IsEmptySDL(c.raw) {
			c.doc = &pool.Document{}
			return
		}
		c.doc, c.err = pool.Parse(c.path, c.raw)
	}
	if r.Async && len(children) > 1 {
		g, _ := errgroup.WithContext(ctx)
		for _, c := range children {
			g.Go(func() error {
				load(c)
				return nil
			})
		}
		g.Wait()
	} else {
		for _, c := range children {
			load(c)
		}
	}

	// Apply import pairs strictly in file order. A pair already applied,
	// whether by an earlier sibling or deeper in its subtree, is skipped.
	for _, c := range children {
		if !r.Registry.Apply(c.path, c.module) {
			continue
		}
		if c.err != nil {
			return c.err
		}
		eventbus.Publish(ctx, events.ImportFollowed{
			From:    location,
			To:      c.path,
			Imports: c.module.Imports,
		})
		if err := r.collect(ctx, c.module.Imports, c.path, c.doc, c.raw); err != nil {
			return err
		}
	}
	return nil
}

// resolvePath turns an import target into a concrete path. Targets are
// tried relative to the importing file first, when both ends look like
// GraphQL files; a missing relative path falls back to the module
// resolver, and anything else is used as-is.
func (r *Resolver) resolvePath(importer, from string) (string, error) {
	if isGraphQLFile(importer) && isGraphQLFile(from) {
		candidate := filepath.Join(filepath.Dir(importer), from)
		if r.FileExists(candidate) {
			return candidate, nil
		}
		if r.ResolveModule != nil {
			return r.ResolveModule(from)
		}
		return candidate, nil
	}
	if r.ResolveModule != nil {
		return r.ResolveModule(from)
	}
	return from, nil
}

func isGraphQLFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".graphql", ".graphqls", ".gql":
		return true
	}
	return false
}

// filterImported restricts one file's definitions to the requested import
// tokens.
func (r *Resolver) filterImported(imported []string, defs []pool.Definition) []pool.Definition {
	wildcard := false
	for _, tok := range imported {
		if tok == "*" {
			wildcard = true
			break
		}
	}
	if wildcard {
		// A lone wildcard on a non-root file pulls in only the object
		// types some earlier file already named. This matches how root
		// operation types re-import their field types; keep the behavior
		// as-is even though it reads oddly general.
		if len(imported) == 1 && len(r.allDefs) > 1 {
			previous := make(map[string]bool)
			for _, file := range r.allDefs[:len(r.allDefs)-1] {
				for _, d := range file {
					if name := d.Name(); name != "" {
						previous[name] = true
					}
				}
			}
			var out []pool.Definition
			for _, d := range defs {
				if d.Type != nil && d.Type.Kind == language.Object && previous[d.Name()] {
					out = append(out, d)
				}
			}
			return out
		}
		return defs
	}

	typeNames := make(map[string]bool, len(imported))
	fieldsByType := make(map[string][]string)
	for _, tok := range imported {
		name, field, scoped := strings.Cut(tok, ".")
		typeNames[name] = true
		if scoped {
			fieldsByType[name] = append(fieldsByType[name], field)
		}
	}

	var out []pool.Definition
	for _, d := range defs {
		name := d.Name()
		if !typeNames[name] {
			continue
		}
		if fields, ok := fieldsByType[name]; ok && d.Fields() != nil {
			kept := d.Fields()
			if !containsString(fields, "*") {
				kept = filterFields(kept, fields)
			}
			if r.Sort {
				kept = append(language.FieldList(nil), kept...)
				r.sortFields(kept)
			}
			d = d.WithFields(kept)
		}
		out = append(out, d)
	}
	return out
}

func filterFields(fields language.FieldList, names []string) language.FieldList {
	var kept language.FieldList
	for _, f := range fields {
		if containsString(names, f.Name) {
			kept = append(kept, f)
		}
	}
	return kept
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (r *Resolver) sortFields(fields language.FieldList) {
	order := r.FieldOrder
	if order == nil {
		order = func(a, b *language.FieldDefinition) int {
			return strings.Compare(a.Name, b.Name)
		}
	}
	sort.SliceStable(fields, func(i, j int) bool {
		return order(fields[i], fields[j]) < 0
	})
}

// mergeAndClose merges all filtered per-file definition lists and closes
// the result over everything it references. The root file's definitions
// lead the concatenation twice so they win identity conflicts.
func (r *Resolver) mergeAndClose() ([]pool.Definition, error) {
	if len(r.typeDefs) == 0 {
		return nil, nil
	}

	var flatFiltered []pool.Definition
	for _, file := range r.typeDefs {
		flatFiltered = append(flatFiltered, file...)
	}
	ordered := make([]pool.Definition, 0, len(r.typeDefs[0])+len(flatFiltered))
	ordered = append(ordered, r.typeDefs[0]...)
	ordered = append(ordered, flatFiltered...)
	merged := r.mergeByIdentity(ordered)

	var flatAll []pool.Definition
	for _, file := range r.allDefs {
		flatAll = append(flatAll, file...)
	}
	return pool.Complete(flatAll, merged, flatFiltered)
}

// mergeByIdentity deduplicates by identity keeping the first occurrence.
// When a duplicate carries fields, the field lists are unioned by field
// name, first-seen field kept.
func (r *Resolver) mergeByIdentity(defs []pool.Definition) []pool.Definition {
	index := make(map[string]int, len(defs))
	var out []pool.Definition
	for _, d := range defs {
		name := d.Name()
		if name == "" {
			out = append(out, d)
			continue
		}
		at, seen := index[name]
		if !seen {
			index[name] = len(out)
			out = append(out, d)
			continue
		}
		existing := out[at]
		if existing.Fields() == nil || d.Fields() == nil {
			continue
		}
		union := append(language.FieldList(nil), existing.Fields()...)
		for _, f := range d.Fields() {
			if union.ForName(f.Name) == nil {
				union = append(union, f)
			}
		}
		if r.Sort {
			r.sortFields(union)
		}
		out[at] = existing.WithFields(union)
	}
	return out
}
