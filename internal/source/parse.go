package source

import (
	"context"
	"fmt"
	"strings"

	imports "github.com/gqlkit/typedefs/internal/imports"
	language "github.com/gqlkit/typedefs/internal/language"
	pool "github.com/gqlkit/typedefs/internal/pool"
)

// parse runs the per-source pipeline: normalize a schema-shaped result
// into SDL text, parse the text, apply the kind filter, re-derive SDL when
// absent, and resolve import directives when present or forced.
func (c *collector) parse(ctx context.Context, src *Source) error {
	if src.Schema != nil && src.RawSDL == "" {
		var b strings.Builder
		language.FormatSchema(&b, src.Schema)
		src.RawSDL = b.String()
	}
	if src.Document == nil && !imports.IsEmptySDL(src.RawSDL) {
		doc, err := pool.Parse(src.Location, src.RawSDL)
		if err != nil {
			return fmt.Errorf("parse %s: %w", src.Location, err)
		}
		src.Document = doc
	}
	if src.Document != nil {
		src.Document.FilterKinds(c.opts.FilterKinds)
	}
	if src.RawSDL == "" && src.Document != nil {
		src.RawSDL = src.Document.Print()
	}

	if c.opts.SkipGraphQLImport {
		return nil
	}
	if !c.opts.ForceGraphQLImport && !imports.HasImports(src.RawSDL) {
		return nil
	}

	doc := src.Document
	if doc == nil {
		doc = &pool.Document{}
	}
	resolver := &imports.Resolver{
		Registry:      c.opts.ProcessedFiles,
		ReadFile:      c.opts.ReadFile,
		FileExists:    c.opts.FileExists,
		ResolveModule: c.opts.ModuleResolver,
		Sort:          c.opts.Sort(),
		FieldOrder:    c.opts.FieldOrder,
		Async:         c.async,
	}
	defs, err := resolver.Resolve(ctx, src.Location, doc, src.RawSDL)
	if err != nil {
		return err
	}
	src.Document = &pool.Document{Definitions: defs}
	return nil
}
