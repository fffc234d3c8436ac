package typedefs

import (
	imports "github.com/gqlkit/typedefs/internal/imports"
	pool "github.com/gqlkit/typedefs/internal/pool"
	source "github.com/gqlkit/typedefs/internal/source"
)

type (
	// Source is one resolved schema input.
	Source = source.Source
	// Options is the configuration surface for a load call.
	Options = source.Options
	// Loader is a fallback loader consulted in order.
	Loader = source.Loader
	// CustomLoader is a per-pointer loader override.
	CustomLoader = source.CustomLoader
	// FileLoader reads GraphQL files from disk.
	FileLoader = source.FileLoader
	// MapLoader serves SDL from memory.
	MapLoader = source.MapLoader
	// PointerOptions are per-pointer overrides.
	PointerOptions = source.PointerOptions
	// PointerMap is an insertion-ordered pointer mapping.
	PointerMap = source.PointerMap
	// NotFoundError reports a call that matched no sources.
	NotFoundError = source.NotFoundError

	// RawModule is one parsed import line.
	RawModule = imports.RawModule
	// Registry tracks applied (file, import line) pairs; seed it to
	// exclude files from resolution.
	Registry = imports.Registry

	// Document is the ordered definition list of one source.
	Document = pool.Document
	// Definition is a single named definition of any kind.
	Definition = pool.Definition
	// MissingDefinitionError reports a broken reference found during
	// closure.
	MissingDefinitionError = pool.MissingDefinitionError
)

// Definition kind names, usable in Options.FilterKinds.
const (
	KindObject      = pool.KindObject
	KindInterface   = pool.KindInterface
	KindUnion       = pool.KindUnion
	KindScalar      = pool.KindScalar
	KindEnum        = pool.KindEnum
	KindInputObject = pool.KindInputObject
	KindSchema      = pool.KindSchema
	KindDirective   = pool.KindDirective
	KindOperation   = pool.KindOperation
	KindFragment    = pool.KindFragment
)

// NewPointerMap builds a pointer map from bare pointers.
func NewPointerMap(pointers ...string) *PointerMap {
	return source.NewPointerMap(pointers...)
}

// NewRegistry returns an empty processed-files registry.
func NewRegistry() *Registry {
	return imports.NewRegistry()
}

// ParseImportLine parses one import statement, without its comment marker.
func ParseImportLine(line string) (RawModule, error) {
	return imports.ParseImportLine(line)
}

// ScanSDL extracts all import lines from SDL text in file order.
func ScanSDL(sdl string) ([]RawModule, error) {
	return imports.ScanSDL(sdl)
}

// IsEmptySDL reports whether SDL text holds only blank and comment lines.
func IsEmptySDL(sdl string) bool {
	return imports.IsEmptySDL(sdl)
}

// MergeDocuments concatenates the sources' definitions into one document,
// dropping later duplicates by identity.
func MergeDocuments(sources []*Source) *Document {
	var defs []Definition
	for _, src := range sources {
		if src.Document == nil {
			continue
		}
		defs = append(defs, src.Document.Definitions...)
	}
	return &Document{Definitions: pool.Dedupe(defs)}
}

// PrintSDL renders the sources back to a single SDL text.
func PrintSDL(sources []*Source) string {
	return MergeDocuments(sources).Print()
}
