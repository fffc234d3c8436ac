package source

import (
	"log/slog"
	"path/filepath"

	imports "github.com/gqlkit/typedefs/internal/imports"
	language "github.com/gqlkit/typedefs/internal/language"
)

// DefaultConcurrency bounds the number of pointers resolved at once in the
// asynchronous model.
const DefaultConcurrency = 50

// Options is the configuration surface for one load call.
type Options struct {
	// Cache maps pointers to already-resolved sources. Callers may seed it
	// and reuse it across calls.
	Cache map[string]*Source

	// CWD anchors relative pointers, globs and module resolution. Empty
	// means the process working directory.
	CWD string

	// NoSort disables the final sort of sources by location and the
	// sorting of merged field lists.
	NoSort bool

	// Ignore lists glob patterns excluded from glob expansion.
	Ignore []string

	// Loaders is the ordered fallback loader chain. Empty means a single
	// FileLoader.
	Loaders []Loader

	// CustomLoaders resolves PointerOptions.Loader names.
	CustomLoaders map[string]CustomLoader

	// FilterKinds is a definition-kind denylist applied to each parsed
	// document before import resolution.
	FilterKinds []string

	// SkipGraphQLImport disables import-directive processing entirely;
	// ForceGraphQLImport runs it even when no directive is detected.
	SkipGraphQLImport  bool
	ForceGraphQLImport bool

	// ProcessedFiles is the cycle registry shared by every import
	// resolution in this call. Callers may seed it to exclude files.
	ProcessedFiles *imports.Registry

	// Concurrency bounds the asynchronous model. Zero means
	// DefaultConcurrency.
	Concurrency int

	// ModuleResolver resolves package-style import paths. Nil means
	// CWD-relative.
	ModuleResolver func(from string) (string, error)

	// FieldOrder compares fields when sorting. Nil means lexicographic by
	// name.
	FieldOrder func(a, b *language.FieldDefinition) int

	// ReadFile and FileExists override filesystem access during import
	// resolution, for in-memory corpora.
	ReadFile   func(path string) (string, error)
	FileExists func(path string) bool

	// Logger receives loader failures and progress. Nil means
	// slog.Default().
	Logger *slog.Logger
}

// WithDefaults returns a copy with unset fields filled in. The cache and
// registry are allocated if absent so they can be shared across the call.
func (o *Options) WithDefaults() *Options {
	out := Options{}
	if o != nil {
		out = *o
	}
	if out.Cache == nil {
		out.Cache = make(map[string]*Source)
	}
	if len(out.Loaders) == 0 {
		out.Loaders = []Loader{&FileLoader{CWD: out.CWD}}
	}
	if out.ProcessedFiles == nil {
		out.ProcessedFiles = imports.NewRegistry()
	}
	if out.Concurrency <= 0 {
		out.Concurrency = DefaultConcurrency
	}
	if out.ModuleResolver == nil {
		cwd := out.CWD
		out.ModuleResolver = func(from string) (string, error) {
			if filepath.IsAbs(from) || cwd == "" {
				return from, nil
			}
			return filepath.Join(cwd, from), nil
		}
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return &out
}

// Sort reports whether final sources and merged field lists are sorted.
func (o *Options) Sort() bool { return !o.NoSort }
