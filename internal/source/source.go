package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	language "github.com/gqlkit/typedefs/internal/language"
	pool "github.com/gqlkit/typedefs/internal/pool"
)

// Source is one resolved schema input: raw SDL text and/or a parsed
// document and/or a pre-built schema, tagged with a location. The parse
// pipeline mutates a Source in place; once returned to the caller it is
// treated as immutable.
type Source struct {
	Location string
	Document *pool.Document
	RawSDL   string
	Schema   *language.Schema
}

// Loader resolves pointers it recognizes into sources. Loaders are
// consulted in order; returning (false, nil) from CanLoad or (nil, nil)
// from Load means "not mine, try the next one". Loaders should return
// errors only for genuine failures.
type Loader interface {
	CanLoad(ctx context.Context, pointer string) (bool, error)
	Load(ctx context.Context, pointer string) (*Source, error)
}

// CustomLoader is a per-pointer override. It may return a partial Source
// (schema only, document only, or raw SDL only); returning (nil, nil)
// drops the pointer silently.
type CustomLoader func(ctx context.Context, pointer string, opts PointerOptions) (*Source, error)

// FileLoader loads GraphQL files from disk. It is the default fallback
// loader.
type FileLoader struct {
	// CWD anchors relative pointers. Empty means the process working
	// directory.
	CWD string
}

func (l *FileLoader) resolve(pointer string) string {
	if filepath.IsAbs(pointer) || l.CWD == "" {
		return pointer
	}
	return filepath.Join(l.CWD, pointer)
}

func (l *FileLoader) CanLoad(ctx context.Context, pointer string) (bool, error) {
	if !isGraphQLFile(pointer) {
		return false, nil
	}
	_, err := os.Stat(l.resolve(pointer))
	return err == nil, nil
}

func (l *FileLoader) Load(ctx context.Context, pointer string) (*Source, error) {
	path := l.resolve(pointer)
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Source{Location: path, RawSDL: string(b)}, nil
}

// MapLoader serves sources from an in-memory location → SDL mapping. It is
// intended for tests and embedders with generated schemas.
type MapLoader map[string]string

func (l MapLoader) CanLoad(ctx context.Context, pointer string) (bool, error) {
	_, ok := l[pointer]
	return ok, nil
}

func (l MapLoader) Load(ctx context.Context, pointer string) (*Source, error) {
	sdl, ok := l[pointer]
	if !ok {
		return nil, nil
	}
	return &Source{Location: pointer, RawSDL: sdl}, nil
}

func isGraphQLFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".graphql", ".graphqls", ".gql":
		return true
	}
	return false
}
