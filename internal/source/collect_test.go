package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, sdl := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(sdl), 0o644))
	}
	return dir
}

func locations(sources []*Source) []string {
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		out = append(out, s.Location)
	}
	return out
}

func TestCollect_LiteralSDL(t *testing.T) {
	sdl := `type Query { hello: String }`
	sources, err := CollectSync(context.Background(), NewPointerMap(sdl), nil)
	require.NoError(t, err)
	require.Len(t, sources, 1)

	src := sources[0]
	require.True(t, strings.HasSuffix(src.Location, ".graphql"))
	require.Equal(t, sdl, src.RawSDL)
	require.Len(t, src.Document.Definitions, 1)
	require.Equal(t, "Query", src.Document.Definitions[0].Name())
}

func TestCollect_LiteralSDLCached(t *testing.T) {
	sdl := `type Query { hello: String }`
	opts := &Options{Cache: make(map[string]*Source)}

	first, err := CollectSync(context.Background(), NewPointerMap(sdl), opts)
	require.NoError(t, err)
	second, err := CollectSync(context.Background(), NewPointerMap(sdl), opts)
	require.NoError(t, err)
	require.Same(t, first[0], second[0], "cache hit returns the stored source")
}

func TestCollect_Glob(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.graphql": `type A { b: B }`,
		"b.graphql": `type B { id: ID }`,
		"c.txt":     `not a schema`,
	})
	sources, err := CollectSync(context.Background(), NewPointerMap("*.graphql"), &Options{CWD: dir})
	require.NoError(t, err, "files without import directives stay independent, no closure runs")
	require.Len(t, sources, 2)
	require.Equal(t, []string{
		filepath.Join(dir, "a.graphql"),
		filepath.Join(dir, "b.graphql"),
	}, locations(sources), "sources come back sorted by location")
}

func TestCollect_GlobIgnore(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.graphql":          `type A { x: Int }`,
		"skip/b.graphql":     `type B { y: Int }`,
		"skip/sub/c.graphql": `type C { z: Int }`,
	})
	sources, err := CollectSync(context.Background(), NewPointerMap("**/*.graphql"), &Options{
		CWD:    dir,
		Ignore: []string{"skip/**"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.graphql")}, locations(sources))
}

func TestCollect_FilePointer(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"schema.graphql": `type Query { hello: String }`,
	})
	sources, err := CollectSync(context.Background(), NewPointerMap("schema.graphql"), &Options{CWD: dir})
	require.NoError(t, err)
	require.Len(t, sources, 1)
	require.Equal(t, filepath.Join(dir, "schema.graphql"), sources[0].Location)
}

func TestCollect_CustomLoaderByName(t *testing.T) {
	ptrs := NewPointerMap()
	ptrs.Add("remote://schema", PointerOptions{Loader: "remote"})

	opts := &Options{
		CustomLoaders: map[string]CustomLoader{
			"remote": func(ctx context.Context, pointer string, _ PointerOptions) (*Source, error) {
				return &Source{RawSDL: `type Remote { id: ID! }`}, nil
			},
		},
	}
	sources, err := CollectSync(context.Background(), ptrs, opts)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	require.Equal(t, "remote://schema", sources[0].Location, "pointer becomes the location when the loader sets none")
	require.Equal(t, "Remote", sources[0].Document.Definitions[0].Name())
}

func TestCollect_CustomLoaderNilDropsPointer(t *testing.T) {
	ptrs := NewPointerMap()
	ptrs.Add("maybe://schema", PointerOptions{
		LoaderFn: func(ctx context.Context, pointer string, _ PointerOptions) (*Source, error) {
			return nil, nil
		},
	})
	_, err := CollectSync(context.Background(), ptrs, nil)
	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	require.Equal(t, []string{"maybe://schema"}, notFound.Pointers)
}

func TestCollect_CustomLoaderError(t *testing.T) {
	ptrs := NewPointerMap()
	ptrs.Add("boom://schema", PointerOptions{
		LoaderFn: func(ctx context.Context, pointer string, _ PointerOptions) (*Source, error) {
			return nil, fmt.Errorf("backend unavailable")
		},
	})
	_, err := CollectSync(context.Background(), ptrs, nil)
	require.ErrorContains(t, err, "backend unavailable")
}

func TestCollect_UnknownCustomLoader(t *testing.T) {
	ptrs := NewPointerMap()
	ptrs.Add("x", PointerOptions{Loader: "nope"})
	_, err := CollectSync(context.Background(), ptrs, nil)
	require.ErrorContains(t, err, `unknown custom loader "nope"`)
}

func TestCollect_MapLoader(t *testing.T) {
	opts := &Options{
		Loaders: []Loader{MapLoader{
			"mem/schema": `type Query { hello: String }`,
		}},
	}
	sources, err := CollectSync(context.Background(), NewPointerMap("mem/schema"), opts)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	require.Equal(t, "mem/schema", sources[0].Location)
}

func TestCollect_NothingResolves(t *testing.T) {
	_, err := CollectSync(context.Background(), NewPointerMap("missing.graphql", "also-missing.graphql"), &Options{CWD: t.TempDir()})
	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	require.Equal(t, []string{"missing.graphql", "also-missing.graphql"}, notFound.Pointers)
	require.Contains(t, err.Error(), "unable to find any GraphQL type definitions for pointers")
}

func TestCollect_AsyncMatchesSync(t *testing.T) {
	files := make(map[string]string, 8)
	for i := 0; i < 8; i++ {
		files[fmt.Sprintf("t%d.graphql", i)] = fmt.Sprintf("type T%d { x: Int }", i)
	}
	dir := writeFiles(t, files)
	ptrs := func() *PointerMap { return NewPointerMap("*.graphql") }

	syncSources, err := CollectSync(context.Background(), ptrs(), &Options{CWD: dir})
	require.NoError(t, err)
	asyncSources, err := Collect(context.Background(), ptrs(), &Options{CWD: dir, Concurrency: 3})
	require.NoError(t, err)
	require.Equal(t, locations(syncSources), locations(asyncSources))
}

func TestCollect_FilterKinds(t *testing.T) {
	sdl := `
type Query { hello: String }
scalar DateTime
`
	sources, err := CollectSync(context.Background(), NewPointerMap(sdl), &Options{
		FilterKinds: []string{"SCALAR"},
	})
	require.NoError(t, err)
	require.Len(t, sources[0].Document.Definitions, 1)
	require.Equal(t, "Query", sources[0].Document.Definitions[0].Name())
}

func TestCollect_ImportDirectiveResolved(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"schema.graphql": `# import Post from "posts.graphql"
type Query { posts: [Post] }
`,
		"posts.graphql": `type Post { id: ID! }
type Hidden { x: Int }
`,
	})
	sources, err := CollectSync(context.Background(), NewPointerMap("schema.graphql"), &Options{CWD: dir})
	require.NoError(t, err)
	require.Len(t, sources, 1)

	var got []string
	for _, d := range sources[0].Document.Definitions {
		got = append(got, d.Name())
	}
	require.ElementsMatch(t, []string{"Query", "Post"}, got)
}

func TestCollect_SkipGraphQLImport(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"schema.graphql": `# import Post from "posts.graphql"
type Query { posts: [Post] }
`,
		"posts.graphql": `type Post { id: ID! }`,
	})
	sources, err := CollectSync(context.Background(), NewPointerMap("schema.graphql"), &Options{
		CWD:               dir,
		SkipGraphQLImport: true,
	})
	require.NoError(t, err)
	require.Len(t, sources[0].Document.Definitions, 1, "import directive left unprocessed")
}

func TestLooksLikeSDL(t *testing.T) {
	cases := []struct {
		pointer string
		want    bool
	}{
		{`type Query { hello: String }`, true},
		{"# comment\nscalar DateTime", true},
		{`{ hello }`, true},
		{`fragment F on Query { hello }`, true},
		{`schema.graphql`, false},
		{`./dir/schema.graphql`, false},
		{`typedefs.graphql`, false},
		{``, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, looksLikeSDL(tc.pointer), "pointer %q", tc.pointer)
	}
}

func TestIsGlobPattern(t *testing.T) {
	require.True(t, isGlobPattern("src/**/*.graphql"))
	require.True(t, isGlobPattern("a?.graphql"))
	require.True(t, isGlobPattern("{a,b}.graphql"))
	require.False(t, isGlobPattern("schema.graphql"))
	require.False(t, isGlobPattern("type Query { hello: String }"))
}
