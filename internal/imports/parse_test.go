package imports

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseImportLine(t *testing.T) {
	for _, tc := range []struct {
		name string
		line string
		want RawModule
	}{
		{
			name: "wildcard",
			line: `import * from "a.graphql"`,
			want: RawModule{Imports: []string{"*"}, From: "a.graphql"},
		},
		{
			name: "bare path is wildcard",
			line: `import "x.graphql"`,
			want: RawModule{Imports: []string{"*"}, From: "x.graphql"},
		},
		{
			name: "single type",
			line: `import A from "a.graphql"`,
			want: RawModule{Imports: []string{"A"}, From: "a.graphql"},
		},
		{
			name: "type list with fields",
			line: `import A, B.c from "x.graphql"`,
			want: RawModule{Imports: []string{"A", "B.c"}, From: "x.graphql"},
		},
		{
			name: "extra whitespace",
			line: `import  A ,  B.c  from  "x.graphql"`,
			want: RawModule{Imports: []string{"A", "B.c"}, From: "x.graphql"},
		},
		{
			name: "single quotes",
			line: `import A from 'a.graphql'`,
			want: RawModule{Imports: []string{"A"}, From: "a.graphql"},
		},
		{
			name: "trailing semicolon",
			line: `import A from "a.graphql";`,
			want: RawModule{Imports: []string{"A"}, From: "a.graphql"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseImportLine(tc.line)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("RawModule mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseImportLine_RenderRoundTrip(t *testing.T) {
	for _, m := range []RawModule{
		{Imports: []string{"A", "B.c"}, From: "x.graphql"},
		{Imports: []string{"*"}, From: "x.graphql"},
		{Imports: []string{"Post.title", "Post.author"}, From: "../posts.graphql"},
	} {
		got, err := ParseImportLine(m.Render()[len("# "):])
		require.NoError(t, err)
		require.True(t, m.Equal(got), "round trip of %v gave %v", m, got)
	}
}

func TestParseImportLine_Invalid(t *testing.T) {
	for _, line := range []string{
		"",
		"import",
		"import from \"a.graphql\"",
		"import A from a.graphql",
		"import A, from \"a.graphql\"",
		"importing A from \"a.graphql\"",
		"import A of \"a.graphql\"",
	} {
		_, err := ParseImportLine(line)
		require.Error(t, err, "line %q", line)
		require.Contains(t, err.Error(), "invalid import line")
	}
}

func TestScanSDL(t *testing.T) {
	sdl := `
# import A from "a.graphql"
#import B.x, B.y from 'b.graphql'

# a plain comment, not an import
type Query {
  a: A
}
`
	got, err := ScanSDL(sdl)
	require.NoError(t, err)
	want := []RawModule{
		{Imports: []string{"A"}, From: "a.graphql"},
		{Imports: []string{"B.x", "B.y"}, From: "b.graphql"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("modules mismatch (-want +got):\n%s", diff)
	}
}

func TestScanSDL_BadLine(t *testing.T) {
	_, err := ScanSDL("# import broken from a.graphql\n")
	require.Error(t, err)
}

func TestHasImports(t *testing.T) {
	require.True(t, HasImports(`# import A from "a.graphql"`))
	require.True(t, HasImports("type Query { a: String }\n  #import \"b.graphql\""))
	require.False(t, HasImports("# importance of comments\ntype Query { a: String }"))
}

func TestIsEmptySDL(t *testing.T) {
	require.True(t, IsEmptySDL(""))
	require.True(t, IsEmptySDL("   \n# comment\n"))
	require.True(t, IsEmptySDL("\n\t\n# import A from \"a.graphql\"\n"))
	require.False(t, IsEmptySDL("type Query { a: String }"))
	require.False(t, IsEmptySDL("# comment\nscalar Date\n"))
}
