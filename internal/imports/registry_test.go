package imports

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryApply(t *testing.T) {
	r := NewRegistry()
	star := RawModule{Imports: []string{"*"}, From: "a.graphql"}
	scoped := RawModule{Imports: []string{"A.x"}, From: "a.graphql"}

	require.True(t, r.Apply("a.graphql", star))
	require.False(t, r.Apply("a.graphql", star), "identical pair must be a no-op")

	// A different import line against the same file applies once more.
	require.True(t, r.Apply("a.graphql", scoped))
	require.False(t, r.Apply("a.graphql", scoped))

	// Same module against another file is independent.
	require.True(t, r.Apply("b.graphql", star))
}

func TestRegistrySeed(t *testing.T) {
	r := NewRegistry()
	m := RawModule{Imports: []string{"*"}, From: "a.graphql"}
	r.Seed("a.graphql", m)
	require.False(t, r.Apply("a.graphql", m))
}
