// Package typedefs resolves pointers — literal SDL strings, file globs,
// paths, or custom-loader keys — into a deduplicated, cross-referentially
// complete collection of GraphQL type-system definitions, honoring the
// SDL import directive:
//
//	# import Post, Author.name from "posts.graphql"
//
// Imported files may import further files; cycles are tolerated. The
// resulting definition set is closed over everything it references:
// interface implementations, referenced types and directives, union
// members and fragment spreads.
package typedefs

import (
	"context"
	"time"

	eventbus "github.com/gqlkit/typedefs/internal/eventbus"
	events "github.com/gqlkit/typedefs/internal/events"
	resolveid "github.com/gqlkit/typedefs/internal/resolveid"
	source "github.com/gqlkit/typedefs/internal/source"
)

// Load resolves pointers into sources using the asynchronous model:
// independent pointer work runs on a worker pool bounded by
// Options.Concurrency.
func Load(ctx context.Context, opts *Options, pointers ...string) ([]*Source, error) {
	return LoadMap(ctx, opts, source.NewPointerMap(pointers...))
}

// LoadMap is Load for pointers carrying per-pointer options.
func LoadMap(ctx context.Context, opts *Options, ptrs *PointerMap) ([]*Source, error) {
	return load(ctx, opts, ptrs, source.Collect)
}

// LoadSync resolves pointers with no concurrency, for callers that cannot
// tolerate background goroutines. Results are identical to Load.
func LoadSync(ctx context.Context, opts *Options, pointers ...string) ([]*Source, error) {
	return LoadMapSync(ctx, opts, source.NewPointerMap(pointers...))
}

// LoadMapSync is LoadSync for pointers carrying per-pointer options.
func LoadMapSync(ctx context.Context, opts *Options, ptrs *PointerMap) ([]*Source, error) {
	return load(ctx, opts, ptrs, source.CollectSync)
}

func load(ctx context.Context, opts *Options, ptrs *PointerMap, collect func(context.Context, *PointerMap, *Options) ([]*Source, error)) ([]*Source, error) {
	ctx, _ = resolveid.NewContext(ctx)
	eventbus.Publish(ctx, events.ResolveStart{Pointers: ptrs.Pointers()})
	started := time.Now()

	sources, err := collect(ctx, ptrs, opts)

	eventbus.Publish(ctx, events.ResolveFinish{
		Sources:  len(sources),
		Err:      err,
		Duration: time.Since(started),
	})
	return sources, err
}
