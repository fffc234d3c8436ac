package source

import "fmt"

// hash32 is a 32-bit rolling hash over the text, wrapping on overflow.
func hash32(s string) int32 {
	var h int32
	for _, r := range s {
		h = h*31 + int32(r)
	}
	return h
}

// literalCacheKey derives the synthetic cache key for a literal SDL
// pointer. The fixed suffix keeps literal entries from colliding with
// file-backed cache keys.
func literalCacheKey(sdl string) string {
	return fmt.Sprintf("%d.graphql", hash32(sdl))
}
