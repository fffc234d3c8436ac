package events

import "time"

// ResolveStart is emitted when a top-level load call begins.
type ResolveStart struct {
	Pointers []string
}

// ResolveFinish is emitted when a top-level load call ends.
type ResolveFinish struct {
	Sources  int
	Err      error
	Duration time.Duration
}

// SourceCollected is emitted when a pointer resolves to a source.
type SourceCollected struct {
	Pointer  string
	Location string
	Cached   bool
}

// GlobExpanded is emitted after deferred glob patterns expand to paths.
type GlobExpanded struct {
	Patterns []string
	Matches  int
}

// ImportFollowed is emitted when an import directive leads into a file for
// the first time.
type ImportFollowed struct {
	From    string
	To      string
	Imports []string
}
