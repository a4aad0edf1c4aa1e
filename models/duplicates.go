package models

// DuplicateGroup is a cluster of two or more quotes sharing the same
// normalized text|author key. Groups are recomputed on demand from the
// currently loaded quote set and are never persisted.
type DuplicateGroup struct {
	// Key is the shared normalized key (see [Quote.NormalizedKey]).
	Key string

	// Members holds the clustered quotes sorted by creation time, oldest
	// first. Always at least two entries.
	Members []Quote
}
