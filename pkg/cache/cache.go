// Package cache remembers which files are already canonical so repeat
// runs can skip parsing and rendering them.
//
// The cache stores fingerprints, not content: a fingerprint covers the
// file bytes, the effective configuration, and the tool version, so a
// hit guarantees the file would come back unchanged. Entries never
// expire; a change to any fingerprint input produces a different key.
package cache

import "context"

// Store is the fingerprint store shared by the CLI and the daemon.
//
// Implementations batch writes: Store marks a fingerprint in memory and
// Flush persists the accumulated state once, at the end of a run.
type Store interface {
	// Lookup reports whether fingerprint is known canonical.
	Lookup(ctx context.Context, fingerprint string) (bool, error)

	// Store marks fingerprint as canonical.
	Store(ctx context.Context, fingerprint string) error

	// Flush persists pending entries.
	Flush(ctx context.Context) error

	// Close releases resources. It does not flush.
	Close() error
}
