// Package bases implements the retention policy for cached build bases.
//
// A build tool prepares one virtual environment per target platform/version
// and caches it in LXD as a named image/instance pair. Without periodic
// cleanup the cache grows unbounded and accumulates stale or duplicate
// entries. This package reconciles the cached population against the naming
// convention that encodes versioning metadata and retires everything
// obsolete, duplicated, or below the minimum supported version.
//
// # Components
//
//   - Convention: the naming grammar; classifies a name as obsolete,
//     supported-versioned (yielding a Slot), or unrecognized.
//   - Tracker: per-slot retention state, rebuilt from scratch every run;
//     given a stream of observations it evicts at most one entity per
//     comparison so no entity is ever deleted twice.
//   - Reconciler: drives the images pass and the instances pass and issues
//     the delete requests. Failed deletions are logged and skipped over.
//
// # Guarantees
//
// For every slot with at least one instance at or above the minimum version,
// exactly one instance (the newest by second-truncated creation time)
// survives a pass. Ties resolve toward the instance observed later in
// listing order. Unrecognized names are never deleted. Running the pass
// twice deletes nothing the second time.
package bases
