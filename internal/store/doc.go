// Package store implements the in-memory table store at the heart of the
// simulated API surface: named, insertion-ordered collections of
// schemaless records with deterministic ID assignment, a strictly
// increasing audit clock, and a composite-keyed content index for file
// blobs.
//
// The store is deliberately not a database. It is process-local,
// single-writer, and unindexed; lookups are linear scans over small,
// transient tables. Strict-mode invariant violations surface as structured
// StoreErrors; everything recoverable is a consistency warning handled one
// layer up.
package store
