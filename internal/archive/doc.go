// Package archive exports store snapshots to SQLite files.
//
// The store itself is memory-only. An archive is a one-shot dump of
// its tables, content index, and repair warnings, serialized as
// canonical JSON so identical stores produce identical archives.
package archive
