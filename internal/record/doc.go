// Package record defines the tagged value types every table row is built
// from, plus canonical JSON serialization and content hashing.
//
// The store layer is schema-agnostic: a record is an Object mapping field
// names to Values, where a Value is one of Null, String, Int, Float, Bool,
// Array, or Object. The sealed interface keeps the variant set closed so
// consumers can type-switch exhaustively.
//
// Canonical JSON (MarshalCanonical) is the only serialization used for
// golden-file comparison and content-addressed hashing; ordinary
// encoding/json is fine everywhere byte stability does not matter.
package record
