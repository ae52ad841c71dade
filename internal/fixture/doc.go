// Package fixture loads YAML datasets into in-memory stores.
//
// Datasets load verbatim: rows keep whatever IDs and references the
// file gives them, including dangling ones, so fixtures can exercise
// the consistency repair path as well as the happy path.
package fixture
