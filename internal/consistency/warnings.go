package consistency

import (
	"fmt"

	"github.com/roach88/mimic/internal/record"
)

// Warning reports one soft diagnostic from a repair pass.
//
// Warnings are the consistency engine's whole failure model: a repair that
// cannot succeed degrades to a Warning plus a best-effort fallback, never
// an error. Callers decide whether to log, display, or archive them.
type Warning struct {
	// Code identifies the warning category.
	Code WarningCode

	// Entity names the affected record, e.g. "branch feature-x" or
	// "commit ab12cd34".
	Entity string

	// Message is a human-readable description.
	Message string
}

// WarningCode categorizes repair warnings.
type WarningCode string

const (
	// WarnRepairedReference: a dangling parent reference was re-pointed
	// at an existing record.
	WarnRepairedReference WarningCode = "REPAIRED_REFERENCE"

	// WarnOrphanedReference: a dangling parent reference could not be
	// repaired because no valid parent exists.
	WarnOrphanedReference WarningCode = "ORPHANED_REFERENCE"

	// WarnSynthesizedTarget: a named reference target was missing and a
	// placeholder record was created for it.
	WarnSynthesizedTarget WarningCode = "SYNTHESIZED_TARGET"

	// WarnInferredLink: a missing parent link was recovered by one of the
	// inference strategies.
	WarnInferredLink WarningCode = "INFERRED_LINK"

	// WarnUnresolvedReference: every inference strategy failed; the link
	// stays null.
	WarnUnresolvedReference WarningCode = "UNRESOLVED_REFERENCE"

	// WarnMalformedKey: a content-index key did not parse and was
	// skipped.
	WarnMalformedKey WarningCode = "MALFORMED_KEY"
)

// String implements fmt.Stringer.
func (w Warning) String() string {
	if w.Entity != "" {
		return fmt.Sprintf("%s: %s (entity=%s)", w.Code, w.Message, w.Entity)
	}
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// ToRecord converts the warning into a record for archiving and golden
// comparison.
func (w Warning) ToRecord() record.Object {
	return record.Object{
		"code":    record.String(w.Code),
		"entity":  record.String(w.Entity),
		"message": record.String(w.Message),
	}
}
