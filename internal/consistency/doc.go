// Package consistency detects and repairs dangling cross-entity
// references after bulk mutations.
//
// The repair pass runs four ordered sub-passes: orphaned forward-reference
// repair, missing-target synthesis, unlinked-entity inference (a chain of
// fallback strategies), and derived-index synchronization. Every condition
// the pass cannot fix degrades to a collected Warning; nothing inside it
// raises. The pass is idempotent and always safe to re-run.
package consistency
