package store

import (
	"fmt"

	"github.com/roach88/mimic/internal/record"
)

// writeConfig holds per-call field names and strictness for mutations.
type writeConfig struct {
	idField        string
	timestampField string
	strict         bool
}

// WriteOption adjusts field names and strictness for a single mutation.
type WriteOption func(*writeConfig)

// WithIDField selects the unique-ID field. Default "id"; commit tables
// use "sha".
func WithIDField(field string) WriteOption {
	return func(cfg *writeConfig) {
		cfg.idField = field
	}
}

// WithTimestampField selects the audit field Update stamps with the store
// clock. Default "updated_at". Pass the empty string to disable stamping.
func WithTimestampField(field string) WriteOption {
	return func(cfg *writeConfig) {
		cfg.timestampField = field
	}
}

// StrictIDs makes Insert require a present, unique ID instead of
// generating one on absence or conflict. Violations are hard errors.
func StrictIDs() WriteOption {
	return func(cfg *writeConfig) {
		cfg.strict = true
	}
}

func applyWriteOptions(opts []WriteOption) writeConfig {
	cfg := writeConfig{idField: "id", timestampField: "updated_at"}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Insert appends a record to the table, preserving insertion order.
//
// By default a fresh integer ID is assigned when the record's ID field is
// absent, null, or collides with an existing record. Under StrictIDs the
// ID must be present and unique; violations fail with MISSING_ID or
// DUPLICATE_ID and leave the table untouched.
//
// Returns the stored record (with any generated ID filled in).
func (t *Table) Insert(rec record.Object, opts ...WriteOption) (record.Object, error) {
	cfg := applyWriteOptions(opts)

	id, hasID := rec[cfg.idField]
	if _, isNull := id.(record.Null); isNull {
		hasID = false
	}

	var conflict bool
	if hasID {
		_, conflict = t.FindByID(id, opts...)
	}

	if cfg.strict {
		if !hasID {
			return nil, newMissingIDError(t.name, cfg.idField)
		}
		if conflict {
			return nil, newDuplicateIDError(t.name, formatID(id))
		}
	} else if !hasID || conflict {
		rec[cfg.idField] = record.Int(t.NextID(cfg.idField))
	}

	t.recs = append(t.recs, rec)
	return rec, nil
}

// Update shallow-merges patch onto a copy of the record with the given ID
// and replaces the record in place, preserving its table index. The ID
// field is immutable: a patch that tries to change it fails with
// IMMUTABLE_FIELD. A missing record fails with NOT_FOUND; whether that is
// fatal is the caller's decision. Unless disabled, the configured
// timestamp field is stamped with the store clock.
func (t *Table) Update(id record.Value, patch record.Object, opts ...WriteOption) (record.Object, error) {
	cfg := applyWriteOptions(opts)

	idx := -1
	for i, rec := range t.recs {
		if record.Equal(rec[cfg.idField], id) {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, newNotFoundError(t.name, formatID(id))
	}

	if patched, ok := patch[cfg.idField]; ok && !record.Equal(patched, id) {
		return nil, newImmutableFieldError(t.name, formatID(id), cfg.idField)
	}

	updated := t.recs[idx].Clone()
	for k, v := range patch {
		updated[k] = v
	}
	if cfg.timestampField != "" {
		updated[cfg.timestampField] = record.String(t.clock.NowISO())
	}

	t.recs[idx] = updated
	return updated, nil
}

// Delete removes all records whose ID matches. Returns whether anything
// was removed.
func (t *Table) Delete(id record.Value, opts ...WriteOption) bool {
	cfg := applyWriteOptions(opts)

	kept := t.recs[:0]
	removed := false
	for _, rec := range t.recs {
		if record.Equal(rec[cfg.idField], id) {
			removed = true
			continue
		}
		kept = append(kept, rec)
	}
	t.recs = kept
	return removed
}

// Append adds a record verbatim, with no ID bookkeeping. Derived
// collections (the code search index) are maintained by the consistency
// engine and deduplicate on a composite key instead of a record ID.
func (t *Table) Append(rec record.Object) {
	t.recs = append(t.recs, rec)
}

// TouchRepository stamps a repository's updated_at and pushed_at fields
// with one fresh clock reading. Called by mutation paths that simulate a
// push.
func (s *Store) TouchRepository(repositoryID int64) error {
	now := record.String(s.clock.NowISO())
	_, err := s.Table(TableRepositories).Update(record.Int(repositoryID), record.Object{
		"updated_at": now,
		"pushed_at":  now,
	}, WithTimestampField(""))
	return err
}

func formatID(id record.Value) string {
	return fmt.Sprintf("%v", record.ToAny(id))
}
