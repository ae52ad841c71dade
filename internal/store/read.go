package store

import (
	"strings"

	"github.com/roach88/mimic/internal/record"
)

// NextID returns the next available integer ID for the table: one more
// than the largest integer value of idField across the records currently
// present, or 1 for an empty table. Non-integer IDs are ignored, not an
// error.
//
// The computation looks only at live rows. Deleting the record holding the
// max ID makes that ID available again; callers depend on this exact
// behavior.
func (t *Table) NextID(idField string) int64 {
	var maxID int64
	for _, rec := range t.recs {
		if id, ok := rec.GetInt(idField); ok && id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

// FindByID returns the first record whose idField (under WriteOptions
// defaults, "id") equals the given value. Linear scan: tables are small
// and transient by design, so the store favors simplicity over indexing.
func (t *Table) FindByID(id record.Value, opts ...WriteOption) (record.Object, bool) {
	cfg := applyWriteOptions(opts)
	for _, rec := range t.recs {
		if record.Equal(rec[cfg.idField], id) {
			return rec, true
		}
	}
	return nil, false
}

// FindByField returns all records whose field equals the given value, in
// insertion order.
func (t *Table) FindByField(field string, value record.Value) []record.Object {
	var out []record.Object
	for _, rec := range t.recs {
		if record.Equal(rec[field], value) {
			out = append(out, rec)
		}
	}
	return out
}

// FindRepository resolves a repository by integer ID or by full name
// ("owner/name", case-insensitive).
func (s *Store) FindRepository(identifier record.Value) (record.Object, bool) {
	repos := s.Table(TableRepositories)
	switch ident := identifier.(type) {
	case record.Int:
		return repos.FindByID(ident)
	case record.String:
		for _, rec := range repos.Records() {
			fullName, ok := rec.GetString("full_name")
			if ok && strings.EqualFold(fullName, string(ident)) {
				return rec, true
			}
		}
	}
	return nil, false
}

// FindUser resolves a user by integer ID or by login name.
func (s *Store) FindUser(identifier record.Value) (record.Object, bool) {
	users := s.Table(TableUsers)
	switch ident := identifier.(type) {
	case record.Int:
		return users.FindByID(ident)
	case record.String:
		for _, rec := range users.Records() {
			if login, ok := rec.GetString("login"); ok && login == string(ident) {
				return rec, true
			}
		}
	}
	return nil, false
}
