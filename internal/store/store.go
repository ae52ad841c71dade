package store

import (
	"slices"
	"strconv"

	"github.com/roach88/mimic/internal/record"
)

// Well-known table names shared by the consistency engine, the fixture
// loader, and the CLI. The store itself does not care: any name creates a
// table lazily on first access.
const (
	TableUsers        = "Users"
	TableRepositories = "Repositories"
	TableBranches     = "Branches"
	TableCommits      = "Commits"
	TableIssues       = "Issues"
	TablePullRequests = "PullRequests"
	TableSearchIndex  = "CodeSearchIndex"
)

// Store is the in-memory document database behind a simulated API surface.
//
// It holds named tables of schemaless records plus a composite-keyed
// content index for file blobs. All state lives for the process lifetime;
// nothing is persisted or expired.
//
// Concurrency: the store is single-writer by design and performs no
// internal locking. Callers that share a store across goroutines must
// serialize mutations externally; read-only operations may run
// concurrently with each other but not with a mutation.
type Store struct {
	clock *Clock

	names  []string // table creation order
	tables map[string]*Table

	contents map[string]record.Object

	currentUser record.Object
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the store's audit clock. Tests use this to pin
// timestamps to an injected time source.
func WithClock(c *Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		clock:    NewClock(),
		tables:   make(map[string]*Table),
		contents: make(map[string]record.Object),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clock returns the store's audit clock.
func (s *Store) Clock() *Clock {
	return s.clock
}

// Table returns the named table, creating an empty one on first access.
// Never fails.
func (s *Store) Table(name string) *Table {
	if t, ok := s.tables[name]; ok {
		return t
	}
	t := &Table{name: name, clock: s.clock}
	s.tables[name] = t
	s.names = append(s.names, name)
	return t
}

// TableNames returns the existing table names in creation order.
func (s *Store) TableNames() []string {
	return slices.Clone(s.names)
}

// SetContent stores a file-content record under its composite key.
// The key is stored as given; consumers parse it lazily so malformed
// seeded keys surface as warnings at repair time, not load time.
func (s *Store) SetContent(key string, content record.Object) {
	s.contents[key] = content
}

// Content returns the content record for a key.
func (s *Store) Content(key string) (record.Object, bool) {
	c, ok := s.contents[key]
	return c, ok
}

// ContentKeys returns all content-index keys in sorted order. Sorted
// iteration keeps repair passes and warning output deterministic.
func (s *Store) ContentKeys() []string {
	keys := make([]string, 0, len(s.contents))
	for k := range s.contents {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// SetCurrentUser marks the user with the given ID as the authenticated
// actor. Fails with NOT_FOUND if no such user exists.
func (s *Store) SetCurrentUser(userID int64) error {
	user, ok := s.Table(TableUsers).FindByID(record.Int(userID))
	if !ok {
		return newNotFoundError(TableUsers, strconv.FormatInt(userID, 10))
	}
	s.currentUser = record.Object{
		"id":    user["id"],
		"login": user["login"],
	}
	return nil
}

// CurrentUser returns the authenticated actor, if one has been set.
func (s *Store) CurrentUser() (record.Object, bool) {
	if s.currentUser == nil {
		return nil, false
	}
	return s.currentUser, true
}

// Table is a named, insertion-ordered collection of records.
// Within a table the configured ID field is unique across records.
type Table struct {
	name  string
	clock *Clock
	recs  []record.Object
}

// Name returns the table's name.
func (t *Table) Name() string {
	return t.name
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.recs)
}

// Records returns the table's records in insertion order.
// The slice is the table's backing storage: callers must treat it as
// read-only and go through Insert/Update/Delete for mutation.
func (t *Table) Records() []record.Object {
	return t.recs
}
