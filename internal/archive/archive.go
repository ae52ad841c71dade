package archive

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/mimic/internal/consistency"
	"github.com/roach88/mimic/internal/record"
	"github.com/roach88/mimic/internal/store"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema (rows, contents, warnings)
const currentSchemaVersion = 1

// Archive is a SQLite file holding one exported snapshot of an
// in-memory store. The live store never touches disk; archives exist
// for offline inspection and for diffing datasets between runs.
type Archive struct {
	db *sql.DB
}

// Open creates or opens an archive at the given path and applies the
// schema. Safe to call on an existing archive file.
func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to archive: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Archive{db: db}, nil
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Export writes the store's tables, content index, and repair warnings
// into the archive in one transaction, replacing any previous export.
// Row order within a table is the store's insertion order; content keys
// are written sorted.
func (a *Archive) Export(ctx context.Context, s *store.Store, warnings []consistency.Warning) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin export: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM rows", "DELETE FROM contents", "DELETE FROM warnings"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear archive: %w", err)
		}
	}

	if err := exportTables(ctx, tx, s); err != nil {
		return err
	}
	if err := exportContents(ctx, tx, s); err != nil {
		return err
	}
	if err := exportWarnings(ctx, tx, warnings); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit export: %w", err)
	}
	return nil
}

func exportTables(ctx context.Context, tx *sql.Tx, s *store.Store) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rows (table_name, position, body)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare rows insert: %w", err)
	}
	defer stmt.Close()

	for _, name := range s.TableNames() {
		table := s.Table(name)
		for i, rec := range table.Records() {
			body, err := record.MarshalCanonical(rec)
			if err != nil {
				return fmt.Errorf("marshal %s row %d: %w", name, i, err)
			}
			if _, err := stmt.ExecContext(ctx, name, i, string(body)); err != nil {
				return fmt.Errorf("insert %s row %d: %w", name, i, err)
			}
		}
	}
	return nil
}

func exportContents(ctx context.Context, tx *sql.Tx, s *store.Store) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO contents (key, body)
		VALUES (?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare contents insert: %w", err)
	}
	defer stmt.Close()

	for _, key := range s.ContentKeys() {
		entry, ok := s.Content(key)
		if !ok {
			continue
		}
		body, err := record.MarshalCanonical(entry)
		if err != nil {
			return fmt.Errorf("marshal content %s: %w", key, err)
		}
		if _, err := stmt.ExecContext(ctx, key, string(body)); err != nil {
			return fmt.Errorf("insert content %s: %w", key, err)
		}
	}
	return nil
}

func exportWarnings(ctx context.Context, tx *sql.Tx, warnings []consistency.Warning) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO warnings (position, code, entity, message)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare warnings insert: %w", err)
	}
	defer stmt.Close()

	for i, w := range warnings {
		if _, err := stmt.ExecContext(ctx, i, string(w.Code), w.Entity, w.Message); err != nil {
			return fmt.Errorf("insert warning %d: %w", i, err)
		}
	}
	return nil
}

// CountRows returns the number of exported rows for one table.
// Used for verification after an export.
func (a *Archive) CountRows(ctx context.Context, tableName string) (int, error) {
	var n int
	err := a.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM rows WHERE table_name = ?", tableName).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count rows for %s: %w", tableName, err)
	}
	return n, nil
}

// ReadRows returns a table's exported rows in position order, decoded
// back into record objects.
func (a *Archive) ReadRows(ctx context.Context, tableName string) ([]record.Object, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT body FROM rows
		WHERE table_name = ?
		ORDER BY position
	`, tableName)
	if err != nil {
		return nil, fmt.Errorf("read rows for %s: %w", tableName, err)
	}
	defer rows.Close()

	var out []record.Object
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan row for %s: %w", tableName, err)
		}
		var rec record.Object
		if err := rec.UnmarshalJSON([]byte(body)); err != nil {
			return nil, fmt.Errorf("decode row for %s: %w", tableName, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}
