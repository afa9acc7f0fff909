package fixture

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial fixtures table
const currentSchemaVersion = 1

// SQLiteStore keeps fixtures in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens a fixture database at the given path.
// Use ":memory:" for a private in-memory database.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time; an in-memory database also
	// only exists on its own connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
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

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put inserts or replaces a fixture.
func (s *SQLiteStore) Put(ctx context.Context, key Key, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fixtures (version, name, data) VALUES (?, ?, ?)
		 ON CONFLICT (version, name) DO UPDATE SET data = excluded.data`,
		key.Version, key.Name, data)
	if err != nil {
		return fmt.Errorf("put fixture %s: %w", key, err)
	}
	return nil
}

// Import copies every fixture of src into the database in one transaction.
// Returns the number of fixtures written.
func (s *SQLiteStore) Import(ctx context.Context, src *DirStore) (int, error) {
	keys, err := src.Keys()
	if err != nil {
		return 0, fmt.Errorf("scan fixtures: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO fixtures (version, name, data) VALUES (?, ?, ?)
		 ON CONFLICT (version, name) DO UPDATE SET data = excluded.data`)
	if err != nil {
		return 0, fmt.Errorf("prepare import: %w", err)
	}
	defer stmt.Close()

	for _, key := range keys {
		data, err := src.Read(ctx, key)
		if err != nil {
			return 0, err
		}
		if data == nil {
			data = []byte{}
		}
		if _, err := stmt.ExecContext(ctx, key.Version, key.Name, data); err != nil {
			return 0, fmt.Errorf("import %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return len(keys), nil
}

// Exists implements Source.
func (s *SQLiteStore) Exists(ctx context.Context, key Key) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM fixtures WHERE version = ? AND name = ?`,
		key.Version, key.Name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup fixture %s: %w", key, err)
	}
	return true, nil
}

// Read implements Source.
func (s *SQLiteStore) Read(ctx context.Context, key Key) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM fixtures WHERE version = ? AND name = ?`,
		key.Version, key.Name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(key)
	}
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", key, err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

// Count returns the number of stored fixtures.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fixtures`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count fixtures: %w", err)
	}
	return n, nil
}
