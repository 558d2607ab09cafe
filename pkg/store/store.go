package store

import (
	"baguette/pkg/vm"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrSnapshotNotFound indicates the requested snapshot doesn't exist
var ErrSnapshotNotFound = errors.New("snapshot not found")

// kindMap marks an env row holding an empty map, which has no values to flatten
const kindMap = -1

const schema = `
CREATE TABLE IF NOT EXISTS env (
	path TEXT PRIMARY KEY,
	kind INTEGER NOT NULL,
	num  REAL,
	bool INTEGER,
	str  TEXT
);
CREATE TABLE IF NOT EXISTS snapshots (
	id          TEXT PRIMARY KEY,
	fingerprint TEXT NOT NULL,
	entry       TEXT NOT NULL,
	data        BLOB NOT NULL,
	created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// Store keeps environment variables and paused-run snapshots in SQLite
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open opens (creating if needed) the state database at path.
// Use ":memory:" for a throwaway store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// a single connection keeps :memory: databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database location
func (s *Store) Path() string {
	return s.path
}

// SaveEnv replaces the stored environment with env
func (s *Store) SaveEnv(ctx context.Context, env vm.Env) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM env"); err != nil {
		return fmt.Errorf("clearing env: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO env (path, kind, num, bool, str) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	if err := saveTree(ctx, stmt, "", env); err != nil {
		return err
	}

	return tx.Commit()
}

// saveTree writes one row per value and one per empty map
func saveTree(ctx context.Context, stmt *sql.Stmt, prefix string, env vm.Env) error {
	for k, entry := range env {
		path := prefix + k

		switch x := entry.(type) {
		case vm.Env:
			if len(x) > 0 {
				if err := saveTree(ctx, stmt, path+".", x); err != nil {
					return err
				}
				continue
			}
			if _, err := stmt.ExecContext(ctx, path, kindMap, nil, nil, nil); err != nil {
				return fmt.Errorf("saving %s: %w", path, err)
			}
		case vm.Value:
			if _, err := stmt.ExecContext(ctx, path, int(x.Kind), x.Num, x.Bool, x.Str); err != nil {
				return fmt.Errorf("saving %s: %w", path, err)
			}
		}
	}

	return nil
}

// LoadEnv rebuilds the stored environment. An empty store yields an empty Env.
func (s *Store) LoadEnv(ctx context.Context) (vm.Env, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, "SELECT path, kind, num, bool, str FROM env ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("querying env: %w", err)
	}
	defer rows.Close()

	env := vm.Env{}
	for rows.Next() {
		var (
			path string
			kind int
			num  sql.NullFloat64
			b    sql.NullBool
			str  sql.NullString
		)
		if err := rows.Scan(&path, &kind, &num, &b, &str); err != nil {
			return nil, fmt.Errorf("scanning env row: %w", err)
		}

		if kind == kindMap {
			if _, err := env.Ensure(path); err != nil {
				return nil, fmt.Errorf("restoring %s: %w", path, err)
			}
			continue
		}

		v := vm.Undefined
		switch vm.ValueKind(kind) {
		case vm.KindNumber:
			v = vm.NewNumber(num.Float64)
		case vm.KindBool:
			v = vm.NewBool(b.Bool)
		case vm.KindString:
			v = vm.NewString(str.String)
		}

		if err := env.Put(path, v); err != nil {
			return nil, fmt.Errorf("restoring %s: %w", path, err)
		}
	}

	return env, rows.Err()
}

// SaveSnapshot stores a paused run and returns its generated ID
func (s *Store) SaveSnapshot(ctx context.Context, snap *vm.Snapshot) (string, error) {
	data, err := vm.MarshalSnapshot(snap)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO snapshots (id, fingerprint, entry, data) VALUES (?, ?, ?, ?)",
		id, snap.Fingerprint, snap.Entry, data,
	)
	if err != nil {
		return "", fmt.Errorf("saving snapshot: %w", err)
	}

	return id, nil
}

// LoadSnapshot retrieves a snapshot by ID
func (s *Store) LoadSnapshot(ctx context.Context, id string) (*vm.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM snapshots WHERE id = ?", id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
		}
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}

	return vm.UnmarshalSnapshot(data)
}

// LatestSnapshot returns the ID of the most recent snapshot for a program
func (s *Store) LatestSnapshot(ctx context.Context, fingerprint string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id string
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM snapshots WHERE fingerprint = ? ORDER BY created_at DESC, rowid DESC LIMIT 1",
		fingerprint,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrSnapshotNotFound
		}
		return "", fmt.Errorf("querying snapshot: %w", err)
	}

	return id, nil
}

// DeleteSnapshot removes a snapshot. Deleting a missing ID is not an error.
func (s *Store) DeleteSnapshot(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	return nil
}
