package store

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"tagvault/internal/schema"
)

// state tracks the open-time lifecycle of a store handle.
type state int

const (
	stateClosed state = iota
	stateValidating
	stateReady
	stateRejected
)

// Store is a single-file embedded SQLite store holding files, tag groups,
// tags, and the tag-file association table. One handle owns one file;
// callers serialize access (single-writer model, no internal locking).
type Store struct {
	db    *sql.DB
	path  string
	log   *slog.Logger
	state state
}

// Options configures Open.
type Options struct {
	// Seed holds default groups and tags created only when the store file
	// is fresh (nonexistent or schema-empty). Ignored for populated stores.
	Seed *Seed

	// Logger receives store-level log records. Defaults to slog.Default().
	Logger *slog.Logger
}

// Open opens or creates the store at path and leaves it Ready.
//
// The open state machine:
//  1. Nonexistent path: create the file, run the creation script in one
//     transaction, apply the optional seed.
//  2. Existing non-SQLite file: fail with INVALID_FORMAT, file unmodified.
//  3. Existing valid but schema-empty file: treated as fresh.
//  4. Existing file with tables: table set and per-table column sets are
//     compared against the schema registry; any mismatch fails with
//     SCHEMA_MISMATCH. Unrecognized extra tables are tolerated but logged.
//
// On success foreign-key enforcement is enabled before the handle is
// returned. All failures release the handle; none leave it Ready.
func Open(path string, opts Options) (*Store, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("store", path)

	_, statErr := os.Stat(path)
	fresh := errors.Is(statErr, fs.ErrNotExist)

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &OpenError{Code: OpenErrCreateFailed, Path: path, Err: err}
	}

	// SQLite supports a single writer; pin the pool to one connection so
	// session-scoped pragmas apply to every statement.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, path: path, log: log, state: stateValidating}

	if fresh {
		if err := db.Ping(); err != nil {
			s.reject()
			return nil, &OpenError{Code: OpenErrCreateFailed, Path: path, Err: err}
		}
		if err := s.initialize(opts.Seed); err != nil {
			s.reject()
			return nil, &OpenError{Code: OpenErrCreateFailed, Path: path, Err: err}
		}
		log.Info("store created")
	} else {
		// PRAGMA schema_version fails on anything that is not a SQLite
		// file, and reads 0 on a valid file carrying no schema at all.
		var version int
		if err := db.QueryRow("PRAGMA schema_version").Scan(&version); err != nil {
			s.reject()
			return nil, &OpenError{Code: OpenErrInvalidFormat, Path: path, Err: err}
		}
		if version == 0 {
			if err := s.initialize(opts.Seed); err != nil {
				s.reject()
				return nil, &OpenError{Code: OpenErrCreateFailed, Path: path, Err: err}
			}
			log.Info("empty store initialized")
		} else {
			if err := s.validateShape(); err != nil {
				s.reject()
				return nil, err
			}
			log.Info("store shape validated")
		}
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		s.reject()
		return nil, &OpenError{Code: OpenErrCreateFailed, Path: path, Err: fmt.Errorf("enable foreign keys: %w", err)}
	}

	s.state = stateReady
	log.Info("store ready")
	return s, nil
}

// Close releases the database handle. Safe to call at any point after Open
// returns, including before any bulk load has happened.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	s.state = stateClosed
	s.log.Info("store closed")
	return s.db.Close()
}

// Ready reports whether the handle passed validation and accepts CRUD calls.
func (s *Store) Ready() bool {
	return s.state == stateReady
}

// Path returns the store file's path.
func (s *Store) Path() string {
	return s.path
}

// reject releases the handle on a failed open. Terminal state.
func (s *Store) reject() {
	s.state = stateRejected
	_ = s.db.Close()
}

// initialize creates the entity tables and applies the optional seed.
// The creation script runs inside one transaction: all tables or none.
func (s *Store) initialize(seed *Seed) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin creation: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.Exec(schema.CreationScript()); err != nil {
		return fmt.Errorf("run creation script: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit creation: %w", err)
	}

	if seed != nil {
		if err := s.applySeed(seed); err != nil {
			return err
		}
	}
	return nil
}

// validateShape compares the store's actual tables and columns against the
// schema registry. Shape problems are fatal; extra tables only warn, since
// the file may be shared with unrelated data.
func (s *Store) validateShape() error {
	rows, err := s.db.Query(
		"SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'")
	if err != nil {
		return &OpenError{Code: OpenErrInvalidFormat, Path: s.path, Err: err}
	}
	defer rows.Close()

	actual := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return &OpenError{Code: OpenErrInvalidFormat, Path: s.path, Err: err}
		}
		actual[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return &OpenError{Code: OpenErrInvalidFormat, Path: s.path, Err: err}
	}

	expected := schema.TableNames()
	for name := range expected {
		if _, ok := actual[name]; !ok {
			return &OpenError{
				Code: OpenErrSchemaMismatch,
				Path: s.path,
				Err:  fmt.Errorf("required table %q not present", name),
			}
		}
		if err := s.validateColumns(name); err != nil {
			return err
		}
	}

	if extra := len(actual) - len(expected); extra > 0 {
		s.log.Warn("unrecognized tables present in store", "count", extra)
	}
	return nil
}

// validateColumns checks one table's column-name set against the registry.
func (s *Store) validateColumns(table string) error {
	// Table names come from the registry, never from callers. PRAGMA
	// arguments cannot be bound as parameters.
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return &OpenError{Code: OpenErrInvalidFormat, Path: s.path, Err: err}
	}
	defer rows.Close()

	actual := make(map[string]struct{})
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   sql.NullString
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return &OpenError{Code: OpenErrInvalidFormat, Path: s.path, Err: err}
		}
		actual[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return &OpenError{Code: OpenErrInvalidFormat, Path: s.path, Err: err}
	}

	expected := schema.ExpectedColumns(table)
	if len(actual) != len(expected) {
		return s.columnMismatch(table)
	}
	for name := range expected {
		if _, ok := actual[name]; !ok {
			return s.columnMismatch(table)
		}
	}
	return nil
}

func (s *Store) columnMismatch(table string) error {
	return &OpenError{
		Code: OpenErrSchemaMismatch,
		Path: s.path,
		Err:  fmt.Errorf("table %q does not match the required column format", table),
	}
}
