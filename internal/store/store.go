// Package store is Hermes's persistence layer: a single embedded relational
// database (modernc.org/sqlite, WAL mode) shared by the graph, the search
// tiers, the accounting journal, and the temporal fact store.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite" // pure-Go driver, no CGO

	"github.com/hermeskg/hermes/internal/herrors"
)

// Store wraps the project database handle. It is opened once per process
// and shared by every other component; writes on a single connection
// must not interleave, so DB holds exactly one open connection.
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open opens (creating if necessary) the database at path, or an
// in-memory database if path is empty. It sets WAL journaling and normal
// fsync, takes an advisory single-writer lock on the file (non-blocking;
// Hermes is single-process), and runs migrations. Failure here is fatal
// to the caller.
func Open(path string) (*Store, error) {
	var dsn string
	var lock *flock.Flock

	if path == "" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, herrors.Wrap(herrors.ErrCodeStoreOpen, fmt.Errorf("create db directory: %w", err))
		}

		lock = flock.New(path + ".lock")
		locked, err := lock.TryLock()
		if err != nil {
			return nil, herrors.Wrap(herrors.ErrCodeStoreOpen, fmt.Errorf("acquire store lock: %w", err))
		}
		if !locked {
			return nil, herrors.New(herrors.ErrCodeStoreLocked, "another hermes process holds the store lock for "+path, nil)
		}

		// Pragmas are set explicitly below via Exec: modernc.org/sqlite may
		// ignore DSN query parameters.
		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		if lock != nil {
			_ = lock.Unlock()
		}
		return nil, herrors.Wrap(herrors.ErrCodeStoreOpen, err)
	}
	db.SetMaxOpenConns(1) // single writer; WAL gives readers their own snapshot
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			if lock != nil {
				_ = lock.Unlock()
			}
			return nil, herrors.Wrap(herrors.ErrCodeStoreOpen, fmt.Errorf("%s: %w", pragma, err))
		}
	}

	s := &Store{db: db, path: path, lock: lock}
	if err := s.migrate(); err != nil {
		_ = s.Close()
		return nil, herrors.Wrap(herrors.ErrCodeStoreMigrate, err)
	}
	return s, nil
}

// DB returns the underlying *sql.DB for components that issue their own
// queries (graph, search tiers, accounting, temporal).
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database and releases the advisory lock.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Close()
	if s.lock != nil {
		_ = s.lock.Unlock()
	}
	return err
}
