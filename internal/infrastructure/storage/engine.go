// Package storage provides the SQLite storage engine and repositories.
//
// The engine owns the single embedded-database connection and gates
// every repository operation behind an explicit readiness state:
// uninitialized -> initializing -> ready | failed. A failed
// initialization is terminal for the process; callers see a
// NotInitialized error until restart.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	domainErrors "github.com/ventasync/ventasync/internal/domain/errors"
	"github.com/ventasync/ventasync/internal/infrastructure/logging"
)

// EngineState is the lifecycle state of the storage engine.
type EngineState string

const (
	StateUninitialized EngineState = "uninitialized"
	StateInitializing  EngineState = "initializing"
	StateReady         EngineState = "ready"
	StateFailed        EngineState = "failed"
)

// Engine manages the SQLite database connection and its readiness gate.
type Engine struct {
	logger *logging.Logger

	mu      sync.Mutex
	state   EngineState
	dbPath  string
	db      *sql.DB
	done    chan struct{}
	initErr error
}

// NewEngine creates an engine for the database at dbPath. If dbPath is
// empty, the default location ~/.ventasync/ventasync.db is used. The
// engine is not usable until Initialize has completed.
func NewEngine(dbPath string, logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		logger: logger,
		state:  StateUninitialized,
		dbPath: dbPath,
	}
}

// Initialize opens the database connection, applies all pending schema
// migrations, and marks the engine ready. It is idempotent: concurrent
// and repeated calls converge on a single connection and a single
// migration run; callers arriving while an initialization is in flight
// attach to it and receive the same outcome.
func (e *Engine) Initialize(ctx context.Context) error {
	e.mu.Lock()
	switch e.state {
	case StateReady:
		e.mu.Unlock()
		return nil
	case StateFailed:
		err := e.initErr
		e.mu.Unlock()
		return err
	case StateInitializing:
		done := e.done
		e.mu.Unlock()
		select {
		case <-done:
			return e.outcome()
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	e.state = StateInitializing
	e.done = make(chan struct{})
	done := e.done
	e.mu.Unlock()

	path, db, err := e.open(ctx)

	e.mu.Lock()
	e.dbPath = path
	if err != nil {
		e.state = StateFailed
		e.initErr = domainErrors.NewError(domainErrors.CodeNotInitialized, "storage initialization failed", err)
	} else {
		e.state = StateReady
		e.db = db
	}
	close(done)
	outcome := e.initErr
	e.mu.Unlock()

	if outcome != nil {
		e.logger.Error("storage initialization failed", "path", path, "error", err.Error())
		return outcome
	}
	e.logger.Info("storage engine ready", "path", path)
	return nil
}

// WaitUntilReady suspends the caller until Initialize has completed.
// It fails with a NotInitialized error when initialization previously
// failed or was never started; there is no silent retry.
func (e *Engine) WaitUntilReady(ctx context.Context) error {
	e.mu.Lock()
	switch e.state {
	case StateReady:
		e.mu.Unlock()
		return nil
	case StateFailed:
		err := e.initErr
		e.mu.Unlock()
		return err
	case StateInitializing:
		done := e.done
		e.mu.Unlock()
		select {
		case <-done:
			return e.outcome()
		case <-ctx.Done():
			return ctx.Err()
		}
	default:
		e.mu.Unlock()
		return domainErrors.NewError(domainErrors.CodeNotInitialized,
			"storage engine has not been initialized", domainErrors.ErrNotInitialized)
	}
}

// DB returns the underlying database connection, or a NotInitialized
// error when the engine is not ready.
func (e *Engine) DB() (*sql.DB, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateReady {
		return nil, domainErrors.NewError(domainErrors.CodeNotInitialized,
			fmt.Sprintf("storage engine is %s", e.state), domainErrors.ErrNotInitialized)
	}
	return e.db, nil
}

// State returns the engine's current lifecycle state.
func (e *Engine) State() EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Path returns the database file path.
func (e *Engine) Path() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dbPath
}

// Close closes the database connection. A failed engine stays failed;
// a ready engine returns to uninitialized.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db == nil {
		return nil
	}
	if err := e.db.Close(); err != nil {
		return fmt.Errorf("could not close database: %w", err)
	}
	e.db = nil
	if e.state == StateReady {
		e.state = StateUninitialized
	}
	return nil
}

// outcome returns the stored initialization result.
func (e *Engine) outcome() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initErr
}

// open resolves the database path, opens the connection and runs the
// migrations. It returns the resolved path alongside the connection.
func (e *Engine) open(ctx context.Context) (string, *sql.DB, error) {
	path := e.dbPath
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path, nil, fmt.Errorf("could not determine home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".ventasync", "ventasync.db")
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return path, nil, fmt.Errorf("could not create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return path, nil, fmt.Errorf("could not open database: %w", err)
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return path, nil, fmt.Errorf("could not ping database: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return path, nil, fmt.Errorf("could not run migrations: %w", err)
	}

	return path, db, nil
}
