// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/composer/internal/files"
	"github.com/jeranaias/composer/internal/logging"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotFound is returned by Load when nothing has been synced yet.
	ErrNotFound      = errors.New("no snapshot stored")
	ErrDatabaseError = errors.New("database error")
	ErrClosed        = errors.New("database closed")
)

// =============================================================================
// SQLITE SYNCER
// =============================================================================

// SQLiteSyncer stores snapshots of a files.Store.
type SQLiteSyncer struct {
	db     *sql.DB
	path   string
	mu     sync.Mutex
	store  *files.Store
	closed bool
	log    *zap.Logger
}

// Open opens (creating if needed) the database at path.
func Open(path string, logger *zap.Logger) (*SQLiteSyncer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := db.Exec(InitMetadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize metadata: %w", err)
	}

	return &SQLiteSyncer{
		db:   db,
		path: path,
		log:  logging.OrNop(logger).Named("storage"),
	}, nil
}

// Path returns the database file path.
func (s *SQLiteSyncer) Path() string { return s.path }

// Attach sets the store whose snapshot Sync writes.
func (s *SQLiteSyncer) Attach(store *files.Store) {
	s.mu.Lock()
	s.store = store
	s.mu.Unlock()
}

// Sync writes the attached store's snapshot. It implements files.Syncer;
// closeFlag is recorded but otherwise ignored.
func (s *SQLiteSyncer) Sync(ctx context.Context, closeFlag bool) error {
	s.mu.Lock()
	store := s.store
	s.mu.Unlock()
	if store == nil {
		return nil
	}
	if err := s.Save(ctx, store.Snapshot()); err != nil {
		s.log.Error("Snapshot sync failed", zap.Error(err), zap.Bool("close", closeFlag))
		return err
	}
	return nil
}

// Save replaces the stored snapshot with snap in one transaction.
func (s *SQLiteSyncer) Save(ctx context.Context, snap files.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM files"); err != nil {
		return fmt.Errorf("failed to clear files: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO files (path, position, content, first_send, update_send) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer stmt.Close()

	for i, e := range snap.Entries {
		if _, err := stmt.ExecContext(ctx, e.Path, i, e.Content,
			boolInt(snap.FirstSend[e.Path]), boolInt(snap.UpdateSend[e.Path])); err != nil {
			return fmt.Errorf("failed to store %s: %w", e.Path, err)
		}
	}

	now := strconv.FormatInt(time.Now().Unix(), 10)
	if _, err := tx.ExecContext(ctx, "UPDATE metadata SET value = ? WHERE key = 'synced_at'", now); err != nil {
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	s.log.Debug("Snapshot stored", zap.Int("files", len(snap.Entries)))
	return nil
}

// Snapshot reads the stored snapshot. It returns ErrNotFound when no sync
// has happened yet.
func (s *SQLiteSyncer) Snapshot(ctx context.Context) (files.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return files.Snapshot{}, ErrClosed
	}

	var syncedAt string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = 'synced_at'").Scan(&syncedAt)
	if err != nil {
		return files.Snapshot{}, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if syncedAt == "" {
		return files.Snapshot{}, ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT path, content, first_send, update_send FROM files ORDER BY position")
	if err != nil {
		return files.Snapshot{}, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	snap := files.Snapshot{
		Entries:    []files.Entry{},
		FirstSend:  make(map[string]bool),
		UpdateSend: make(map[string]bool),
	}
	for rows.Next() {
		var (
			e             files.Entry
			first, update int
		)
		if err := rows.Scan(&e.Path, &e.Content, &first, &update); err != nil {
			return files.Snapshot{}, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		snap.Entries = append(snap.Entries, e)
		if first != 0 {
			snap.FirstSend[e.Path] = true
		}
		if update != 0 {
			snap.UpdateSend[e.Path] = true
		}
	}
	if err := rows.Err(); err != nil {
		return files.Snapshot{}, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return snap, nil
}

// Load restores the stored snapshot into store and attaches it.
// When nothing is stored, store keeps its content and ErrNotFound is
// returned; the store is attached either way.
func (s *SQLiteSyncer) Load(ctx context.Context, store *files.Store) error {
	snap, err := s.Snapshot(ctx)
	s.Attach(store)
	if err != nil {
		return err
	}
	store.Restore(snap)
	s.log.Info("Snapshot loaded", zap.Int("files", len(snap.Entries)))
	return nil
}

// Close closes the database.
func (s *SQLiteSyncer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
